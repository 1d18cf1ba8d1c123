package interfaces

import "context"

// Pusher delivers a text payload to one external chat target.
type Pusher interface {
	Push(ctx context.Context, chatID int64, text string) error
}
