package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// กันคอนเนกชันค้างระดับ HTTP ด้วย เพราะ api.Send ไม่รับ ctx
const httpTimeout = 10 * time.Second

// Client: ส่งข้อความแจ้งเตือนอย่างเดียว ไม่รับ update
type Client struct {
	api *tgbotapi.BotAPI
}

func New(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{
		Timeout: httpTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Client{api: api}, nil
}

// Push delivers text to one chat target. คืนก่อน deadline ของ ctx เสมอ
func (c *Client) Push(ctx context.Context, chatID int64, text string) error {
	if c == nil || c.api == nil {
		return fmt.Errorf("telegram client is not configured")
	}

	msg := tgbotapi.NewMessage(chatID, text)

	done := make(chan error, 1)
	go func() {
		_, err := c.api.Send(msg)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("telegram send to %d: %w", chatID, err)
		}
		return nil
	}
}
