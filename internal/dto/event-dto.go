package dto

// Kafka event payloads

const (
	EventRequestCreated       = "request.created"
	EventRequestStatusChanged = "request.status_changed"
)

type RequestCreatedEvent struct {
	RequestID   uint   `json:"request_id"`
	UserID      uint   `json:"user_id"`
	StudentCode string `json:"student_code,omitempty"`
	Delivery    string `json:"delivery"`
	Urgent      bool   `json:"urgent"`
	TotalPrice  int    `json:"total_price"`
	CreatedAt   string `json:"created_at"`
}

type RequestStatusChangedEvent struct {
	RequestID uint    `json:"request_id"`
	Status    string  `json:"status"`
	Note      *string `json:"note,omitempty"`
	ChangedBy uint    `json:"changed_by"`
	ChangedAt string  `json:"changed_at"`
}
