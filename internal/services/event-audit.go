package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/SundayYogurt/document_service/internal/dto"
)

// EventAuditor เขียน audit log จาก event stream ของคำขอเอกสาร
// แยกไปเป็น service อื่นได้ภายหลังโดยไม่แตะ producer
type EventAuditor struct{}

func NewEventAuditor() *EventAuditor {
	return &EventAuditor{}
}

func (a *EventAuditor) HandleMessage(eventType string, payload []byte) error {
	switch eventType {
	case dto.EventRequestCreated:
		var ev dto.RequestCreatedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", eventType, err)
		}
		log.Printf("[audit] request #%d created by user %d (%s) delivery=%s urgent=%t total=%d",
			ev.RequestID, ev.UserID, ev.StudentCode, ev.Delivery, ev.Urgent, ev.TotalPrice)
		return nil

	case dto.EventRequestStatusChanged:
		var ev dto.RequestStatusChangedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("decode %s: %w", eventType, err)
		}
		log.Printf("[audit] request #%d -> %s by user %d at %s",
			ev.RequestID, ev.Status, ev.ChangedBy, ev.ChangedAt)
		return nil
	}

	log.Printf("[audit] unknown event %q - skip", eventType)
	return nil
}
