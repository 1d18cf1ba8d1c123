package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SundayYogurt/document_service/internal/domain"
	"github.com/SundayYogurt/document_service/internal/interfaces"
)

// NotifyConfig: เป้าหมายแจ้งเตือน สร้างครั้งเดียวตอน boot จาก config
type NotifyConfig struct {
	GroupChatID    int64
	StaffChatIDs   []int64
	FallbackChatID int64
}

type TargetResult struct {
	ChatID int64  `json:"chat_id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

type DispatchReport struct {
	Attempted int            `json:"attempted"`
	Succeeded int            `json:"succeeded"`
	Targets   []TargetResult `json:"targets,omitempty"`
}

// Success: ส่งถึงอย่างน้อยหนึ่ง target
func (r DispatchReport) Success() bool {
	return r.Succeeded > 0
}

type NotifyService interface {
	NotifyNewRequest(ctx context.Context, req *domain.DocumentRequest) DispatchReport
}

type notifyService struct {
	pusher interfaces.Pusher
	cfg    NotifyConfig
}

func NewNotifyService(pusher interfaces.Pusher, cfg NotifyConfig) NotifyService {
	return &notifyService{pusher: pusher, cfg: cfg}
}

// NotifyNewRequest: best-effort ทุกกรณี ไม่คืน error ให้ caller
// target ล้มตัวหนึ่งไม่กระทบตัวอื่น
func (n *notifyService) NotifyNewRequest(ctx context.Context, req *domain.DocumentRequest) DispatchReport {
	var report DispatchReport

	targets := n.resolveTargets()
	if n.pusher == nil || len(targets) == 0 {
		log.Printf("notify: no targets configured - skip request #%d", req.ID)
		return report
	}

	text := FormatNewRequestMessage(req)

	for _, chatID := range targets {
		report.Attempted++
		if err := n.pushBounded(ctx, chatID, text); err != nil {
			log.Printf("notify: push to %d failed for request #%d: %v", chatID, req.ID, err)
			report.Targets = append(report.Targets, TargetResult{ChatID: chatID, OK: false, Error: err.Error()})
			continue
		}
		report.Succeeded++
		report.Targets = append(report.Targets, TargetResult{ChatID: chatID, OK: true})
	}

	log.Printf("notify: request #%d attempted=%d succeeded=%d", req.ID, report.Attempted, report.Succeeded)
	return report
}

// pushBounded: pusher ที่ไม่สน ctx ก็ห้าม block dispatch เกิน deadline
func (n *notifyService) pushBounded(ctx context.Context, chatID int64, text string) error {
	done := make(chan error, 1)
	go func() {
		done <- n.pusher.Push(ctx, chatID, text)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// ลำดับ: กลุ่ม > รายคน > fallback > ไม่ส่ง
func (n *notifyService) resolveTargets() []int64 {
	if n.cfg.GroupChatID != 0 {
		return []int64{n.cfg.GroupChatID}
	}
	if len(n.cfg.StaffChatIDs) > 0 {
		return n.cfg.StaffChatIDs
	}
	if n.cfg.FallbackChatID != 0 {
		return []int64{n.cfg.FallbackChatID}
	}
	return nil
}

// FormatNewRequestMessage builds the staff-facing summary text.
func FormatNewRequestMessage(req *domain.DocumentRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📄 คำขอเอกสารใหม่ #%d\n", req.ID)

	if req.User != nil {
		fmt.Fprintf(&b, "นักศึกษา: %s (%s)\n", req.User.DisplayName(), req.User.StudentCode)
	}

	fmt.Fprintf(&b, "เอกสาร: %s\n", describeDocuments(req))

	switch req.Delivery {
	case domain.DeliveryMail:
		b.WriteString("การรับ: ส่งไปรษณีย์\n")
	default:
		b.WriteString("การรับ: รับด้วยตนเอง\n")
	}

	if req.Urgent && req.Delivery == domain.DeliveryPickup {
		b.WriteString("🔴 ขอแบบด่วน\n")
	}

	fmt.Fprintf(&b, "ยอดชำระ: %d บาท\n", req.TotalPrice)
	fmt.Fprintf(&b, "เวลา: %s", formatBangkok(req.CreatedAt))

	return b.String()
}

// รวมรายการเอกสาร: "ชื่อ xN, ชื่อ xN" / คำขอใบเดียวใช้ชื่อ type หลัก
func describeDocuments(req *domain.DocumentRequest) string {
	if len(req.Items) == 0 {
		if req.DocumentType != nil {
			return req.DocumentType.Name("th")
		}
		return fmt.Sprintf("เอกสาร #%d", req.DocumentTypeID)
	}

	parts := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		name := fmt.Sprintf("เอกสาร #%d", it.DocumentTypeID)
		if it.DocumentType != nil {
			name = it.DocumentType.Name("th")
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

func formatBangkok(t time.Time) string {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		loc = time.Local
	}
	return t.In(loc).Format("02/01/2006 15:04")
}
