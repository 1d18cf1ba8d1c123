package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SundayYogurt/document_service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPusher struct {
	failFor map[int64]bool
	sent    []int64
}

func (p *recordingPusher) Push(_ context.Context, chatID int64, _ string) error {
	if p.failFor[chatID] {
		return errors.New("chat unreachable")
	}
	p.sent = append(p.sent, chatID)
	return nil
}

func sampleRequest() *domain.DocumentRequest {
	addr := "99 หมู่ 1"
	return &domain.DocumentRequest{
		ID:         7,
		UserID:     1,
		Delivery:   domain.DeliveryMail,
		Address:    &addr,
		TotalPrice: 450,
		Status:     domain.RequestStatusPending,
		User: &domain.User{
			ID:          1,
			StudentCode: "65010001",
			FirstName:   "Somchai",
			LastName:    "Dee",
		},
		Items: []domain.DocumentRequestItem{
			{
				DocumentTypeID: 1,
				Quantity:       2,
				UnitPrice:      100,
				Subtotal:       200,
				DocumentType:   &domain.DocumentType{ID: 1, NameTH: "ใบรับรองผลการเรียน", NameEN: "Transcript"},
			},
		},
		CreatedAt: time.Date(2026, 9, 1, 7, 30, 0, 0, time.UTC),
	}
}

func TestGroupTargetWinsOverEverything(t *testing.T) {
	p := &recordingPusher{}
	svc := NewNotifyService(p, NotifyConfig{
		GroupChatID:    -100900,
		StaffChatIDs:   []int64{11, 22},
		FallbackChatID: 33,
	})

	report := svc.NotifyNewRequest(context.Background(), sampleRequest())
	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, []int64{-100900}, p.sent)
}

func TestStaffListUsedWhenNoGroup(t *testing.T) {
	p := &recordingPusher{}
	svc := NewNotifyService(p, NotifyConfig{
		StaffChatIDs:   []int64{11, 22},
		FallbackChatID: 33,
	})

	report := svc.NotifyNewRequest(context.Background(), sampleRequest())
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, []int64{11, 22}, p.sent)
}

func TestFallbackTargetUsedLast(t *testing.T) {
	p := &recordingPusher{}
	svc := NewNotifyService(p, NotifyConfig{FallbackChatID: 33})

	report := svc.NotifyNewRequest(context.Background(), sampleRequest())
	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, []int64{33}, p.sent)
}

func TestNoTargetsIsSilentNoop(t *testing.T) {
	p := &recordingPusher{}
	svc := NewNotifyService(p, NotifyConfig{})

	report := svc.NotifyNewRequest(context.Background(), sampleRequest())
	assert.Equal(t, 0, report.Attempted)
	assert.False(t, report.Success())
}

func TestOneTargetFailureDoesNotStopOthers(t *testing.T) {
	p := &recordingPusher{failFor: map[int64]bool{22: true}}
	svc := NewNotifyService(p, NotifyConfig{StaffChatIDs: []int64{11, 22, 33}})

	report := svc.NotifyNewRequest(context.Background(), sampleRequest())
	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Succeeded)
	assert.True(t, report.Success())
	assert.Equal(t, []int64{11, 33}, p.sent)

	require.Len(t, report.Targets, 3)
	assert.False(t, report.Targets[1].OK)
	assert.NotEmpty(t, report.Targets[1].Error)
}

// pusher ที่ค้างและไม่สน ctx เลย
type stalledPusher struct {
	release chan struct{}
}

func (p *stalledPusher) Push(context.Context, int64, string) error {
	<-p.release
	return nil
}

func TestDispatchReturnsByDeadlineWhenPusherHangs(t *testing.T) {
	p := &stalledPusher{release: make(chan struct{})}
	t.Cleanup(func() { close(p.release) })

	svc := NewNotifyService(p, NotifyConfig{StaffChatIDs: []int64{11, 22}})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	report := svc.NotifyNewRequest(ctx, sampleRequest())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 0, report.Succeeded)
	assert.False(t, report.Success())
	require.Len(t, report.Targets, 2)
	for _, tr := range report.Targets {
		assert.False(t, tr.OK)
		assert.NotEmpty(t, tr.Error)
	}
}

func TestTotalFailureReportedNotThrown(t *testing.T) {
	p := &recordingPusher{failFor: map[int64]bool{11: true, 22: true}}
	svc := NewNotifyService(p, NotifyConfig{StaffChatIDs: []int64{11, 22}})

	report := svc.NotifyNewRequest(context.Background(), sampleRequest())
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 0, report.Succeeded)
	assert.False(t, report.Success())
}

func TestFormatNewRequestMessage(t *testing.T) {
	msg := FormatNewRequestMessage(sampleRequest())

	assert.Contains(t, msg, "#7")
	assert.Contains(t, msg, "Somchai Dee")
	assert.Contains(t, msg, "65010001")
	assert.Contains(t, msg, "ใบรับรองผลการเรียน x2")
	assert.Contains(t, msg, "ส่งไปรษณีย์")
	assert.Contains(t, msg, "450 บาท")
	assert.NotContains(t, msg, "ด่วน")
}

func TestFormatUrgentPickupMessage(t *testing.T) {
	req := sampleRequest()
	req.Delivery = domain.DeliveryPickup
	req.Address = nil
	req.Urgent = true
	req.TotalPrice = 300

	msg := FormatNewRequestMessage(req)
	assert.Contains(t, msg, "รับด้วยตนเอง")
	assert.Contains(t, msg, "ด่วน")
	assert.Contains(t, msg, "300 บาท")
}
