package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SundayYogurt/document_service/internal/domain"
	"github.com/SundayYogurt/document_service/internal/dto"
	"github.com/SundayYogurt/document_service/internal/interfaces"
	"github.com/SundayYogurt/document_service/internal/repository"
	"gorm.io/gorm"
)

const notifyTimeout = 5 * time.Second

type RequestService interface {
	// Request Builder
	CreateRequest(userID uint, input dto.CreateRequest) (*dto.RequestResponse, error)
	CreateMultiRequest(userID uint, input dto.CreateMultiRequest) (*dto.RequestResponse, error)

	// Queries
	GetRequest(actorID uint, requestID uint, lang string) (*dto.RequestResponse, error)
	ListMyRequests(userID uint, limit, offset int, lang string) ([]dto.RequestResponse, error)
	ListAllRequests(status string, limit, offset int, lang string) ([]dto.RequestResponse, error)

	// Status Transition Engine
	UpdateStatus(actorID uint, requestID uint, input dto.UpdateStatusRequest) error
	GetHistory(actorID uint, requestID uint) ([]dto.StatusHistoryResponse, error)

	// Payment proof
	AttachPaymentProof(userID uint, requestID uint, url string) error
}

type requestService struct {
	repo     repository.RequestRepository
	docRepo  repository.DocumentTypeRepository
	userRepo repository.UserRepository

	notifier NotifyService
	producer interfaces.ProducerHandler
}

func NewRequestService(
	repo repository.RequestRepository,
	docRepo repository.DocumentTypeRepository,
	userRepo repository.UserRepository,
	notifier NotifyService,
	producer interfaces.ProducerHandler,
) RequestService {
	return &requestService{
		repo:     repo,
		docRepo:  docRepo,
		userRepo: userRepo,
		notifier: notifier,
		producer: producer,
	}
}

// ComputeTotal: Σ(subtotal) + ค่าส่งไปรษณีย์เหมา 200 + ด่วน 50/ฉบับ (เฉพาะรับเอง)
func ComputeTotal(itemsSubtotal int, totalQuantity int, delivery domain.DeliveryMethod, urgent bool) int {
	total := itemsSubtotal
	if delivery == domain.DeliveryMail {
		total += domain.MailFee
	}
	if urgent && delivery == domain.DeliveryPickup {
		total += domain.UrgentFeePerCopy * totalQuantity
	}
	return total
}

func parseDelivery(s string) (domain.DeliveryMethod, error) {
	switch domain.DeliveryMethod(strings.TrimSpace(strings.ToLower(s))) {
	case domain.DeliveryPickup:
		return domain.DeliveryPickup, nil
	case domain.DeliveryMail:
		return domain.DeliveryMail, nil
	}
	return "", ErrInvalidDelivery
}

// address บังคับเฉพาะส่งไปรษณีย์
func validateAddress(delivery domain.DeliveryMethod, address *string) (*string, error) {
	if delivery != domain.DeliveryMail {
		return nil, nil
	}
	if address == nil || strings.TrimSpace(*address) == "" {
		return nil, fmt.Errorf("%w: address is required for mail delivery", ErrInvalidInput)
	}
	a := strings.TrimSpace(*address)
	return &a, nil
}

func (s *requestService) CreateRequest(userID uint, input dto.CreateRequest) (*dto.RequestResponse, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: invalid user_id", ErrInvalidInput)
	}

	delivery, err := parseDelivery(input.Delivery)
	if err != nil {
		return nil, err
	}
	address, err := validateAddress(delivery, input.Address)
	if err != nil {
		return nil, err
	}

	docType, err := s.docRepo.FindByID(input.DocumentTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: document type %d", ErrNotFound, input.DocumentTypeID)
		}
		return nil, err
	}

	req := &domain.DocumentRequest{
		UserID:         userID,
		DocumentTypeID: docType.ID,
		Delivery:       delivery,
		Address:        address,
		Urgent:         input.Urgent,
		TotalPrice:     ComputeTotal(docType.Price, 1, delivery, input.Urgent),
		Status:         domain.RequestStatusPending,
	}

	// ใบเดียวไม่สร้าง item rows — type หลักแทน implicit item
	if err := s.repo.CreateWithItems(req, nil); err != nil {
		return nil, err
	}

	full, err := s.repo.FindByID(req.ID)
	if err != nil {
		full = req
	}
	s.afterCreate(full)

	resp := toRequestResponse(full, "th")
	return &resp, nil
}

func (s *requestService) CreateMultiRequest(userID uint, input dto.CreateMultiRequest) (*dto.RequestResponse, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: invalid user_id", ErrInvalidInput)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: items are required", ErrInvalidInput)
	}

	delivery, err := parseDelivery(input.Delivery)
	if err != nil {
		return nil, err
	}
	address, err := validateAddress(delivery, input.Address)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(input.Items))
	for i, it := range input.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item #%d quantity must be at least 1", ErrInvalidInput, i+1)
		}
		ids = append(ids, it.DocumentTypeID)
	}

	docTypes, err := s.docRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]domain.DocumentType, len(docTypes))
	for _, dt := range docTypes {
		byID[dt.ID] = dt
	}

	items := make([]domain.DocumentRequestItem, 0, len(input.Items))
	subtotal, totalQty := 0, 0
	for _, it := range input.Items {
		dt, ok := byID[it.DocumentTypeID]
		if !ok {
			return nil, fmt.Errorf("%w: document type %d", ErrNotFound, it.DocumentTypeID)
		}
		line := domain.DocumentRequestItem{
			DocumentTypeID: dt.ID,
			Quantity:       it.Quantity,
			UnitPrice:      dt.Price,
			Subtotal:       dt.Price * it.Quantity,
		}
		subtotal += line.Subtotal
		totalQty += it.Quantity
		items = append(items, line)
	}

	// ราคา client ส่งมาเป็นแค่ advisory — คิดเองเสมอกัน tamper
	total := ComputeTotal(subtotal, totalQty, delivery, input.Urgent)
	if input.TotalPrice != nil && *input.TotalPrice != total {
		log.Printf("create request: client total %d != server total %d (user %d) - using server total",
			*input.TotalPrice, total, userID)
	}

	req := &domain.DocumentRequest{
		UserID:         userID,
		DocumentTypeID: items[0].DocumentTypeID, // legacy field = ใบแรก
		Delivery:       delivery,
		Address:        address,
		Urgent:         input.Urgent,
		TotalPrice:     total,
		Status:         domain.RequestStatusPending,
	}

	if err := s.repo.CreateWithItems(req, items); err != nil {
		return nil, err
	}

	full, err := s.repo.FindByID(req.ID)
	if err != nil {
		full = req
	}
	s.afterCreate(full)

	resp := toRequestResponse(full, "th")
	return &resp, nil
}

// afterCreate: งานหลัง commit ทั้งหมด best-effort
// ห้ามกระทบผลลัพธ์ที่ตอบ caller ไปแล้ว
func (s *requestService) afterCreate(full *domain.DocumentRequest) {
	if s.notifier != nil {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		_ = s.notifier.NotifyNewRequest(ctx, full)
	}

	if s.producer != nil {
		ev := dto.RequestCreatedEvent{
			RequestID:  full.ID,
			UserID:     full.UserID,
			Delivery:   string(full.Delivery),
			Urgent:     full.Urgent,
			TotalPrice: full.TotalPrice,
			CreatedAt:  full.CreatedAt.Format(time.RFC3339),
		}
		if full.User != nil {
			ev.StudentCode = full.User.StudentCode
		}
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Printf("marshal %s for request #%d failed: %v", dto.EventRequestCreated, full.ID, err)
		} else if err := s.producer.PublishMessage([]byte(dto.EventRequestCreated), payload); err != nil {
			log.Printf("publish %s for request #%d failed: %v", dto.EventRequestCreated, full.ID, err)
		}
	}
}

// findActor: actor หายไป = สิทธิ์ไม่ผ่าน / storage พัง = error ตรงๆ ไม่ใช่ 403
func (s *requestService) findActor(actorID uint) (*domain.User, error) {
	actor, err := s.userRepo.FindUserById(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return actor, nil
}

func (s *requestService) GetRequest(actorID uint, requestID uint, lang string) (*dto.RequestResponse, error) {
	actor, err := s.findActor(actorID)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return nil, err
	}

	// นักศึกษาเห็นเฉพาะของตัวเอง
	if !actor.IsAdmin() && req.UserID != actorID {
		return nil, ErrForbidden
	}

	resp := toRequestResponse(req, lang)
	return &resp, nil
}

func (s *requestService) ListMyRequests(userID uint, limit, offset int, lang string) ([]dto.RequestResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	reqs, err := s.repo.ListByUserID(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, toRequestResponse(&reqs[i], lang))
	}
	return out, nil
}

func (s *requestService) ListAllRequests(status string, limit, offset int, lang string) ([]dto.RequestResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var st domain.RequestStatus
	if strings.TrimSpace(status) != "" {
		st = domain.RequestStatus(strings.TrimSpace(strings.ToLower(status)))
		if !domain.ValidRequestStatus(st) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
		}
	}

	reqs, err := s.repo.ListAll(st, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, toRequestResponse(&reqs[i], lang))
	}
	return out, nil
}

func (s *requestService) UpdateStatus(actorID uint, requestID uint, input dto.UpdateStatusRequest) error {
	actor, err := s.findActor(actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	status := domain.RequestStatus(strings.TrimSpace(strings.ToLower(input.Status)))
	if !domain.ValidRequestStatus(status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, input.Status)
	}

	var note *string
	if input.Note != nil && strings.TrimSpace(*input.Note) != "" {
		n := strings.TrimSpace(*input.Note)
		note = &n
	}

	if err := s.repo.UpdateStatusWithHistory(requestID, status, note, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return err
	}

	if s.producer != nil {
		ev := dto.RequestStatusChangedEvent{
			RequestID: requestID,
			Status:    string(status),
			Note:      note,
			ChangedBy: actorID,
			ChangedAt: time.Now().Format(time.RFC3339),
		}
		payload, mErr := json.Marshal(ev)
		if mErr != nil {
			log.Printf("marshal %s for request #%d failed: %v", dto.EventRequestStatusChanged, requestID, mErr)
		} else if pErr := s.producer.PublishMessage([]byte(dto.EventRequestStatusChanged), payload); pErr != nil {
			log.Printf("publish %s for request #%d failed: %v", dto.EventRequestStatusChanged, requestID, pErr)
		}
	}

	return nil
}

func (s *requestService) GetHistory(actorID uint, requestID uint) ([]dto.StatusHistoryResponse, error) {
	actor, err := s.findActor(actorID)
	if err != nil {
		return nil, err
	}

	req, err := s.repo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return nil, err
	}

	if !actor.IsAdmin() && req.UserID != actorID {
		return nil, ErrForbidden
	}

	rows, err := s.repo.ListHistory(requestID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StatusHistoryResponse, 0, len(rows))
	for _, h := range rows {
		name := "staff" // ผู้เปลี่ยนโดนลบไปแล้วก็ยังแสดง history ได้
		if h.Actor != nil && h.Actor.ID != 0 {
			name = h.Actor.DisplayName()
		}
		out = append(out, dto.StatusHistoryResponse{
			ID:        h.ID,
			RequestID: h.RequestID,
			Status:    string(h.Status),
			Note:      h.Note,
			ActorName: name,
			CreatedAt: h.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *requestService) AttachPaymentProof(userID uint, requestID uint, url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidInput)
	}

	req, err := s.repo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: request %d", ErrNotFound, requestID)
		}
		return err
	}
	if req.UserID != userID {
		return ErrForbidden
	}

	return s.repo.SetPaymentProofURL(requestID, url)
}

func toRequestResponse(req *domain.DocumentRequest, lang string) dto.RequestResponse {
	resp := dto.RequestResponse{
		ID:              req.ID,
		UserID:          req.UserID,
		Delivery:        string(req.Delivery),
		Address:         req.Address,
		Urgent:          req.Urgent,
		TotalPrice:      req.TotalPrice,
		PaymentProofURL: req.PaymentProofURL,
		Status:          string(req.Status),
		CreatedAt:       req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       req.UpdatedAt.Format(time.RFC3339),
	}

	if req.User != nil {
		resp.StudentCode = req.User.StudentCode
		resp.StudentName = req.User.DisplayName()
	}
	if req.DocumentType != nil {
		resp.DocumentName = req.DocumentType.Name(lang)
	}

	for _, it := range req.Items {
		item := dto.RequestItemResponse{
			ID:             it.ID,
			DocumentTypeID: it.DocumentTypeID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			Subtotal:       it.Subtotal,
		}
		if it.DocumentType != nil {
			item.DocumentName = it.DocumentType.Name(lang)
		}
		resp.Items = append(resp.Items, item)
	}

	return resp
}
