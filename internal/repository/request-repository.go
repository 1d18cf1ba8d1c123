package repository

import (
	"github.com/SundayYogurt/document_service/internal/domain"
	"gorm.io/gorm"
)

type RequestRepository interface {
	CreateWithItems(req *domain.DocumentRequest, items []domain.DocumentRequestItem) error
	FindByID(id uint) (*domain.DocumentRequest, error)
	ListByUserID(userID uint, limit, offset int) ([]domain.DocumentRequest, error)
	ListAll(status domain.RequestStatus, limit, offset int) ([]domain.DocumentRequest, error)

	UpdateStatusWithHistory(id uint, status domain.RequestStatus, note *string, actorID uint) error
	ListHistory(requestID uint) ([]domain.RequestStatusHistory, error)

	SetPaymentProofURL(id uint, url string) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

// CreateWithItems: insert parent + items ใน tx เดียว
// ล้มตรงไหนก็ rollback ทั้งก้อน ไม่มี order ครึ่งเดียวให้เห็น
func (r *requestRepository) CreateWithItems(req *domain.DocumentRequest, items []domain.DocumentRequestItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].RequestID = req.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		req.Items = items
		return nil
	})
}

func (r *requestRepository) FindByID(id uint) (*domain.DocumentRequest, error) {
	var req domain.DocumentRequest
	err := r.db.
		Preload("User").
		Preload("DocumentType").
		Preload("Items").
		Preload("Items.DocumentType").
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListByUserID(userID uint, limit, offset int) ([]domain.DocumentRequest, error) {
	var reqs []domain.DocumentRequest
	err := r.db.
		Preload("DocumentType").
		Preload("Items").
		Preload("Items.DocumentType").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *requestRepository) ListAll(status domain.RequestStatus, limit, offset int) ([]domain.DocumentRequest, error) {
	var reqs []domain.DocumentRequest
	q := r.db.
		Preload("User").
		Preload("DocumentType").
		Preload("Items").
		Preload("Items.DocumentType")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// UpdateStatusWithHistory: เปลี่ยนสถานะ + เขียน history แถวเดียวใน tx เดียว
// ไม่มีทางเห็นอย่างใดอย่างหนึ่งโดดๆ
func (r *requestRepository) UpdateStatusWithHistory(id uint, status domain.RequestStatus, note *string, actorID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.DocumentRequest{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status": status,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		history := &domain.RequestStatusHistory{
			RequestID: id,
			Status:    status,
			Note:      note,
			CreatedBy: &actorID,
		}
		return tx.Create(history).Error
	})
}

func (r *requestRepository) ListHistory(requestID uint) ([]domain.RequestStatusHistory, error) {
	var rows []domain.RequestStatusHistory
	err := r.db.
		Preload("Actor").
		Where("request_id = ?", requestID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *requestRepository) SetPaymentProofURL(id uint, url string) error {
	res := r.db.Model(&domain.DocumentRequest{}).
		Where("id = ?", id).
		Update("payment_proof_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
