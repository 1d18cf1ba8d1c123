package repository

import (
	"github.com/SundayYogurt/document_service/internal/domain"
	"gorm.io/gorm"
)

type DocumentTypeRepository interface {
	FindByID(id uint) (*domain.DocumentType, error)
	FindByIDs(ids []uint) ([]domain.DocumentType, error)
	ListAll() ([]domain.DocumentType, error)
	AddDocumentType(dt *domain.DocumentType) error
}

type documentTypeRepository struct {
	db *gorm.DB
}

func NewDocumentTypeRepository(db *gorm.DB) DocumentTypeRepository {
	return &documentTypeRepository{db: db}
}

func (r *documentTypeRepository) FindByID(id uint) (*domain.DocumentType, error) {
	var dt domain.DocumentType
	if err := r.db.First(&dt, id).Error; err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *documentTypeRepository) FindByIDs(ids []uint) ([]domain.DocumentType, error) {
	var dts []domain.DocumentType
	if len(ids) == 0 {
		return dts, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&dts).Error; err != nil {
		return nil, err
	}
	return dts, nil
}

func (r *documentTypeRepository) ListAll() ([]domain.DocumentType, error) {
	var dts []domain.DocumentType
	if err := r.db.Order("id ASC").Find(&dts).Error; err != nil {
		return nil, err
	}
	return dts, nil
}

func (r *documentTypeRepository) AddDocumentType(dt *domain.DocumentType) error {
	return r.db.Create(dt).Error
}
