package services

import (
	"github.com/SundayYogurt/document_service/internal/domain"
	"github.com/SundayYogurt/document_service/internal/repository"
)

// อ่านอย่างเดียว: รายการ catalog สำหรับหน้า form
type CatalogService interface {
	ListDocumentTypes() ([]domain.DocumentType, error)
	ListFaculties() ([]domain.Faculty, error)
}

type catalogService struct {
	docRepo     repository.DocumentTypeRepository
	facultyRepo repository.FacultyRepository
}

func NewCatalogService(docRepo repository.DocumentTypeRepository, facultyRepo repository.FacultyRepository) CatalogService {
	return &catalogService{docRepo: docRepo, facultyRepo: facultyRepo}
}

func (c *catalogService) ListDocumentTypes() ([]domain.DocumentType, error) {
	return c.docRepo.ListAll()
}

func (c *catalogService) ListFaculties() ([]domain.Faculty, error) {
	return c.facultyRepo.ListAll()
}
