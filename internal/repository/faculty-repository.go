package repository

import (
	"github.com/SundayYogurt/document_service/internal/domain"
	"gorm.io/gorm"
)

type FacultyRepository interface {
	FindByID(id uint) (*domain.Faculty, error)
	ListAll() ([]domain.Faculty, error)
	AddFaculty(f *domain.Faculty) error
}

type facultyRepository struct {
	db *gorm.DB
}

func NewFacultyRepository(db *gorm.DB) FacultyRepository {
	return &facultyRepository{db: db}
}

func (r *facultyRepository) FindByID(id uint) (*domain.Faculty, error) {
	var f domain.Faculty
	if err := r.db.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *facultyRepository) ListAll() ([]domain.Faculty, error) {
	var fs []domain.Faculty
	if err := r.db.Order("id ASC").Find(&fs).Error; err != nil {
		return nil, err
	}
	return fs, nil
}

func (r *facultyRepository) AddFaculty(f *domain.Faculty) error {
	return r.db.Create(f).Error
}
