package repository

import (
	"github.com/SundayYogurt/document_service/internal/domain"
	"gorm.io/gorm"
)

// Read-only aggregation over requests (dashboard/summary)

type StatusCountRow struct {
	Status string
	Count  int64
}

type DocumentTypeCountRow struct {
	DocumentTypeID uint
	Count          int64
	Revenue        int64
}

type MonthlyCountRow struct {
	Month string
	Count int64
}

type ReportRepository interface {
	CountTotal() (int64, error)
	CountByStatus() ([]StatusCountRow, error)
	CompletedRevenue() (int64, error)
	CountByDocumentType() ([]DocumentTypeCountRow, error)
	MonthlyCounts(months int) ([]MonthlyCountRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountTotal() (int64, error) {
	var n int64
	err := r.db.Model(&domain.DocumentRequest{}).Count(&n).Error
	return n, err
}

func (r *reportRepository) CountByStatus() ([]StatusCountRow, error) {
	var rows []StatusCountRow
	err := r.db.Model(&domain.DocumentRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reportRepository) CompletedRevenue() (int64, error) {
	var total int64
	err := r.db.Model(&domain.DocumentRequest{}).
		Where("status = ?", domain.RequestStatusCompleted).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

func (r *reportRepository) CountByDocumentType() ([]DocumentTypeCountRow, error) {
	var rows []DocumentTypeCountRow
	err := r.db.Model(&domain.DocumentRequestItem{}).
		Select("document_type_id, SUM(quantity) AS count, SUM(subtotal) AS revenue").
		Group("document_type_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reportRepository) MonthlyCounts(months int) ([]MonthlyCountRow, error) {
	if months <= 0 {
		months = 12
	}

	// postgres ใช้ to_char / sqlite (ใน test) ใช้ strftime
	expr := "to_char(created_at, 'YYYY-MM')"
	if r.db.Dialector.Name() == "sqlite" {
		expr = "strftime('%Y-%m', created_at)"
	}

	var rows []MonthlyCountRow
	err := r.db.Model(&domain.DocumentRequest{}).
		Select(expr + " AS month, COUNT(*) AS count").
		Group(expr).
		Order("month DESC").
		Limit(months).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
