package services

import (
	"github.com/SundayYogurt/document_service/internal/dto"
	"github.com/SundayYogurt/document_service/internal/repository"
)

type ReportService interface {
	Summary(lang string) (*dto.SummaryReport, error)
}

type reportService struct {
	repo    repository.ReportRepository
	docRepo repository.DocumentTypeRepository
}

func NewReportService(repo repository.ReportRepository, docRepo repository.DocumentTypeRepository) ReportService {
	return &reportService{repo: repo, docRepo: docRepo}
}

func (r *reportService) Summary(lang string) (*dto.SummaryReport, error) {
	total, err := r.repo.CountTotal()
	if err != nil {
		return nil, err
	}

	statusRows, err := r.repo.CountByStatus()
	if err != nil {
		return nil, err
	}

	revenue, err := r.repo.CompletedRevenue()
	if err != nil {
		return nil, err
	}

	typeRows, err := r.repo.CountByDocumentType()
	if err != nil {
		return nil, err
	}

	monthly, err := r.repo.MonthlyCounts(12)
	if err != nil {
		return nil, err
	}

	report := &dto.SummaryReport{
		TotalRequests:    total,
		CompletedRevenue: revenue,
	}

	for _, row := range statusRows {
		report.ByStatus = append(report.ByStatus, dto.StatusCount{Status: row.Status, Count: row.Count})
	}

	// resolve ชื่อเอกสารฝั่งแอป ไม่ join ด้วย column จาก request
	docTypes, err := r.docRepo.ListAll()
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(docTypes))
	for _, dt := range docTypes {
		names[dt.ID] = dt.Name(lang)
	}

	for _, row := range typeRows {
		report.ByDocumentType = append(report.ByDocumentType, dto.DocumentTypeCount{
			DocumentTypeID: row.DocumentTypeID,
			DocumentName:   names[row.DocumentTypeID],
			Count:          row.Count,
			Revenue:        row.Revenue,
		})
	}

	for _, row := range monthly {
		report.Monthly = append(report.Monthly, dto.MonthlyCount{Month: row.Month, Count: row.Count})
	}

	return report, nil
}
