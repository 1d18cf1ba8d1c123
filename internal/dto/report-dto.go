package dto

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type DocumentTypeCount struct {
	DocumentTypeID uint   `json:"document_type_id"`
	DocumentName   string `json:"document_name"`
	Count          int64  `json:"count"`
	Revenue        int64  `json:"revenue"`
}

type MonthlyCount struct {
	Month string `json:"month" example:"2026-08"`
	Count int64  `json:"count"`
}

type SummaryReport struct {
	TotalRequests    int64               `json:"total_requests"`
	ByStatus         []StatusCount       `json:"by_status"`
	CompletedRevenue int64               `json:"completed_revenue"`
	ByDocumentType   []DocumentTypeCount `json:"by_document_type"`
	Monthly          []MonthlyCount      `json:"monthly"`
}
