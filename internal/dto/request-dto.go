package dto

// CreateRequest: คำขอใบเดียว (legacy path)
type CreateRequest struct {
	DocumentTypeID uint    `json:"document_type_id" validate:"required"`
	Delivery       string  `json:"delivery" validate:"required,oneof=pickup mail"`
	Address        *string `json:"address,omitempty"`
	Urgent         bool    `json:"urgent"`
}

type RequestItemInput struct {
	DocumentTypeID uint `json:"document_type_id" validate:"required"`
	Quantity       int  `json:"quantity" validate:"required,min=1"`
}

// CreateMultiRequest: หลายรายการในคำขอเดียว
// TotalPrice จาก client เป็นแค่ advisory — server คิดราคาเองเสมอ
type CreateMultiRequest struct {
	Items      []RequestItemInput `json:"items" validate:"required,min=1,dive"`
	Delivery   string             `json:"delivery" validate:"required,oneof=pickup mail"`
	Address    *string            `json:"address,omitempty"`
	Urgent     bool               `json:"urgent"`
	TotalPrice *int               `json:"total_price,omitempty"`
}

type RequestItemResponse struct {
	ID             uint   `json:"id"`
	DocumentTypeID uint   `json:"document_type_id"`
	DocumentName   string `json:"document_name"`
	Quantity       int    `json:"quantity"`
	UnitPrice      int    `json:"unit_price"`
	Subtotal       int    `json:"subtotal"`
}

type RequestResponse struct {
	ID              uint                  `json:"id"`
	UserID          uint                  `json:"user_id"`
	StudentCode     string                `json:"student_code,omitempty"`
	StudentName     string                `json:"student_name,omitempty"`
	DocumentName    string                `json:"document_name"`
	Delivery        string                `json:"delivery"`
	Address         *string               `json:"address,omitempty"`
	Urgent          bool                  `json:"urgent"`
	TotalPrice      int                   `json:"total_price"`
	PaymentProofURL *string               `json:"payment_proof_url,omitempty"`
	Status          string                `json:"status"`
	Items           []RequestItemResponse `json:"items,omitempty"`
	CreatedAt       string                `json:"created_at"`
	UpdatedAt       string                `json:"updated_at"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending processing ready completed rejected" example:"processing"`
	Note   *string `json:"note,omitempty" example:"payment verified"`
}

type StatusHistoryResponse struct {
	ID        uint    `json:"id"`
	RequestID uint    `json:"request_id"`
	Status    string  `json:"status"`
	Note      *string `json:"note,omitempty"`
	ActorName string  `json:"actor_name"`
	CreatedAt string  `json:"created_at"`
}
