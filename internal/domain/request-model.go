package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusReady      RequestStatus = "ready"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusRejected   RequestStatus = "rejected"
)

// ValidRequestStatus reports whether s is one of the five known statuses.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusProcessing, RequestStatusReady,
		RequestStatusCompleted, RequestStatusRejected:
		return true
	}
	return false
}

type DeliveryMethod string

const (
	DeliveryPickup DeliveryMethod = "pickup"
	DeliveryMail   DeliveryMethod = "mail"
)

// ค่าธรรมเนียม (บาท)
const (
	MailFee          = 200 // เหมาจ่ายต่อคำขอ เมื่อส่งไปรษณีย์
	UrgentFeePerCopy = 50  // ต่อฉบับ เฉพาะรับเอง + ด่วน
)

type DocumentRequest struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	// legacy: คำขอใบเดียวอ้าง type ตรงๆ / multi-item ใช้ใบแรกแทน
	DocumentTypeID uint `gorm:"not null;index" json:"document_type_id"`

	Delivery DeliveryMethod `gorm:"type:varchar(10);not null" json:"delivery"`
	Address  *string        `gorm:"type:text" json:"address,omitempty"`
	Urgent   bool           `gorm:"default:false" json:"urgent"`

	TotalPrice      int     `gorm:"not null" json:"total_price"`
	PaymentProofURL *string `gorm:"type:text" json:"payment_proof_url,omitempty"`

	Status RequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// --- Relations ---
	User         *User                  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DocumentType *DocumentType          `gorm:"foreignKey:DocumentTypeID" json:"document_type,omitempty"`
	Items        []DocumentRequestItem  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:RequestID" json:"items,omitempty"`
	Histories    []RequestStatusHistory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:RequestID" json:"histories,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type DocumentRequestItem struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	RequestID      uint `gorm:"not null;index" json:"request_id"`
	DocumentTypeID uint `gorm:"not null;index" json:"document_type_id"`
	Quantity       int  `gorm:"not null" json:"quantity"`

	// snapshot ราคา ณ วันสั่ง
	UnitPrice int `gorm:"not null" json:"unit_price"`
	Subtotal  int `gorm:"not null" json:"subtotal"`

	DocumentType *DocumentType `gorm:"foreignKey:DocumentTypeID" json:"document_type,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// RequestStatusHistory: append-only ไม่ update ไม่ delete
// แถวแรก (pending) ไม่ถูกเขียน — created_at ของ request แทนได้
type RequestStatusHistory struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	RequestID uint          `gorm:"not null;index" json:"request_id"`
	Status    RequestStatus `gorm:"type:varchar(20);not null" json:"status"`
	Note      *string       `gorm:"type:text" json:"note,omitempty"`

	// admin ผู้เปลี่ยนสถานะ (nullable เผื่อ user โดนลบ)
	CreatedBy *uint `gorm:"index" json:"created_by,omitempty"`
	Actor     *User `gorm:"foreignKey:CreatedBy" json:"actor,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
