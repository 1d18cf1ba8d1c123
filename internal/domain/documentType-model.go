package domain

import "time"

type DocumentType struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	NameTH string `gorm:"type:varchar(255);not null;column:name_th" json:"name_th"`
	NameEN string `gorm:"type:varchar(255);column:name_en" json:"name_en"`

	// ราคาต่อฉบับ (บาท)
	Price int `gorm:"not null" json:"price"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Name resolves the localized display name, falling back to Thai.
func (d DocumentType) Name(lang string) string {
	if lang == "en" && d.NameEN != "" {
		return d.NameEN
	}
	return d.NameTH
}
