package domain

import "time"

type Faculty struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NameTH    string    `gorm:"type:varchar(255);column:name_th" json:"name_th"`
	NameEN    string    `gorm:"type:varchar(255);column:name_en" json:"name_en"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Name resolves the localized display name in the application layer.
// ไม่เลือก column จาก request input (กัน SQL identifier injection)
func (f Faculty) Name(lang string) string {
	if lang == "en" && f.NameEN != "" {
		return f.NameEN
	}
	return f.NameTH
}
