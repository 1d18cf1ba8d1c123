package domain

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	StudentCode  string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"student_code"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `json:"-"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        *string `json:"phone,omitempty"`
	FacultyID    *uint   `gorm:"index" json:"faculty_id,omitempty"`

	// บัตรประชาชนหรือ passport อย่างใดอย่างหนึ่ง (optional)
	CitizenID  *string    `gorm:"type:varchar(13)" json:"citizen_id,omitempty"`
	PassportNo *string    `gorm:"type:varchar(20)" json:"passport_no,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`

	Role string `gorm:"type:varchar(20);not null;default:student" json:"role"`

	Faculty *Faculty `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
