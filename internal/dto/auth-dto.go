package dto

type RegisterRequest struct {
	StudentCode string  `json:"student_code" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=6"`
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Phone       *string `json:"phone,omitempty"`
	FacultyID   *uint   `json:"faculty_id,omitempty"`

	CitizenID  *string `json:"citizen_id,omitempty"`
	PassportNo *string `json:"passport_no,omitempty"`
	BirthDate  *string `json:"birth_date,omitempty" example:"2003-01-31"`
}

type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string              `json:"token"`
	User  UserProfileResponse `json:"user"`
}

type UserProfileResponse struct {
	ID          uint    `json:"id"`
	StudentCode string  `json:"student_code"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       *string `json:"phone,omitempty"`
	FacultyID   *uint   `json:"faculty_id,omitempty"`
	FacultyName string  `json:"faculty_name,omitempty"`
	Role        string  `json:"role"`
}

type AuthResponse struct {
	UserID int     `json:"user_id"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	Iat    float64 `json:"iat"`
	Expiry float64 `json:"expiry"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin" example:"admin"`
}
