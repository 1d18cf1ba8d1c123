package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SundayYogurt/document_service/internal/domain"
	"github.com/SundayYogurt/document_service/internal/dto"
	"github.com/SundayYogurt/document_service/internal/helper"
	"github.com/SundayYogurt/document_service/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	// Auth
	Register(input dto.RegisterRequest) error
	Login(input dto.UserLogin) (*domain.User, error)

	// Profile
	GetProfile(userID uint) (*dto.UserProfileResponse, error)

	// Admin
	IsAdmin(userID uint) (bool, error)
	SetRole(userID uint, role string) error
	ListUsers(limit, offset int) ([]dto.UserProfileResponse, error)
	DeleteUser(userID uint) error
}

type userService struct {
	repo        repository.UserRepository
	facultyRepo repository.FacultyRepository
	auth        helper.Auth
}

func NewUserService(repo repository.UserRepository, facultyRepo repository.FacultyRepository, auth helper.Auth) UserService {
	return &userService{repo: repo, facultyRepo: facultyRepo, auth: auth}
}

func (u *userService) Register(input dto.RegisterRequest) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	studentCode := strings.TrimSpace(input.StudentCode)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)

	if email == "" || strings.TrimSpace(input.Password) == "" || studentCode == "" || firstName == "" || lastName == "" {
		return fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	if len(input.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}

	if input.FacultyID != nil {
		if _, err := u.facultyRepo.FindByID(*input.FacultyID); err != nil {
			return fmt.Errorf("%w: faculty %d", ErrNotFound, *input.FacultyID)
		}
	}

	// duplicate email / student code
	if existing, err := u.repo.FindUserByEmail(email); err == nil && existing != nil && existing.ID != 0 {
		return fmt.Errorf("%w: email", ErrDuplicate)
	}
	if existing, err := u.repo.FindUserByStudentCode(studentCode); err == nil && existing != nil && existing.ID != 0 {
		return fmt.Errorf("%w: student code", ErrDuplicate)
	}

	var birthDate *time.Time
	if input.BirthDate != nil && strings.TrimSpace(*input.BirthDate) != "" {
		bd, err := time.Parse("2006-01-02", strings.TrimSpace(*input.BirthDate))
		if err != nil {
			return fmt.Errorf("%w: birth_date must be YYYY-MM-DD", ErrInvalidInput)
		}
		birthDate = &bd
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	newUser := &domain.User{
		StudentCode:  studentCode,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        input.Phone,
		FacultyID:    input.FacultyID,
		CitizenID:    input.CitizenID,
		PassportNo:   input.PassportNo,
		BirthDate:    birthDate,
		Role:         domain.RoleStudent, // ยกระดับเป็น admin ได้ทีหลังโดย admin เท่านั้น
	}

	if _, err := u.repo.CreateUser(newUser); err != nil {
		if helper.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email or student code", ErrDuplicate)
		}
		return err
	}
	return nil
}

func (u *userService) Login(input dto.UserLogin) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, errors.New("invalid email or password")
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return nil, errors.New("invalid email or password")
	}

	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return user, nil
}

func (u *userService) GetProfile(userID uint) (*dto.UserProfileResponse, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	resp := toUserProfile(user)
	return &resp, nil
}

func (u *userService) IsAdmin(userID uint) (bool, error) {
	if userID == 0 {
		return false, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	user, err := u.repo.FindUserById(userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

func (u *userService) SetRole(userID uint, role string) error {
	role = strings.TrimSpace(strings.ToLower(role))
	switch role {
	case domain.RoleStudent, domain.RoleAdmin:
	default:
		return fmt.Errorf("%w: role %s", ErrInvalidInput, role)
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return err
	}

	user.Role = role
	return u.repo.SaveUser(user)
}

func (u *userService) ListUsers(limit, offset int) ([]dto.UserProfileResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	users, err := u.repo.ListUsers(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserProfileResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserProfile(&users[i]))
	}
	return out, nil
}

// DeleteUser: ลบได้เฉพาะบัญชีนักศึกษา บัญชี admin ห้ามลบ
func (u *userService) DeleteUser(userID uint) error {
	user, err := u.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return err
	}
	if user.IsAdmin() {
		return fmt.Errorf("%w: cannot delete admin account", ErrForbidden)
	}
	return u.repo.DeleteUser(userID)
}

func toUserProfile(user *domain.User) dto.UserProfileResponse {
	resp := dto.UserProfileResponse{
		ID:          user.ID,
		StudentCode: user.StudentCode,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		FacultyID:   user.FacultyID,
		Role:        user.Role,
	}
	if user.Faculty != nil {
		resp.FacultyName = user.Faculty.Name("th")
	}
	return resp
}
