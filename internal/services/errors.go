package services

import "errors"

// Business errors ที่ handler ใช้ map เป็น HTTP status
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidDelivery = errors.New("invalid delivery method")
	ErrDuplicate       = errors.New("already exists")
)
