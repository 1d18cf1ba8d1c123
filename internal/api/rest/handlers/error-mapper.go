package handlers

import (
	"errors"

	"github.com/SundayYogurt/document_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

// map business error -> HTTP status
// error อื่นๆ ตอบ 500 แบบไม่โชว์รายละเอียดภายใน
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidDelivery):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrDuplicate):
		return fiber.StatusConflict, err.Error()
	}
	return fiber.StatusInternalServerError, "internal error"
}
