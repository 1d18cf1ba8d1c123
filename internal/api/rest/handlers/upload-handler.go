package handlers

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SundayYogurt/document_service/internal/helper/utils"
	"github.com/SundayYogurt/document_service/internal/interfaces"
	"github.com/SundayYogurt/document_service/internal/services"
	pkgutils "github.com/SundayYogurt/document_service/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UploadHandler struct {
	uploader interfaces.Uploader
	svc      services.RequestService
}

func NewUploadHandler(uploader interfaces.Uploader, svc services.RequestService) *UploadHandler {
	return &UploadHandler{uploader: uploader, svc: svc}
}

func (h *UploadHandler) SetupRoutes(app *fiber.App, authMw fiber.Handler) {
	api := app.Group("/api")
	api.Post("/requests/:requestID/payment-proof", authMw, h.UploadPaymentProof)
}

// POST /api/requests/:requestID/payment-proof
// form-data: file=<slip>
// สลิปเป็น blob เฉยๆ ไม่ตรวจเนื้อรูป
func (h *UploadHandler) UploadPaymentProof(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		return utils.ResponseError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	requestID, err := strconv.ParseUint(c.Params("requestID"), 10, 64)
	if err != nil || requestID == 0 {
		return utils.ResponseError(c, fiber.StatusBadRequest, "invalid request id")
	}

	if h.uploader == nil {
		return utils.ResponseError(c, fiber.StatusServiceUnavailable, "file storage is not configured")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ResponseError(c, fiber.StatusBadRequest, "file is required")
	}

	// validate extension
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".pdf": true}
	if !allowed[ext] {
		return utils.ResponseError(c, fiber.StatusBadRequest, "only jpg/jpeg/png/webp/pdf allowed")
	}

	const maxSize = 5 * 1024 * 1024 //5MB
	if file.Size > maxSize {
		return utils.ResponseError(c, fiber.StatusBadRequest, "file too large (max 5MB)")
	}

	f, err := file.Open()
	if err != nil {
		return utils.ResponseError(c, fiber.StatusInternalServerError, "cannot open uploaded file")
	}
	defer f.Close()

	b, err := pkgutils.ReadAllLimit(f, maxSize)
	if err != nil {
		return utils.ResponseError(c, fiber.StatusBadRequest, "file too large (max 5MB)")
	}

	ctx, cancel := context.WithTimeout(c.Context(), 20*time.Second)
	defer cancel()

	publicID := "slip_" + uuid.NewString()
	url, err := h.uploader.UploadBytes(ctx, "document_service/payment_proofs", publicID, b)
	if err != nil {
		return utils.ResponseError(c, fiber.StatusInternalServerError, "upload failed")
	}

	if err := h.svc.AttachPaymentProof(userID, uint(requestID), url); err != nil {
		st, msg := errStatus(err)
		return utils.ResponseError(c, st, msg)
	}

	return utils.ResponseSuccess(c, fiber.StatusOK, fiber.Map{
		"url": url,
	})
}
