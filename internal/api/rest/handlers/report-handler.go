package handlers

import (
	"github.com/SundayYogurt/document_service/internal/helper"
	"github.com/SundayYogurt/document_service/internal/helper/utils"
	"github.com/SundayYogurt/document_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	svc services.ReportService
}

func NewReportHandler(svc services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) SetupRoutes(app *fiber.App, authMw fiber.Handler, adminOnly fiber.Handler) {
	api := app.Group("/api")
	api.Get("/admin/reports/summary", authMw, adminOnly, h.Summary)
}

func (h *ReportHandler) Summary(ctx *fiber.Ctx) error {
	lang := helper.NormalizeLang(ctx.Query("lang", "th"))

	report, err := h.svc.Summary(lang)
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, report)
}
