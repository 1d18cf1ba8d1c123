package handlers

import (
	"strconv"

	"github.com/SundayYogurt/document_service/internal/dto"
	"github.com/SundayYogurt/document_service/internal/helper"
	"github.com/SundayYogurt/document_service/internal/helper/utils"
	"github.com/SundayYogurt/document_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	svc     services.RequestService
	catalog services.CatalogService
}

func NewRequestHandler(svc services.RequestService, catalog services.CatalogService) *RequestHandler {
	return &RequestHandler{svc: svc, catalog: catalog}
}

func (h *RequestHandler) SetupRoutes(app *fiber.App, authMw fiber.Handler, adminOnly fiber.Handler) {
	api := app.Group("/api")

	// catalog เปิด public ให้หน้า form ใช้
	api.Get("/document-types", h.ListDocumentTypes)
	api.Get("/faculties", h.ListFaculties)

	req := api.Group("/requests", authMw)
	req.Post("/", h.CreateRequest)
	req.Post("/multi", h.CreateMultiRequest)
	req.Get("/", h.ListMyRequests)
	req.Get("/:requestID", h.GetRequest)
	req.Get("/:requestID/history", h.GetHistory)

	admin := api.Group("/admin/requests", authMw, adminOnly)
	admin.Get("/", h.ListAllRequests)
	admin.Patch("/:requestID/status", h.UpdateStatus)
}

func (h *RequestHandler) ListDocumentTypes(ctx *fiber.Ctx) error {
	dts, err := h.catalog.ListDocumentTypes()
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, dts)
}

func (h *RequestHandler) ListFaculties(ctx *fiber.Ctx) error {
	fs, err := h.catalog.ListFaculties()
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fs)
}

func (h *RequestHandler) CreateRequest(ctx *fiber.Ctx) error {
	userID, ok := ctx.Locals("userID").(uint)
	if !ok || userID == 0 {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.CreateRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	resp, err := h.svc.CreateRequest(userID, requestBody)
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

func (h *RequestHandler) CreateMultiRequest(ctx *fiber.Ctx) error {
	userID, ok := ctx.Locals("userID").(uint)
	if !ok || userID == 0 {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.CreateMultiRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	resp, err := h.svc.CreateMultiRequest(userID, requestBody)
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

func (h *RequestHandler) ListMyRequests(ctx *fiber.Ctx) error {
	userID, ok := ctx.Locals("userID").(uint)
	if !ok || userID == 0 {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))
	lang := helper.NormalizeLang(ctx.Query("lang", "th"))

	reqs, err := h.svc.ListMyRequests(userID, limit, offset, lang)
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, reqs)
}

func (h *RequestHandler) GetRequest(ctx *fiber.Ctx) error {
	userID, ok := ctx.Locals("userID").(uint)
	if !ok || userID == 0 {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	requestID, err := strconv.ParseUint(ctx.Params("requestID"), 10, 64)
	if err != nil || requestID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request id")
	}
	lang := helper.NormalizeLang(ctx.Query("lang", "th"))

	resp, err := h.svc.GetRequest(userID, uint(requestID), lang)
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *RequestHandler) GetHistory(ctx *fiber.Ctx) error {
	userID, ok := ctx.Locals("userID").(uint)
	if !ok || userID == 0 {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	requestID, err := strconv.ParseUint(ctx.Params("requestID"), 10, 64)
	if err != nil || requestID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request id")
	}

	rows, err := h.svc.GetHistory(userID, uint(requestID))
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, rows)
}

func (h *RequestHandler) ListAllRequests(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))
	lang := helper.NormalizeLang(ctx.Query("lang", "th"))
	status := ctx.Query("status", "")

	reqs, err := h.svc.ListAllRequests(status, limit, offset, lang)
	if err != nil {
		st, msg := errStatus(err)
		return utils.ResponseError(ctx, st, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, reqs)
}

func (h *RequestHandler) UpdateStatus(ctx *fiber.Ctx) error {
	actorID, ok := ctx.Locals("userID").(uint)
	if !ok || actorID == 0 {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	requestID, err := strconv.ParseUint(ctx.Params("requestID"), 10, 64)
	if err != nil || requestID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid request id")
	}

	var requestBody dto.UpdateStatusRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "status is required")
	}

	if err := h.svc.UpdateStatus(actorID, uint(requestID), requestBody); err != nil {
		st, msg := errStatus(err)
		return utils.ResponseError(ctx, st, msg)
	}
	return utils.ResponseMessage(ctx, fiber.StatusOK, "Status updated")
}
