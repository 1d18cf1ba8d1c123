package handlers

import (
	"strconv"

	"github.com/SundayYogurt/document_service/internal/dto"
	"github.com/SundayYogurt/document_service/internal/helper"
	"github.com/SundayYogurt/document_service/internal/helper/utils"
	"github.com/SundayYogurt/document_service/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App, authMw fiber.Handler, adminOnly fiber.Handler) {
	api := app.Group("/api")

	user := api.Group("/user")
	user.Post("/register", h.Register)
	user.Post("/login", h.Login)

	user.Get("/me", authMw, h.Me)

	admin := api.Group("/admin/users", authMw, adminOnly)
	admin.Get("/", h.ListUsers)
	admin.Put("/:userID/role", h.SetRole)
	admin.Delete("/:userID", h.DeleteUser)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if err := h.svc.Register(requestBody); err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseMessage(ctx, fiber.StatusCreated, "User registered successfully")
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "email and password are required")
	}

	user, err := h.svc.Login(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.auth.GenerateToken(int(user.ID), user.Email, user.Role)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not generate token")
	}

	profile, err := h.svc.GetProfile(user.ID)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, "could not load profile")
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, dto.LoginResponse{
		Token: token,
		User:  *profile,
	})
}

func (h *UserHandler) Me(ctx *fiber.Ctx) error {
	userID, ok := ctx.Locals("userID").(uint)
	if !ok || userID == 0 {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	profile, err := h.svc.GetProfile(userID)
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, profile)
}

func (h *UserHandler) ListUsers(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	users, err := h.svc.ListUsers(limit, offset)
	if err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *UserHandler) SetRole(ctx *fiber.Ctx) error {
	userID, err := strconv.ParseUint(ctx.Params("userID"), 10, 64)
	if err != nil || userID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	var requestBody dto.SetRoleRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "role is required")
	}

	if err := h.svc.SetRole(uint(userID), requestBody.Role); err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseMessage(ctx, fiber.StatusOK, "Role updated")
}

func (h *UserHandler) DeleteUser(ctx *fiber.Ctx) error {
	userID, err := strconv.ParseUint(ctx.Params("userID"), 10, 64)
	if err != nil || userID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.svc.DeleteUser(uint(userID)); err != nil {
		status, msg := errStatus(err)
		return utils.ResponseError(ctx, status, msg)
	}
	return utils.ResponseMessage(ctx, fiber.StatusOK, "User deleted")
}
