package rest

import (
	"context"
	"net/http"
	"time"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, actor domain.Actor, user domain.User) (domain.User, bool, error)
	GetRole(ctx context.Context, email string) (string, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id uint, role string) (domain.User, error)
	MarkFraud(ctx context.Context, id uint) (domain.User, int64, error)
	DeleteUser(ctx context.Context, id uint) (int64, error)
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	PhotoURL string `json:"photoURL"`
	Role     string `json:"role" validate:"omitempty,oneof=user agent admin"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user agent admin"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req UserRegisterRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate user register", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, created, err := h.userService.Register(ctx, actorFrom(c), domain.User{
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
		Role:     req.Role,
	})
	if err != nil {
		return writeError(c, err)
	}

	if !created {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "user already exists",
			"user":    user,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user created",
		"user":    user,
	})
}

func (h *UserHandler) GetRole(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		email = actorFrom(c).Email
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	role, err := h.userService.GetRole(ctx, email)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"role": role,
	})
}

func (h *UserHandler) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.userService.GetAllUsers(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully get all users",
		"users":   users,
	})
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "role must be one of user, agent, admin")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.UpdateRole(ctx, id, req.Role)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "role updated",
		"user":    user,
	})
}

func (h *UserHandler) MarkFraud(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, purged, err := h.userService.MarkFraud(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":           "user marked as fraud",
		"user":              user,
		"deletedProperties": purged,
	})
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	purged, err := h.userService.DeleteUser(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":           "user deleted",
		"deletedProperties": purged,
	})
}
