package rest

import (
	"net/http"

	"dreamKeys/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type TokenIssuer interface {
	GenerateJWT(email, name, photoURL string) (string, error)
}

type TokenHandler struct {
	issuer    TokenIssuer
	validator *validator.Validate
}

func NewTokenHandler(issuer TokenIssuer) *TokenHandler {
	return &TokenHandler{
		issuer:    issuer,
		validator: validator.New(),
	}
}

// TokenRequest carries the identity the front end obtained from its sign-in provider.
type TokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

func (h *TokenHandler) IssueToken(c echo.Context) error {
	var req TokenRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, "a valid email is required")
	}

	token, err := h.issuer.GenerateJWT(req.Email, req.Name, req.PhotoURL)
	if err != nil {
		logger.Error("Failed to sign token", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
	})
}
