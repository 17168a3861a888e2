package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"
	"dreamKeys/pkg/metrics"
	"dreamKeys/pkg/utils"

	jsonres "dreamKeys/pkg/response"

	"github.com/labstack/echo/v4"
)

const (
	ContextEmail  = "email"
	ContextClaims = "claims"
	ContextToken  = "token"
	ContextActor  = "actor"
)

// TokenParser validates identity tokens.
type TokenParser interface {
	ParseJWT(tokenString string) (*utils.Claims, error)
}

// UserFinder reads the live user record behind a token.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// AuthMiddleware requires a valid bearer token. Every failure gets the same 401.
func AuthMiddleware(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenParts := strings.Split(c.Request().Header.Get("Authorization"), " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
				return unauthorized(c)
			}

			tokenString := tokenParts[1]

			claims, err := tokens.ParseJWT(tokenString)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(ContextEmail, strings.ToLower(claims.Email))
			c.Set(ContextClaims, claims)
			c.Set(ContextToken, tokenString)

			return next(c)
		}
	}
}

// ResolveActor loads the caller's current role and fraud flag. Roles are read on every
// request, so a demotion takes effect on the next call. Callers without a user record
// pass through as unregistered.
func ResolveActor(users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, _ := c.Get(ContextEmail).(string)
			if email == "" {
				return unauthorized(c)
			}

			actor := domain.Actor{Email: email}
			if claims, ok := c.Get(ContextClaims).(*utils.Claims); ok {
				actor.Name = claims.Name
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			user, err := users.FindByEmail(ctx, email)
			switch {
			case err == nil:
				actor.UserID = user.ID
				actor.Role = user.Role
				actor.IsFraud = user.IsFraud
				actor.Registered = true
				if user.Name != "" {
					actor.Name = user.Name
				}
			case errors.Is(err, domain.ErrNotFound):
			default:
				logger.Error("Failed to resolve actor", "email", email, "error", err)
				return c.JSON(http.StatusInternalServerError, jsonres.Error(
					"INTERNAL_SERVER_ERROR", "Failed to resolve user", nil,
				))
			}

			c.Set(ContextActor, actor)

			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok || !actor.IsAdmin() {
				metrics.AuthDenials.WithLabelValues("admin").Inc()
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}

// ActorFrom returns the actor attached by ResolveActor.
func ActorFrom(c echo.Context) (domain.Actor, bool) {
	actor, ok := c.Get(ContextActor).(domain.Actor)
	return actor, ok
}

func unauthorized(c echo.Context) error {
	metrics.AuthDenials.WithLabelValues("authenticated").Inc()
	return c.JSON(http.StatusUnauthorized, jsonres.Error(
		"UNAUTHORIZED", "Unauthorized access", nil,
	))
}
