package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// UserLookup loads an active user by id.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// Actor loads the authenticated user named by the token subject, so roles and
// location are always current. Deactivated or unknown users are rejected.
// Must run after Auth.
func Actor(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get(UserIDKey).(string)
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}

			actor, err := users.GetUser(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown or inactive user")
				}
				return err
			}

			c.Set(ActorKey, actor)
			return next(c)
		}
	}
}
