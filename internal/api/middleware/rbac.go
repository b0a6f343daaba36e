package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// RequireRole lets the request through when the actor holds any of roles.
// Must run after Actor.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, _ := c.Get(ActorKey).(*domain.User)
			if actor != nil {
				for _, r := range roles {
					if actor.Roles.Has(r) {
						return next(c)
					}
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
