package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/d1sgu1sed/DogCollars/internal/api/middleware"
	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

// ctxActor returns the user loaded by the Actor middleware. A missing actor
// means the route was wired without authentication.
func ctxActor(c echo.Context) (*domain.User, error) {
	actor, _ := c.Get(middleware.ActorKey).(*domain.User)
	if actor == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return actor, nil
}
