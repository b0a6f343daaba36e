package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

// UserHandler handles HTTP requests on user accounts.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Get handles GET /user/:id.
//
// @Summary      Get an active user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PATCH /user/:id.
//
// @Summary      Update a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  updatedUserResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      406   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /user/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.service.UpdateUser(c.Request().Context(), actor, c.Param("id"), ports.UpdateUserInput{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedUserResponse{UpdatedUserID: id})
}

// Delete handles DELETE /user/:id. The account is deactivated, not removed.
//
// @Summary      Deactivate a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  deletedUserResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      406  {object}  errorResponse
// @Router       /user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := h.service.DeleteUser(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deletedUserResponse{DeletedUserID: id})
}

// UpdateLocation handles PATCH /user/location for the caller's own account.
//
// @Summary      Set the caller's location
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      locationRequest  true  "Coordinates in degrees"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /user/location [patch]
func (h *UserHandler) UpdateLocation(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req locationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateLocation(c.Request().Context(), actor, req.coordinates())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GrantAdmin handles PATCH /user/:id/admin_privilege.
//
// @Summary      Grant the admin role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  updatedUserResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      406  {object}  errorResponse
// @Router       /user/{id}/admin_privilege [patch]
func (h *UserHandler) GrantAdmin(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := h.service.GrantAdmin(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedUserResponse{UpdatedUserID: id})
}

// RevokeAdmin handles DELETE /user/:id/admin_privilege.
//
// @Summary      Revoke the admin role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  updatedUserResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      406  {object}  errorResponse
// @Router       /user/{id}/admin_privilege [delete]
func (h *UserHandler) RevokeAdmin(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := h.service.RevokeAdmin(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedUserResponse{UpdatedUserID: id})
}
