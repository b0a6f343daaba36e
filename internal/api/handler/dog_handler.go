package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/d1sgu1sed/DogCollars/internal/api/metrics"
	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

// DogHandler handles HTTP requests for dog operations.
type DogHandler struct {
	service ports.DogService
}

func NewDogHandler(service ports.DogService) *DogHandler {
	return &DogHandler{service: service}
}

// Create handles POST /dog.
//
// @Summary      Register a dog
// @Tags         dogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string            false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createDogRequest  true   "Dog details"
// @Success      201              {object}  domain.Dog
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /dog [post]
func (h *DogHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createDogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.halfLocation() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "latitude and longitude must be sent together")
	}

	dog, err := h.service.CreateDog(c.Request().Context(), actor, ports.CreateDogInput{
		Name:           req.Name,
		Gender:         domain.Gender(req.Gender),
		Location:       req.location(),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDogExists) {
			metrics.ConflictsTotal.WithLabelValues("dog").Inc()
		}
		return err
	}

	metrics.DogsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, dog)
}

// Get handles GET /dog/:id.
//
// @Summary      Get an active dog
// @Tags         dogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Dog ID"
// @Success      200  {object}  domain.Dog
// @Failure      404  {object}  errorResponse
// @Router       /dog/{id} [get]
func (h *DogHandler) Get(c echo.Context) error {
	dog, err := h.service.GetDog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dog)
}

// GetByName handles GET /dog?name=.
//
// @Summary      Find an active dog by name
// @Tags         dogs
// @Produce      json
// @Security     BearerAuth
// @Param        name  query     string  true  "Exact dog name"
// @Success      200   {object}  domain.Dog
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /dog [get]
func (h *DogHandler) GetByName(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}

	dog, err := h.service.GetDogByName(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dog)
}

// Update handles PATCH /dog/:id.
//
// @Summary      Update a dog
// @Tags         dogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Dog ID"
// @Param        body  body      updateDogRequest  true  "Fields to change"
// @Success      200   {object}  updatedDogResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /dog/{id} [patch]
func (h *DogHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateDogRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.UpdateDogInput{Name: req.Name}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		in.Gender = &g
	}

	id, err := h.service.UpdateDog(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		if errors.Is(err, domain.ErrDogExists) {
			metrics.ConflictsTotal.WithLabelValues("dog").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, updatedDogResponse{UpdatedDogID: id})
}

// Delete handles DELETE /dog/:id. The dog is deactivated together with all
// of its active tasks.
//
// @Summary      Deactivate a dog
// @Tags         dogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Dog ID"
// @Success      200  {object}  deletedDogResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /dog/{id} [delete]
func (h *DogHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	res, err := h.service.DeleteDog(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.DogsDeactivatedTotal.Inc()
	metrics.TasksCancelledTotal.WithLabelValues("dog_deleted").Add(float64(len(res.CancelledTaskIDs)))

	cancelled := res.CancelledTaskIDs
	if cancelled == nil {
		cancelled = []string{}
	}
	return c.JSON(http.StatusOK, deletedDogResponse{DeletedDogID: res.DogID, CancelledTaskIDs: cancelled})
}

// GetLocation handles GET /dog/:id/location.
//
// @Summary      Get a dog's location
// @Tags         dogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Dog ID"
// @Success      200  {object}  dogLocationResponse
// @Failure      404  {object}  errorResponse
// @Router       /dog/{id}/location [get]
func (h *DogHandler) GetLocation(c echo.Context) error {
	dog, err := h.service.GetDog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDogLocationResponse(dog))
}

// UpdateLocation handles PATCH /dog/:id/location.
//
// @Summary      Set a dog's location
// @Tags         dogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Dog ID"
// @Param        body  body      locationRequest  true  "Coordinates in degrees"
// @Success      200   {object}  dogLocationResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /dog/{id}/location [patch]
func (h *DogHandler) UpdateLocation(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req locationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	dog, err := h.service.UpdateDogLocation(c.Request().Context(), actor, c.Param("id"), req.coordinates())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDogLocationResponse(dog))
}
