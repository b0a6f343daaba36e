package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/d1sgu1sed/DogCollars/internal/api/metrics"
	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

// TaskHandler handles HTTP requests for the task lifecycle.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /task.
//
// @Summary      Open a task for a dog
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTaskRequest  true   "Task details"
// @Success      201              {object}  domain.Task
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /task [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.CreateTask(c.Request().Context(), actor, ports.CreateTaskInput{
		Description:    req.Description,
		CreatedFor:     req.CreatedFor,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, task)
}

// Get handles GET /task/:id.
//
// @Summary      Get a task in any state
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  errorResponse
// @Router       /task/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.service.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Update handles PATCH /task/:id. Only active tasks can change, and the
// activity flag and closer are never patchable.
//
// @Summary      Update an active task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  updatedTaskResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /task/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.IsActive != nil || req.ClosedBy != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "is_active and closed_by cannot be changed; close or delete the task instead")
	}

	id, err := h.service.UpdateTask(c.Request().Context(), actor, c.Param("id"), ports.UpdateTaskInput{
		Description: req.Description,
		CreatedFor:  req.CreatedFor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updatedTaskResponse{UpdatedTaskID: id})
}

// Close handles POST /task/:id/close. Volunteers without the admin role
// must stand within 100 m of the dog.
//
// @Summary      Close a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  closedTaskResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /task/{id}/close [post]
func (h *TaskHandler) Close(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := h.service.CloseTask(c.Request().Context(), actor, c.Param("id"))
	metrics.TaskCloseAttemptsTotal.WithLabelValues(closeResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, closedTaskResponse{CloseTaskID: id})
}

func closeResult(err error) string {
	switch {
	case err == nil:
		return "closed"
	case errors.Is(err, domain.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, domain.ErrLocationUnknown):
		return "location_unknown"
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrDogNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Delete handles DELETE /task/:id. The task is cancelled, not removed.
//
// @Summary      Cancel a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  deletedTaskResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /task/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	id, err := h.service.CancelTask(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.TasksCancelledTotal.WithLabelValues("cancel").Inc()
	return c.JSON(http.StatusOK, deletedTaskResponse{DeletedTaskID: id})
}

// ListForDog handles GET /task/dog/:dog_id.
//
// @Summary      List a dog's active tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        dog_id  path      string  true  "Dog ID"
// @Success      200     {array}   domain.Task
// @Router       /task/dog/{dog_id} [get]
func (h *TaskHandler) ListForDog(c echo.Context) error {
	tasks, err := h.service.ListTasksForDog(c.Request().Context(), c.Param("dog_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(tasks))
}

// ListActive handles GET /task/active.
//
// @Summary      List all active tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Task
// @Router       /task/active [get]
func (h *TaskHandler) ListActive(c echo.Context) error {
	tasks, err := h.service.ListActiveTasks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(tasks))
}

// ListCompleted handles GET /task/completed. Without user_id it lists the
// tasks closed by the caller.
//
// @Summary      List tasks closed by a user
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query    string  false  "Closer user ID (defaults to the caller)"
// @Success      200      {array}  domain.Task
// @Router       /task/completed [get]
func (h *TaskHandler) ListCompleted(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	closedBy := c.QueryParam("user_id")
	if closedBy == "" {
		closedBy = actor.ID
	}

	tasks, err := h.service.ListCompletedTasks(c.Request().Context(), closedBy)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(tasks))
}

// nonNil renders an empty list as [] instead of null.
func nonNil(tasks []*domain.Task) []*domain.Task {
	if tasks == nil {
		return []*domain.Task{}
	}
	return tasks
}
