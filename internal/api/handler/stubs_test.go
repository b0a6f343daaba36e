package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/d1sgu1sed/DogCollars/internal/api/middleware"
	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

var volunteer = &domain.User{ID: "vol-1", Name: "Anna", Roles: domain.NewRoles(domain.RoleUser)}

// newContext builds an echo context with the validator installed and actor
// set as the authenticated caller when non-nil.
func newContext(method, target string, body io.Reader, actor *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if actor != nil {
		c.Set(middleware.ActorKey, actor)
	}
	return c, rec
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTP error %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, rec.Code, rec.Body.String())
	}
}


// --- Auth ---

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) EnsureSuperAdmin(context.Context, string, string) error { return nil }

// --- Users ---

type stubUserService struct {
	ports.UserService
	updateFn   func(ctx context.Context, actor *domain.User, id string, in ports.UpdateUserInput) (string, error)
	locationFn func(ctx context.Context, actor *domain.User, loc domain.Coordinates) (*domain.User, error)
	grantFn    func(ctx context.Context, actor *domain.User, id string) (string, error)
}

func (s *stubUserService) UpdateUser(ctx context.Context, actor *domain.User, id string, in ports.UpdateUserInput) (string, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubUserService) UpdateLocation(ctx context.Context, actor *domain.User, loc domain.Coordinates) (*domain.User, error) {
	return s.locationFn(ctx, actor, loc)
}

func (s *stubUserService) GrantAdmin(ctx context.Context, actor *domain.User, id string) (string, error) {
	return s.grantFn(ctx, actor, id)
}

// --- Dogs ---

type stubDogService struct {
	ports.DogService
	createFn    func(ctx context.Context, actor *domain.User, in ports.CreateDogInput) (*domain.Dog, error)
	getFn       func(ctx context.Context, id string) (*domain.Dog, error)
	getByNameFn func(ctx context.Context, name string) (*domain.Dog, error)
	deleteFn    func(ctx context.Context, actor *domain.User, id string) (*ports.DeleteDogResult, error)
}

func (s *stubDogService) CreateDog(ctx context.Context, actor *domain.User, in ports.CreateDogInput) (*domain.Dog, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubDogService) GetDog(ctx context.Context, id string) (*domain.Dog, error) {
	return s.getFn(ctx, id)
}

func (s *stubDogService) GetDogByName(ctx context.Context, name string) (*domain.Dog, error) {
	return s.getByNameFn(ctx, name)
}

func (s *stubDogService) DeleteDog(ctx context.Context, actor *domain.User, id string) (*ports.DeleteDogResult, error) {
	return s.deleteFn(ctx, actor, id)
}

// --- Tasks ---

type stubTaskService struct {
	ports.TaskService
	updateFn    func(ctx context.Context, actor *domain.User, id string, in ports.UpdateTaskInput) (string, error)
	closeFn     func(ctx context.Context, actor *domain.User, id string) (string, error)
	completedFn func(ctx context.Context, closedBy string) ([]*domain.Task, error)
	activeFn    func(ctx context.Context) ([]*domain.Task, error)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, actor *domain.User, id string, in ports.UpdateTaskInput) (string, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubTaskService) CloseTask(ctx context.Context, actor *domain.User, id string) (string, error) {
	return s.closeFn(ctx, actor, id)
}

func (s *stubTaskService) ListCompletedTasks(ctx context.Context, closedBy string) ([]*domain.Task, error) {
	return s.completedFn(ctx, closedBy)
}

func (s *stubTaskService) ListActiveTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.activeFn(ctx)
}
