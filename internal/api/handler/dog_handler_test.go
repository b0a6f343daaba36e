package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
	"github.com/d1sgu1sed/DogCollars/internal/core/ports"
)

func TestDogHandler_Create(t *testing.T) {
	stub := &stubDogService{
		createFn: func(ctx context.Context, actor *domain.User, in ports.CreateDogInput) (*domain.Dog, error) {
			if in.Name != "Jack" || in.Gender != domain.GenderMale {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Location == nil || in.Location.Lat != 10 || in.Location.Lng != 20 {
				t.Fatalf("unexpected location: %+v", in.Location)
			}
			if in.IdempotencyKey != "req-1" {
				t.Fatalf("idempotency key not forwarded: %q", in.IdempotencyKey)
			}
			return &domain.Dog{ID: "d1", Name: in.Name, Gender: in.Gender, CreatedBy: actor.ID, IsActive: true, Location: in.Location}, nil
		},
	}
	handler := NewDogHandler(stub)

	body := strings.NewReader(`{"name":"Jack","gender":"male","latitude":10,"longitude":20}`)
	c, rec := newContext(http.MethodPost, "/dog", body, volunteer)
	c.Request().Header.Set("Idempotency-Key", "req-1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusCreated)

	var dog domain.Dog
	if err := json.Unmarshal(rec.Body.Bytes(), &dog); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if dog.ID != "d1" || dog.CreatedBy != volunteer.ID {
		t.Fatalf("unexpected dog: %+v", dog)
	}
}

func TestDogHandler_Create_WithoutLocation(t *testing.T) {
	stub := &stubDogService{
		createFn: func(ctx context.Context, actor *domain.User, in ports.CreateDogInput) (*domain.Dog, error) {
			if in.Location != nil {
				t.Fatalf("expected no location, got %+v", in.Location)
			}
			return &domain.Dog{ID: "d1", Name: in.Name}, nil
		},
	}
	handler := NewDogHandler(stub)

	c, rec := newContext(http.MethodPost, "/dog", strings.NewReader(`{"name":"Bella","gender":"female"}`), volunteer)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusCreated)
}

func TestDogHandler_Create_Validation(t *testing.T) {
	handler := NewDogHandler(&stubDogService{})

	cases := map[string]string{
		"name with digits": `{"name":"Rex2","gender":"male"}`,
		"unknown gender":   `{"name":"Rex","gender":"other"}`,
		"half location":    `{"name":"Rex","gender":"male","latitude":10}`,
		"bad latitude":     `{"name":"Rex","gender":"male","latitude":100,"longitude":10}`,
	}
	for name, payload := range cases {
		c, _ := newContext(http.MethodPost, "/dog", strings.NewReader(payload), volunteer)
		err := handler.Create(c)
		if err == nil {
			t.Errorf("%s: expected an error", name)
			continue
		}
		assertHTTPError(t, err, http.StatusUnprocessableEntity)
	}
}

func TestDogHandler_Create_Conflict(t *testing.T) {
	stub := &stubDogService{
		createFn: func(ctx context.Context, actor *domain.User, in ports.CreateDogInput) (*domain.Dog, error) {
			return nil, domain.ErrDogExists
		},
	}
	handler := NewDogHandler(stub)

	c, _ := newContext(http.MethodPost, "/dog", strings.NewReader(`{"name":"Jack","gender":"male"}`), volunteer)
	if err := handler.Create(c); !errors.Is(err, domain.ErrDogExists) {
		t.Fatalf("expected ErrDogExists, got %v", err)
	}
}

func TestDogHandler_GetByName_RequiresName(t *testing.T) {
	handler := NewDogHandler(&stubDogService{})

	c, _ := newContext(http.MethodGet, "/dog", nil, volunteer)
	assertHTTPError(t, handler.GetByName(c), http.StatusUnprocessableEntity)
}

func TestDogHandler_GetByName(t *testing.T) {
	stub := &stubDogService{
		getByNameFn: func(ctx context.Context, name string) (*domain.Dog, error) {
			if name != "Jack" {
				t.Fatalf("unexpected name %q", name)
			}
			return &domain.Dog{ID: "d1", Name: name}, nil
		},
	}
	handler := NewDogHandler(stub)

	c, rec := newContext(http.MethodGet, "/dog?name=Jack", nil, volunteer)
	if err := handler.GetByName(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)
}

func TestDogHandler_GetLocation_UnsetIsZero(t *testing.T) {
	stub := &stubDogService{
		getFn: func(ctx context.Context, id string) (*domain.Dog, error) {
			return &domain.Dog{ID: id, Name: "Jack"}, nil
		},
	}
	handler := NewDogHandler(stub)

	c, rec := newContext(http.MethodGet, "/dog/d1/location", nil, volunteer)
	c.SetParamNames("id")
	c.SetParamValues("d1")

	if err := handler.GetLocation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp dogLocationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.DogID != "d1" || resp.Latitude != 0 || resp.Longitude != 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDogHandler_Delete_EmptyCancelledList(t *testing.T) {
	stub := &stubDogService{
		deleteFn: func(ctx context.Context, actor *domain.User, id string) (*ports.DeleteDogResult, error) {
			return &ports.DeleteDogResult{DogID: id}, nil
		},
	}
	handler := NewDogHandler(stub)

	c, rec := newContext(http.MethodDelete, "/dog/d1", nil, volunteer)
	c.SetParamNames("id")
	c.SetParamValues("d1")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"cancelled_task_ids":[]`) {
		t.Fatalf("expected an empty list, got %s", rec.Body.String())
	}
}

func TestDogHandler_Delete_Forbidden(t *testing.T) {
	stub := &stubDogService{
		deleteFn: func(ctx context.Context, actor *domain.User, id string) (*ports.DeleteDogResult, error) {
			return nil, domain.ErrForbidden
		},
	}
	handler := NewDogHandler(stub)

	c, _ := newContext(http.MethodDelete, "/dog/d1", nil, volunteer)
	if err := handler.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
