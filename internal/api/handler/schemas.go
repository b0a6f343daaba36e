package handler

import "github.com/d1sgu1sed/DogCollars/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,letters,max=64"`
	Surname  string `json:"surname"  validate:"required,letters,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// loginRequest accepts both a JSON body and an OAuth2 password form.
// Username carries the account email.
type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- Users ---

type updateUserRequest struct {
	Name    *string `json:"name"    validate:"omitempty,letters,max=64"`
	Surname *string `json:"surname" validate:"omitempty,letters,max=64"`
	Email   *string `json:"email"   validate:"omitempty,email"`
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

func (r locationRequest) coordinates() domain.Coordinates {
	return domain.Coordinates{Lat: *r.Latitude, Lng: *r.Longitude}
}

type updatedUserResponse struct {
	UpdatedUserID string `json:"updated_user_id"`
}

type deletedUserResponse struct {
	DeletedUserID string `json:"deleted_user_id"`
}

// --- Dogs ---

type createDogRequest struct {
	Name      string   `json:"name"      validate:"required,letters,max=64"`
	Gender    string   `json:"gender"    validate:"required,oneof=male female"`
	Latitude  *float64 `json:"latitude"  validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// halfLocation reports whether only one of latitude and longitude was sent.
func (r createDogRequest) halfLocation() bool {
	return (r.Latitude == nil) != (r.Longitude == nil)
}

func (r createDogRequest) location() *domain.Coordinates {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *r.Latitude, Lng: *r.Longitude}
}

type updateDogRequest struct {
	Name   *string `json:"name"   validate:"omitempty,letters,max=64"`
	Gender *string `json:"gender" validate:"omitempty,oneof=male female"`
}

type updatedDogResponse struct {
	UpdatedDogID string `json:"updated_dog_id"`
}

type deletedDogResponse struct {
	DeletedDogID     string   `json:"deleted_dog_id"`
	CancelledTaskIDs []string `json:"cancelled_task_ids"`
}

// dogLocationResponse reports 0/0 for a dog whose location was never set.
type dogLocationResponse struct {
	DogID     string  `json:"dog_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func newDogLocationResponse(d *domain.Dog) dogLocationResponse {
	resp := dogLocationResponse{DogID: d.ID, Name: d.Name}
	if d.Location != nil {
		resp.Latitude = d.Location.Lat
		resp.Longitude = d.Location.Lng
	}
	return resp
}

// --- Tasks ---

type createTaskRequest struct {
	Description string `json:"description" validate:"required,max=1000"`
	CreatedFor  string `json:"created_for" validate:"required"`
}

// updateTaskRequest lists is_active and closed_by only to reject them.
type updateTaskRequest struct {
	Description *string `json:"description" validate:"omitempty,min=1,max=1000"`
	CreatedFor  *string `json:"created_for" validate:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active"`
	ClosedBy    *string `json:"closed_by"`
}

type updatedTaskResponse struct {
	UpdatedTaskID string `json:"updated_task_id"`
}

type closedTaskResponse struct {
	CloseTaskID string `json:"close_task_id"`
}

type deletedTaskResponse struct {
	DeletedTaskID string `json:"deleted_task_id"`
}
