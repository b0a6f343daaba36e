package domain

import (
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")
var ErrDogNotFound = errors.New("dog not found")
var ErrTaskNotFound = errors.New("task not found")

var ErrUserExists = errors.New("user already exists")
var ErrDogExists = errors.New("dog already exists")

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid role")
var ErrEmptyPatch = errors.New("at least one field must be provided")
var ErrSelfPrivilege = errors.New("cannot manage own privileges")

// ErrForbidden is the base of every permission denial.
var ErrForbidden = errors.New("access forbidden")

// ErrSuperAdminProtected is returned for any attempt to modify a superadmin
// account. It does not wrap ErrForbidden.
var ErrSuperAdminProtected = errors.New("superadmin cannot be modified via API")

var ErrOutOfRange = fmt.Errorf("%w: volunteer is too far from the dog", ErrForbidden)
var ErrLocationUnknown = fmt.Errorf("%w: volunteer or dog location is unknown", ErrForbidden)
