package policy

import (
	"errors"
	"testing"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

var dogSpot = domain.Coordinates{Lat: 55.7558, Lng: 37.6173}

// offsetNorth returns a point roughly km kilometres north of dogSpot.
func offsetNorth(km float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: dogSpot.Lat + km/111.19, Lng: dogSpot.Lng}
}

func volunteer(loc *domain.Coordinates, roles ...domain.Role) *domain.User {
	return &domain.User{ID: "u-1", Roles: domain.NewRoles(roles...), Location: loc}
}

func TestMayClose_Geofence(t *testing.T) {
	dog := &domain.Dog{ID: "d-1", Location: &dogSpot}

	cases := []struct {
		name    string
		closer  *domain.User
		wantErr error
	}{
		{"same spot", volunteer(&dogSpot, domain.RoleUser), nil},
		{"50 metres away", volunteer(offsetNorth(0.05), domain.RoleUser), nil},
		{"99 metres away", volunteer(offsetNorth(0.099), domain.RoleUser), nil},
		{"150 metres away", volunteer(offsetNorth(0.15), domain.RoleUser), domain.ErrOutOfRange},
		{"5 km away", volunteer(offsetNorth(5), domain.RoleUser), domain.ErrOutOfRange},
		{"admin far away", volunteer(offsetNorth(5), domain.RoleUser, domain.RoleAdmin), nil},
		{"superadmin far away", volunteer(offsetNorth(5), domain.RoleSuperAdmin), nil},
		{"user without location", volunteer(nil, domain.RoleUser), domain.ErrLocationUnknown},
		{"admin without location", volunteer(nil, domain.RoleAdmin), nil},
	}

	for _, tc := range cases {
		err := MayClose(dog, tc.closer)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestMayClose_DogWithoutLocation(t *testing.T) {
	dog := &domain.Dog{ID: "d-1"}

	if err := MayClose(dog, volunteer(&dogSpot, domain.RoleUser)); !errors.Is(err, domain.ErrLocationUnknown) {
		t.Errorf("expected ErrLocationUnknown, got %v", err)
	}
	if err := MayClose(dog, volunteer(&dogSpot, domain.RoleAdmin)); err != nil {
		t.Errorf("admin should bypass geofence, got %v", err)
	}
}

func TestMayClose_DenialsAreForbidden(t *testing.T) {
	dog := &domain.Dog{ID: "d-1", Location: &dogSpot}

	err := MayClose(dog, volunteer(offsetNorth(1), domain.RoleUser))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("geofence denial must be an ErrForbidden, got %v", err)
	}
}
