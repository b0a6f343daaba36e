package policy

import "github.com/d1sgu1sed/DogCollars/internal/core/domain"

// GeofenceRadiusKm is how close a non-privileged volunteer must be to a dog
// to close one of its tasks.
const GeofenceRadiusKm = 0.1

// MayClose reports whether closer may close a task created for dog.
// Admins and superadmins bypass the geofence. For everyone else a missing
// location on either side is a denial.
func MayClose(dog *domain.Dog, closer *domain.User) error {
	if closer.Roles.IsPrivileged() {
		return nil
	}
	if dog.Location == nil || closer.Location == nil {
		return domain.ErrLocationUnknown
	}
	if DistanceKm(*dog.Location, *closer.Location) > GeofenceRadiusKm {
		return domain.ErrOutOfRange
	}
	return nil
}
