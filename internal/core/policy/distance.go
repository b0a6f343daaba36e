// Package policy holds the pure authorization and geofencing rules. Nothing
// here touches storage; callers resolve the entities first.
package policy

import (
	"math"

	"github.com/d1sgu1sed/DogCollars/internal/core/domain"
)

const (
	nauticalMilesPerDegree  = 60
	statuteMilesPerNautical = 1.1515
	kmPerStatuteMile        = 1.609344
)

// DistanceKm returns the great-circle distance between a and b in
// kilometres, using the spherical law of cosines.
func DistanceKm(a, b domain.Coordinates) float64 {
	theta := a.Lng - b.Lng
	lat1, lat2 := radians(a.Lat), radians(b.Lat)

	cosDist := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(radians(theta))
	// Rounding can push identical points just past 1, where Acos is NaN.
	cosDist = math.Max(-1, math.Min(1, cosDist))

	return degrees(math.Acos(cosDist)) * nauticalMilesPerDegree * statuteMilesPerNautical * kmPerStatuteMile
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
