package domain

import "time"

// Gender of a dog.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Coordinates represents a geographic point in degrees.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Dog is a stray looked after by volunteers. Name is unique across all
// dogs, including deactivated ones.
type Dog struct {
	ID        string       `json:"dog_id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Gender    Gender       `json:"gender" bson:"gender"`
	CreatedBy string       `json:"created_by" bson:"created_by"`
	IsActive  bool         `json:"is_active" bson:"is_active"`
	Location  *Coordinates `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}
