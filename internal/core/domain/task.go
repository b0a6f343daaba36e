package domain

import "time"

// Task is a unit of volunteer work for a dog. A task starts active and
// becomes inactive exactly once, either closed by a volunteer (ClosedBy
// set) or cancelled.
type Task struct {
	ID          string     `json:"task_id" bson:"_id"`
	Description string     `json:"description" bson:"description"`
	CreatedFor  string     `json:"created_for" bson:"created_for"`
	CreatedBy   string     `json:"created_by" bson:"created_by"`
	ClosedBy    string     `json:"closed_by,omitempty" bson:"closed_by,omitempty"`
	IsActive    bool       `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// Closed reports whether the task was completed by a volunteer.
func (t *Task) Closed() bool {
	return !t.IsActive && t.ClosedBy != ""
}
