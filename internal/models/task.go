package models

import "time"

// Task represents a to-do item owned by a single user
type Task struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"-"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskPatch carries the optional fields of a task update.
// Nil fields are left unchanged. Description is applied only when
// DescriptionSet is true, so a nil Description with DescriptionSet clears it.
type TaskPatch struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Completed      *bool
}

// Empty reports whether the patch changes nothing
func (p TaskPatch) Empty() bool {
	return p.Title == nil && !p.DescriptionSet && p.Completed == nil
}
