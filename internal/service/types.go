// Package service defines the backend-agnostic interface for the shared
// to-do API.
package service

// User identifies a registered account. Users are referenced by tasks as
// owner and collaborators but never owned by them.
type User struct {
	ID    string
	Name  string
	Email string
}

// Task is a single to-do item. Owner is immutable after creation and is
// never part of Collaborators.
type Task struct {
	ID            string
	Text          string
	Completed     bool
	Owner         User
	Collaborators []User
}

// HasCollaborator reports whether the user with the given ID collaborates
// on the task.
func (t Task) HasCollaborator(userID string) bool {
	for _, c := range t.Collaborators {
		if c.ID == userID {
			return true
		}
	}
	return false
}

// TaskPatch is a partial update. Nil fields are left untouched by the
// backend.
type TaskPatch struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Credentials is the result of a successful login or registration.
type Credentials struct {
	Token string
	User  User
}
