// Package service defines the backend-agnostic interface for the shared
// to-do API.
package service

import "context"

// Service defines the operations the to-do backend exposes.
// All REST calls go through this interface; commands never build HTTP
// requests directly.
type Service interface {
	// Login authenticates with email and password and returns a bearer
	// token plus the account identity.
	Login(ctx context.Context, email, password string) (Credentials, error)

	// Register creates a new account. Same contract as Login.
	Register(ctx context.Context, name, email, password string) (Credentials, error)

	// Profile returns the identity behind the current credential.
	Profile(ctx context.Context) (User, error)

	// Tasks returns every task visible to the caller, in server order.
	Tasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the server's record.
	CreateTask(ctx context.Context, text string) (Task, error)

	// UpdateTask applies a partial patch and returns the full updated task.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task. Only the owner may delete.
	DeleteTask(ctx context.Context, id string) error

	// ShareTask adds the user behind email as a collaborator and returns
	// the updated task. Only the owner may share.
	ShareTask(ctx context.Context, id, email string) (Task, error)

	// RemoveCollaborator removes a collaborator by user ID and returns the
	// updated task.
	RemoveCollaborator(ctx context.Context, taskID, userID string) (Task, error)

	// SearchUsers returns accounts matching the query by name or email.
	SearchUsers(ctx context.Context, query string) ([]User, error)
}
