// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ChequeMan/FRONTTODOList/internal/backend/resttodo"
	"github.com/ChequeMan/FRONTTODOList/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It models the backend's authorization rules (owner-only share/delete,
// collaborators excluded from owners) closely enough to exercise the client.
type FakeService struct {
	mu        sync.RWMutex
	users     []service.User
	passwords map[string]string // email -> password
	tasks     []service.Task
	current   service.User // identity behind the session's credential
	nextID    int
	calls     map[string]int

	// Error injection for testing
	LoginErr              error
	RegisterErr           error
	ProfileErr            error
	TasksErr              error
	CreateTaskErr         error
	UpdateTaskErr         error
	DeleteTaskErr         error
	ShareTaskErr          error
	RemoveCollaboratorErr error
	SearchUsersErr        error
}

// NewFakeService creates a FakeService with one registered, logged-in user.
func NewFakeService() *FakeService {
	f := &FakeService{
		passwords: make(map[string]string),
		calls:     make(map[string]int),
	}
	f.AddUser("u1", "Alice", "alice@example.com", "hunter22")
	f.current = f.users[0]
	return f
}

// AddUser registers a user account.
func (f *FakeService) AddUser(id, name, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, service.User{ID: id, Name: name, Email: email})
	f.passwords[email] = password
}

// SetCurrentUser switches the identity the fake treats as the caller.
func (f *FakeService) SetCurrentUser(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			f.current = u
			return
		}
	}
}

// AddTask seeds a task owned by the user with ownerID.
func (f *FakeService) AddTask(id, text, ownerID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	owner := f.current
	for _, u := range f.users {
		if u.ID == ownerID {
			owner = u
		}
	}
	f.tasks = append(f.tasks, service.Task{ID: id, Text: text, Owner: owner})
	// Keep generated IDs ("tN") from colliding with seeded ones.
	f.nextID++
}

// TaskByID returns a seeded or created task by ID.
func (f *FakeService) TaskByID(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// CallCount returns how many times the named method reached the fake.
func (f *FakeService) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func apiError(status int, format string, args ...any) *resttodo.APIError {
	return &resttodo.APIError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (service.Credentials, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return service.Credentials{}, f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && f.passwords[email] == password {
			f.current = u
			return service.Credentials{Token: "token-" + u.ID, User: u}, nil
		}
	}
	return service.Credentials{}, apiError(http.StatusUnauthorized, "invalid credentials")
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, name, email, password string) (service.Credentials, error) {
	f.record("Register")
	if f.RegisterErr != nil {
		return service.Credentials{}, f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return service.Credentials{}, apiError(http.StatusBadRequest, "email already registered")
		}
	}
	f.nextID++
	user := service.User{ID: fmt.Sprintf("u%d", len(f.users)+1), Name: name, Email: email}
	f.users = append(f.users, user)
	f.passwords[email] = password
	f.current = user
	return service.Credentials{Token: "token-" + user.ID, User: user}, nil
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context) (service.User, error) {
	f.record("Profile")
	if f.ProfileErr != nil {
		return service.User{}, f.ProfileErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.ID == "" {
		return service.User{}, apiError(http.StatusUnauthorized, "invalid token")
	}
	return f.current, nil
}

// Tasks implements service.Service.
func (f *FakeService) Tasks(ctx context.Context) ([]service.Task, error) {
	f.record("Tasks")
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, text string) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task := service.Task{
		ID:    fmt.Sprintf("t%d", f.nextID),
		Text:  text,
		Owner: f.current,
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if t.Owner.ID != f.current.ID && !t.HasCollaborator(f.current.ID) {
			return service.Task{}, apiError(http.StatusForbidden, "no access to this task")
		}
		if patch.Text != nil {
			t.Text = *patch.Text
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		f.tasks[i] = t
		return t, nil
	}
	return service.Task{}, apiError(http.StatusNotFound, "task not found")
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if t.Owner.ID != f.current.ID {
			return apiError(http.StatusForbidden, "only the owner can delete this task")
		}
		f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
		return nil
	}
	return apiError(http.StatusNotFound, "task not found")
}

// ShareTask implements service.Service.
func (f *FakeService) ShareTask(ctx context.Context, id, email string) (service.Task, error) {
	f.record("ShareTask")
	if f.ShareTaskErr != nil {
		return service.Task{}, f.ShareTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if t.Owner.ID != f.current.ID {
			return service.Task{}, apiError(http.StatusForbidden, "only the owner can share this task")
		}
		var collaborator *service.User
		for _, u := range f.users {
			if u.Email == email {
				collaborator = &u
				break
			}
		}
		if collaborator == nil {
			return service.Task{}, apiError(http.StatusNotFound, "user not found: %s", email)
		}
		if collaborator.ID == t.Owner.ID {
			return service.Task{}, apiError(http.StatusBadRequest, "cannot share a task with its owner")
		}
		if t.HasCollaborator(collaborator.ID) {
			return service.Task{}, apiError(http.StatusBadRequest, "already a collaborator: %s", email)
		}
		t.Collaborators = append(append([]service.User(nil), t.Collaborators...), *collaborator)
		f.tasks[i] = t
		return t, nil
	}
	return service.Task{}, apiError(http.StatusNotFound, "task not found")
}

// RemoveCollaborator implements service.Service.
func (f *FakeService) RemoveCollaborator(ctx context.Context, taskID, userID string) (service.Task, error) {
	f.record("RemoveCollaborator")
	if f.RemoveCollaboratorErr != nil {
		return service.Task{}, f.RemoveCollaboratorErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID != taskID {
			continue
		}
		if t.Owner.ID != f.current.ID {
			return service.Task{}, apiError(http.StatusForbidden, "only the owner can remove collaborators")
		}
		for j, c := range t.Collaborators {
			if c.ID == userID {
				t.Collaborators = append(append([]service.User(nil), t.Collaborators[:j]...), t.Collaborators[j+1:]...)
				f.tasks[i] = t
				return t, nil
			}
		}
		return service.Task{}, apiError(http.StatusNotFound, "collaborator not found")
	}
	return service.Task{}, apiError(http.StatusNotFound, "task not found")
}

// SearchUsers implements service.Service.
func (f *FakeService) SearchUsers(ctx context.Context, query string) ([]service.User, error) {
	f.record("SearchUsers")
	if f.SearchUsersErr != nil {
		return nil, f.SearchUsersErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	q := strings.ToLower(query)
	var result []service.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			result = append(result, u)
		}
	}
	return result, nil
}
