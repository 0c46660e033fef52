// Package tasklist reconciles a local, insertion-ordered task collection
// with the backend's authoritative responses.
//
// Every mutating call either fully succeeds, patching the collection once
// with the server's record, or fully fails and leaves the collection
// untouched. The zero rule everywhere: the server's response wins.
package tasklist

import (
	"context"

	"github.com/ChequeMan/FRONTTODOList/internal/service"
)

// MinSearchQuery is the threshold below which collaborator search returns
// empty without contacting the backend.
const MinSearchQuery = 2

// Synchronizer keeps the local task collection consistent with the backend.
// Not safe for concurrent use; callers issue one operation at a time.
type Synchronizer struct {
	svc        service.Service
	collection *Collection
	loading    bool
	lastErr    string
}

// New creates a Synchronizer with an empty collection.
func New(svc service.Service) *Synchronizer {
	return &Synchronizer{svc: svc, collection: NewCollection()}
}

// Tasks returns the local collection in insertion order.
func (s *Synchronizer) Tasks() []service.Task {
	return s.collection.Tasks()
}

// Len returns the size of the local collection.
func (s *Synchronizer) Len() int {
	return s.collection.Len()
}

// TaskAt returns the task at 1-based position n.
func (s *Synchronizer) TaskAt(n int) (service.Task, bool) {
	return s.collection.At(n - 1)
}

// Get returns the task with the given ID from the local collection.
func (s *Synchronizer) Get(id string) (service.Task, bool) {
	return s.collection.Get(id)
}

// Loading reports whether a Load call is in flight.
func (s *Synchronizer) Loading() bool {
	return s.loading
}

// Err returns the message of the most recent failing call, or "".
func (s *Synchronizer) Err() string {
	return s.lastErr
}

// Load replaces the entire collection with the backend's current list. On
// failure the collection is left as it was.
func (s *Synchronizer) Load(ctx context.Context) error {
	s.loading = true
	s.lastErr = ""
	defer func() { s.loading = false }()

	tasks, err := s.svc.Tasks(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.collection.Replace(tasks)
	return nil
}

// Create posts a new task and appends the server's record at the end of the
// collection. Text validation is the caller's responsibility; whatever is
// passed goes to the backend as-is.
func (s *Synchronizer) Create(ctx context.Context, text string) (service.Task, error) {
	task, err := s.svc.CreateTask(ctx, text)
	if err != nil {
		return service.Task{}, s.fail(err)
	}
	s.collection.Append(task)
	return task, nil
}

// Update sends a partial patch and replaces the matching element in place
// with the server's full record. A task unknown locally is patched on the
// server but is a collection no-op.
func (s *Synchronizer) Update(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	task, err := s.svc.UpdateTask(ctx, id, patch)
	if err != nil {
		return service.Task{}, s.fail(err)
	}
	s.collection.Set(task)
	return task, nil
}

// Delete removes the task on the backend, then locally.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		return s.fail(err)
	}
	s.collection.Remove(id)
	return nil
}

// Share adds a collaborator by email and replaces the task in place with
// the server's updated record.
func (s *Synchronizer) Share(ctx context.Context, id, email string) (service.Task, error) {
	task, err := s.svc.ShareTask(ctx, id, email)
	if err != nil {
		return service.Task{}, s.fail(err)
	}
	s.collection.Set(task)
	return task, nil
}

// RemoveCollaborator is symmetric to Share.
func (s *Synchronizer) RemoveCollaborator(ctx context.Context, taskID, userID string) (service.Task, error) {
	task, err := s.svc.RemoveCollaborator(ctx, taskID, userID)
	if err != nil {
		return service.Task{}, s.fail(err)
	}
	s.collection.Set(task)
	return task, nil
}

// SearchUsers looks up collaborator candidates. Queries shorter than
// MinSearchQuery characters short-circuit to an empty result without a
// network call.
func (s *Synchronizer) SearchUsers(ctx context.Context, query string) ([]service.User, error) {
	if len([]rune(query)) < MinSearchQuery {
		return nil, nil
	}
	users, err := s.svc.SearchUsers(ctx, query)
	if err != nil {
		return nil, s.fail(err)
	}
	return users, nil
}

func (s *Synchronizer) fail(err error) error {
	s.lastErr = err.Error()
	return err
}
