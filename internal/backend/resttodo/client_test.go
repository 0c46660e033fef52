package resttodo_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/ChequeMan/FRONTTODOList/internal/backend/resttodo"
	"github.com/ChequeMan/FRONTTODOList/internal/credentials"
	"github.com/ChequeMan/FRONTTODOList/internal/logging"
	"github.com/ChequeMan/FRONTTODOList/internal/service"
)

func newClient(t *testing.T, handler http.Handler) (*resttodo.Client, *credentials.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store, err := credentials.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open credential store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	logger := logging.New(io.Discard, false)
	return resttodo.New(srv.URL, store, logger), store
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	client, store := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(t, w, http.StatusOK, []any{})
	}))

	// Unauthenticated: no Authorization header at all.
	if _, err := client.Tasks(context.Background()); err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if got.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type: got %q", got.Get("Content-Type"))
	}
	if _, ok := got["Authorization"]; ok {
		t.Errorf("unauthenticated request carried Authorization: %q", got.Get("Authorization"))
	}
	if got.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	// With a stored token the bearer header appears.
	if err := store.Save(&oauth2.Token{AccessToken: "abc123", TokenType: "Bearer"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := client.Tasks(context.Background()); err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if got.Get("Authorization") != "Bearer abc123" {
		t.Errorf("Authorization: got %q, want %q", got.Get("Authorization"), "Bearer abc123")
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	var seen []string
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("X-Request-ID"))
		writeJSON(t, w, http.StatusOK, []any{})
	}))

	for i := 0; i < 3; i++ {
		if _, err := client.Tasks(context.Background()); err != nil {
			t.Fatalf("Tasks: %v", err)
		}
	}
	unique := make(map[string]bool)
	for _, id := range seen {
		unique[id] = true
	}
	if len(unique) != 3 {
		t.Errorf("request IDs not unique: %v", seen)
	}
}

func TestLogin(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["email"] != "alice@example.com" || body["password"] != "hunter22" {
			t.Errorf("body: got %v", body)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"token": "jwt-token",
			"user":  map[string]string{"id": "u1", "name": "Alice", "email": "alice@example.com"},
		})
	}))

	creds, err := client.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if creds.Token != "jwt-token" {
		t.Errorf("token: got %q", creds.Token)
	}
	if creds.User.ID != "u1" || creds.User.Name != "Alice" {
		t.Errorf("user: got %+v", creds.User)
	}
}

func TestErrorMessageFromBody(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}))

	_, err := client.Login(context.Background(), "alice@example.com", "nope")
	var apiErr *resttodo.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Status: got %d", apiErr.Status)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("Message: got %q", apiErr.Message)
	}
}

func TestErrorMessageFallback(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	}))

	_, err := client.Tasks(context.Background())
	var apiErr *resttodo.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.Message != "request failed" {
		t.Errorf("Message: got %q, want generic fallback", apiErr.Message)
	}
}

func TestUpdateTaskSendsPartialPatch(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/todos/t1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		// Only the patched field goes over the wire.
		if string(raw) != `{"completed":true}` {
			t.Errorf("body: got %s", raw)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id": "t1", "text": "buy milk", "completed": true,
			"owner": map[string]string{"id": "u1", "name": "Alice", "email": "alice@example.com"},
		})
	}))

	done := true
	task, err := client.UpdateTask(context.Background(), "t1", service.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !task.Completed || task.Text != "buy milk" {
		t.Errorf("task: got %+v", task)
	}
}

func TestDeleteTaskHandlesEmptyBody(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/todos/t1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := client.DeleteTask(context.Background(), "t1"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
}

func TestShareTaskUnwrapsEnvelope(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/todos/t1/share" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"todo": map[string]any{
				"id": "t1", "text": "buy milk", "completed": false,
				"owner": map[string]string{"id": "u1", "name": "Alice", "email": "alice@example.com"},
				"collaborators": []map[string]string{
					{"id": "u2", "name": "Bob", "email": "bob@example.com"},
				},
			},
		})
	}))

	task, err := client.ShareTask(context.Background(), "t1", "bob@example.com")
	if err != nil {
		t.Fatalf("ShareTask: %v", err)
	}
	if !task.HasCollaborator("u2") {
		t.Errorf("task: got %+v", task)
	}
}

func TestRemoveCollaboratorUnwrapsEnvelope(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/todos/t1/collaborators/u2" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"todo": map[string]any{
				"id": "t1", "text": "buy milk", "completed": false,
				"owner": map[string]string{"id": "u1", "name": "Alice", "email": "alice@example.com"},
			},
		})
	}))

	task, err := client.RemoveCollaborator(context.Background(), "t1", "u2")
	if err != nil {
		t.Fatalf("RemoveCollaborator: %v", err)
	}
	if len(task.Collaborators) != 0 {
		t.Errorf("task: got %+v", task)
	}
}

func TestSearchUsersEscapesQuery(t *testing.T) {
	var gotQuery string
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		writeJSON(t, w, http.StatusOK, []map[string]string{
			{"id": "u2", "name": "Bob", "email": "bob@example.com"},
		})
	}))

	users, err := client.SearchUsers(context.Background(), "bob & co")
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if gotQuery != "bob & co" {
		t.Errorf("query: got %q", gotQuery)
	}
	if len(users) != 1 || users[0].Email != "bob@example.com" {
		t.Errorf("users: got %+v", users)
	}
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	store, err := credentials.Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open credential store: %v", err)
	}
	defer store.Close()
	client := resttodo.New("http://127.0.0.1:1", store, logging.New(io.Discard, false))

	_, err = client.Tasks(context.Background())
	if err == nil {
		t.Fatal("Tasks should fail against a closed port")
	}
	var apiErr *resttodo.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure should not be an APIError: %v", err)
	}
	if !strings.Contains(err.Error(), "request failed") {
		t.Errorf("error: got %q", err)
	}
}
