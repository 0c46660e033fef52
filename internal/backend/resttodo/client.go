// Package resttodo implements service.Service against the shared to-do REST
// backend.
package resttodo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/uuid"

	"github.com/ChequeMan/FRONTTODOList/internal/credentials"
	"github.com/ChequeMan/FRONTTODOList/internal/service"
)

// APITimeout is the timeout for API calls.
const APITimeout = 10 * time.Second

// APIError is an HTTP-level failure: a response arrived with a non-success
// status. Message is taken from the response body when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client implements service.Service over HTTP with bearer-token auth.
// Every outbound request goes through do, the single choke point for
// headers, serialization, and error classification.
type Client struct {
	baseURL string
	http    *http.Client
	creds   *credentials.Store
	log     *log.Logger
}

// New creates a client for the API at baseURL. The credential store supplies
// the bearer token; requests go out unauthenticated while the store is empty.
func New(baseURL string, creds *credentials.Store, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		creds:   creds,
		log:     logger,
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, creds *credentials.Store, logger *log.Logger, httpClient *http.Client) *Client {
	c := New(baseURL, creds, logger)
	c.http = httpClient
	return c
}

// wire types

type userJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type taskJSON struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Completed     bool       `json:"completed"`
	Owner         userJSON   `json:"owner"`
	Collaborators []userJSON `json:"collaborators"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

type todoEnvelope struct {
	Todo taskJSON `json:"todo"`
}

func (u userJSON) toService() service.User {
	return service.User{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (t taskJSON) toService() service.Task {
	task := service.Task{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Owner:     t.Owner.toService(),
	}
	for _, c := range t.Collaborators {
		task.Collaborators = append(task.Collaborators, c.toService())
	}
	return task
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, email, password string) (service.Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return service.Credentials{}, err
	}
	return service.Credentials{Token: resp.Token, User: resp.User.toService()}, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, name, email, password string) (service.Credentials, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return service.Credentials{}, err
	}
	return service.Credentials{Token: resp.Token, User: resp.User.toService()}, nil
}

// Profile implements service.Service.
func (c *Client) Profile(ctx context.Context) (service.User, error) {
	var resp userJSON
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return service.User{}, err
	}
	return resp.toService(), nil
}

// Tasks implements service.Service.
func (c *Client) Tasks(ctx context.Context) ([]service.Task, error) {
	var resp []taskJSON
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &resp); err != nil {
		return nil, err
	}
	tasks := make([]service.Task, 0, len(resp))
	for _, t := range resp {
		tasks = append(tasks, t.toService())
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, text string) (service.Task, error) {
	body := map[string]string{"text": text}
	var resp taskJSON
	if err := c.do(ctx, http.MethodPost, "/todos", body, &resp); err != nil {
		return service.Task{}, err
	}
	return resp.toService(), nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	var resp taskJSON
	if err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), patch, &resp); err != nil {
		return service.Task{}, err
	}
	return resp.toService(), nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

// ShareTask implements service.Service.
func (c *Client) ShareTask(ctx context.Context, id, email string) (service.Task, error) {
	body := map[string]string{"email": email}
	var resp todoEnvelope
	if err := c.do(ctx, http.MethodPost, "/todos/"+url.PathEscape(id)+"/share", body, &resp); err != nil {
		return service.Task{}, err
	}
	return resp.Todo.toService(), nil
}

// RemoveCollaborator implements service.Service.
func (c *Client) RemoveCollaborator(ctx context.Context, taskID, userID string) (service.Task, error) {
	path := "/todos/" + url.PathEscape(taskID) + "/collaborators/" + url.PathEscape(userID)
	var resp todoEnvelope
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return service.Task{}, err
	}
	return resp.Todo.toService(), nil
}

// SearchUsers implements service.Service.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]service.User, error) {
	var resp []userJSON
	if err := c.do(ctx, http.MethodGet, "/users/search?q="+url.QueryEscape(query), nil, &resp); err != nil {
		return nil, err
	}
	users := make([]service.User, 0, len(resp))
	for _, u := range resp {
		users = append(users, u.toService())
	}
	return users, nil
}

// do issues one request. It always sends Content-Type: application/json,
// attaches Authorization: Bearer when a credential is stored, and decodes
// the response body into out (skipped when out is nil or the body is empty).
// Transport failures and non-2xx responses come back on the same error
// channel.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if tok, err := c.creds.Load(); err == nil && tok != nil && tok.AccessToken != "" {
		tok.SetAuthHeader(req)
	}

	requestID := uuid.Must(uuid.NewV4()).String()
	req.Header.Set("X-Request-ID", requestID)
	c.log.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("request timed out")
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.log.Debug("api response", "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts a human-readable message from an error response
// body, falling back to a generic one.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return "request failed"
}
