// Package client mirrors the browser runtime's data layer: a typed API
// client plus a session cache that refetches the whole collection after
// every successful mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskpad/internal/forms"
	"taskpad/internal/model"
)

// apiTimeout bounds every round-trip.
const apiTimeout = 10 * time.Second

// API is the set of task operations the session depends on.
type API interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	CreateTask(ctx context.Context, form forms.CreateTaskForm) (*model.Task, error)
	UpdateTask(ctx context.Context, form forms.EditTaskForm) (*model.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) (*model.Task, error)
}

// APIError carries the status and message of a failed call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Client implements API over HTTP.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New creates a client for the given server. token is attached as a
// bearer credential; it may be empty for read-only use.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{},
	}
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.call(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := c.call(ctx, http.MethodGet, "/api/tasks/"+id, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, form forms.CreateTaskForm) (*model.Task, error) {
	var task model.Task
	if err := c.call(ctx, http.MethodPost, "/api/tasks", form, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, form forms.EditTaskForm) (*model.Task, error) {
	var task model.Task
	if err := c.call(ctx, http.MethodPut, "/api/tasks", form, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) (*model.Task, error) {
	var task model.Task
	body := map[string]bool{"completed": completed}
	if err := c.call(ctx, http.MethodPatch, "/api/tasks/"+id, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := c.call(ctx, http.MethodDelete, "/api/tasks/"+id, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var fail struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&fail); err != nil || fail.Error == "" {
			fail.Error = http.StatusText(res.StatusCode)
		}
		return &APIError{Status: res.StatusCode, Message: fail.Error}
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
