package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/domain"
	"github.com/sethvargo/go-retry"
)

const (
	// SessionHeader carries the session identifier on every request.
	SessionHeader = "X-Session-ID"

	tasksPath       = "/api/tasks/"
	maxResponseSize = 4 << 20
)

// SessionSource supplies the session identifier attached to requests.
type SessionSource interface {
	ID() (string, error)
}

// RetryPolicy bounds how often a request is attempted and how long to wait
// between attempts. Only transport failures and 5xx responses are retried.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy returns two attempts, 500ms apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2, Delay: 500 * time.Millisecond}
}

func (p RetryPolicy) backoff() retry.Backoff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Delay
	if delay <= 0 {
		delay = time.Nanosecond
	}
	return retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(delay))
}

// Client talks to the task service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    SessionSource
	retry      RetryPolicy
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithRetryPolicy sets the retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithLogger sets the logger used for failed attempts.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the service at baseURL.
func New(baseURL string, session SessionSource, opts ...Option) (*Client, error) {
	if session == nil {
		return nil, errors.New("session source cannot be nil")
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		session:    session,
		retry:      DefaultRetryPolicy(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTasks returns the session's tasks, newest first.
func (c *Client) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := c.do(ctx, http.MethodGet, tasksPath, nil, &tasks); err != nil {
		return nil, c.fail("list_tasks", MsgFetchFailed, err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task with the given title.
func (c *Client) CreateTask(ctx context.Context, title string) (*domain.Task, error) {
	body := struct {
		Title string `json:"title"`
	}{Title: title}

	var task domain.Task
	if err := c.do(ctx, http.MethodPost, tasksPath, body, &task); err != nil {
		return nil, c.fail("create_task", MsgAddFailed, err)
	}
	return &task, nil
}

// UpdateTaskStatus sets the completed flag of a task.
func (c *Client) UpdateTaskStatus(ctx context.Context, id uuid.UUID, completed bool) (*domain.Task, error) {
	body := struct {
		Completed bool `json:"completed"`
	}{Completed: completed}

	var task domain.Task
	if err := c.do(ctx, http.MethodPut, tasksPath+id.String(), body, &task); err != nil {
		return nil, c.fail("update_task_status", MsgUpdateFailed, err)
	}
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, tasksPath+id.String(), nil, nil); err != nil {
		return c.fail("delete_task", MsgDeleteFailed, err)
	}
	return nil
}

func (c *Client) fail(op, message string, err error) error {
	c.logger.Warn("task service request failed",
		slog.String("operation", op),
		slog.Int("status_code", StatusCode(err)),
		slog.String("error", err.Error()))
	return &Error{Op: op, Message: message, Err: err}
}

// do sends the request under the retry policy and decodes a successful
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	sessionID, err := c.session.ID()
	if err != nil {
		return fmt.Errorf("failed to obtain session id: %w", err)
	}

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	target := c.baseURL.JoinPath(path)

	attempt := 0
	return retry.Do(ctx, c.retry.backoff(), func(ctx context.Context) error {
		attempt++
		err := c.send(ctx, method, target.String(), sessionID, payload, out)
		if err == nil {
			return nil
		}

		if !isRetryable(err) || ctx.Err() != nil {
			return err
		}

		c.logger.Debug("retryable request failure",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		return retry.RetryableError(err)
	})
}

func (c *Client) send(ctx context.Context, method, target, sessionID string, payload []byte, out any) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(SessionHeader, sessionID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errBody struct {
			Error   string `json:"error"`
			TraceID string `json:"trace_id"`
		}
		if json.Unmarshal(data, &errBody) == nil {
			statusErr.Message = errBody.Error
			statusErr.TraceID = errBody.TraceID
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// isRetryable reports whether err is a transport failure or a 5xx response.
func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
