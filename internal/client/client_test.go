package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-manager/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "session_1700000000000_abcdefghi"

type staticSession string

func (s staticSession) ID() (string, error) { return string(s), nil }

type failingSession struct{}

func (failingSession) ID() (string, error) { return "", errors.New("disk full") }

var fastRetry = RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithRetryPolicy(fastRetry)}, opts...)
	c, err := New(srv.URL, staticSession(testSession), opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNew(t *testing.T) {
	_, err := New("http://localhost:8080", nil)
	assert.Error(t, err)

	_, err = New("localhost", staticSession(testSession))
	assert.Error(t, err)

	c, err := New("http://localhost:8080/", staticSession(testSession), WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.Equal(t, DefaultRetryPolicy(), c.retry)
}

func TestWithTimeout_DoesNotModifySharedClient(t *testing.T) {
	shared := &http.Client{Timeout: 3 * time.Second}

	c, err := New("http://localhost:8080", staticSession(testSession),
		WithHTTPClient(shared), WithTimeout(time.Second))
	require.NoError(t, err)

	assert.Equal(t, time.Second, c.httpClient.Timeout)
	assert.Equal(t, 3*time.Second, shared.Timeout)
	assert.NotSame(t, shared, c.httpClient)
}

func TestListTasks(t *testing.T) {
	task := domain.Task{ID: uuid.New(), Title: "Buy milk", SessionID: testSession}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tasks/", r.URL.Path)
		assert.Equal(t, testSession, r.Header.Get(SessionHeader))
		writeJSON(t, w, http.StatusOK, []domain.Task{task})
	})

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, "Buy milk", tasks[0].Title)
}

func TestListTasks_EmptyBodyIsEmptySlice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, nil)
	})

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestCreateTask(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Buy milk", body["title"])

		writeJSON(t, w, http.StatusCreated, domain.Task{ID: uuid.New(), Title: body["title"]})
	})

	task, err := c.CreateTask(context.Background(), "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.Completed)
}

func TestUpdateTaskStatus(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tasks/"+id.String(), r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		completed, ok := body["completed"]
		assert.True(t, ok, "completed must always be sent")

		writeJSON(t, w, http.StatusOK, domain.Task{ID: id, Completed: completed})
	})

	task, err := c.UpdateTaskStatus(context.Background(), id, false)
	require.NoError(t, err)
	assert.Equal(t, id, task.ID)
	assert.False(t, task.Completed)
}

func TestDeleteTask(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/tasks/"+id.String(), r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "Task deleted"})
	})

	require.NoError(t, c.DeleteTask(context.Background(), id))
}

func TestRetry_ServerErrorsAreRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(t, w, http.StatusServiceUnavailable, map[string]string{"error": "busy"})
			return
		}
		writeJSON(t, w, http.StatusOK, []domain.Task{})
	})

	_, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"error": "An unexpected error occurred", "trace_id": "abc"})
	}, WithRetryPolicy(RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond}))

	_, err := c.ListTasks(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, MsgFetchFailed, err.Error())

	var clientErr *Error
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, "list_tasks", clientErr.Op)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "abc", statusErr.TraceID)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestRetry_ClientErrorsAreNotRetried(t *testing.T) {
	tests := []struct {
		name   string
		status int
		call   func(c *Client) error
		msg    string
	}{
		{
			name:   "create validation",
			status: http.StatusBadRequest,
			call: func(c *Client) error {
				_, err := c.CreateTask(context.Background(), "   ")
				return err
			},
			msg: MsgAddFailed,
		},
		{
			name:   "update forbidden",
			status: http.StatusForbidden,
			call: func(c *Client) error {
				_, err := c.UpdateTaskStatus(context.Background(), uuid.New(), true)
				return err
			},
			msg: MsgUpdateFailed,
		},
		{
			name:   "delete not found",
			status: http.StatusNotFound,
			call: func(c *Client) error {
				return c.DeleteTask(context.Background(), uuid.New())
			},
			msg: MsgDeleteFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeJSON(t, w, tt.status, map[string]string{"error": "nope"})
			})

			err := tt.call(c)
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())
			assert.Equal(t, int32(1), calls.Load())
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestRetry_TransportErrorsAreRetried(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c, err := New(baseURL, staticSession(testSession),
		WithRetryPolicy(RetryPolicy{MaxAttempts: 2, Delay: time.Millisecond}))
	require.NoError(t, err)

	_, err = c.CreateTask(context.Background(), "Buy milk")
	require.Error(t, err)
	assert.Equal(t, MsgAddFailed, err.Error())
	assert.Equal(t, 0, StatusCode(err))
	assert.True(t, isRetryable(errors.Unwrap(err)))
}

func TestSessionFailureIsReported(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, failingSession{})
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgFetchFailed, err.Error())
	assert.Zero(t, calls.Load())
}

func TestCanceledContextStopsRetrying(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, WithRetryPolicy(RetryPolicy{MaxAttempts: 5, Delay: time.Hour}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.ListTasks(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryPolicyBackoff(t *testing.T) {
	b := RetryPolicy{MaxAttempts: 0, Delay: 0}.backoff()
	_, stop := b.Next()
	assert.True(t, stop, "a policy below one attempt still makes exactly one")

	b = RetryPolicy{MaxAttempts: 3, Delay: time.Second}.backoff()
	for i := 0; i < 2; i++ {
		d, stop := b.Next()
		assert.False(t, stop)
		assert.Equal(t, time.Second, d)
	}
	_, stop = b.Next()
	assert.True(t, stop)
}
