package session

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

const (
	idPrefix      = "session_"
	randomLength  = 9
	base36Charset = "0123456789abcdefghijklmnopqrstuvwxyz"

	// acceptBelow is the largest multiple of 36 that fits in a byte; larger
	// bytes are rejected so every character is equally likely.
	acceptBelow = 252

	sessionIDKey = "session_id"
)

// fileContents is the on-disk layout of the session file.
type fileContents struct {
	SessionID string    `toml:"session_id"`
	CreatedAt time.Time `toml:"created_at"`
}

// Manager hands out the session identifier stored at a file path. It is safe
// for concurrent use.
type Manager struct {
	mu     sync.Mutex
	path   string
	id     string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used when generating identifiers.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger used to report unreadable session files.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a Manager backed by the TOML file at path.
// Nothing is read or written until ID or Clear is called.
func NewManager(path string, opts ...Option) *Manager {
	m := &Manager{
		path:   path,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the location of the session file.
func (m *Manager) Path() string {
	return m.path
}

// ID returns the session identifier, loading it from the session file or
// generating and persisting a new one on first use. Every later call returns
// the same value.
func (m *Manager) ID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.id != "" {
		return m.id, nil
	}

	id, err := m.load()
	if err != nil {
		return "", err
	}
	if id != "" {
		m.id = id
		return id, nil
	}

	now := m.now()
	id = NewID(now)
	if err := m.save(fileContents{SessionID: id, CreatedAt: now.UTC()}); err != nil {
		return "", err
	}

	m.id = id
	return id, nil
}

// Clear forgets the identifier and removes the session file, so the next
// call to ID starts a new session.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.id = ""
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// load returns the stored identifier, or "" if there is none. The file is
// decoded loosely so a usable session_id survives bad sibling keys; a file
// without one is treated as absent and will be overwritten.
func (m *Manager) load() (string, error) {
	var raw map[string]any
	_, err := toml.DecodeFile(m.path, &raw)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", nil
	case err != nil:
		m.logger.Warn("ignoring unreadable session file",
			slog.String("path", m.path),
			slog.String("error", err.Error()))
		return "", nil
	}

	id, ok := raw[sessionIDKey].(string)
	if !ok || strings.TrimSpace(id) == "" {
		if _, present := raw[sessionIDKey]; present {
			m.logger.Warn("ignoring unusable session id in session file",
				slog.String("path", m.path))
		}
		return "", nil
	}
	return strings.TrimSpace(id), nil
}

func (m *Manager) save(contents fileContents) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".session-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := toml.NewEncoder(tmp).Encode(contents); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("failed to save session file: %w", err)
	}
	return nil
}

// NewID builds an identifier of the form session_<unix-millis>_<9 chars>,
// where the suffix is drawn uniformly from [0-9a-z].
func NewID(now time.Time) string {
	var b strings.Builder
	b.WriteString(idPrefix)
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('_')

	written := 0
	for written < randomLength {
		random := uuid.New()
		for i, v := range random {
			// Bytes 6 and 8 carry the version and variant bits.
			if i == 6 || i == 8 || v >= acceptBelow {
				continue
			}
			b.WriteByte(base36Charset[int(v)%len(base36Charset)])
			written++
			if written == randomLength {
				break
			}
		}
	}
	return b.String()
}
