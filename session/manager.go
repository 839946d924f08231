// Package session manages the authenticated user's lifecycle: login,
// registration, profile updates, logout, and restoring a persisted
// session at process start.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/blogwire/blogwire/api"
	"github.com/blogwire/blogwire/content"
)

// ErrNotLoggedIn is returned by operations that require a session.
var ErrNotLoggedIn = errors.New("not logged in")

// ValidationError reports a rejected input before any network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Manager is the session store. The current user is non-nil exactly
// when a credential is held; the two are set and cleared together.
// Safe for concurrent use.
type Manager struct {
	client *api.Client
	tokens *TokenFile
	logger *slog.Logger

	mu            sync.Mutex
	user          *content.User
	cred          api.Credential
	bootstrapping bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a session manager over the given API client and
// token store. The manager starts in the bootstrapping state until
// Bootstrap runs.
func NewManager(client *api.Client, tokens *TokenFile, opts ...ManagerOption) *Manager {
	m := &Manager{
		client:        client,
		tokens:        tokens,
		logger:        slog.Default(),
		bootstrapping: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap restores a persisted session at process start. If a token
// is on disk it is validated by fetching the profile; any failure
// (network, timeout, rejection) clears the token and leaves the
// session logged out. This is silent recovery, never a fatal error.
// The bootstrapping gate drops when Bootstrap returns, whatever the
// outcome.
func (m *Manager) Bootstrap(ctx context.Context) {
	defer func() {
		m.mu.Lock()
		m.bootstrapping = false
		m.mu.Unlock()
	}()

	cred, err := m.tokens.Load()
	if err != nil {
		m.logger.Warn("failed to read persisted token", "error", err)
		return
	}
	if cred.IsZero() {
		return
	}

	user, err := m.client.Profile(ctx, cred)
	if err != nil {
		m.logger.Debug("profile fetch failed, discarding persisted token", "error", err)
		if clearErr := m.tokens.Clear(); clearErr != nil {
			m.logger.Warn("failed to clear token file", "error", clearErr)
		}
		return
	}

	m.mu.Lock()
	m.user = user
	m.cred = cred
	m.mu.Unlock()
}

// Login authenticates and establishes the session. On success the
// credential is persisted so a later Bootstrap restores the same user
// without re-submitting credentials.
func (m *Manager) Login(ctx context.Context, email, password string) (*content.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &ValidationError{Reason: "email and password are required"}
	}

	cred, user, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.tokens.Save(cred); err != nil {
		// The in-memory session still works; the user just won't
		// survive a restart.
		m.logger.Warn("failed to persist token", "error", err)
	}

	m.mu.Lock()
	m.user = user
	m.cred = cred
	m.mu.Unlock()

	return user, nil
}

// Register creates a new account. It does not log the user in.
func (m *Manager) Register(ctx context.Context, username, email, password string) (*content.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, &ValidationError{Reason: "username, email and password are required"}
	}
	return m.client.Signup(ctx, username, email, password)
}

// UpdateProfile applies a partial profile update and shallow-merges
// the server's response into the current user. Server fields win.
func (m *Manager) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*content.User, error) {
	m.mu.Lock()
	cred := m.cred
	m.mu.Unlock()
	if cred.IsZero() {
		return nil, ErrNotLoggedIn
	}

	updated, err := m.client.UpdateProfile(ctx, cred, update)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		// Logged out while the update was in flight; discard.
		return updated, nil
	}
	mergeUser(m.user, updated)
	merged := *m.user
	return &merged, nil
}

// Logout clears the persisted token and the in-memory session. It
// always succeeds and makes no network call.
func (m *Manager) Logout() {
	if err := m.tokens.Clear(); err != nil {
		m.logger.Warn("failed to clear token file", "error", err)
	}

	m.mu.Lock()
	m.user = nil
	m.cred = ""
	m.mu.Unlock()
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (m *Manager) CurrentUser() *content.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	u.Posts = append([]string(nil), m.user.Posts...)
	return &u
}

// Credential returns the current bearer token, which is zero when
// logged out. Content operations read it per call, so the last
// successful login or logout wins.
func (m *Manager) Credential() api.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred
}

// Bootstrapping reports whether Bootstrap has not yet finished.
// Callers should treat it as a loading gate rather than assuming the
// session is logged out.
func (m *Manager) Bootstrapping() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bootstrapping
}

// mergeUser shallow-merges non-zero fields of src into dst.
func mergeUser(dst, src *content.User) {
	if src.ID != "" {
		dst.ID = src.ID
	}
	if src.Username != "" {
		dst.Username = src.Username
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Avatar != "" {
		dst.Avatar = src.Avatar
	}
	if src.Bio != "" {
		dst.Bio = src.Bio
	}
	if !src.CreatedAt.IsZero() {
		dst.CreatedAt = src.CreatedAt
	}
	if len(src.Posts) > 0 {
		dst.Posts = append([]string(nil), src.Posts...)
	}
}

// Message renders an error as a user-displayable string. Raw transport
// errors never reach the UI.
func Message(err error) string {
	var validation *ValidationError
	var contentValidation *content.ValidationError
	var apiErr *api.APIError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrTimeout):
		return "Server is taking too long to respond. Please try again."
	case errors.Is(err, api.ErrUnreachable):
		return "Cannot connect to server. Please check your internet connection."
	case errors.Is(err, ErrNotLoggedIn):
		return "You need to log in first."
	case errors.Is(err, content.ErrNotFound):
		return "Post not found."
	case errors.Is(err, content.ErrNotAuthor):
		return "You can only change your own posts."
	case errors.As(err, &validation):
		return validation.Reason
	case errors.As(err, &contentValidation):
		return contentValidation.Error()
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Kind == api.KindAuth {
			return "Your session has expired. Please log in again."
		}
		return "An unexpected error occurred. Please try again."
	default:
		return "An unexpected error occurred. Please try again."
	}
}
