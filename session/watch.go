package session

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long to wait after a token file event before
// resyncing, so a remove-then-write rewrite counts as one change.
const watchDebounce = 200 * time.Millisecond

// Watch follows the token file until ctx is done, resyncing the
// in-memory session when another blogwire process logs in or out. A
// new token on disk is validated with a profile fetch before it
// replaces the session; a removed token logs the session out.
//
// The parent directory is watched rather than the file itself, since
// editors and this package both replace the file wholesale.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(m.tokens.Path())
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != m.tokens.Path() {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			m.resync(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("token file watch error", "error", err)
		}
	}
}

// resync reconciles the in-memory session with the token on disk.
func (m *Manager) resync(ctx context.Context) {
	cred, err := m.tokens.Load()
	if err != nil {
		m.logger.Warn("failed to reload token file", "error", err)
		return
	}

	m.mu.Lock()
	current := m.cred
	m.mu.Unlock()

	if cred == current {
		return
	}

	if cred.IsZero() {
		m.logger.Info("token removed externally, logging out")
		m.mu.Lock()
		m.user = nil
		m.cred = ""
		m.mu.Unlock()
		return
	}

	user, err := m.client.Profile(ctx, cred)
	if err != nil {
		m.logger.Debug("external token rejected, keeping current session", "error", err)
		return
	}

	m.logger.Info("session replaced from token file", "user", user.Username)
	m.mu.Lock()
	m.user = user
	m.cred = cred
	m.mu.Unlock()
}
