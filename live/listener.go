// Package live subscribes to the platform's push channel and merges
// externally-originated comment events into the local content view.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/blogwire/blogwire/content"
)

// EventCommentAdded is the only event type the listener handles.
const EventCommentAdded = "comment_added"

// Event is the wire shape of a push channel event.
type Event struct {
	Type    string          `json:"type"`
	PostID  string          `json:"postId"`
	Comment content.Comment `json:"comment"`
}

// SubjectForPost returns the per-post subject comment events arrive on.
func SubjectForPost(postID string) string {
	return fmt.Sprintf("posts.%s.comments", postID)
}

// Sink receives comments the listener has accepted. The merge must be
// idempotent by comment ID; content.MemoryStore satisfies this.
type Sink interface {
	MergeComment(postID string, c content.Comment) bool
}

// Listener follows the comment channel for a single post while its
// detail view is active. Events for other posts, malformed payloads,
// and duplicate deliveries are dropped silently; nothing propagates
// to the caller as an error once the subscription is up.
type Listener struct {
	nc     *nats.Conn
	postID string
	sink   Sink
	logger *slog.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Listener) { l.logger = logger }
}

// NewListener creates a listener for one post's comment channel.
func NewListener(nc *nats.Conn, postID string, sink Sink, opts ...Option) *Listener {
	l := &Listener{
		nc:     nc,
		postID: postID,
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start subscribes to the post's channel. The subscription is torn
// down when ctx is cancelled or Stop is called, whichever comes
// first; it never outlives the view it serves.
func (l *Listener) Start(ctx context.Context) error {
	sub, err := l.nc.Subscribe(SubjectForPost(l.postID), func(msg *nats.Msg) {
		l.handle(msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectForPost(l.postID), err)
	}

	l.mu.Lock()
	l.sub = sub
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.Stop()
	}()
	return nil
}

// Stop tears down the subscription. Safe to call more than once.
func (l *Listener) Stop() {
	l.mu.Lock()
	sub := l.sub
	l.sub = nil
	l.mu.Unlock()

	if sub != nil {
		if err := sub.Unsubscribe(); err != nil {
			l.logger.Debug("unsubscribe failed", "post", l.postID, "error", err)
		}
	}
}

// handle processes one raw event. Exactly-once application is keyed
// on the comment ID: the sink refuses a comment it already holds, so
// a redelivered event changes nothing.
func (l *Listener) handle(data []byte) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		l.logger.Debug("dropping malformed event", "post", l.postID, "error", err)
		return
	}
	if ev.Type != "" && ev.Type != EventCommentAdded {
		return
	}
	if ev.PostID != l.postID || ev.Comment.ID == "" {
		return
	}

	if l.sink.MergeComment(ev.PostID, ev.Comment) {
		l.logger.Debug("merged live comment", "post", ev.PostID, "comment", ev.Comment.ID)
	}
}
