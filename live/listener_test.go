package live

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogwire/blogwire/content"
)

func newListenerFixture(t *testing.T) (*Listener, *content.MemoryStore) {
	t.Helper()

	view := content.NewMemoryStore()
	view.Put(&content.Post{
		ID:       "p1",
		Title:    "Hello",
		Content:  "world",
		Author:   content.Author{ID: "u1", Username: "alice"},
		Comments: []content.Comment{},
	})

	// No NATS connection needed to exercise event handling.
	return NewListener(nil, "p1", view), view
}

func mustEncode(t *testing.T, ev Event) []byte {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return data
}

func commentCount(t *testing.T, view *content.MemoryStore, postID string) int {
	t.Helper()
	post, err := view.Get(context.Background(), postID)
	require.NoError(t, err)
	return len(post.Comments)
}

func TestHandleAppliesMatchingEvent(t *testing.T) {
	listener, view := newListenerFixture(t)

	listener.handle(mustEncode(t, Event{
		Type:    EventCommentAdded,
		PostID:  "p1",
		Comment: content.Comment{ID: "c1", Text: "live!", Author: content.Author{Username: "bob"}},
	}))

	assert.Equal(t, 1, commentCount(t, view, "p1"))
}

func TestHandleDeduplicatesRedelivery(t *testing.T) {
	listener, view := newListenerFixture(t)

	ev := mustEncode(t, Event{
		Type:    EventCommentAdded,
		PostID:  "p1",
		Comment: content.Comment{ID: "c1", Text: "live!"},
	})
	listener.handle(ev)
	listener.handle(ev)

	assert.Equal(t, 1, commentCount(t, view, "p1"), "redelivered event applied twice")
}

func TestHandleIgnoresOtherPosts(t *testing.T) {
	listener, view := newListenerFixture(t)

	// The event targets a post whose detail view is not open here.
	listener.handle(mustEncode(t, Event{
		Type:    EventCommentAdded,
		PostID:  "p2",
		Comment: content.Comment{ID: "c1", Text: "elsewhere"},
	}))

	assert.Equal(t, 0, commentCount(t, view, "p1"))
}

func TestHandleIgnoresOtherEventTypes(t *testing.T) {
	listener, view := newListenerFixture(t)

	listener.handle(mustEncode(t, Event{
		Type:    "post_deleted",
		PostID:  "p1",
		Comment: content.Comment{ID: "c1"},
	}))

	assert.Equal(t, 0, commentCount(t, view, "p1"))
}

func TestHandleDropsMalformedPayloads(t *testing.T) {
	listener, view := newListenerFixture(t)

	listener.handle([]byte("not json"))
	listener.handle([]byte(`{"postId": "p1"}`)) // no comment ID
	listener.handle(nil)

	assert.Equal(t, 0, commentCount(t, view, "p1"))
}

func TestStopIsIdempotent(t *testing.T) {
	listener, _ := newListenerFixture(t)

	// Never started; Stop must still be safe, and repeatedly so.
	listener.Stop()
	listener.Stop()
}

func TestSubjectForPost(t *testing.T) {
	assert.Equal(t, "posts.p1.comments", SubjectForPost("p1"))
}
