package content

import "context"

// Store is the post collection interface shared by the local and
// server-backed implementations. Mutations apply atomically: on error
// the pre-mutation state is intact. Returned posts are copies.
type Store interface {
	// List returns all posts in display order (newest first).
	List(ctx context.Context) ([]*Post, error)

	// Get returns the post with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Post, error)

	// Create inserts a new post at the front of the display order.
	Create(ctx context.Context, draft Draft, author Author) (*Post, error)

	// Edit replaces the title, content and tags of a post. Only the
	// post's author may edit; identity, timestamps, likes and comments
	// are immutable under edit.
	Edit(ctx context.Context, id string, actor Author, draft Draft) (*Post, error)

	// Delete removes a post and its comments. Author-only.
	Delete(ctx context.Context, id string, actor Author) error

	// ToggleLike flips the actor's membership in the post's like-set.
	// Each call flips relative to the current set, never a snapshot.
	ToggleLike(ctx context.Context, id string, actor Author) (*Post, error)

	// AddComment appends a comment to the post. Blank or whitespace-only
	// text is rejected before anything else happens. Any authenticated
	// user may comment.
	AddComment(ctx context.Context, id string, actor Author, text string) (*Post, error)
}
