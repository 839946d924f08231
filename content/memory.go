package content

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the purely local Store: mutations apply optimistically
// to in-memory state with no server involved. IDs are client-generated
// UUIDs. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	posts []*Post // display order, newest first
	now   func() time.Time
}

// NewMemoryStore creates an empty local store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p.Clone())
	}
	return out, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

// Create implements Store.
func (s *MemoryStore) Create(ctx context.Context, draft Draft, author Author) (*Post, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &Post{
		ID:        uuid.New().String(),
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      append([]string(nil), draft.Tags...),
		Author:    author,
		CreatedAt: s.now(),
		Likes:     []string{},
		Comments:  []Comment{},
	}
	s.posts = append([]*Post{p}, s.posts...)
	return p.Clone(), nil
}

// Edit implements Store.
func (s *MemoryStore) Edit(ctx context.Context, id string, actor Author, draft Draft) (*Post, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, ErrNotFound
	}
	if p.Author.ID != actor.ID {
		return nil, ErrNotAuthor
	}

	p.Title = draft.Title
	p.Content = draft.Content
	p.Tags = append([]string(nil), draft.Tags...)
	return p.Clone(), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string, actor Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.posts {
		if p.ID != id {
			continue
		}
		if p.Author.ID != actor.ID {
			return ErrNotAuthor
		}
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
		return nil
	}
	return ErrNotFound
}

// ToggleLike implements Store.
func (s *MemoryStore) ToggleLike(ctx context.Context, id string, actor Author) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, ErrNotFound
	}

	for i, uid := range p.Likes {
		if uid == actor.ID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return p.Clone(), nil
		}
	}
	p.Likes = append(p.Likes, actor.ID)
	return p.Clone(), nil
}

// AddComment implements Store.
func (s *MemoryStore) AddComment(ctx context.Context, id string, actor Author, text string) (*Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Reason: "comment text is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(id)
	if p == nil {
		return nil, ErrNotFound
	}

	p.Comments = append(p.Comments, Comment{
		ID:        uuid.New().String(),
		Text:      text,
		Author:    actor,
		CreatedAt: s.now(),
	})
	return p.Clone(), nil
}

// Put inserts or replaces a post wholesale, keeping display order for
// replacements and prepending new posts. Used by the live listener and
// by callers reconciling server state into a local view.
func (s *MemoryStore) Put(p *Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.posts {
		if existing.ID == p.ID {
			s.posts[i] = p.Clone()
			return
		}
	}
	s.posts = append([]*Post{p.Clone()}, s.posts...)
}

// MergeComment appends an externally-originated comment to a post,
// exactly once: if the post is not held locally or a comment with the
// same ID already exists, nothing changes. Reports whether the comment
// was applied.
func (s *MemoryStore) MergeComment(postID string, c Comment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.find(postID)
	if p == nil {
		return false
	}
	for _, existing := range p.Comments {
		if existing.ID == c.ID {
			return false
		}
	}
	p.Comments = append(p.Comments, c)
	return true
}

// find returns the stored post, not a clone. Caller must hold s.mu.
func (s *MemoryStore) find(id string) *Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}
