package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = Author{ID: "u-alice", Username: "alice"}
	bob   = Author{ID: "u-bob", Username: "bob"}
)

func newTestStore(t *testing.T) (*MemoryStore, *Post) {
	t.Helper()
	s := NewMemoryStore()
	p, err := s.Create(context.Background(), Draft{
		Title:   "Getting Started",
		Content: "React is a powerful library",
		Tags:    ParseTags("react, javascript"),
	}, alice)
	require.NoError(t, err)
	return s, p
}

func TestMemoryStoreCreate(t *testing.T) {
	_, p := newTestStore(t)

	assert.NotEmpty(t, p.ID, "expected a generated ID")
	assert.Equal(t, []string{"react", "javascript"}, p.Tags)
	assert.Empty(t, p.Likes)
	assert.Empty(t, p.Comments)
	assert.False(t, p.CreatedAt.IsZero(), "expected a creation timestamp")
}

func TestMemoryStoreCreateValidates(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Create(context.Background(), Draft{Title: "", Content: "body"}, alice)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	posts, _ := s.List(context.Background())
	assert.Empty(t, posts, "store must hold nothing after a rejected create")
}

func TestMemoryStoreCreateInsertsAtFront(t *testing.T) {
	s, first := newTestStore(t)

	second, err := s.Create(context.Background(), Draft{Title: "Second", Content: "body"}, alice)
	require.NoError(t, err)

	posts, _ := s.List(context.Background())
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestToggleLikeInvolution(t *testing.T) {
	s, p := newTestStore(t)
	ctx := context.Background()

	after, err := s.ToggleLike(ctx, p.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, after.Likes)

	after, err = s.ToggleLike(ctx, p.ID, alice)
	require.NoError(t, err)
	assert.Empty(t, after.Likes, "second toggle must undo the first")
}

func TestToggleLikeMembership(t *testing.T) {
	s, p := newTestStore(t)
	ctx := context.Background()

	// Two users like, one untoggles: membership, never a counter.
	_, err := s.ToggleLike(ctx, p.ID, alice)
	require.NoError(t, err)
	_, err = s.ToggleLike(ctx, p.ID, bob)
	require.NoError(t, err)
	after, err := s.ToggleLike(ctx, p.ID, alice)
	require.NoError(t, err)

	assert.Equal(t, []string{bob.ID}, after.Likes)
}

func TestAddComment(t *testing.T) {
	s, p := newTestStore(t)
	ctx := context.Background()

	after, err := s.AddComment(ctx, p.ID, bob, "first!")
	require.NoError(t, err)
	require.Len(t, after.Comments, 1)

	after, err = s.AddComment(ctx, p.ID, alice, "second")
	require.NoError(t, err)
	require.Len(t, after.Comments, 2)

	last := after.Comments[len(after.Comments)-1]
	assert.Equal(t, "second", last.Text)
	assert.Equal(t, alice.ID, last.Author.ID)
	assert.NotEmpty(t, last.ID, "expected a generated comment ID")
}

func TestAddCommentRejectsBlankText(t *testing.T) {
	s, p := newTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := s.AddComment(ctx, p.ID, bob, text)
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation, "AddComment(%q)", text)
	}

	got, _ := s.Get(ctx, p.ID)
	assert.Empty(t, got.Comments, "comment sequence changed by rejected comments")
}

func TestEditByAuthor(t *testing.T) {
	s, p := newTestStore(t)
	ctx := context.Background()

	after, err := s.Edit(ctx, p.ID, alice, Draft{Title: "Updated", Content: "new body", Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, "Updated", after.Title)
	assert.Equal(t, "new body", after.Content)

	// Identity and timestamps survive an edit.
	assert.Equal(t, p.ID, after.ID)
	assert.True(t, after.CreatedAt.Equal(p.CreatedAt))
	assert.Equal(t, p.Author, after.Author)
}

func TestEditByNonAuthorRejected(t *testing.T) {
	s, p := newTestStore(t)
	ctx := context.Background()

	_, err := s.Edit(ctx, p.ID, bob, Draft{Title: "Hijacked", Content: "x"})
	require.ErrorIs(t, err, ErrNotAuthor)

	got, _ := s.Get(ctx, p.ID)
	assert.Equal(t, "Getting Started", got.Title, "post changed by rejected edit")
}

func TestDelete(t *testing.T) {
	s, p := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Delete(ctx, p.ID, bob), ErrNotAuthor)
	require.NoError(t, s.Delete(ctx, p.ID, alice))

	_, err := s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMutationsOnMissingPost(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ToggleLike(ctx, "nope", alice)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.AddComment(ctx, "nope", alice, "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMergeComment(t *testing.T) {
	s, p := newTestStore(t)
	c := Comment{ID: "c-1", Text: "from the channel", Author: bob}

	assert.True(t, s.MergeComment(p.ID, c), "first merge should apply")
	assert.False(t, s.MergeComment(p.ID, c), "duplicate merge should be a no-op")
	assert.False(t, s.MergeComment("unknown-post", c), "merge into an unheld post should be a no-op")

	got, _ := s.Get(context.Background(), p.ID)
	assert.Len(t, got.Comments, 1)
}

func TestSeed(t *testing.T) {
	s := NewMemoryStore()
	Seed(s, 5)

	posts, _ := s.List(context.Background())
	require.Len(t, posts, 5)
	for _, p := range posts {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Content)
		assert.NotEmpty(t, p.Author.Username)
	}
}
