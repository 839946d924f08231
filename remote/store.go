// Package remote implements content.Store against the platform API.
// The server is the source of truth: every mutation is a round trip
// whose authoritative post replaces the locally held copy.
package remote

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/blogwire/blogwire/api"
	"github.com/blogwire/blogwire/content"
)

// CredentialSource supplies the bearer token for authenticated calls.
// The session manager implements it, so every request reads the token
// current at issue time rather than one captured at construction.
type CredentialSource interface {
	Credential() api.Credential
}

// Store is the server-backed content store. It keeps a local view of
// fetched posts so detail pages and the live listener have state to
// merge into; mutations on a post serialize so each request is
// computed against the latest known state, and a fetch that is
// superseded by a newer mutation is discarded instead of applied.
type Store struct {
	client *api.Client
	creds  CredentialSource
	logger *slog.Logger

	view *content.MemoryStore

	mu   sync.Mutex
	seqs map[string]*postSeq
}

// postSeq serializes mutations on one post and counts applied
// mutations so stale read responses can be recognized.
type postSeq struct {
	mu  sync.Mutex
	gen uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a server-backed store.
func NewStore(client *api.Client, creds CredentialSource, opts ...Option) *Store {
	s := &Store{
		client: client,
		creds:  creds,
		logger: slog.Default(),
		view:   content.NewMemoryStore(),
		seqs:   make(map[string]*postSeq),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View returns the local copy of fetched posts. The live listener
// merges externally-originated comments into it.
func (s *Store) View() *content.MemoryStore { return s.view }

// List implements content.Store by fetching the feed and refreshing
// the local view. Generations are snapshotted before the request so a
// feed response that loses the race against a mutation is discarded
// per post instead of applied.
func (s *Store) List(ctx context.Context) ([]*content.Post, error) {
	before := s.genSnapshot()

	posts, err := s.client.ListPosts(ctx)
	if err != nil {
		return nil, translate(err)
	}
	for _, p := range posts {
		s.reconcileRead(p, before[p.ID])
	}
	return posts, nil
}

// Get implements content.Store. The fetched post updates the local
// view only if no mutation landed on it while the fetch was in
// flight; a superseded response is returned to the caller but not
// applied to shared state.
func (s *Store) Get(ctx context.Context, id string) (*content.Post, error) {
	seq := s.seq(id)
	before := s.gen(seq)

	post, err := s.client.GetPost(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	seq.mu.Lock()
	if seq.gen == before {
		s.view.Put(post)
	} else {
		s.logger.Debug("discarding superseded post fetch", "post", id)
	}
	seq.mu.Unlock()

	return post, nil
}

// Create implements content.Store.
func (s *Store) Create(ctx context.Context, draft content.Draft, _ content.Author) (*content.Post, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	cred, err := s.credential()
	if err != nil {
		return nil, err
	}

	post, err := s.client.CreatePost(ctx, cred, draft)
	if err != nil {
		return nil, translate(err)
	}
	s.applyMutation(post.ID, post)
	return post, nil
}

// Edit implements content.Store. Authorship is checked against the
// local view before the round trip when the post is held; the server
// remains the authority either way.
func (s *Store) Edit(ctx context.Context, id string, actor content.Author, draft content.Draft) (*content.Post, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := s.guardAuthor(ctx, id, actor); err != nil {
		return nil, err
	}
	cred, err := s.credential()
	if err != nil {
		return nil, err
	}

	seq := s.seq(id)
	seq.mu.Lock()
	defer seq.mu.Unlock()

	post, err := s.client.UpdatePost(ctx, cred, id, draft)
	if err != nil {
		return nil, translate(err)
	}
	seq.gen++
	s.view.Put(post)
	return post, nil
}

// Delete implements content.Store.
func (s *Store) Delete(ctx context.Context, id string, actor content.Author) error {
	if err := s.guardAuthor(ctx, id, actor); err != nil {
		return err
	}
	cred, err := s.credential()
	if err != nil {
		return err
	}

	seq := s.seq(id)
	seq.mu.Lock()
	defer seq.mu.Unlock()

	if err := s.client.DeletePost(ctx, cred, id); err != nil {
		return translate(err)
	}
	seq.gen++
	_ = s.view.Delete(context.Background(), id, actor)
	return nil
}

// ToggleLike implements content.Store. The flip happens server-side
// against the server's current like-set; mutations on one post
// serialize, so two rapid toggles issue in order and each one is
// computed from the state the previous one produced, never a stale
// snapshot.
func (s *Store) ToggleLike(ctx context.Context, id string, _ content.Author) (*content.Post, error) {
	cred, err := s.credential()
	if err != nil {
		return nil, err
	}

	seq := s.seq(id)
	seq.mu.Lock()
	defer seq.mu.Unlock()

	post, err := s.client.Like(ctx, cred, id)
	if err != nil {
		return nil, translate(err)
	}
	seq.gen++
	s.view.Put(post)
	return post, nil
}

// AddComment implements content.Store.
func (s *Store) AddComment(ctx context.Context, id string, _ content.Author, text string) (*content.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &content.ValidationError{Field: "text", Reason: "comment text is required"}
	}
	cred, err := s.credential()
	if err != nil {
		return nil, err
	}

	seq := s.seq(id)
	seq.mu.Lock()
	defer seq.mu.Unlock()

	post, err := s.client.AddComment(ctx, cred, id, text)
	if err != nil {
		return nil, translate(err)
	}
	seq.gen++
	s.view.Put(post)
	return post, nil
}

// guardAuthor rejects edit/delete by a non-author using the locally
// held copy. Posts not held locally pass through to the server.
func (s *Store) guardAuthor(ctx context.Context, id string, actor content.Author) error {
	post, err := s.view.Get(ctx, id)
	if err != nil {
		return nil
	}
	if post.Author.ID != actor.ID {
		return content.ErrNotAuthor
	}
	return nil
}

// credential returns the current token or an auth error when logged
// out, so the failure is reported before any network traffic.
func (s *Store) credential() (api.Credential, error) {
	cred := s.creds.Credential()
	if cred.IsZero() {
		return "", &api.APIError{
			Status:  http.StatusUnauthorized,
			Kind:    api.KindAuth,
			Message: "you must be logged in",
		}
	}
	return cred, nil
}

// applyMutation records a landed mutation and its authoritative post.
func (s *Store) applyMutation(id string, post *content.Post) {
	seq := s.seq(id)
	seq.mu.Lock()
	seq.gen++
	s.view.Put(post)
	seq.mu.Unlock()
}

// reconcileRead applies a fetched post to the view unless a mutation
// is in flight or has landed since before, in which case the stale
// copy is dropped.
func (s *Store) reconcileRead(post *content.Post, before uint64) {
	seq := s.seq(post.ID)
	if !seq.mu.TryLock() {
		return
	}
	defer seq.mu.Unlock()
	if seq.gen != before {
		s.logger.Debug("discarding superseded post fetch", "post", post.ID)
		return
	}
	s.view.Put(post)
}

func (s *Store) seq(id string) *postSeq {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.seqs[id]
	if !ok {
		ps = &postSeq{}
		s.seqs[id] = ps
	}
	return ps
}

// genSnapshot records the current generation of every tracked post.
// Posts not yet tracked sit at generation zero.
func (s *Store) genSnapshot() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[string]uint64, len(s.seqs))
	for id, seq := range s.seqs {
		seq.mu.Lock()
		snap[id] = seq.gen
		seq.mu.Unlock()
	}
	return snap
}

func (s *Store) gen(seq *postSeq) uint64 {
	seq.mu.Lock()
	defer seq.mu.Unlock()
	return seq.gen
}

// translate maps API errors onto the content store taxonomy.
func translate(err error) error {
	if api.IsNotFound(err) {
		return content.ErrNotFound
	}
	return err
}
