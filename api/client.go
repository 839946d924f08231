// Package api implements the HTTP client for the blog platform API.
//
// The client holds no authorization state of its own: authenticated
// calls take an explicit Credential, so the current bearer token lives
// in exactly one place (the session manager) instead of being mutated
// onto a shared client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/blogwire/blogwire/content"
)

// maxResponseSize limits API response bodies to prevent memory exhaustion.
const maxResponseSize = 4 * 1024 * 1024 // 4MB

// defaultTimeout bounds a single API round trip.
const defaultTimeout = 30 * time.Second

// Credential is an opaque bearer token proving an authenticated session.
type Credential string

// IsZero reports whether no credential is held.
func (c Credential) IsZero() bool { return c == "" }

// Client talks to the platform API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUserAgent sets the User-Agent header for outgoing requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  "blogwire/" + Version,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// loginResponse is the wire shape of POST /api/auth/login: the token
// plus the remaining user fields at the top level.
type loginResponse struct {
	Token string `json:"token"`
	content.User
}

// Login authenticates with email and password. On success it returns
// the credential and the user it belongs to. Never retries.
func (c *Client) Login(ctx context.Context, email, password string) (Credential, *content.User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return "", nil, err
	}
	if resp.Token == "" {
		return "", nil, &APIError{Kind: KindUnknown, Message: "login response missing token"}
	}
	user := resp.User
	return Credential(resp.Token), &user, nil
}

// Signup registers a new account. It does not log the user in.
func (c *Client) Signup(ctx context.Context, username, email, password string) (*content.User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}

	var user content.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile fetches the profile of the credential's user.
func (c *Client) Profile(ctx context.Context, cred Credential) (*content.User, error) {
	var user content.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", cred, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate holds the fields of a partial profile update. Zero
// fields are omitted from the request.
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"profilePicture,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// UpdateProfile applies a partial profile update and returns the
// updated fields as the server recorded them.
func (c *Client) UpdateProfile(ctx context.Context, cred Credential, update ProfileUpdate) (*content.User, error) {
	var user content.User
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", cred, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPosts fetches the post feed, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]*content.Post, error) {
	var posts []*content.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", "", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post with its comments and likes.
func (c *Client) GetPost(ctx context.Context, id string) (*content.Post, error) {
	var post content.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+id, "", nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// postBody is the wire shape of post create/update requests.
type postBody struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// CreatePost creates a post and returns the server's record of it.
func (c *Client) CreatePost(ctx context.Context, cred Credential, draft content.Draft) (*content.Post, error) {
	var post content.Post
	body := postBody{Title: draft.Title, Content: draft.Content, Tags: draft.Tags}
	if err := c.do(ctx, http.MethodPost, "/api/posts", cred, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost replaces a post's title, content and tags.
func (c *Client) UpdatePost(ctx context.Context, cred Credential, id string, draft content.Draft) (*content.Post, error) {
	var post content.Post
	body := postBody{Title: draft.Title, Content: draft.Content, Tags: draft.Tags}
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+id, cred, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes a post and its comments.
func (c *Client) DeletePost(ctx context.Context, cred Credential, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+id, cred, nil, nil)
}

// Like toggles the caller's like on a post and returns the updated
// post. The toggle itself happens server-side against the server's
// current like-set.
func (c *Client) Like(ctx context.Context, cred Credential, id string) (*content.Post, error) {
	var post content.Post
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+id+"/like", cred, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// AddComment appends a comment to a post and returns the updated post.
func (c *Client) AddComment(ctx context.Context, cred Credential, id, text string) (*content.Post, error) {
	var post content.Post
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+id+"/comments", cred, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// errorBody is the wire shape of an API error response.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do executes one API round trip: marshal body, send, classify
// failures, decode into out. out may be nil for empty responses.
func (c *Client) do(ctx context.Context, method, path string, cred Credential, body, out any) error {
	endpoint := method + " " + metricPath(path)
	start := time.Now()

	err := c.doOnce(ctx, method, path, cred, body, out)
	observeRequest(endpoint, err, time.Since(start))
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, cred Credential, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !cred.IsZero() {
		req.Header.Set("Authorization", "Bearer "+string(cred))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return classifyTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Kind: kindForStatus(resp.StatusCode)}
		var eb errorBody
		if jsonErr := json.Unmarshal(data, &eb); jsonErr == nil {
			if eb.Message != "" {
				apiErr.Message = eb.Message
			} else {
				apiErr.Message = eb.Error
			}
		}
		c.logger.Debug("API error response",
			"method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Kind: KindUnknown,
			Message: "malformed response from server"}
	}
	return nil
}

// classifyTransportError maps a failed round trip to the error
// taxonomy: a timeout if the request ran out of time, unreachable if
// no response was received.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
