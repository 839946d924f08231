// Package content holds the post collection and its mutation operations.
// Two backings implement the same Store interface: MemoryStore keeps
// everything local and optimistic, RemoteStore treats the platform API
// as the source of truth and reconciles after every mutation.
package content

import (
	"strings"
	"time"
)

// User is an account on the platform. Session-scoped on the client:
// created by registration, mutated by profile updates, and dropped on
// logout while the server-side record persists.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"profilePicture,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Posts     []string  `json:"posts,omitempty"`
}

// AsAuthor returns the display fields denormalized onto posts and
// comments created by this user.
func (u *User) AsAuthor() Author {
	return Author{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// Author carries the display fields denormalized onto posts and comments
// at creation time. It references a User by ID but does not track later
// profile changes.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"profilePicture,omitempty"`
}

// Comment is a single comment on a post. Comments are append-only from
// the client's perspective and are never edited or deleted.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a blog post with its nested comments and like-set.
//
// Likes is a membership set of user IDs, not a counter: each user
// appears at most once, and liking again removes the entry. Comments
// are ordered by insertion, which matches creation time.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
}

// LikedBy reports whether userID is in the post's like-set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// HasTag reports whether tag is a member of the post's tag set.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the post. Stores hand out clones so
// callers can't mutate shared state behind the store's lock.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	c.Likes = append([]string(nil), p.Likes...)
	c.Comments = append([]Comment(nil), p.Comments...)
	return &c
}

// ParseTags derives a tag set from a comma-separated string, trimming
// whitespace and discarding empty entries.
func ParseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Draft holds the user-supplied fields of a post before it exists.
// A failed create or edit keeps the draft so the caller can retry
// without losing the attempted values.
type Draft struct {
	Title   string
	Content string
	Tags    []string
}

// Validate rejects drafts with an empty title or content.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	if strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Field: "content", Reason: "content is required"}
	}
	return nil
}
