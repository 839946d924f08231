package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterFixture() []*Post {
	return []*Post{
		{ID: "1", Title: "Getting Started with Go", Content: "Go is a compiled language", Tags: []string{"go", "tutorial"}},
		{ID: "2", Title: "React Hooks", Content: "React is a powerful library", Tags: []string{"react", "javascript"}},
		{ID: "3", Title: "NATS in practice", Content: "Pub/sub with Go and NATS", Tags: []string{"go", "nats"}},
	}
}

func resultIDs(posts []*Post) []string {
	var ids []string
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		tag   string
		want  []string
	}{
		{"empty predicates match all", "", "", []string{"1", "2", "3"}},
		{"query on title", "react", "", []string{"2"}},
		{"query on content", "pub/sub", "", []string{"3"}},
		{"query case-insensitive", "GO", "", []string{"1", "3"}},
		{"tag only", "", "go", []string{"1", "3"}},
		{"query and tag", "nats", "go", []string{"3"}},
		{"tag is exact membership", "", "java", nil},
		{"no match", "rust", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(filterFixture(), tt.query, tt.tag)
			assert.Equal(t, tt.want, resultIDs(got))
		})
	}
}

func TestFilterIdempotent(t *testing.T) {
	once := Filter(filterFixture(), "go", "go")
	twice := Filter(once, "go", "go")

	assert.Equal(t, resultIDs(once), resultIDs(twice))
}

func TestFilterDoesNotMutate(t *testing.T) {
	posts := filterFixture()
	Filter(posts, "react", "javascript")

	assert.Len(t, posts, 3)
	assert.Equal(t, "1", posts[0].ID)
	assert.Equal(t, "Getting Started with Go", posts[0].Title)
}
