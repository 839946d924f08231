package content

import "strings"

// Filter returns the posts matching both predicates, preserving input
// order. A post matches query when the query substring occurs
// case-insensitively in its title or content (an empty query matches
// everything); it matches tag by set membership (an empty tag matches
// everything). Pure: the input slice and its posts are not mutated.
func Filter(posts []*Post, query, tag string) []*Post {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if !matchesQuery(p, query) {
			continue
		}
		if tag != "" && !p.HasTag(tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p *Post, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Content), query)
}
