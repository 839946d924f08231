package content

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Seed fills the store with n generated posts so the local variant can
// be browsed without a server. Each post gets a random author, a few
// tags, and zero or more comments.
func Seed(s *MemoryStore, n int) {
	for i := 0; i < n; i++ {
		author := fakeAuthor()
		created := gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now())

		p := &Post{
			ID:        uuid.New().String(),
			Title:     gofakeit.Sentence(gofakeit.Number(3, 7)),
			Content:   gofakeit.Paragraph(2, 4, 12, "\n\n"),
			Tags:      fakeTags(),
			Author:    author,
			CreatedAt: created,
			Likes:     []string{},
			Comments:  []Comment{},
		}

		for j := 0; j < gofakeit.Number(0, 4); j++ {
			p.Comments = append(p.Comments, Comment{
				ID:        uuid.New().String(),
				Text:      gofakeit.Sentence(gofakeit.Number(4, 12)),
				Author:    fakeAuthor(),
				CreatedAt: created.Add(time.Duration(j+1) * time.Hour),
			})
		}
		for j := 0; j < gofakeit.Number(0, 8); j++ {
			p.Likes = append(p.Likes, uuid.New().String())
		}

		s.Put(p)
	}
}

func fakeAuthor() Author {
	return Author{
		ID:       uuid.New().String(),
		Username: gofakeit.Username(),
		Avatar:   gofakeit.ImageURL(128, 128),
	}
}

func fakeTags() []string {
	tags := make([]string, 0, 3)
	for i := 0; i < gofakeit.Number(1, 3); i++ {
		tags = append(tags, gofakeit.HackerNoun())
	}
	return tags
}
