package webimport

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/blogwire/blogwire/content"
)

var excessiveLinesRe = regexp.MustCompile(`\n{4,}`)

// Importer fetches an article and converts it into a post draft.
type Importer struct {
	fetcher   *Fetcher
	converter *md.Converter
}

// NewImporter creates an importer with the given fetch timeout.
func NewImporter(timeout time.Duration, userAgent string) *Importer {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Importer{
		fetcher:   NewFetcher(timeout, userAgent),
		converter: converter,
	}
}

// Import fetches urlStr and returns a draft holding the article title
// as the post title and the article body as markdown content. The
// returned tags are a suggestion derived from the source hostname.
func (i *Importer) Import(ctx context.Context, urlStr string) (content.Draft, error) {
	pageURL, err := url.Parse(urlStr)
	if err != nil {
		return content.Draft{}, fmt.Errorf("parse url: %w", err)
	}

	body, err := i.fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return content.Draft{}, err
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return content.Draft{}, fmt.Errorf("extract article: %w", err)
	}

	source := article.Content
	if strings.TrimSpace(source) == "" {
		source = string(body)
	}

	markdown, err := i.converter.ConvertString(source)
	if err != nil {
		return content.Draft{}, fmt.Errorf("convert to markdown: %w", err)
	}
	markdown = cleanMarkdown(markdown)
	if strings.TrimSpace(markdown) == "" {
		return content.Draft{}, fmt.Errorf("no readable content at %s", urlStr)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = extractHTMLTitle(body)
	}
	if title == "" {
		title = pageURL.Host
	}

	return content.Draft{
		Title:   title,
		Content: markdown,
		Tags:    suggestTags(pageURL),
	}, nil
}

// cleanMarkdown collapses runs of blank lines left over from layout markup.
func cleanMarkdown(markdown string) string {
	markdown = excessiveLinesRe.ReplaceAllString(markdown, "\n\n\n")
	return strings.TrimSpace(markdown)
}

// extractHTMLTitle extracts the <title> element from raw HTML.
func extractHTMLTitle(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var title string
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title != "" {
				return
			}
			extract(c)
		}
	}
	extract(doc)

	return title
}

// suggestTags derives a starter tag set from the source host, e.g.
// blog.golang.org yields ["imported", "golang"].
func suggestTags(pageURL *url.URL) []string {
	tags := []string{"imported"}
	parts := strings.Split(pageURL.Hostname(), ".")
	if len(parts) >= 2 {
		tags = append(tags, parts[len(parts)-2])
	}
	return tags
}
