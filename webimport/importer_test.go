package webimport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Understanding Goroutines</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<article>
<h1>Understanding Goroutines</h1>
<p>Goroutines are lightweight threads managed by the Go runtime. They
make concurrent programming straightforward, and this paragraph exists
so the readability extractor has enough prose to consider the page an
article worth keeping rather than navigation chrome.</p>
<p>Channels connect goroutines together. Buffered channels decouple
senders from receivers, while unbuffered channels synchronize them on
every exchange, which is often exactly what a pipeline wants.</p>
<pre><code>go func() { fmt.Println("hello") }()</code></pre>
</article>
<footer>Copyright nobody</footer>
</body>
</html>`

func TestImport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	importer := NewImporter(5*time.Second, "test-agent")

	draft, err := importer.Import(context.Background(), server.URL+"/posts/goroutines")
	require.NoError(t, err)

	assert.Equal(t, "Understanding Goroutines", draft.Title)
	assert.Contains(t, draft.Content, "lightweight threads")
	assert.Contains(t, draft.Content, "Channels connect goroutines")
	assert.NotContains(t, draft.Content, "<p>", "HTML tags must not survive conversion")
	assert.Contains(t, draft.Tags, "imported")
}

func TestImportRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewImporter(5*time.Second, "test-agent").Import(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestImportRejectsEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body></body></html>"))
	}))
	defer server.Close()

	_, err := NewImporter(5*time.Second, "test-agent").Import(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestExtractHTMLTitle(t *testing.T) {
	assert.Equal(t, "Hi", extractHTMLTitle([]byte("<html><head><title> Hi </title></head></html>")))
	assert.Equal(t, "", extractHTMLTitle([]byte("<html><head></head></html>")))
}

func TestCleanMarkdown(t *testing.T) {
	got := cleanMarkdown("a\n\n\n\n\n\nb\n")
	assert.Equal(t, "a\n\n\nb", got)
}

func TestSuggestTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	draft, err := NewImporter(5*time.Second, "test-agent").Import(context.Background(), server.URL)
	require.NoError(t, err)
	assert.NotEmpty(t, draft.Tags)
	assert.Equal(t, "imported", draft.Tags[0])
}
