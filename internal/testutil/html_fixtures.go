package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PageOptions contains options for generating a public HTML page
type PageOptions struct {
	Title string
	Body  string
}

// GeneratePageHTML generates a minimal HTML document with the given title and body.
func GeneratePageHTML(opts PageOptions) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	if opts.Title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", opts.Title)
	}
	sb.WriteString("</head>\n<body>")
	sb.WriteString(opts.Body)
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// WritePublicDir creates a temporary public directory holding files, keyed by
// slash-separated relative path, and returns its location.
func WritePublicDir(t testing.TB, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
	return dir
}
