// Package corpus loads token streams for embedding training from plain
// text, HTML documents, and URLs.
package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/happyhackingspace/wordvec/internal/textutil"
	"golang.org/x/net/html"
)

// Load returns the token stream for target, which is either an http(s)
// URL or a local file path. URLs and files with an .html or .htm
// extension are reduced to their visible text before tokenization;
// everything else is read as plain text.
func Load(ctx context.Context, target string) ([]string, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return fetch(ctx, target)
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(target)) {
	case ".html", ".htm":
		return LoadHTML(f)
	default:
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return LoadText(string(data)), nil
	}
}

// LoadHTML parses an HTML document and tokenizes its visible text.
func LoadHTML(r io.Reader) ([]string, error) {
	text, err := ExtractText(r)
	if err != nil {
		return nil, err
	}
	return LoadText(text), nil
}

// ExtractText returns the visible text of an HTML document with whitespace
// collapsed. Script, style and noscript subtrees are dropped. Case is
// preserved; tokenization lowercases later.
func ExtractText(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script, style, noscript").Remove()
	return textutil.NormalizeWhitespaces(doc.Text()), nil
}

// LoadText splits plain text into lowercase word tokens.
func LoadText(text string) []string {
	return textutil.Words(text)
}

func fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch URL: HTTP %d", resp.StatusCode)
	}
	return LoadHTML(resp.Body)
}
