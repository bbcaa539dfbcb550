package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadText(t *testing.T) {
	tokens := LoadText("The quick, quick FOX!")
	want := []string{"the", "quick", "quick", "fox"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestLoadHTML(t *testing.T) {
	page := `<html><head><title>Title</title>
<script>var hidden = "script text";</script>
<style>.hidden { color: red; }</style>
</head><body><p>Visible <b>paragraph</b> text.</p></body></html>`

	tokens, err := LoadHTML(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}

	joined := strings.Join(tokens, " ")
	if !strings.Contains(joined, "visible paragraph text") {
		t.Errorf("tokens = %v, missing body text", tokens)
	}
	if strings.Contains(joined, "hidden") {
		t.Errorf("tokens = %v, script or style text leaked", tokens)
	}
}

func TestLoadTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte("alpha beta Gamma"), 0644); err != nil {
		t.Fatal(err)
	}

	tokens, err := Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 3 || tokens[2] != "gamma" {
		t.Errorf("tokens = %v, want [alpha beta gamma]", tokens)
	}
}

func TestLoadHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	page := "<p>Hello <b>World</b></p><script>var x = 1;</script>"
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		t.Fatal(err)
	}

	tokens, err := Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(tokens, " ") != "hello world" {
		t.Errorf("tokens = %v, want [hello world]", tokens)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
