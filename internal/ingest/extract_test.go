package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	e := NewExtractor()

	got, err := e.Extract("notes.txt", []byte("hello world\nsecond line"))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if got != "hello world\nsecond line" {
		t.Errorf("Extract() = %q, want passthrough", got)
	}
}

func TestExtractMarkdownStripsFormatting(t *testing.T) {
	e := NewExtractor()

	md := "# Vacation Policy\n\nEmployees get **20 days** of leave.\n\n- carry over\n- payout\n"
	got, err := e.Extract("policy.md", []byte(md))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}

	for _, marker := range []string{"#", "**"} {
		if strings.Contains(got, marker) {
			t.Errorf("flattened text still contains %q: %q", marker, got)
		}
	}
	for _, want := range []string{"Vacation Policy", "20 days", "carry over", "payout"} {
		if !strings.Contains(got, want) {
			t.Errorf("flattened text missing %q: %q", want, got)
		}
	}
	// Blocks are separated by blank lines for the splitter.
	if !strings.Contains(got, "\n\n") {
		t.Errorf("expected paragraph breaks in %q", got)
	}
}

func TestExtractMarkdownTable(t *testing.T) {
	e := NewExtractor()

	md := "| Name | Role |\n|------|------|\n| Ada | Engineer |\n"
	got, err := e.Extract("team.md", []byte(md))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	for _, want := range []string{"Name", "Ada", "Engineer"} {
		if !strings.Contains(got, want) {
			t.Errorf("table text missing %q: %q", want, got)
		}
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	e := NewExtractor()

	tests := []string{"report.pdf", "deck.pptx", "noext"}
	for _, filename := range tests {
		_, err := e.Extract(filename, []byte("content"))
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("Extract(%q) error = %v, want ErrUnsupportedType", filename, err)
		}
	}
}

func TestExtractCaseInsensitiveExtension(t *testing.T) {
	e := NewExtractor()

	if _, err := e.Extract("NOTES.TXT", []byte("x")); err != nil {
		t.Errorf("Extract(NOTES.TXT) error: %v", err)
	}
	if _, err := e.Extract("Readme.MD", []byte("x")); err != nil {
		t.Errorf("Extract(Readme.MD) error: %v", err)
	}
}
