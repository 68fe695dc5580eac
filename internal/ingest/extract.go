package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ErrUnsupportedType is returned when a file's extension has no extractor.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extractor turns uploaded files into plain text. Plain text files pass
// through unchanged; markdown is parsed and flattened so that formatting
// syntax does not leak into chunks or embeddings.
type Extractor struct {
	parser goldmark.Markdown
}

// NewExtractor creates an extractor with markdown table support.
func NewExtractor() *Extractor {
	return &Extractor{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Extract returns the plain text content of the file, dispatching on the
// filename extension. Unknown extensions return ErrUnsupportedType.
func (e *Extractor) Extract(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return string(content), nil
	case ".md", ".markdown":
		return e.flattenMarkdown(content), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}
}

// flattenMarkdown parses markdown into an AST and renders it back as plain
// text, one paragraph per block, separated by blank lines.
func (e *Extractor) flattenMarkdown(content []byte) string {
	doc := e.parser.Parser().Parse(text.NewReader(content))

	var blocks []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if blockText := extractBlockText(node, content); blockText != "" {
			blocks = append(blocks, blockText)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// extractBlockText collects the visible text of a block node and its children.
func extractBlockText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.CodeBlock:
			writeBlockLines(&b, v, content)
		case *ast.FencedCodeBlock:
			writeBlockLines(&b, v, content)
		case *ast.ListItem:
			ensureNewline(&b)
		default:
			// Table rows from the extension keep one row per line so the
			// splitter can break between them.
			kind := node.Kind().String()
			if strings.Contains(kind, "TableRow") || strings.Contains(kind, "TableHeader") {
				ensureNewline(&b)
			} else if strings.Contains(kind, "TableCell") {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteString(" | ")
				}
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func writeBlockLines(b *strings.Builder, node ast.Node, content []byte) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
}

func ensureNewline(b *strings.Builder) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
}
