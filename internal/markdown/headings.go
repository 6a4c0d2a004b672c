package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// Heading represents a markdown heading.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-based line number in the original content
}

// ExtractHeadings extracts ATX and setext headings from markdown content.
func ExtractHeadings(content []byte) []Heading {
	return NewParser().Parse(content).Headings
}

func headings(root ast.Node, source []byte, lineOffset int) []Heading {
	var out []Heading

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}

		txt := strings.TrimSpace(inlineText(h, source))
		if txt == "" {
			return ast.WalkSkipChildren, nil
		}

		line := lineOffset + 1
		if lines := h.Lines(); lines.Len() > 0 {
			line += bytes.Count(source[:lines.At(0).Start], []byte("\n"))
		}

		out = append(out, Heading{Level: h.Level, Text: txt, Line: line})
		return ast.WalkSkipChildren, nil
	})

	return out
}

// inlineText concatenates the text of n's inline descendants.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
			if c.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		default:
			b.WriteString(inlineText(c, source))
		}
	}
	return b.String()
}
