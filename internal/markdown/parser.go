package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parser wraps goldmark for markdown processing.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(),
	}
}

// Document contains the metadata extracted from one markdown file.
type Document struct {
	Content     []byte
	Frontmatter *Frontmatter
	Headings    []Heading
	Plain       string
}

// Parse parses markdown content. Front matter is split off before the body
// is handed to goldmark so that its closing delimiter is not read as a
// setext underline.
func (p *Parser) Parse(content []byte) *Document {
	fm := ExtractFrontmatter(content)
	body, offset := content, 0
	if fm != nil {
		body, offset = stripLines(content, fm.EndLine)
	}

	root := p.md.Parser().Parse(text.NewReader(body))

	return &Document{
		Content:     content,
		Frontmatter: fm,
		Headings:    headings(root, body, offset),
		Plain:       plainText(root, body),
	}
}

// Title returns the front matter title, else the first level-one heading.
func (d *Document) Title() string {
	if d.Frontmatter != nil && d.Frontmatter.Title != "" {
		return d.Frontmatter.Title
	}
	for _, h := range d.Headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}

// Tags returns the front matter tags, if any.
func (d *Document) Tags() []string {
	if d.Frontmatter == nil {
		return nil
	}
	return d.Frontmatter.Tags
}

// PlainContent returns the document source without front matter.
func (d *Document) PlainContent() string {
	if d.Frontmatter != nil && d.Frontmatter.EndLine > 0 {
		body, _ := stripLines(d.Content, d.Frontmatter.EndLine)
		return string(body)
	}
	return string(d.Content)
}

// stripLines drops the first n lines of content.
func stripLines(content []byte, n int) ([]byte, int) {
	rest := content
	for i := 0; i < n; i++ {
		nl := bytes.IndexByte(rest, '\n')
		if nl < 0 {
			return nil, n
		}
		rest = rest[nl+1:]
	}
	return rest, n
}

// plainText flattens the AST to text for the search index.
func plainText(root ast.Node, source []byte) string {
	var b strings.Builder

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && b.Len() > 0 {
				b.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			b.Write(n.URL(source))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
