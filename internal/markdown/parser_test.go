package markdown

import (
	"strings"
	"testing"
)

func TestParse_Title(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"front matter wins", "---\ntitle: From FM\n---\n# From Heading\n", "From FM"},
		{"first h1", "## Sub\n\n# Main\n", "Main"},
		{"none", "just text", ""},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Parse([]byte(tt.input)).Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_Plain(t *testing.T) {
	input := "---\ntags: [a]\n---\n# Intro\n\nSome **bold** and `code`.\n\n```go\nfunc main() {}\n```\n"
	doc := NewParser().Parse([]byte(input))

	for _, want := range []string{"Intro", "Some bold and code.", "func main() {}"} {
		if !strings.Contains(doc.Plain, want) {
			t.Errorf("Plain missing %q:\n%s", want, doc.Plain)
		}
	}
	if strings.Contains(doc.Plain, "tags") {
		t.Errorf("Plain contains front matter:\n%s", doc.Plain)
	}
	if len(doc.Tags()) != 1 || doc.Tags()[0] != "a" {
		t.Errorf("Tags() = %v", doc.Tags())
	}
}

func TestPlainContent(t *testing.T) {
	doc := NewParser().Parse([]byte("---\ntitle: x\n---\nbody\n"))
	if got := doc.PlainContent(); got != "body\n" {
		t.Errorf("PlainContent() = %q", got)
	}

	doc = NewParser().Parse([]byte("no front matter"))
	if got := doc.PlainContent(); got != "no front matter" {
		t.Errorf("PlainContent() = %q", got)
	}
}
