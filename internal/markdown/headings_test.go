package markdown

import "testing"

func TestExtractHeadings(t *testing.T) {
	input := `---
title: Test
---

# Heading 1

Some text.

## Heading *2*

Setext
------

### Heading 3 ###
`
	headings := ExtractHeadings([]byte(input))

	tests := []struct {
		level int
		text  string
		line  int
	}{
		{1, "Heading 1", 5},
		{2, "Heading 2", 9},
		{2, "Setext", 11},
		{3, "Heading 3", 14},
	}

	if len(headings) != len(tests) {
		t.Fatalf("got %d headings, want %d: %+v", len(headings), len(tests), headings)
	}

	for i, tt := range tests {
		if headings[i].Level != tt.level {
			t.Errorf("[%d] level: got %d, want %d", i, headings[i].Level, tt.level)
		}
		if headings[i].Text != tt.text {
			t.Errorf("[%d] text: got %q, want %q", i, headings[i].Text, tt.text)
		}
		if headings[i].Line != tt.line {
			t.Errorf("[%d] line: got %d, want %d", i, headings[i].Line, tt.line)
		}
	}
}

func TestExtractHeadings_IgnoresCodeBlocks(t *testing.T) {
	input := "# Real\n\n```\n# not a heading\n```\n"
	headings := ExtractHeadings([]byte(input))

	if len(headings) != 1 || headings[0].Text != "Real" {
		t.Errorf("got %+v", headings)
	}
}
