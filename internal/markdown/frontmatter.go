package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the --- delimited YAML block at the top of a document.
type Frontmatter struct {
	Title string
	Tags  []string
	// Raw holds every top-level scalar or list field, lists joined with ", ".
	Raw     map[string]string
	EndLine int // 1-based line of the closing delimiter
}

// ExtractFrontmatter parses the front matter block. It returns nil when the
// content has none or the block is never closed. A block that is not valid
// YAML still reports EndLine so the body can be separated from it.
func ExtractFrontmatter(content []byte) *Frontmatter {
	lines := bytes.Split(content, []byte("\n"))
	if len(lines) == 0 || string(bytes.TrimSpace(lines[0])) != "---" {
		return nil
	}

	end := 0
	for i := 1; i < len(lines); i++ {
		if string(bytes.TrimSpace(lines[i])) == "---" {
			end = i
			break
		}
	}
	if end == 0 {
		return nil
	}

	fm := &Frontmatter{Raw: make(map[string]string), EndLine: end + 1}

	var fields map[string]any
	if err := yaml.Unmarshal(bytes.Join(lines[1:end], []byte("\n")), &fields); err != nil {
		return fm
	}
	for k, v := range fields {
		switch v := v.(type) {
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				items = append(items, fmt.Sprint(item))
			}
			fm.Raw[k] = strings.Join(items, ", ")
		case map[string]any, nil:
		default:
			fm.Raw[k] = fmt.Sprint(v)
		}
	}

	if title, ok := fields["title"].(string); ok {
		fm.Title = title
	}
	fm.Tags = tagList(fields["tags"])
	return fm
}

// tagList accepts tags as a YAML list or a comma separated string.
func tagList(v any) []string {
	var raw []string
	switch v := v.(type) {
	case []any:
		for _, item := range v {
			raw = append(raw, fmt.Sprint(item))
		}
	case string:
		raw = strings.Split(v, ",")
	}

	var tags []string
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
