package note

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// sourceKeys are the frontmatter fields checked, in order, for the video
// reference of a clipped note.
var sourceKeys = []string{"source", "url", "link", "video"}

// Note is one markdown note split into its YAML frontmatter and body. The
// raw frontmatter block is kept verbatim so a rewrite never reformats
// hand-written metadata.
type Note struct {
	Path        string
	Frontmatter map[string]any
	Body        string

	rawFrontmatter string
}

// Parse splits a note into frontmatter and body. A note without a
// frontmatter block is valid; Frontmatter is empty and Body is the whole
// content.
func Parse(path, content string) (*Note, error) {
	n := &Note{
		Path:        path,
		Frontmatter: map[string]any{},
		Body:        content,
	}

	if !strings.HasPrefix(content, "---\n") {
		return n, nil
	}

	rest := content[len("---\n"):]
	end := closingDelimiter(rest)
	if end < 0 {
		return n, nil
	}
	block := rest[:end]

	after := rest[end+len("\n---"):]
	after = strings.TrimPrefix(after, "\n")

	if err := yaml.Unmarshal([]byte(block), &n.Frontmatter); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter of %s: %w", path, err)
	}
	if n.Frontmatter == nil {
		n.Frontmatter = map[string]any{}
	}
	n.rawFrontmatter = block
	n.Body = after
	return n, nil
}

// closingDelimiter returns the index in rest of the newline that starts the
// closing "---" line, or -1 when none exists. The close must be a bare "---"
// line; a longer dash run or a line merely starting with "---" does not
// terminate the block.
func closingDelimiter(rest string) int {
	offset := 0
	for {
		idx := strings.Index(rest[offset:], "\n---")
		if idx < 0 {
			return -1
		}
		idx += offset
		after := rest[idx+len("\n---"):]
		if after == "" || strings.HasPrefix(after, "\n") {
			return idx
		}
		offset = idx + 1
	}
}

// Field returns a frontmatter value as a string, or "" when absent or not a
// scalar string.
func (n *Note) Field(key string) string {
	value, ok := n.Frontmatter[key]
	if !ok {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// VideoSource returns the note's video reference: the first populated field
// among source, url, link and video.
func (n *Note) VideoSource() string {
	for _, key := range sourceKeys {
		if value := n.Field(key); value != "" {
			return value
		}
	}
	return ""
}

// Render reassembles the note, preserving the original frontmatter block.
func (n *Note) Render() string {
	if n.rawFrontmatter == "" {
		return n.Body
	}
	return "---\n" + n.rawFrontmatter + "\n---\n" + n.Body
}
