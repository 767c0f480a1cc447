package overlay

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"
)

var ErrEmptyText = errors.New("overlay: annotation text is empty")

// Annotation marks a literal substring of a response with a category and comment.
// The json tags follow the backend highlight shape.
type Annotation struct {
	Text     string `json:"text"`
	Category string `json:"type"`
	Comment  string `json:"comment"`
}

// Segment is one run of source text, either plain or highlighted.
type Segment struct {
	Text        string
	Highlighted bool
	Category    string
	Comment     string
}

// Marked is the rendered form of a source text. It is never mutated after Render.
type Marked struct {
	segments []Segment
}

type claim struct {
	start int
	end   int
	ann   int
}

// Render wraps every occurrence of every annotation text found in source.
// Longer texts claim first; equal lengths keep input order. An occurrence that
// intersects an already claimed span is skipped so markup always nests cleanly.
func Render(source string, annotations []Annotation) (Marked, error) {
	for i, a := range annotations {
		if a.Text == "" {
			return Marked{}, fmt.Errorf("%w (annotation %d)", ErrEmptyText, i)
		}
	}

	order := make([]int, len(annotations))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(annotations[order[i]].Text) > len(annotations[order[j]].Text)
	})

	claims := make([]claim, 0)
	for _, idx := range order {
		for _, at := range occurrences(source, annotations[idx].Text) {
			c := claim{start: at, end: at + len(annotations[idx].Text), ann: idx}
			if intersects(claims, c) {
				continue
			}
			claims = append(claims, c)
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		return claims[i].start < claims[j].start
	})

	segments := make([]Segment, 0, 2*len(claims)+1)
	cursor := 0
	for _, c := range claims {
		if c.start > cursor {
			segments = append(segments, Segment{Text: source[cursor:c.start]})
		}
		a := annotations[c.ann]
		segments = append(segments, Segment{
			Text:        source[c.start:c.end],
			Highlighted: true,
			Category:    a.Category,
			Comment:     a.Comment,
		})
		cursor = c.end
	}
	if cursor < len(source) {
		segments = append(segments, Segment{Text: source[cursor:]})
	}
	return Marked{segments: segments}, nil
}

// occurrences returns the byte offsets of non-overlapping literal matches,
// scanning left to right and resuming after each match.
func occurrences(source, text string) []int {
	var out []int
	from := 0
	for from <= len(source)-len(text) {
		off := strings.Index(source[from:], text)
		if off < 0 {
			break
		}
		out = append(out, from+off)
		from += off + len(text)
	}
	return out
}

func intersects(claims []claim, c claim) bool {
	for _, existing := range claims {
		if c.start < existing.end && existing.start < c.end {
			return true
		}
	}
	return false
}

// Segments returns a copy of the rendered runs in source order.
func (m Marked) Segments() []Segment {
	out := make([]Segment, len(m.segments))
	copy(out, m.segments)
	return out
}

// Text concatenates the text content of every segment. It always equals the
// source passed to Render.
func (m Marked) Text() string {
	var b strings.Builder
	for _, seg := range m.segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Highlights counts highlighted segments.
func (m Marked) Highlights() int {
	n := 0
	for _, seg := range m.segments {
		if seg.Highlighted {
			n++
		}
	}
	return n
}

// HTML emits the segments as escaped markup. Each highlight becomes
//
//	<span class="highlight highlight-{category}">{text}<span class="comment">{comment}</span></span>
func (m Marked) HTML() template.HTML {
	var b strings.Builder
	for _, seg := range m.segments {
		if !seg.Highlighted {
			b.WriteString(template.HTMLEscapeString(seg.Text))
			continue
		}
		b.WriteString(`<span class="highlight highlight-`)
		b.WriteString(ClassToken(seg.Category))
		b.WriteString(`">`)
		b.WriteString(template.HTMLEscapeString(seg.Text))
		b.WriteString(`<span class="comment">`)
		b.WriteString(template.HTMLEscapeString(seg.Comment))
		b.WriteString(`</span></span>`)
	}
	return template.HTML(b.String())
}

// ClassToken lower-cases a category and collapses every run of characters
// outside [a-z0-9_-] into a single '-'.
func ClassToken(category string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(category)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
			dash = false
		default:
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return b.String()
}
