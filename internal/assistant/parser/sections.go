package parser

import (
	"regexp"
	"strings"
)

var sectionHeaderRe = regexp.MustCompile(`(?m)^##\s+`)

// DefaultSectionTitle is used when a markdown answer has no clear sections.
const DefaultSectionTitle = "Financial Analysis"

// Section is one renderable card split out of a markdown answer.
type Section struct {
	Title string
	Body  string
}

// SplitSections splits markdown into cards on level-2 header boundaries. With
// zero or one resulting segment the whole text becomes a single card under
// the default title; otherwise each segment's first line becomes the title
// and the remainder the body. This is a heuristic splitter: nested headers
// and headers inside code fences are not special-cased. Empty input yields an
// empty slice.
func SplitSections(markdown string) []Section {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}

	var segments []string
	for _, part := range sectionHeaderRe.Split(markdown, -1) {
		if strings.TrimSpace(part) != "" {
			segments = append(segments, part)
		}
	}

	if len(segments) <= 1 {
		return []Section{{Title: DefaultSectionTitle, Body: strings.TrimSpace(markdown)}}
	}

	sections := make([]Section, 0, len(segments))
	for _, segment := range segments {
		title := segment
		body := ""
		if idx := strings.Index(segment, "\n"); idx >= 0 {
			title = segment[:idx]
			body = segment[idx+1:]
		}
		sections = append(sections, Section{
			Title: strings.TrimSpace(title),
			Body:  strings.TrimSpace(body),
		})
	}
	return sections
}
