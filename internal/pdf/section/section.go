// Package section joins an outline to page content by walking the spans
// between consecutive headings.
package section

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentic-docs/docintel/internal/pdf/font"
	"github.com/agentic-docs/docintel/internal/pdf/outline"
)

// Section is an outline-anchored content unit.
type Section struct {
	Title   string
	Page    int
	Content string
}

const (
	maxContentLines = 200
	maxContentChars = 4000
	minContentChars = 30

	fallbackChunkChars = 2000
	fallbackMaxSections = 10
)

// Build walks the spans between consecutive headings, collecting content
// on the heading's own page (starting after the heading text), all lines
// on intermediate pages, and lines up to the next heading on the end page.
// Sections with fewer than 30 characters of trimmed content are dropped.
// If ol has no headings, Build falls back to splitting every page into
// fixed-size chunks.
func Build(analysis *font.Analysis, ol outline.Outline) []Section {
	if len(ol.Headings) == 0 {
		return fallbackSplit(analysis)
	}

	byPage := groupByPage(analysis.Spans)
	pages := sortedPageKeys(byPage)

	var sections []Section
	for i, h := range ol.Headings {
		var next *outline.Heading
		if i+1 < len(ol.Headings) {
			next = &ol.Headings[i+1]
		}

		content := collectBetween(byPage, pages, h, next)
		content = capContent(content)

		if len(strings.TrimSpace(content)) < minContentChars {
			continue
		}

		sections = append(sections, Section{Title: h.Text, Page: h.Page, Content: content})
	}

	if len(sections) == 0 {
		return fallbackSplit(analysis)
	}

	return dedupeTitles(sections)
}

func groupByPage(spans []font.Span) map[int][]font.Span {
	byPage := make(map[int][]font.Span)
	for _, s := range spans {
		byPage[s.Page] = append(byPage[s.Page], s)
	}
	for p := range byPage {
		sort.SliceStable(byPage[p], func(i, j int) bool { return byPage[p][i].Y > byPage[p][j].Y })
	}
	return byPage
}

func sortedPageKeys(byPage map[int][]font.Span) []int {
	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// collectBetween walks page spans from h's page through next's page (or to
// the end of the document if next is nil), collecting text that falls
// between the two heading markers.
func collectBetween(byPage map[int][]font.Span, pages []int, h outline.Heading, next *outline.Heading) string {
	var lines []string

	startIdx := indexOf(pages, h.Page)
	if startIdx < 0 {
		return ""
	}

	endPage := pages[len(pages)-1] + 1
	if next != nil {
		endPage = next.Page
	}

	headingSeen := false
	for _, p := range pages[startIdx:] {
		if p > endPage {
			break
		}
		spans := byPage[p]
		for _, s := range spans {
			text := strings.TrimSpace(s.Text)
			if text == "" {
				continue
			}

			if p == h.Page && !headingSeen {
				if strings.EqualFold(text, h.Text) {
					headingSeen = true
				}
				continue
			}

			if next != nil && p == next.Page && strings.EqualFold(text, next.Text) {
				return strings.Join(lines, "\n")
			}

			lines = append(lines, text)
		}

		if p == h.Page && !headingSeen {
			// Heading span wasn't found verbatim on its own page (OCR/
			// whitespace drift); treat every span on that page as content.
			headingSeen = true
		}
	}

	return strings.Join(lines, "\n")
}

func indexOf(sorted []int, v int) int {
	for i, x := range sorted {
		if x == v {
			return i
		}
	}
	return -1
}

func capContent(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > maxContentLines {
		lines = lines[:maxContentLines]
	}
	content = strings.Join(lines, "\n")
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	return content
}

func dedupeTitles(sections []Section) []Section {
	seen := make(map[string]bool)
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		key := strings.ToLower(s.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// fallbackSplit is used when the outline extractor returns no headings: it
// splits every page into chunks of at most 2000 characters, titled
// "Page N Content" (or "Page N Content (Part k)" for the second chunk
// onward), and returns at most the first 10 such chunks.
func fallbackSplit(analysis *font.Analysis) []Section {
	byPage := groupByPage(analysis.Spans)
	pages := sortedPageKeys(byPage)

	var out []Section
	for _, p := range pages {
		var sb strings.Builder
		for _, s := range byPage[p] {
			text := strings.TrimSpace(s.Text)
			if text == "" {
				continue
			}
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
		full := sb.String()

		part := 1
		for len(full) > 0 {
			chunkLen := fallbackChunkChars
			if chunkLen > len(full) {
				chunkLen = len(full)
			}
			chunk := full[:chunkLen]
			full = full[chunkLen:]

			title := fmt.Sprintf("Page %d Content", p)
			if part > 1 {
				title = fmt.Sprintf("Page %d Content (Part %d)", p, part)
			}

			if len(strings.TrimSpace(chunk)) >= minContentChars {
				out = append(out, Section{Title: title, Page: p, Content: chunk})
			}
			part++

			if len(out) >= fallbackMaxSections {
				return out
			}
		}
	}

	return out
}
