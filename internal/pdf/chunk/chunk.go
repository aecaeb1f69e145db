// Package chunk splits section content into overlapping, sentence-aware
// chunks and derives short snippets for display.
package chunk

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentic-docs/docintel/internal/pdf/section"
)

// Chunk is one indexable unit derived from a Section.
type Chunk struct {
	Title   string // section title, suffixed " (Part k)" when split
	Page    int
	Text    string
	Snippet string
}

const (
	targetChunkChars = 512
	overlapSentences = 3
	maxOverlapChars  = 100

	minSentenceLen = 10
	maxSentenceLen = 1000

	snippetMinSentences = 2
	snippetMaxSentences = 4
	snippetMaxChars     = 800
	snippetFallbackChars = 400
	snippetMinSentenceLen = 20
)

// sentenceBoundaryRe inserts a newline before a terminal punctuation mark
// followed by whitespace and an uppercase letter or digit, so naive
// splitting on newlines approximates sentence splitting.
var sentenceBoundaryRe = regexp.MustCompile(`([.!?])\s+([A-Z0-9])`)

var pureDigitDashRe = regexp.MustCompile(`^[\d\-\s]+$`)

// splitSentences returns the sentences of text, filtering out fragments
// shorter than 10 or longer than 1000 characters, and fragments that are
// purely digits, dashes, or whitespace.
func splitSentences(text string) []string {
	marked := sentenceBoundaryRe.ReplaceAllString(text, "$1\n$2")
	raw := strings.Split(marked, "\n")

	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) < minSentenceLen || len(s) > maxSentenceLen {
			continue
		}
		if pureDigitDashRe.MatchString(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

var cueWords = []string{"include", "such as", "example", "important", "main"}

// makeSnippet builds a 2-4 sentence excerpt, prioritizing sentences that
// contain a cue word by moving them to the front. Sentences shorter than
// 20 characters or containing "page " are excluded. Falls back to the
// first 400 raw characters if no sentences qualify.
func makeSnippet(text string) string {
	sentences := splitSentences(text)

	var candidates []string
	for _, s := range sentences {
		if len(s) < snippetMinSentenceLen {
			continue
		}
		if strings.Contains(strings.ToLower(s), "page ") {
			continue
		}
		candidates = append(candidates, s)
	}

	var cueFirst, rest []string
	for _, s := range candidates {
		lower := strings.ToLower(s)
		hit := false
		for _, cue := range cueWords {
			if strings.Contains(lower, cue) {
				hit = true
				break
			}
		}
		if hit {
			cueFirst = append(cueFirst, s)
		} else {
			rest = append(rest, s)
		}
	}
	candidates = append(cueFirst, rest...)

	if len(candidates) == 0 {
		if len(text) > snippetFallbackChars {
			return text[:snippetFallbackChars]
		}
		return text
	}

	n := snippetMaxSentences
	if n > len(candidates) {
		n = len(candidates)
	}
	if n < snippetMinSentences && len(candidates) < snippetMinSentences {
		n = len(candidates)
	}

	snippet := strings.Join(candidates[:n], " ")
	if len(snippet) > snippetMaxChars {
		snippet = snippet[:snippetMaxChars]
	}
	return snippet
}

// Split converts a Section's content into one or more overlapping chunks.
// When a section yields more than one chunk, each chunk's title gets a
// " (Part k)" suffix.
func Split(s section.Section) []Chunk {
	sentences := splitSentences(s.Content)

	if len(sentences) == 0 {
		text := s.Content
		if len(text) > targetChunkChars {
			text = text[:targetChunkChars]
		}
		return []Chunk{{
			Title:   s.Title,
			Page:    s.Page,
			Text:    text,
			Snippet: makeSnippet(text),
		}}
	}

	var texts []string
	var current []string
	currentLen := 0

	closeChunk := func() {
		if len(current) == 0 {
			return
		}
		texts = append(texts, strings.Join(current, " "))
	}

	for _, sent := range sentences {
		if currentLen > 0 && currentLen+len(sent)+1 > targetChunkChars {
			closeChunk()

			overlapStart := len(current) - overlapSentences
			if overlapStart < 0 {
				overlapStart = 0
			}
			overlap := current[overlapStart:]
			overlapText := strings.Join(overlap, " ")
			if len(overlapText) > maxOverlapChars {
				overlapText = overlapText[len(overlapText)-maxOverlapChars:]
			}

			current = nil
			currentLen = 0
			if overlapText != "" {
				current = append(current, overlapText)
				currentLen = len(overlapText)
			}
		}

		current = append(current, sent)
		currentLen += len(sent) + 1
	}
	closeChunk()

	chunks := make([]Chunk, 0, len(texts))
	for i, text := range texts {
		title := s.Title
		if len(texts) > 1 {
			title = fmt.Sprintf("%s (Part %d)", s.Title, i+1)
		}
		chunks = append(chunks, Chunk{
			Title:   title,
			Page:    s.Page,
			Text:    text,
			Snippet: makeSnippet(text),
		})
	}

	return chunks
}
