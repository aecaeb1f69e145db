package semanticindex

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/agentic-docs/docintel/internal/embeddings"
	"github.com/agentic-docs/docintel/internal/pdf/chunk"
	"github.com/agentic-docs/docintel/internal/pdf/section"
)

const (
	candidateMultiplier = 4
	scoreThreshold      = 0.05

	keywordBonusMax     = 0.1
	keywordBonusPerTerm = 0.02
	headingMatchWeight  = 2
	lengthBonusHigh     = 0.05
	lengthBonusMid      = 0.02
	lengthOptimalMin    = 100
	lengthOptimalMax    = 1000
	headingBonus        = 0.05
	highSemanticBoost   = 1.1
	lowSemanticPenalty  = 0.9
	highSemanticCutoff  = 0.8
	lowSemanticCutoff   = 0.4
)

// Index is an in-memory vector index of document chunks, persisted to disk
// on every mutating call. Reads (Query, Debug, Stats) take a read lock;
// mutations (Ingest, Reset) take the exclusive lock.
type Index struct {
	mu      sync.RWMutex
	dir     string
	dim     int
	chunks  []Chunk
	vectors [][]float32
}

// New opens or creates a vector index persisted under dir, with embedding
// dimensionality dim.
func New(dir string, dim int) (*Index, error) {
	chunks, vectors, err := load(dir)
	if err != nil {
		return nil, err
	}
	return &Index{dir: dir, dim: dim, chunks: chunks, vectors: vectors}, nil
}

// Ingest embeds and appends every chunk produced from sections, under
// docID/filename, and persists the updated index.
func (idx *Index) Ingest(ctx context.Context, docID, filename string, sections []section.Section, embedder embeddings.EmbeddingsProvider) (IngestStats, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var newChunks []Chunk
	var embedTexts []string

	for sIdx, sec := range sections {
		for cIdx, c := range chunk.Split(sec) {
			sectionID := SectionID(docID, sIdx+1, cIdx+1)
			newChunks = append(newChunks, Chunk{
				SectionID:      sectionID,
				DocID:          docID,
				Filename:       filename,
				Page:           c.Page,
				Title:          c.Title,
				Text:           c.Text,
				Snippet:        c.Snippet,
				VectorOffset:   len(idx.vectors) + len(newChunks),
				PDFName:        pdfDisplayName(filename),
				SectionHeading: c.Title,
				SectionContent: c.Text,
			})
			embedTexts = append(embedTexts, embedText(c.Title, c.Text))
		}
	}

	if len(newChunks) == 0 {
		return IngestStats{}, nil
	}

	results, err := embedder.EmbedBatch(ctx, embedTexts)
	if err != nil {
		return IngestStats{}, fmt.Errorf("failed to embed chunks; %w", err)
	}
	if len(results) != len(newChunks) {
		return IngestStats{}, fmt.Errorf("embedding count mismatch; got %d, want %d", len(results), len(newChunks))
	}

	for _, r := range results {
		idx.vectors = append(idx.vectors, normalize(r.Embedding))
	}
	idx.chunks = append(idx.chunks, newChunks...)

	if err := save(idx.dir, idx.chunks, idx.vectors, idx.dim); err != nil {
		return IngestStats{}, err
	}
	return IngestStats{ChunksIngested: len(newChunks)}, nil
}

// Query embeds text and returns up to k scored, deduplicated results.
func (idx *Index) Query(ctx context.Context, text string, k int, embedder embeddings.EmbeddingsProvider) ([]Result, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	queryText := strings.TrimSpace(text)
	if queryText == "" || len(idx.vectors) == 0 || len(queryText) < 3 {
		return nil, nil
	}
	if k <= 0 {
		k = 5
	}

	qResult, err := embedder.Embed(ctx, embeddings.Request{Content: queryText})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query; %w", err)
	}
	q := normalize(qResult.Embedding)

	type scored struct {
		i    int
		sims float64
	}
	sims := make([]scored, len(idx.vectors))
	for i, v := range idx.vectors {
		sims[i] = scored{i: i, sims: dot(v, q)}
	}
	sort.Slice(sims, func(a, b int) bool { return sims[a].sims > sims[b].sims })

	candidatesK := k * candidateMultiplier
	if candidatesK > len(sims) {
		candidatesK = len(sims)
	}
	if candidatesK < 1 {
		candidatesK = 1
	}

	var results []Result
	seen := map[string]bool{}

	for _, s := range sims[:candidatesK] {
		if len(results) >= k {
			break
		}
		c := idx.chunks[s.i]
		semanticScore := s.sims

		finalScore := enhancedScore(queryText, c, semanticScore)
		if finalScore < scoreThreshold {
			continue
		}

		fingerprint := contentFingerprint(c.SectionContent)
		if seen[fingerprint] {
			continue
		}

		results = append(results, Result{
			DocID:           c.DocID,
			Filename:        c.Filename,
			Page:            c.Page,
			Title:           c.Title,
			Snippet:         c.Snippet,
			Score:           finalScore,
			SemanticScore:   semanticScore,
			PDFName:         c.PDFName,
			SectionHeading:  c.SectionHeading,
			SectionContent:  c.SectionContent,
			SectionID:       c.SectionID,
			RelevanceReason: relevanceReason(queryText, c, finalScore),
			Confidence:      confidenceBand(finalScore),
		})
		seen[fingerprint] = true
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Reset discards all chunks and vectors and persists the empty state.
func (idx *Index) Reset() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.chunks = nil
	idx.vectors = nil
	return save(idx.dir, idx.chunks, idx.vectors, idx.dim)
}

// Stats reports the index's current size.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{ChunkCount: len(idx.chunks), VectorCount: len(idx.vectors), Dimensions: idx.dim}
}

// Debug returns a snapshot of every indexed chunk, for operator inspection.
func (idx *Index) Debug() []Chunk {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]Chunk, len(idx.chunks))
	copy(out, idx.chunks)
	return out
}

func embedText(title, content string) string {
	snippet := content
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return title + ". " + snippet
}

func pdfDisplayName(filename string) string {
	name := strings.TrimSuffix(filename, ".pdf")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Title(strings.ToLower(name)) //nolint:staticcheck // matches teacher display formatting, not locale text
}

func normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq) + 1e-6
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func contentFingerprint(content string) string {
	preview := content
	if len(preview) > 300 {
		preview = preview[:300]
	}
	preview = strings.ToLower(strings.TrimSpace(preview))
	sum := md5.Sum([]byte(preview)) //nolint:gosec // dedup fingerprint, not a security boundary
	return hex.EncodeToString(sum[:])[:16]
}

func queryTerms(queryText string, minLen int) map[string]bool {
	terms := map[string]bool{}
	for _, t := range strings.Fields(strings.ToLower(queryText)) {
		if len(t) > minLen {
			terms[t] = true
		}
	}
	return terms
}

func enhancedScore(queryText string, c Chunk, semanticScore float64) float64 {
	score := semanticScore

	terms := queryTerms(queryText, 2)
	content := strings.ToLower(c.SectionContent)
	heading := strings.ToLower(c.SectionHeading)

	keywordMatches := 0
	for term := range terms {
		if strings.Contains(content, term) {
			keywordMatches++
		}
		if strings.Contains(heading, term) {
			keywordMatches += headingMatchWeight
		}
	}
	keywordBonus := float64(keywordMatches) * keywordBonusPerTerm
	if keywordBonus > keywordBonusMax {
		keywordBonus = keywordBonusMax
	}
	score += keywordBonus

	contentLen := len(content)
	switch {
	case contentLen >= lengthOptimalMin && contentLen <= lengthOptimalMax:
		score += lengthBonusHigh
	case contentLen > lengthOptimalMax:
		score += lengthBonusMid
	}

	for term := range terms {
		if strings.Contains(heading, term) {
			score += headingBonus
			break
		}
	}

	switch {
	case semanticScore > highSemanticCutoff:
		score *= highSemanticBoost
	case semanticScore < lowSemanticCutoff:
		score *= lowSemanticPenalty
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}

func confidenceBand(score float64) string {
	switch {
	case score > 0.8:
		return "Very High"
	case score > 0.6:
		return "High"
	case score > 0.4:
		return "Medium"
	default:
		return "Low"
	}
}

func relevanceReason(queryText string, c Chunk, finalScore float64) string {
	terms := queryTerms(queryText, 2)
	content := strings.ToLower(c.SectionContent)
	heading := strings.ToLower(c.SectionHeading)

	var matching []string
	for term := range terms {
		if strings.Contains(content, term) || strings.Contains(heading, term) {
			matching = append(matching, term)
		}
	}
	sort.Strings(matching)
	if len(matching) > 3 {
		matching = matching[:3]
	}

	switch {
	case finalScore > 0.8:
		if len(matching) > 0 {
			return fmt.Sprintf("Highly relevant - contains key terms: %s", strings.Join(matching, ", "))
		}
		return "Highly relevant - strong semantic and contextual match"
	case finalScore > 0.6:
		if len(matching) > 0 {
			top := matching
			if len(top) > 2 {
				top = top[:2]
			}
			return fmt.Sprintf("Strongly related - discusses: %s", strings.Join(top, ", "))
		}
		if heading != "" {
			topic := strings.SplitN(heading, ":", 2)[0]
			topic = strings.TrimSpace(topic)
			if len(topic) > 40 {
				topic = topic[:40]
			}
			return fmt.Sprintf("Related section on %s", topic)
		}
		return "Strongly related topic with similar context"
	case finalScore > 0.4:
		for term := range terms {
			if strings.Contains(heading, term) {
				return fmt.Sprintf("Topic '%s' mentioned in heading", term)
			}
		}
		return "Related topic with similar themes and context"
	default:
		if len(matching) > 0 {
			top := matching
			if len(top) > 2 {
				top = top[:2]
			}
			return fmt.Sprintf("Potentially related - mentions: %s", strings.Join(top, ", "))
		}
		return "Additional context on related topic"
	}
}
