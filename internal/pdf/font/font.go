// Package font extracts per-span geometry and font metadata from PDF pages.
package font

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/unidoc/unipdf/v4/core"
	"github.com/unidoc/unipdf/v4/extractor"
	pdf "github.com/unidoc/unipdf/v4/model"
)

// openPDF opens path and returns the file handle (caller must Close) along
// with a parsed reader.
func openPDF(path string) (*os.File, *pdf.PdfReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s; %w", path, err)
	}

	reader, err := pdf.NewPdfReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to parse PDF %s; %w", path, err)
	}

	return f, reader, nil
}

// Span is one rendered text run with geometry and style attributes.
type Span struct {
	Text      string
	Page      int // 1-based
	FontSize  float64
	FontName  string
	IsBold    bool
	X         float64
	Y         float64
	Length    int
	WordCount int
}

// boldFlagBit is the ForceBold flag: bit 19, counting from bit 1 (value
// 1<<18), of the PDF FontDescriptor /Flags integer.
const boldFlagBit = 1 << 18

// Analysis holds every span extracted from a document plus derived
// body-size statistics.
type Analysis struct {
	Spans       []Span
	SizeHistogram map[int]int
	BodySize    float64
}

// Analyze opens path and extracts spans from every page.
func Analyze(path string) (*Analysis, error) {
	f, pdfReader, err := openPDF(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count; %w", err)
	}

	var spans []Span
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page, err := pdfReader.GetPage(pageNum)
		if err != nil {
			continue
		}
		pageSpans, err := extractPageSpans(page, pageNum)
		if err != nil {
			continue
		}
		spans = append(spans, pageSpans...)
	}

	hist := make(map[int]int)
	for _, s := range spans {
		hist[int(math.Round(s.FontSize))]++
	}

	return &Analysis{
		Spans:         spans,
		SizeHistogram: hist,
		BodySize:      modeSize(hist),
	}, nil
}

// extractPageSpans groups a page's text marks into spans, one per
// contiguous run of marks sharing font name, size, and bold flag.
func extractPageSpans(page *pdf.PdfPage, pageNum int) ([]Span, error) {
	ex, err := extractor.New(page)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor; %w", err)
	}

	pageText, _, _, err := ex.ExtractPageText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract page text; %w", err)
	}

	marks := pageText.Marks()
	var spans []Span
	var cur *Span
	var curBold bool

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			cur.Length = len(cur.Text)
			cur.WordCount = len(strings.Fields(cur.Text))
			cur.IsBold = curBold
			spans = append(spans, *cur)
		}
		cur = nil
	}

	for _, m := range marks.Elements() {
		fontName := ""
		fontSize := m.FontSize
		bold := strings.Contains(strings.ToLower(fontName), "bold")
		if m.Font != nil {
			fontName = m.Font.BaseFont()
			bold = strings.Contains(strings.ToLower(fontName), "bold")
			if desc, err := m.Font.GetFontDescriptor(); err == nil && desc != nil {
				if flags, ok := core.GetIntVal(desc.Flags); ok {
					if flags&boldFlagBit != 0 {
						bold = true
					}
				}
			}
		}

		sameRun := cur != nil &&
			cur.FontName == fontName &&
			math.Abs(cur.FontSize-fontSize) < 0.5 &&
			curBold == bold &&
			math.Abs(cur.Y-m.BBox.Lly) < 1.0

		if sameRun {
			cur.Text += m.Text
			continue
		}

		flush()
		cur = &Span{
			Text:     m.Text,
			Page:     pageNum,
			FontSize: fontSize,
			FontName: fontName,
			X:        m.BBox.Llx,
			Y:        m.BBox.Lly,
		}
		curBold = bold
	}
	flush()

	return spans, nil
}

// modeSize returns the most frequent rounded font size, ties broken by the
// largest size.
func modeSize(hist map[int]int) float64 {
	if len(hist) == 0 {
		return 12.0
	}

	sizes := make([]int, 0, len(hist))
	for s := range hist {
		sizes = append(sizes, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	best := sizes[0]
	bestCount := hist[sizes[0]]
	for _, s := range sizes {
		if hist[s] > bestCount {
			best = s
			bestCount = hist[s]
		}
	}
	return float64(best)
}
