package httpapi

import (
	"os"

	"github.com/agentic-docs/docintel/internal/docerrors"
	"github.com/agentic-docs/docintel/internal/pdf/font"
	"github.com/agentic-docs/docintel/internal/pdf/outline"
	"github.com/agentic-docs/docintel/internal/pdf/section"
	"github.com/agentic-docs/docintel/internal/pdf/validate"
)

// extractOutline runs the font analyzer and outline extractor over the PDF
// at path, returning the outline alongside the analysis section.Build
// needs to avoid re-parsing the file.
func extractOutline(path string) (*font.Analysis, outline.Outline, error) {
	if _, err := validate.PDF(mustRead(path)); err != nil {
		return nil, outline.Outline{}, docerrors.NewExtractionError("", "invalid PDF", err)
	}

	analysis, err := font.Analyze(path)
	if err != nil {
		return nil, outline.Outline{}, docerrors.NewExtractionError("", "font analysis failed", err)
	}

	return analysis, outline.Extract(analysis), nil
}

func mustRead(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

// sectionsFor builds the sections a document yields, given a path already
// on disk.
func sectionsFor(path string) (outline.Outline, []section.Section, error) {
	analysis, ol, err := extractOutline(path)
	if err != nil {
		return outline.Outline{}, nil, err
	}
	return ol, section.Build(analysis, ol), nil
}

func outlineToDTO(ol outline.Outline) []HeadingDTO {
	out := make([]HeadingDTO, len(ol.Headings))
	for i, h := range ol.Headings {
		out[i] = HeadingDTO{Level: h.Level, Text: h.Text, Page: h.Page}
	}
	return out
}
