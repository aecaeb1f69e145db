package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-docs/docintel/internal/pdf/font"
)

func TestDetectDocType(t *testing.T) {
	cases := []struct {
		text string
		want DocType
	}{
		{"this is a request for proposal document", DocTypeRFP},
		{"overview of the foundation level syllabus", DocTypeISTQB},
		{"stem pathways for high school students", DocTypeStem},
		{"just a regular memo about lunch", DocTypeDefault},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, DetectDocType(c.text), "DetectDocType(%q)", c.text)
	}
}

func TestPageStartOffset(t *testing.T) {
	assert.Equal(t, 0, PageStartOffset("this deck covers stem pathways"))
	assert.Equal(t, 1, PageStartOffset("an ordinary report"))
}

func TestIsFormDocument(t *testing.T) {
	formText := "application form ltc advance government servant permanent or temporary"
	assert.True(t, IsFormDocument(formText))
	assert.False(t, IsFormDocument("a normal document about weather"))
}

func TestExtractNoSpansReturnsEmptyOutline(t *testing.T) {
	out := Extract(&font.Analysis{})
	assert.Empty(t, out.Title)
	assert.Nil(t, out.Headings)
}

func TestExtractProducesHeadingsFromDefaultRules(t *testing.T) {
	analysis := &font.Analysis{
		BodySize: 10,
		Spans: []font.Span{
			{Text: "Quarterly Report", Page: 1, FontSize: 20},
			{Text: "1. Introduction", Page: 1, FontSize: 16, Y: 700},
			{Text: "This section introduces the report's scope and purpose.", Page: 1, FontSize: 10, Y: 650},
			{Text: "1.1 Background", Page: 2, FontSize: 14, Y: 700},
			{Text: "More body text describing background context here.", Page: 2, FontSize: 10, Y: 650},
		},
	}

	out := Extract(analysis)
	require.NotEmpty(t, out.Headings)

	var intro *Heading
	for i := range out.Headings {
		if out.Headings[i].Text == "1. Introduction" {
			intro = &out.Headings[i]
		}
	}
	require.NotNil(t, intro, "expected '1. Introduction' heading in %+v", out.Headings)
	assert.Equal(t, "H1", intro.Level)
}

func TestEnforceHierarchyPromotesFirstHeading(t *testing.T) {
	headings := enforceHierarchy([]candidateHeading{
		{Text: "Deep heading", Page: 1, BaseLevel: 3},
		{Text: "Sibling", Page: 1, BaseLevel: 3},
	})
	require.Len(t, headings, 2)
	assert.Equal(t, "H1", headings[0].Level)
}

func TestExtractTitleRFP(t *testing.T) {
	spans := []font.Span{{Text: "Cover Page", FontSize: 24}}
	title := ExtractTitle(spans, "this is a request for proposal for the ontario digital library")
	assert.NotEmpty(t, title)
}

func TestExtractTitleDefaultPicksLargestFont(t *testing.T) {
	spans := []font.Span{
		{Text: "Small print", FontSize: 10},
		{Text: "Main Title", FontSize: 28},
	}
	title := ExtractTitle(spans, "a normal report body")
	assert.Equal(t, "Main Title", title)
}
