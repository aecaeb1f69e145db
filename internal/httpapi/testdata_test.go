package httpapi

// minimalPDF is a hand-built, small-but-valid PDF: one page carrying a
// text run through a Helvetica resource, enough for the font analyzer and
// outline classifier to walk without a real authoring toolchain.
func minimalPDF(text string) []byte {
	content := `%PDF-1.4
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
2 0 obj
<< /Type /Pages /Kids [3 0 R] /Count 1 >>
endobj
3 0 obj
<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>
endobj
4 0 obj
<< /Length 44 >>
stream
BT /F1 12 Tf 100 700 Td (` + text + `) Tj ET
endstream
endobj
5 0 obj
<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>
endobj
xref
0 6
0000000000 65535 f
0000000009 00000 n
0000000058 00000 n
0000000115 00000 n
0000000234 00000 n
0000000328 00000 n
trailer
<< /Size 6 /Root 1 0 R >>
startxref
406
%%EOF`
	return []byte(content)
}
