package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
)

func TestExtractPlainText(t *testing.T) {
	e := New()
	text, err := e.Extract([]byte("Jane Doe\r\n5 years Go, PostgreSQL\n\n\n\n\nAWS\x00"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n5 years Go, PostgreSQL\n\nAWS", text)
}

func TestExtractEmptyBuffer(t *testing.T) {
	_, err := New().Extract(nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"whitespace only", []byte("   \n\t  ")},
		{"png image", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")},
		{"broken pdf", []byte("%PDF-1.4\nthis is not really a pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Extract(tt.data)
			require.Error(t, err)
			assert.Equal(t, apperr.KindExtractionFailed, apperr.KindOf(err))
		})
	}
}

// minimalPDF builds a one-page document that shows line in Helvetica.
func minimalPDF(line string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtractPDF(t *testing.T) {
	data := minimalPDF("5 years Go, PostgreSQL")
	assert.Equal(t, MimePDF, Detect(data).String())

	text, err := New().Extract(data)
	require.NoError(t, err)
	assert.Contains(t, text, "5 years Go, PostgreSQL")
}

func TestExtractDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document><w:body>` +
			`<w:p><w:r><w:t>John Smith</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>Go &amp; SQL engineer</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships></Relationships>`,
	}
	for _, name := range []string{"word/document.xml", "word/_rels/document.xml.rels"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	text, err := New().Extract(buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, text, "John Smith")
	assert.Contains(t, text, "Go & SQL engineer")
	assert.NotContains(t, text, "<w:t>")
}
