// Package extract turns uploaded resume files into plain text.
package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/justsurfingit/TalentScout-AI/internal/apperr"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeZIP  = "application/zip"
	MimeText = "text/plain"
)

var (
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:cr/>`)
)

// Extractor converts PDF, DOCX and plain text buffers to text.
type Extractor struct {
	// MaxPages bounds how many PDF pages are read. Zero reads every page.
	MaxPages int
}

func New() *Extractor {
	return &Extractor{MaxPages: 20}
}

// Extract returns the text of data. An empty buffer is InvalidInput; an
// unreadable document or one with no text is ExtractionFailed.
func (e *Extractor) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperr.InvalidInput("no resume file uploaded")
	}

	mime := Detect(data)
	var (
		text string
		err  error
	)
	switch {
	case mime.Is(MimePDF):
		text, err = e.extractPDF(data)
	case mime.Is(MimeDOCX), mime.Is(MimeZIP):
		text, err = extractDOCX(data)
	case mime.Is(MimeText):
		text = string(data)
	default:
		return "", apperr.New(apperr.KindExtractionFailed, "unsupported file type %s", mime.String())
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindExtractionFailed, err, "could not read document")
	}

	text = clean(text)
	if text == "" {
		return "", apperr.New(apperr.KindExtractionFailed, "could not extract text from document")
	}
	return text, nil
}

// Detect sniffs the content type of an upload.
func Detect(data []byte) *mimetype.MIME {
	return mimetype.Detect(data)
}

// extractPDF reads page text. The pdf package panics on some malformed
// files, so the panic is turned into an error.
func (e *Extractor) extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	if e.MaxPages > 0 && numPages > e.MaxPages {
		numPages = e.MaxPages
	}
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns the raw document.xml body.
	content := doc.Editable().GetContent()
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

func clean(text string) string {
	text = strings.ToValidUTF8(text, "�")
	// Postgres text columns reject NUL.
	text = strings.ReplaceAll(text, "\x00", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
