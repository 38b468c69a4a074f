package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/docqa-labs/docqa/internal/domain"
)

// ErrInvalidDocument indicates a file of a supported type whose content
// could not be parsed. User-correctable, like a bad file type.
var ErrInvalidDocument = errors.New("document could not be parsed")

// Extraction is the text pulled out of an uploaded file.
type Extraction struct {
	Text       string
	TotalPages int
	// PageOffsets holds the rune offset in Text where each page begins.
	// Nil for single-page formats.
	PageOffsets []int
}

// DetectFileType returns the lowercase extension without the leading dot.
func DetectFileType(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// ExtractText extracts plain text from an uploaded file based on its
// extension. Only .pdf and .txt are supported.
func ExtractText(filename string, content []byte) (*Extraction, error) {
	switch DetectFileType(filename) {
	case "pdf":
		return extractPDF(content)
	case "txt":
		return extractTXT(content)
	default:
		return nil, domain.ErrUnsupportedFileType
	}
}

// extractPDF joins the text of all pages with newlines and records where
// each page starts so chunks can be attributed to a page later.
func extractPDF(content []byte) (*Extraction, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	totalPages := reader.NumPage()
	var sb strings.Builder
	offsets := make([]int, 0, totalPages)
	runeCount := 0

	for i := 1; i <= totalPages; i++ {
		if i > 1 {
			sb.WriteString("\n")
			runeCount++
		}
		offsets = append(offsets, runeCount)

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable page, keep going with the rest.
			continue
		}
		sb.WriteString(text)
		runeCount += utf8.RuneCountInString(text)
	}

	return &Extraction{
		Text:        sb.String(),
		TotalPages:  totalPages,
		PageOffsets: offsets,
	}, nil
}

// extractTXT decodes the file as UTF-8, falling back to Latin-1 when the
// bytes are not valid UTF-8. Text files count as one logical page.
func extractTXT(content []byte) (*Extraction, error) {
	var text string
	if utf8.Valid(content) {
		text = string(content)
	} else {
		runes := make([]rune, len(content))
		for i, b := range content {
			runes[i] = rune(b)
		}
		text = string(runes)
	}

	return &Extraction{Text: text, TotalPages: 1}, nil
}
