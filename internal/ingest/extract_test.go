package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docqa-labs/docqa/internal/domain"
)

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, "pdf", DetectFileType("report.pdf"))
	assert.Equal(t, "pdf", DetectFileType("REPORT.PDF"))
	assert.Equal(t, "txt", DetectFileType("notes.txt"))
	assert.Equal(t, "docx", DetectFileType("memo.docx"))
	assert.Equal(t, "", DetectFileType("README"))
}

func TestExtractTextUnsupportedType(t *testing.T) {
	_, err := ExtractText("memo.docx", []byte("hello"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	_, err = ExtractText("README", []byte("hello"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtractTXTUTF8(t *testing.T) {
	ext, err := ExtractText("notes.txt", []byte("The sky is blue. Café culture."))
	require.NoError(t, err)

	assert.Equal(t, "The sky is blue. Café culture.", ext.Text)
	assert.Equal(t, 1, ext.TotalPages)
	assert.Nil(t, ext.PageOffsets)
}

func TestExtractTXTLatin1Fallback(t *testing.T) {
	// "café" encoded as Latin-1; 0xE9 is not valid UTF-8 on its own.
	ext, err := ExtractText("notes.txt", []byte{'c', 'a', 'f', 0xE9})
	require.NoError(t, err)

	assert.Equal(t, "café", ext.Text)
	assert.Equal(t, 1, ext.TotalPages)
}

func TestExtractPDFInvalidContent(t *testing.T) {
	_, err := ExtractText("broken.pdf", []byte("this is not a pdf"))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}
