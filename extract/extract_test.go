package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesPlainText(t *testing.T) {
	for _, name := range []string{"notes.txt", "data.csv", "UPPER.TXT"} {
		doc, err := Bytes(name, []byte("a,b\n1,2"), 0)
		require.NoError(t, err, name)
		assert.Equal(t, "a,b\n1,2", doc.Text)
		assert.Equal(t, name, doc.Name)
		assert.False(t, doc.Truncated)
	}
}

func TestBytesUnsupported(t *testing.T) {
	_, err := Bytes("sheet.xlsx", []byte("x"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.EqualError(t, err, "unsupported file type: .xlsx, please use .txt, .csv, or .pdf")
}

func TestBytesBrokenPDF(t *testing.T) {
	_, err := Bytes("report.pdf", []byte("definitely not a pdf"), 0)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "PDF parsing failed"))
}

func TestBytesPDFWithDanglingXref(t *testing.T) {
	data := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\nstartxref\n9999\n%%EOF\n")

	var err error
	require.NotPanics(t, func() {
		_, err = Bytes("r.pdf", data, 0)
	})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "PDF parsing failed"), err.Error())
}

func TestFilePDF(t *testing.T) {
	doc, err := File(filepath.Join("testdata", "two_pages.pdf"), 0)
	require.NoError(t, err)

	assert.Equal(t, "two_pages.pdf", doc.Name)
	assert.Equal(t, "pdf", doc.Extension)
	assert.Equal(t, "Quarterly revenue report\n\nNorth region total 10", doc.Text)
	assert.False(t, doc.Truncated)

	doc, err = File(filepath.Join("testdata", "two_pages.pdf"), 30)
	require.NoError(t, err)
	assert.True(t, doc.Truncated)
	assert.Equal(t, "Quarterly revenue report\n\nNort", doc.Text)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("héllo wörld"), 0o600))

	doc, err := File(path, 5)
	require.NoError(t, err)
	assert.Equal(t, "report.txt", doc.Name)
	assert.Equal(t, "txt", doc.Extension)
	assert.Equal(t, "héllo", doc.Text)
	assert.True(t, doc.Truncated)
	assert.Equal(t, 5, doc.Len())
}

func TestFileUnsupportedIsCheckedFirst(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.docx"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = File(filepath.Join(t.TempDir(), "missing.txt"), 0)
	assert.ErrorContains(t, err, "reading file data")
}

func TestTruncate(t *testing.T) {
	text, truncated := Truncate(strings.Repeat("x", DefaultMaxChars+1), 0)
	assert.True(t, truncated)
	assert.Len(t, text, DefaultMaxChars)

	text, truncated = Truncate("short", 10)
	assert.False(t, truncated)
	assert.Equal(t, "short", text)

	text, truncated = Truncate("日本語のテキスト", 3)
	assert.True(t, truncated)
	assert.Equal(t, "日本語", text)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "tiny", Preview("tiny"))

	long := strings.Repeat("y", PreviewChars+10)
	preview := Preview(long)
	assert.Equal(t, strings.Repeat("y", PreviewChars)+previewMarker, preview)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "pdf", Extension("dir/Report.PDF"))
	assert.Equal(t, "", Extension("README"))
	assert.True(t, Supported("csv"))
	assert.False(t, Supported(""))
}
