// Package extract turns uploaded report files into plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	DefaultMaxChars = 10000
	PreviewChars    = 500
	previewMarker   = "...\n\n[Content truncated for preview]"
)

var ErrUnsupportedType = errors.New("unsupported file type")

type Document struct {
	Name      string
	Extension string
	Text      string
	// Set when Text was cut down to the character limit
	Truncated bool
}

// Len is the document length in characters.
func (d Document) Len() int {
	return len([]rune(d.Text))
}

// Extension returns the lower-cased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Supported reports whether files with the given extension can be read.
func Supported(ext string) bool {
	switch ext {
	case "txt", "csv", "pdf":
		return true
	}
	return false
}

// File reads and extracts the document stored at path.
func File(path string, maxChars int) (Document, error) {
	ext := Extension(path)
	if !Supported(ext) {
		return Document{}, unsupported(ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading file data: %w", err)
	}
	return Bytes(filepath.Base(path), data, maxChars)
}

// Bytes extracts the text of a document named name from its raw content.
func Bytes(name string, data []byte, maxChars int) (Document, error) {
	doc := Document{Name: name, Extension: Extension(name)}

	var text string
	switch doc.Extension {
	case "txt", "csv":
		text = string(data)
	case "pdf":
		var err error
		text, err = PDFText(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return Document{}, fmt.Errorf("PDF parsing failed: %w", err)
		}
	default:
		return Document{}, unsupported(doc.Extension)
	}

	doc.Text, doc.Truncated = Truncate(text, maxChars)
	return doc, nil
}

func unsupported(ext string) error {
	return fmt.Errorf(
		"%w: .%s, please use .txt, .csv, or .pdf",
		ErrUnsupportedType,
		ext,
	)
}

// PDFText extracts plain text page by page; pages are separated by a blank
// line. Malformed files the parser panics on are reported as errors.
func PDFText(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// Truncate cuts text down to maxChars characters. A non-positive limit
// selects DefaultMaxChars.
func Truncate(text string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text, false
	}
	return string(runes[:maxChars]), true
}

// Preview returns the beginning of text for display.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewChars {
		return text
	}
	return string(runes[:PreviewChars]) + previewMarker
}
