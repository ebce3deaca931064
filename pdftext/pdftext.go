// Package pdftext turns statement PDFs into positioned text lines for the
// parser. It only handles digitally generated (e-PDF) statements; scanned
// images have no extractable text layer and are rejected up front.
package pdftext

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/crednx/bankparser/parser"
)

// ErrNotEPDF is returned when a PDF yields no usable text layer, which
// usually means a scanned statement.
var ErrNotEPDF = errors.New("no extractable text layer, statement appears to be scanned")

// Extract reads every page of the PDF and returns its text rows grouped by
// page, preserving reading order within each page.
func Extract(path string) ([][]parser.RawLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ExtractReader(file)
}

// ExtractReader is Extract for an already-open source, such as an unlocked
// in-memory copy of a password-protected statement.
func ExtractReader(reader io.Reader) ([][]parser.RawLine, error) {
	rAt, size, err := readerAt(reader)
	if err != nil {
		return nil, err
	}

	r, err := pdf.NewReader(rAt, size)
	if err != nil {
		return nil, err
	}

	numPages := r.NumPage()
	pages := make([][]parser.RawLine, 0, numPages)

	for no := 1; no <= numPages; no++ {
		page := r.Page(no)
		rows, err := page.GetTextByRow()
		if err != nil {
			log.Printf("warning: error getting text from page %d: %v", no, err)
			pages = append(pages, nil)
			continue
		}

		lines := make([]parser.RawLine, 0, len(rows))
		for i, row := range rows {
			var builder strings.Builder
			for j, text := range row.Content {
				builder.WriteString(text.S)
				if j < len(row.Content)-1 {
					builder.WriteByte(' ')
				}
			}
			if builder.Len() > 0 {
				lines = append(lines, parser.RawLine{Text: builder.String(), Page: no, Line: i + 1})
			}
		}
		pages = append(pages, lines)
	}

	if !IsEPDF(pages) {
		return nil, ErrNotEPDF
	}
	return pages, nil
}

// statement vocabulary expected somewhere in a real e-statement's text layer.
var statementWords = []string{"BALANCE", "ACCOUNT", "STATEMENT", "TRANSACTION", "DATE"}

// IsEPDF reports whether the extracted text looks like a digitally generated
// statement: a non-trivial amount of text that mentions statement vocabulary.
// Scanned PDFs typically extract to nothing or to OCR-free garbage.
func IsEPDF(pages [][]parser.RawLine) bool {
	var builder strings.Builder
	for _, page := range pages {
		for _, line := range page {
			builder.WriteString(line.Text)
			builder.WriteByte('\n')
		}
	}
	text := strings.ToUpper(builder.String())
	if len(text) < 200 {
		return false
	}
	for _, word := range statementWords {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// Flatten joins all pages into one newline-separated string, for format
// detection and profile matching.
func Flatten(pages [][]parser.RawLine) string {
	var builder strings.Builder
	for _, page := range pages {
		for _, line := range page {
			builder.WriteString(line.Text)
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

func readerAt(reader io.Reader) (io.ReaderAt, int64, error) {
	if v, ok := reader.(io.ReaderAt); ok {
		if seeker, ok := reader.(io.Seeker); ok {
			cur, _ := seeker.Seek(0, io.SeekCurrent)
			end, _ := seeker.Seek(0, io.SeekEnd)
			seeker.Seek(cur, io.SeekStart)
			return v, end, nil
		}
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, 0, err
	}
	b := buf.Bytes()
	return bytes.NewReader(b), int64(len(b)), nil
}
