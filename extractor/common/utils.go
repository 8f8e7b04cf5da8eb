package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/dslipak/pdf"
	"golang.org/x/text/unicode/norm"
)

// cellGap separates text runs of one PDF row so the whitespace tokenizer
// can still tell cells apart.
const cellGap = "  "

func ExtractRowsFromPDFReader(reader io.Reader) ([]string, error) {
	// Ensure we have an io.ReaderAt and know the size
	var rAt io.ReaderAt
	var size int64

	switch v := reader.(type) {
	case io.ReaderAt:
		rAt = v
		if seeker, ok := reader.(io.Seeker); ok {
			cur, err := seeker.Seek(0, io.SeekCurrent)
			if err != nil {
				return nil, fmt.Errorf("seeking pdf: %w", err)
			}
			end, err := seeker.Seek(0, io.SeekEnd)
			if err != nil {
				return nil, fmt.Errorf("seeking pdf: %w", err)
			}
			if _, err := seeker.Seek(cur, io.SeekStart); err != nil {
				return nil, fmt.Errorf("seeking pdf: %w", err)
			}
			size = end
		} else {
			return nil, errors.New("reader is io.ReaderAt but not io.Seeker, cannot determine size")
		}
	default:
		// Read all into memory
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(reader); err != nil {
			return nil, err
		}
		b := buf.Bytes()
		rAt = bytes.NewReader(b)
		size = int64(len(b))
	}

	r, err := pdf.NewReader(rAt, size)
	if err != nil {
		return nil, err
	}

	numPages := r.NumPage()
	extractedRows := make([]string, 0, numPages*60)

	for no := 1; no <= numPages; no++ {
		page := r.Page(no)
		rows, err := page.GetTextByRow()
		if err != nil {
			log.Printf("Warning: error getting text from page %d: %v", no, err)
			continue
		}

		for _, row := range rows {
			var builder strings.Builder
			for i, text := range row.Content {
				builder.WriteString(text.S)
				if i < len(row.Content)-1 {
					builder.WriteString(cellGap)
				}
			}
			if builder.Len() > 0 {
				extractedRows = append(extractedRows, builder.String())
			}
		}
	}

	return extractedRows, nil
}

func ExtractRowsFromPDF(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ExtractRowsFromPDFReader(file)
}

var (
	reCRLF = regexp.MustCompile(`\r\n?`)
	reTabs = regexp.MustCompile(`\t+`)
)

// CleanText normalizes OCR and export text before tokenizing: NFC composition,
// LF line endings, tabs widened to a two-space run, trailing blanks trimmed.
// Line count is preserved so warnings can point at source lines.
func CleanText(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, cellGap)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}

// SplitLines cleans text and splits it into lines. A trailing newline does not
// produce an extra empty line.
func SplitLines(s string) []string {
	s = strings.TrimSuffix(CleanText(s), "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
