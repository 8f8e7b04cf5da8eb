package aged

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
)

// Delimiter tells the tokenizer how a line separates its cells.
type Delimiter int

const (
	DelimiterAuto Delimiter = iota
	DelimiterPipe
	DelimiterComma
	DelimiterWhitespace
)

func (d Delimiter) String() string {
	switch d {
	case DelimiterPipe:
		return "pipe"
	case DelimiterComma:
		return "csv"
	case DelimiterWhitespace:
		return "ocr"
	default:
		return "auto"
	}
}

// ParseDelimiter maps a flag or form value to a Delimiter.
func ParseDelimiter(s string) (Delimiter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DelimiterAuto, nil
	case "pipe", "|":
		return DelimiterPipe, nil
	case "csv", "comma", ",":
		return DelimiterComma, nil
	case "ocr", "whitespace", "space":
		return DelimiterWhitespace, nil
	}
	return DelimiterAuto, fmt.Errorf("unknown delimiter %q (want auto, pipe, csv or ocr)", s)
}

var whitespaceRun = regexp.MustCompile(`\s{2,}`)

// SplitCells splits a line into trimmed cells, keeping empty ones so that
// positions line up with a header row.
//
// With the pipe hint every '|' is a boundary. Otherwise the line is split on
// commas when it has any, else on runs of two or more whitespace characters.
// Single spaces stay inside cells, so "John Smith" is one cell.
func SplitCells(line string, hint Delimiter) []string {
	var cells []string
	switch {
	case hint == DelimiterPipe:
		cells = strings.Split(line, "|")
	case strings.Contains(line, ","):
		cells = splitComma(line, hint == DelimiterComma)
	default:
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return []string{}
		}
		cells = whitespaceRun.Split(trimmed, -1)
	}

	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func splitComma(line string, quoted bool) []string {
	if quoted {
		r := csv.NewReader(strings.NewReader(line))
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		r.FieldsPerRecord = -1
		if fields, err := r.Read(); err == nil {
			return fields
		}
	}
	return strings.Split(line, ",")
}

// Tokenize returns the non-empty cells of a line in order.
func Tokenize(line string, hint Delimiter) []string {
	cells := SplitCells(line, hint)
	tokens := cells[:0:0]
	for _, c := range cells {
		if c != "" {
			tokens = append(tokens, c)
		}
	}
	return tokens
}

// DetectDelimiter guesses the hint for a whole input. A pipe table divider or
// a majority of lines holding '|' means pipe; a majority holding ',' means csv.
func DetectDelimiter(lines []string) Delimiter {
	if locateDivider(lines) >= 0 {
		return DelimiterPipe
	}

	var total, pipes, commas int
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		total++
		if strings.Contains(line, "|") {
			pipes++
		}
		if strings.Contains(line, ",") {
			commas++
		}
	}

	switch {
	case total == 0:
		return DelimiterWhitespace
	case pipes*2 > total:
		return DelimiterPipe
	case commas*2 > total:
		return DelimiterComma
	}
	return DelimiterWhitespace
}
