package aged

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		hint     Delimiter
		expected []string
	}{
		{
			"pipe drops empty cells",
			"312345|John Smith|01.02.23||1500,00|0,00|ID: 8501015800086",
			DelimiterPipe,
			[]string{"312345", "John Smith", "01.02.23", "1500,00", "0,00", "ID: 8501015800086"},
		},
		{
			"pipe trims cells",
			"| N003123 |  Jane  |",
			DelimiterPipe,
			[]string{"N003123", "Jane"},
		},
		{
			"whitespace runs",
			"  N003123   John Smith    01.02.23  150,00",
			DelimiterWhitespace,
			[]string{"N003123", "John Smith", "01.02.23", "150,00"},
		},
		{
			"comma takes precedence",
			"N003123,John Smith,01.02.23",
			DelimiterWhitespace,
			[]string{"N003123", "John Smith", "01.02.23"},
		},
		{
			"quoted csv",
			`N003123,"Smith, John",01.02.23`,
			DelimiterComma,
			[]string{"N003123", "Smith, John", "01.02.23"},
		},
		{
			"csv hint without commas splits on whitespace",
			"N003123   John",
			DelimiterComma,
			[]string{"N003123", "John"},
		},
		{
			"blank line",
			"    ",
			DelimiterWhitespace,
			[]string{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Tokenize(test.line, test.hint))
		})
	}
}

func TestSplitCells_KeepsEmptyCells(t *testing.T) {
	assert.Equal(t, []string{"a", "", "c"}, SplitCells("a||c", DelimiterPipe))
	assert.Equal(t, []string{"a", "", "c"}, SplitCells("a,,c", DelimiterComma))
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		input    string
		expected Delimiter
	}{
		{"", DelimiterAuto},
		{"auto", DelimiterAuto},
		{"PIPE", DelimiterPipe},
		{"csv", DelimiterComma},
		{"ocr", DelimiterWhitespace},
	}
	for _, test := range tests {
		d, err := ParseDelimiter(test.input)
		require.NoError(t, err)
		assert.Equal(t, test.expected, d)
	}

	_, err := ParseDelimiter("tab")
	assert.Error(t, err)
}

func TestDelimiterString_RoundTrips(t *testing.T) {
	for _, d := range []Delimiter{DelimiterAuto, DelimiterPipe, DelimiterComma, DelimiterWhitespace} {
		parsed, err := ParseDelimiter(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected Delimiter
	}{
		{"divider", []string{"Report", "Acc|Name", "---|---", "1|2"}, DelimiterPipe},
		{"pipes without divider", []string{"a|b", "c|d", "plain"}, DelimiterPipe},
		{"commas", []string{"a,b", "c,d", "plain"}, DelimiterComma},
		{"ocr", []string{"N003123   John", "total  10,00"}, DelimiterWhitespace},
		{"empty", []string{}, DelimiterWhitespace},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, DetectDelimiter(test.lines))
		})
	}
}
