package aged

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Jobeer1/agedfix/extractor/common"
)

// Stats summarizes one run.
type Stats struct {
	Lines      int    `json:"lines"`
	Qualified  int    `json:"qualified"`
	Records    int    `json:"records"`
	Duplicates int    `json:"duplicates"`
	TableFound bool   `json:"table_found"`
	Delimiter  string `json:"delimiter"`
}

type Result struct {
	Records  []common.Record `json:"records"`
	Warnings []Warning       `json:"warnings"`
	Stats    Stats           `json:"stats"`
}

// Pipeline normalizes aged accounts reports. It is immutable once built and
// safe to share between goroutines; every Run keeps its state local.
type Pipeline struct {
	classifiers  *Classifiers
	normalizer   *Normalizer
	headerFields map[string]string
}

// New compiles rules into a pipeline.
func New(rules Rules) (*Pipeline, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	c, err := NewClassifiers(rules)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		classifiers:  c,
		normalizer:   NewNormalizer(rules),
		headerFields: rules.headerFields(),
	}, nil
}

func (p *Pipeline) Classifiers() *Classifiers {
	return p.classifiers
}

func (p *Pipeline) Normalizer() *Normalizer {
	return p.normalizer
}

// Run normalizes a report given as lines. Only a nil slice is an error;
// everything else that goes wrong is reported in Result.Warnings.
func (p *Pipeline) Run(lines []string, hint Delimiter) (*Result, error) {
	if lines == nil {
		return nil, ErrNoInput
	}
	if hint == DelimiterAuto {
		hint = DetectDelimiter(lines)
	}

	res := &Result{
		Records:  []common.Record{},
		Warnings: []Warning{},
		Stats:    Stats{Delimiter: hint.String()},
	}

	start, header := 0, ""
	if off, ok := LocateTable(lines); ok {
		res.Stats.TableFound = true
		start = off + 1
		// off is the divider itself only when the divider opens the input
		if !dividerMarker.MatchString(strings.TrimSpace(lines[off])) {
			header, start = lines[off], off+2
		}
	} else {
		res.Warnings = append(res.Warnings, Warning{Err: ErrTableNotFound})
		if hint == DelimiterComma {
			header, start = p.leadingHeader(lines, hint)
		}
	}

	columns := p.mapHeader(header, hint)
	headerText := strings.TrimSpace(header)

	var raws []sourced
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || isDivider(line) || (headerText != "" && line == headerText) {
			continue
		}
		res.Stats.Lines++

		no := i + 1
		fields, warnings := p.classifyLine(no, lines[i], hint, columns)
		if !fields.Found() {
			continue
		}
		res.Stats.Qualified++
		res.Warnings = append(res.Warnings, warnings...)
		raws = append(raws, sourced{line: no, raw: p.Assemble(fields)})
	}

	records, warnings, dropped := validate(raws)
	if records != nil {
		res.Records = records
	}
	res.Warnings = append(res.Warnings, warnings...)
	slices.SortStableFunc(res.Warnings, func(a, b Warning) int {
		return cmp.Compare(a.Line, b.Line)
	})
	res.Stats.Records = len(records)
	res.Stats.Duplicates = dropped
	return res, nil
}

// classifyLine picks the header mapped or heuristic path for one line and
// collects its line level warnings.
func (p *Pipeline) classifyLine(no int, line string, hint Delimiter, columns []string) (Fields, []Warning) {
	var (
		fields   Fields
		warnings []Warning
		partial  string
	)

	if cells := SplitCells(line, hint); columns != nil && len(cells) == len(columns) {
		fields.Columns = make(map[string]string, len(columns))
		for i, field := range columns {
			if field != "" && cells[i] != "" {
				fields.Columns[field] = cells[i]
			}
		}
		if v := fields.Columns["id_number"]; v != "" {
			if _, ok := p.classifiers.IDNumber([]string{v}); !ok {
				partial = v
			}
		}
		if v := fields.Columns["account_id"]; v != "" {
			warnings = append(warnings, p.accountWarnings(no, v)...)
		}
	} else {
		tokens := Tokenize(line, hint)
		fields = p.classifiers.Classify(tokens)
		if fields.IDNumber == "" {
			partial, _ = p.classifiers.partialID(tokens)
		}
		if fields.AccountID != "" {
			warnings = append(warnings, p.accountWarnings(no, fields.AccountID)...)
		}
	}

	if partial != "" {
		warnings = append(warnings, Warning{Line: no, Field: "id_number", Value: partial, Err: ErrUnparseableField})
	}
	return fields, warnings
}

func (p *Pipeline) accountWarnings(no int, account string) []Warning {
	res := p.normalizer.Resolve(account)
	switch {
	case !res.Matched:
		return []Warning{{Line: no, Field: "account_id", Value: account, Err: ErrInvalidAccountFormat}}
	case res.Ambiguous:
		return []Warning{{Line: no, Field: "account_id", Value: account, Err: ErrAmbiguousAccount}}
	}
	return nil
}

// leadingHeader returns the first non-empty line as a header, with the index
// data starts at, when it names at least three known columns or carries no
// field at all. Otherwise that line is data and scanning starts at 0.
func (p *Pipeline) leadingHeader(lines []string, hint Delimiter) (string, int) {
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if p.mapHeader(line, hint) != nil || !p.classifiers.Classify(Tokenize(line, hint)).Found() {
			return line, i + 1
		}
		return "", 0
	}
	return "", 0
}

// mapHeader resolves header cells to schema fields. It returns nil unless at
// least three cells are recognized.
func (p *Pipeline) mapHeader(header string, hint Delimiter) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	cells := SplitCells(header, hint)
	columns := make([]string, len(cells))
	matched := 0
	for i, cell := range cells {
		if field, ok := p.headerFields[headerKey(cell)]; ok {
			columns[i] = field
			matched++
		}
	}
	if matched < 3 {
		return nil
	}
	return columns
}
