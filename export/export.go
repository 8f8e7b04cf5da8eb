package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Jobeer1/agedfix/extractor/common"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const SheetName = "Aged Accounts"

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, csv or xlsx)", s)
}

// ContentType is the HTTP media type of a format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Write serializes records in the given format. JSON output is the bare
// record array; use WriteJSON to write anything else.
func Write(w io.Writer, format Format, records []common.Record) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	case FormatJSON, "":
		if records == nil {
			records = []common.Record{}
		}
		return WriteJSON(w, records)
	}
	return fmt.Errorf("unknown format %q", format)
}

// WriteCSV writes a header row and one row per record in column order.
func WriteCSV(w io.Writer, records []common.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(common.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range records {
		if err := cw.Write(rec.Row()); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// amountCols are the zero-based Columns indexes holding amounts.
var amountCols = map[int]bool{5: true, 6: true, 7: true, 8: true, 9: true, 10: true, 11: true}

// WriteXLSX writes a single sheet workbook. Amounts are numeric cells with two
// decimals, everything else is text.
func WriteXLSX(w io.Writer, records []common.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, h := range common.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(common.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return err
	}

	for r, rec := range records {
		row := r + 2
		amounts := []float64{
			rec.Current.InexactFloat64(),
			rec.Days30.InexactFloat64(),
			rec.Days60.InexactFloat64(),
			rec.Days90.InexactFloat64(),
			rec.Days120.InexactFloat64(),
			rec.Days150.InexactFloat64(),
			rec.Outstanding.InexactFloat64(),
		}
		for col, text := range rec.Row() {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if amountCols[col] {
				if err := f.SetCellFloat(SheetName, cell, amounts[col-5], 2, 64); err != nil {
					return err
				}
				if err := f.SetCellStyle(SheetName, cell, cell, money); err != nil {
					return err
				}
				continue
			}
			if err := f.SetCellStr(SheetName, cell, text); err != nil {
				return err
			}
		}
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 14}, // account
		{"B", "B", 28}, // name
		{"C", "E", 13},
		{"F", "L", 12}, // amounts
		{"M", "O", 16},
	}
	for _, cw := range widths {
		if err := f.SetColWidth(SheetName, cw.from, cw.to, cw.width); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
