package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Jobeer1/agedfix/extractor/aged"
	"github.com/Jobeer1/agedfix/extractor/common"
)

// Report is the outcome of normalizing one source file.
type Report struct {
	Source string `json:"source"`
	*aged.Result
}

var supported = map[string]bool{
	".txt": true,
	".csv": true,
	".pdf": true,
}

// Supported reports whether the file extension is one ProcessFile can read.
func Supported(name string) bool {
	return supported[strings.ToLower(filepath.Ext(name))]
}

// ReadLines reads a report into cleaned lines. PDFs are read row by row,
// everything else is treated as text.
func ReadLines(r io.Reader, name string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		rows, err := common.ExtractRowsFromPDFReader(r)
		if err != nil {
			return nil, fmt.Errorf("reading pdf %s: %w", name, err)
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, common.CleanText(row))
		}
		return lines, nil
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return common.SplitLines(buf.String()), nil
}

// HintFor narrows an auto hint using the file extension.
func HintFor(name string, hint aged.Delimiter) aged.Delimiter {
	if hint == aged.DelimiterAuto && strings.EqualFold(filepath.Ext(name), ".csv") {
		return aged.DelimiterComma
	}
	return hint
}

func ProcessReader(p *aged.Pipeline, r io.Reader, name string, hint aged.Delimiter) (*Report, error) {
	lines, err := ReadLines(r, name)
	if err != nil {
		return nil, err
	}
	res, err := p.Run(lines, HintFor(name, hint))
	if err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", name, err)
	}
	return &Report{Source: filepath.Base(name), Result: res}, nil
}

func ProcessFile(p *aged.Pipeline, path string, hint aged.Delimiter) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log.Println("📄 Scanning", path)
	return ProcessReader(p, f, path, hint)
}

// ProcessDirectory normalizes every supported file directly inside dir, a few
// at a time. Files that fail or yield no records are logged and left out.
// Reports come back in directory order.
func ProcessDirectory(ctx context.Context, p *aged.Pipeline, dir string, hint aged.Delimiter) ([]*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	log.Println("📂 Scanning", dir)

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	reports := make([]*Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := ProcessFile(p, path, hint)
			if err != nil {
				log.Printf("skipping %s: %v", path, err)
				return nil
			}
			if len(report.Records) == 0 {
				log.Printf("no records in %s", path)
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := reports[:0]
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// Records flattens reports into one record slice.
func Records(reports []*Report) []common.Record {
	var out []common.Record
	for _, r := range reports {
		out = append(out, r.Records...)
	}
	return out
}
