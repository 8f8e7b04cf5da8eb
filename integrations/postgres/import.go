package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Jobeer1/agedfix/extractor"
	"github.com/Jobeer1/agedfix/extractor/aged"
)

// ImportResult tracks the outcome of an import operation
type ImportResult struct {
	Processed int
	Skipped   int
	Failed    int
	Inserted  int
	Errors    []string
}

func (r *ImportResult) add(o ImportResult) {
	r.Processed += o.Processed
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.Inserted += o.Inserted
	r.Errors = append(r.Errors, o.Errors...)
}

// ImportOptions configures the import behavior
type ImportOptions struct {
	Force     bool           // Replace batches already imported from the same file
	Delimiter aged.Delimiter // Override detection
	Verbose   bool
}

func failed(format string, args ...any) ImportResult {
	return ImportResult{Failed: 1, Errors: []string{fmt.Sprintf(format, args...)}}
}

// ImportFile normalizes one report and stores its records as a new batch.
func (db *DB) ImportFile(ctx context.Context, p *aged.Pipeline, filePath string, opts ImportOptions) ImportResult {
	fileName := filepath.Base(filePath)

	report, err := extractor.ProcessFile(p, filePath, opts.Delimiter)
	if err != nil {
		return failed("%s: %v", fileName, err)
	}
	if len(report.Records) == 0 {
		return failed("%s: no records extracted", fileName)
	}

	exists, _, err := db.BatchExists(ctx, fileName)
	if err != nil {
		return failed("%s: check error: %v", fileName, err)
	}
	if exists && !opts.Force {
		if opts.Verbose {
			log.Printf("SKIP %s (already imported)", fileName)
		}
		return ImportResult{Skipped: 1}
	}
	if exists {
		if err := db.DeleteSource(ctx, fileName); err != nil {
			return failed("%s: delete error: %v", fileName, err)
		}
	}

	batchID, err := db.CreateBatch(ctx, fileName, report.Stats, len(report.Warnings))
	if err != nil {
		return failed("%s: batch error: %v", fileName, err)
	}

	inserted, err := db.InsertRecords(ctx, batchID, report.Records)
	if err != nil {
		// Roll back the batch so a rerun starts clean
		_ = db.DeleteSource(ctx, fileName)
		return failed("%s: records error: %v", fileName, err)
	}

	if opts.Verbose {
		log.Printf("OK   %s (%d records, %d inserted, %d warnings)", fileName, len(report.Records), inserted, len(report.Warnings))
		for _, w := range report.Warnings {
			log.Printf("WARN %s %v", fileName, w)
		}
	}
	return ImportResult{Processed: 1, Inserted: inserted}
}

// ImportDirectory imports every supported file in a directory, one at a time.
func (db *DB) ImportDirectory(ctx context.Context, p *aged.Pipeline, dirPath string, opts ImportOptions) (*ImportResult, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dataFiles []string
	for _, e := range entries {
		if !e.IsDir() && extractor.Supported(e.Name()) {
			dataFiles = append(dataFiles, filepath.Join(dirPath, e.Name()))
		}
	}

	log.Printf("Scanning: %s", dirPath)
	log.Printf("Found %d files (TXT/CSV/PDF)", len(dataFiles))

	result := &ImportResult{}
	for _, filePath := range dataFiles {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		r := db.ImportFile(ctx, p, filePath, opts)
		if opts.Verbose {
			for _, msg := range r.Errors {
				log.Printf("FAIL %s", msg)
			}
		}
		result.add(r)
	}
	return result, nil
}

// Import handles both file and directory imports
func (db *DB) Import(ctx context.Context, p *aged.Pipeline, path string, opts ImportOptions) (*ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if info.IsDir() {
		return db.ImportDirectory(ctx, p, path, opts)
	}

	r := db.ImportFile(ctx, p, path, opts)
	return &r, nil
}
