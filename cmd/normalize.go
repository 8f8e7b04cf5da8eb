package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Jobeer1/agedfix/export"
	"github.com/Jobeer1/agedfix/extractor"
	"github.com/Jobeer1/agedfix/extractor/aged"
)

var normalizeOutput string

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalizes aged accounts report(s)",
	Long: `Normalizes a given report or every report in a folder.
Text, CSV and PDF files are read, cleaned and run through the
pipeline; the records are written as JSON, CSV or XLSX.`,
	Run: normalizeHandler,
}

func normalizeHandler(cmd *cobra.Command, args []string) {
	target := viper.GetString("target")

	hint, err := aged.ParseDelimiter(viper.GetString("delimiter"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	format, err := export.ParseFormat(viper.GetString("format"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	out := io.Writer(os.Stdout)
	if normalizeOutput != "" {
		f, err := os.Create(normalizeOutput)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := runNormalize(ctx, loadPipeline(), target, hint, format, out); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// runNormalize normalizes a file or directory and writes the result. JSON keeps
// the per file reports; CSV and XLSX get the flattened records.
func runNormalize(ctx context.Context, p *aged.Pipeline, target string, hint aged.Delimiter, format export.Format, out io.Writer) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	var reports []*extractor.Report
	if info.IsDir() {
		reports, err = extractor.ProcessDirectory(ctx, p, target, hint)
		if err != nil {
			return err
		}
	} else {
		report, err := extractor.ProcessFile(p, target, hint)
		if err != nil {
			return err
		}
		reports = []*extractor.Report{report}
	}

	for _, r := range reports {
		log.Printf("%s: %d lines, %d records, %d duplicates", r.Source, r.Stats.Lines, r.Stats.Records, r.Stats.Duplicates)
		for _, w := range r.Warnings {
			log.Printf("\t⚠️  %v", w)
		}
	}

	if format != export.FormatJSON {
		return export.Write(out, format, extractor.Records(reports))
	}
	if !info.IsDir() {
		return export.WriteJSON(out, reports[0])
	}
	if reports == nil {
		reports = []*extractor.Report{}
	}
	return export.WriteJSON(out, reports)
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringP("file", "f", ".", "File or folder to normalize")
	normalizeCmd.Flags().StringP("delimiter", "d", "auto", "Cell delimiter: auto, pipe, csv or ocr")
	normalizeCmd.Flags().String("format", "json", "Output format: json, csv or xlsx")
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "", "Write output to this file instead of stdout")

	viper.BindPFlag("target", normalizeCmd.Flags().Lookup("file"))
	viper.BindPFlag("delimiter", normalizeCmd.Flags().Lookup("delimiter"))
	viper.BindPFlag("format", normalizeCmd.Flags().Lookup("format"))
}
