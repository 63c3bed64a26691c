package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"

	"yashubustudio/intentchat/chatbot"
)

type batchOptions struct {
	inputPath  string
	outputPath string
	outputDir  string
	inputOpts  chatbot.InputParseOptions
	stdout     bool
}

// batchRow is one answered input line.
type batchRow struct {
	Record   chatbot.InputRecord
	Intent   string
	Score    string
	Response string
	Err      error
}

func newBatchCmd(root *rootOptions) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Answer every message of a text/CSV/TSV file and write a result CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.inputPath = strings.TrimSpace(opts.inputPath)
			opts.outputPath = strings.TrimSpace(opts.outputPath)
			opts.outputDir = strings.TrimSpace(opts.outputDir)
			if opts.inputPath == "" {
				return errors.New("missing required --input file")
			}

			records, err := chatbot.ParseInputRecordsWithOptions(opts.inputPath, opts.inputOpts)
			if err != nil {
				return fmt.Errorf("read input records: %w", err)
			}
			if len(records) == 0 {
				return errors.New("input file does not contain any texts")
			}

			svc, cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			bar := progressbar.NewOptions(len(records),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("answering"),
			)
			rows, err := answerAll(cmd.Context(), svc, cfg.FallbackResponse, records, func() { _ = bar.Add(1) })
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			outputPath, err := resolveOutputPath(opts.outputPath, opts.outputDir)
			if err != nil {
				return err
			}
			if err := writeResultCSV(outputPath, rows); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved %d results to %s\n", len(rows), outputPath)
			if opts.stdout {
				printSummary(out, newPalette(isTerminal(out)), rows)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.inputPath, "input", "", "CSV/TSV/text file containing messages")
	f.StringVar(&opts.outputPath, "output", "", "CSV file to write results (default uses --output-dir/result_*.csv)")
	f.StringVar(&opts.outputDir, "output-dir", "csv", "Directory where result CSVs are written when --output is omitted")
	f.StringVar(&opts.inputOpts.IndexColumn, "input-index-column", "", "Column name or #index for the row index column")
	f.StringVar(&opts.inputOpts.TextColumn, "input-text-column", "", "Column name or #index for the message column")
	f.BoolVar(&opts.stdout, "stdout", false, "Print a summary of the results to STDOUT")
	return cmd
}

// answerAll runs every record through the service. Rows that get no response
// keep the fallback text and the error; only cancellation stops the run.
func answerAll(ctx context.Context, svc chatService, fallback string, records []chatbot.InputRecord, step func()) ([]batchRow, error) {
	rows := make([]batchRow, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reply, err := svc.Respond(ctx, rec.Text)
		row := batchRow{Record: rec, Intent: reply.Tag, Response: reply.Text, Err: err}
		if len(reply.Candidates) > 0 {
			row.Intent = reply.Candidates[0].Label
			row.Score = reply.Candidates[0].Probability
		}
		if err != nil {
			row.Response = fallback
		}
		rows = append(rows, row)
		if step != nil {
			step()
		}
	}
	return rows, nil
}

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "csv"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	filename := fmt.Sprintf("result_%s.csv", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}

func writeResultCSV(path string, rows []batchRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer f.Close()
	if err := encodeResultCSV(f, rows); err != nil {
		return err
	}
	return f.Close()
}

func encodeResultCSV(w io.Writer, rows []batchRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"index", "text", "intent", "probability", "response"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		record := []string{row.Record.Index, row.Record.Text, row.Intent, row.Score, row.Response}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}

func printSummary(out io.Writer, p palette, rows []batchRow) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "==== Result preview ====")
	for i, row := range rows {
		fmt.Fprintf(out, "%d. %s\n", i+1, summarizeText(row.Record))
		switch {
		case row.Err != nil && !isNoMatch(row.Err):
			fmt.Fprintln(out, "    "+p.paint(p.warn, row.Err.Error()))
		case row.Intent == "":
			fmt.Fprintln(out, "    "+p.paint(p.meta, "no intent"))
		default:
			fmt.Fprintf(out, "    %s %s\n", row.Intent, p.paint(p.meta, "("+row.Score+")"))
		}
		fmt.Fprintln(out, "    -> "+row.Response)
	}
}

func summarizeText(rec chatbot.InputRecord) string {
	text := strings.TrimSpace(rec.Text)
	if text == "" {
		return "(empty)"
	}
	runes := []rune(text)
	if len(runes) > 60 {
		text = string(runes[:60]) + "…"
	}
	if idx := strings.TrimSpace(rec.Index); idx != "" {
		return "#" + idx + " " + text
	}
	return text
}
