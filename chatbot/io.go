package chatbot

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// InputRecord is one message read from a batch input file.
type InputRecord struct {
	Index string `json:"index,omitempty"`
	Text  string `json:"text"`
}

// InputParseOptions allows callers to choose which CSV columns map to record fields.
// Columns are given by header name or as a 1-based "#N" index.
type InputParseOptions struct {
	IndexColumn string
	TextColumn  string
}

var (
	textColumnCandidates  = []string{"text", "message", "utterance", "pattern", "input", "content"}
	indexColumnCandidates = []string{"id", "index", "no"}
)

// ParseInputRecords reads a file and returns its messages.
func ParseInputRecords(path string) ([]InputRecord, error) {
	return ParseInputRecordsWithOptions(path, InputParseOptions{})
}

// ParseInputRecordsWithOptions reads CSV/TSV files with the given column
// mapping; any other extension is read as one message per line.
func ParseInputRecordsWithOptions(path string, opts InputParseOptions) ([]InputRecord, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return parseDelimitedRecords(path, ',', opts)
	case ".tsv":
		return parseDelimitedRecords(path, '\t', opts)
	default:
		return parsePlainTextRecords(path)
	}
}

func parsePlainTextRecords(path string) ([]InputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open text file: %w", err)
	}
	defer f.Close()
	var out []InputRecord
	scanner := bufio.NewScanner(newTextReader(f))
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, InputRecord{Index: strconv.Itoa(n), Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan text file: %w", err)
	}
	return out, nil
}

func parseDelimitedRecords(path string, comma rune, opts InputParseOptions) ([]InputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(newTextReader(f))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}
	textCol, textFromHeader, err := pickColumn(header, opts.TextColumn, textColumnCandidates)
	if err != nil {
		return nil, err
	}
	indexCol, indexFromHeader, err := pickColumn(header, opts.IndexColumn, indexColumnCandidates)
	if err != nil {
		return nil, err
	}
	hasHeader := textFromHeader || indexFromHeader
	start := 0
	if hasHeader {
		start = 1
	}
	if textCol < 0 {
		if hasHeader {
			return nil, fmt.Errorf("text column not found in header %q (use one of %s or set the text column)",
				header, strings.Join(textColumnCandidates, ", "))
		}
		textCol = 0
	}
	records := make([]InputRecord, 0, len(rows)-start)
	for i, row := range rows[start:] {
		if textCol >= len(row) {
			continue
		}
		text := strings.TrimSpace(row[textCol])
		if text == "" {
			continue
		}
		rec := InputRecord{Index: strconv.Itoa(start + i + 1), Text: text}
		if indexCol >= 0 && indexCol < len(row) {
			rec.Index = strings.TrimSpace(row[indexCol])
		}
		records = append(records, rec)
	}
	return records, nil
}

// pickColumn resolves an explicit column or falls back to the first header matching candidates.
func pickColumn(header []string, explicit string, candidates []string) (int, bool, error) {
	if strings.TrimSpace(explicit) != "" {
		return matchExplicitColumn(header, explicit)
	}
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i, true, nil
			}
		}
	}
	return -1, false, nil
}

func matchExplicitColumn(header []string, explicit string) (int, bool, error) {
	trimmed := strings.TrimSpace(explicit)
	for i, col := range header {
		if strings.EqualFold(col, trimmed) {
			return i, true, nil
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, false, err
		}
		if idx >= len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}
