package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingColumn reports a source file whose header lacks a column the
// transform stage structurally depends on. A reader fails at open time
// rather than silently emitting zero values for the missing field.
var ErrMissingColumn = errors.New("missing required column")

// csvFile wraps a CSV source file with a header-index map so row fields
// are looked up by column name rather than position. Column order in the
// feeds is not guaranteed.
type csvFile struct {
	file   *os.File
	csv    *csv.Reader
	rowNum int64
	colIdx map[string]int
}

func openCSV(path string, required []string) (*csvFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	f := &csvFile{
		file:   file,
		csv:    reader,
		colIdx: make(map[string]int),
	}

	headers, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read header row: %w", err)
	}
	f.rowNum++
	for i, h := range headers {
		f.colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, col := range required {
		if _, ok := f.colIdx[col]; !ok {
			file.Close()
			return nil, fmt.Errorf("%s: %w: %s", path, ErrMissingColumn, col)
		}
	}

	return f, nil
}

// next returns the next non-empty data row.
func (f *csvFile) next() ([]string, error) {
	for {
		row, err := f.csv.Read()
		if err != nil {
			return nil, err
		}
		f.rowNum++
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}
		return row, nil
	}
}

func (f *csvFile) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Column access helpers. All trim whitespace; optional variants return nil
// for empty cells so absence survives into the typed record.

func valAt(row []string, idx map[string]int, col string) string {
	if i, ok := idx[col]; ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func optStr(row []string, idx map[string]int, col string) *string {
	if s := valAt(row, idx, col); s != "" {
		return &s
	}
	return nil
}

func intAt(row []string, idx map[string]int, col string) int {
	n, _ := strconv.Atoi(valAt(row, idx, col))
	return n
}

func optInt(row []string, idx map[string]int, col string) *int {
	s := valAt(row, idx, col)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Generators emit whole-minute floats like "12.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		n = int(f)
	}
	return &n
}

func optFloat(row []string, idx map[string]int, col string) *float64 {
	s := valAt(row, idx, col)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func floatAt(row []string, idx map[string]int, col string) float64 {
	f, _ := strconv.ParseFloat(valAt(row, idx, col), 64)
	return f
}

func boolAt(row []string, idx map[string]int, col string) bool {
	return strings.EqualFold(valAt(row, idx, col), "true")
}

func optBool(row []string, idx map[string]int, col string) *bool {
	s := valAt(row, idx, col)
	if s == "" {
		return nil
	}
	b := strings.EqualFold(s, "true")
	return &b
}

// dateAt parses a date or datetime cell, accepting both feed layouts.
func dateAt(row []string, idx map[string]int, col string) time.Time {
	s := valAt(row, idx, col)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateTimeLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(dateLayout, s)
	return t
}

func optDate(row []string, idx map[string]int, col string) *time.Time {
	t := dateAt(row, idx, col)
	if t.IsZero() {
		return nil
	}
	return &t
}
