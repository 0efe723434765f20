package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// headerPrefix identifies the optional header row (case-insensitive).
const headerPrefix = "transactionid|"

// ReadLines reads the sales data file and returns trimmed non-empty data
// lines, with the header row (if present) removed.
//
// A missing file is not an error: it yields an empty line set, and callers
// must treat zero lines as a stop condition.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading sales data: %w", err)
	}
	return SplitLines(decode(data)), nil
}

// SplitLines trims and drops blank lines, then strips the header row.
func SplitLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		lines = append(lines, ln)
	}
	if len(lines) > 0 && strings.HasPrefix(strings.ToLower(lines[0]), headerPrefix) {
		lines = lines[1:]
	}
	return lines
}

// decode applies the encoding fallback chain: UTF-8, then ISO-8859-1, then
// Windows-1252, then a lossy byte-to-rune read as last resort.
func decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		if out, err := cm.NewDecoder().Bytes(data); err == nil {
			return string(out)
		}
	}
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}
