package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const logFile = "runs.jsonl"

// Entry is one pipeline run's summary, appended as a JSON line.
type Entry struct {
	Timestamp    time.Time `json:"timestamp"`
	Input        string    `json:"input"`
	RawLines     int       `json:"raw_lines"`
	Parsed       int       `json:"parsed"`
	Valid        int       `json:"valid"`
	Invalid      int       `json:"invalid"`
	TotalRevenue string    `json:"total_revenue"`
	Matched      int       `json:"matched"`
	Enriched     int       `json:"enriched"`
	ReportPath   string    `json:"report_path"`
}

// Append writes an entry to <dir>/runs.jsonl, creating the directory and
// file if needed.
func Append(dir string, e Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating run log dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, logFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling run entry: %w", err)
	}
	if _, err := fmt.Fprintln(f, string(data)); err != nil {
		return fmt.Errorf("writing run entry: %w", err)
	}
	return nil
}

// Read returns all entries from <dir>/runs.jsonl. Returns nil if the file
// does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for i := 1; sc.Scan(); i++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	return entries, nil
}
