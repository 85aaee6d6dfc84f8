package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cardwatch/internal/log"
)

func TestFileSink_WritesOneRecordPerLine(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSink(dir, "out.json", log.Discard())

	records := []map[string]any{
		{"Category": "Food", "Total": 125.5},
		{"Category": "Transport", "Total": 42.0},
	}
	if err := s.Persist(context.Background(), records); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "out.json"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var record map[string]any
		if err := json.Unmarshal(sc.Bytes(), &record); err != nil {
			t.Errorf("line %d is not a JSON object: %v", lines+1, err)
		}
		lines++
	}
	if lines != len(records) {
		t.Errorf("lines = %d, want %d", lines, len(records))
	}
}

func TestFileSink_DefaultFilenameUsesClock(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSink(dir, "", log.Discard())
	s.clock = func() time.Time {
		return time.Date(2023, 10, 1, 12, 34, 56, 0, time.UTC)
	}

	if err := s.Persist(context.Background(), []map[string]any{{"Category": "Food"}}); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("files = %d, want 1", len(entries))
	}
	if got := entries[0].Name(); got != "report_log_20231001_123456.json" {
		t.Errorf("filename = %q, want report_log_20231001_123456.json", got)
	}
}

func TestFileSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")
	s := NewFileSink(dir, "out.json", log.Discard())

	if err := s.Persist(context.Background(), nil); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.json")); err != nil {
		t.Errorf("report file missing: %v", err)
	}
}

func TestFileSink_EmptyRecordsProduceEmptyFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSink(dir, "out.json", log.Discard())

	if err := s.Persist(context.Background(), []map[string]any{}); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(data)) != "" {
		t.Errorf("file content = %q, want empty", data)
	}
}
