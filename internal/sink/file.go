package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cardwatch/internal/log"
)

// FileSink writes report records to a JSON-records file, one object per
// line. With no explicit filename each report lands in a fresh
// report_log_<timestamp>.json in the configured directory.
type FileSink struct {
	dir      string
	filename string
	clock    func() time.Time
	logger   *log.Logger
}

func NewFileSink(dir, filename string, logger *log.Logger) *FileSink {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &FileSink{
		dir:      dir,
		filename: filename,
		clock:    time.Now,
		logger:   logger.WithComponent(log.ComponentSink),
	}
}

var _ Sink = (*FileSink)(nil)

func (s *FileSink) Persist(_ context.Context, records []map[string]any) error {
	name := s.filename
	if name == "" {
		name = fmt.Sprintf("report_log_%s.json", s.clock().Format("20060102_150405"))
	}
	path := filepath.Join(s.dir, name)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("write report record: %w", err)
		}
	}

	s.logger.Info("report written", log.FieldFilename, path, log.FieldRows, len(records))
	return nil
}
