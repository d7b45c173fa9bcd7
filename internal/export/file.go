package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/XavierBriggs/Janus/pkg/contracts"
)

// FileSink appends records as JSON lines to a file
type FileSink struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

var _ contracts.ExportSink = (*FileSink)(nil)

// NewFileSink creates a sink writing to path, creating parent directories on first write
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path, now: time.Now}
}

func (s *FileSink) Export(ctx context.Context, kind, subject string, payload any) error {
	record, err := NewRecord(kind, subject, payload, s.now())
	if err != nil {
		return err
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
