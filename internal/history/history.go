// Package history persists diagnosis results to an append-only JSONL log.
//
// Recording is best-effort: failures are logged and never propagate to the
// diagnosis path. The log is a flat file, not a database; Stats re-reads it
// on demand.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/verdantlabs/plantdoc/internal/engine"
)

// Stats summarizes recorded interactions.
type Stats struct {
	TotalInteractions int            `json:"total_interactions"`
	ByPlant           map[string]int `json:"by_plant"`
	ByCause           map[string]int `json:"by_cause"`
	ByMethod          map[string]int `json:"by_method"`
}

// Logger appends diagnosis results to a JSONL file. A nil *Logger is valid
// and records nothing, so callers can wire it unconditionally.
type Logger struct {
	mu     sync.Mutex
	path   string
	f      *os.File
	logger *zap.Logger
}

// New opens (or creates) the interaction log at path.
func New(path string, logger *zap.Logger) (*Logger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history log %s: %w", path, err)
	}
	return &Logger{path: path, f: f, logger: logger}, nil
}

// Record appends one result to the log. Errors are swallowed after a warn;
// the diagnosis path does not depend on logging succeeding.
func (l *Logger) Record(res *engine.Result) {
	if l == nil || res == nil {
		return
	}

	line, err := json.Marshal(res)
	if err != nil {
		l.logger.Warn("failed to encode history entry", zap.Error(err))
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.Write(append(line, '\n')); err != nil {
		l.logger.Warn("failed to write history entry",
			zap.Error(err),
			zap.String("path", l.path),
		)
	}
}

// Stats re-reads the log and aggregates interaction counts. Unparsable
// lines are skipped.
func (l *Logger) Stats() (Stats, error) {
	stats := Stats{
		ByPlant:  make(map[string]int),
		ByCause:  make(map[string]int),
		ByMethod: make(map[string]int),
	}
	if l == nil {
		return stats, nil
	}

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var res engine.Result
		if err := json.Unmarshal(scanner.Bytes(), &res); err != nil {
			continue
		}
		stats.TotalInteractions++
		if res.DetectedPlant != "" {
			stats.ByPlant[res.DetectedPlant]++
		}
		stats.ByMethod[string(res.DetectionMethod)]++
		for _, d := range res.Diagnoses {
			stats.ByCause[d.Cause.ID]++
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read history log: %w", err)
	}
	return stats, nil
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
