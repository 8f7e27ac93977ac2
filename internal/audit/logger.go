// Package audit appends one JSON line per store operation to a log file.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"r2r/internal/fsutil"
)

// Operations recorded by the application service.
const (
	OpPush   = "config.push"
	OpPull   = "config.pull"
	OpExport = "config.export"
)

type Logger struct {
	path string
	mu   sync.Mutex
}

type Event struct {
	ID        string            `json:"id"`
	Timestamp string            `json:"timestamp"`
	Operation string            `json:"operation"`
	Key       string            `json:"key,omitempty"`
	Status    string            `json:"status"`
	Code      string            `json:"code,omitempty"`
	Message   string            `json:"message,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// New returns a logger appending to path. An empty path disables logging.
func New(path string) *Logger {
	return &Logger{path: path}
}

func (l *Logger) Log(ev Event) error {
	if l == nil || l.path == "" {
		return nil
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	blob, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := fsutil.EnsureDir(filepath.Dir(l.path)); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(blob, '\n'))
	return err
}

// Record logs the outcome of op on key. A nil err is logged as status ok,
// anything else as status error with the error text.
func (l *Logger) Record(op, key string, err error, fields map[string]string) error {
	ev := Event{Operation: op, Key: key, Status: "ok", Fields: fields}
	if err != nil {
		ev.Status = "error"
		ev.Message = err.Error()
		ev.Code = codeOf(ev.Message)
	}
	return l.Log(ev)
}
