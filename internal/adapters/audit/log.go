// Package audit appends operator-visible events to a plain text file.
// Writes are fire-and-forget: a failing audit trail must never abort the
// operation that produced the event.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Log struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Event appends one "[YYYY-MM-DD HH:MM:SS] message" line. Failures are
// logged and swallowed.
func (l *Log) Event(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		log.Warn().Err(err).Str("path", l.path).Msg("audit log dir unavailable")
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn().Err(err).Str("path", l.path).Msg("audit log open failed")
		return
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", l.now().Format("2006-01-02 15:04:05"), msg)
	if _, err := f.WriteString(line); err != nil {
		log.Warn().Err(err).Str("path", l.path).Msg("audit log write failed")
	}
}
