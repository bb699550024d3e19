package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes structured JSON log entries. It is safe for use from
// multiple goroutines, although the monitor itself is single-threaded.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	service string
	exit    func(int)
}

func New(out io.Writer, service string) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{out: out, service: strings.TrimSpace(service), exit: os.Exit}
}

func (l *Logger) Infof(format string, v ...any) {
	l.log("info", fmt.Sprintf(format, v...))
}

func (l *Logger) Warnf(format string, v ...any) {
	l.log("warn", fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...any) {
	l.log("error", fmt.Sprintf(format, v...))
}

// Fatalf logs at fatal level and terminates the process with a non-zero
// exit status.
func (l *Logger) Fatalf(format string, v ...any) {
	if l == nil {
		os.Exit(1)
	}
	l.log("fatal", fmt.Sprintf(format, v...))
	l.exit(1)
}

type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Service   string `json:"service,omitempty"`
}

func (l *Logger) log(level, msg string) {
	if l == nil {
		return
	}
	rec := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   msg,
		Service:   l.service,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(data, '\n'))
}
