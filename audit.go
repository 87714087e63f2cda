package vending

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Logger is the audit sink the client writes through. Several messages
// passed in one call form a single line joined with spaces.
type Logger interface {
	Log(msg ...string)
}

// LoggerFunc is func type of Logger.
type LoggerFunc func(msg ...string)

// Log implements Logger.
func (f LoggerFunc) Log(msg ...string) {
	f(msg...)
}

type nopLogger struct{}

func (nopLogger) Log(...string) {}

// NopLogger discards everything.
var NopLogger Logger = nopLogger{}

// MultiLogger fans out to several loggers.
func MultiLogger(loggers ...Logger) Logger {
	return LoggerFunc(func(msg ...string) {
		for _, l := range loggers {
			l.Log(msg...)
		}
	})
}

const (
	auditDateLayout = "2006-01-02"
	auditTimeLayout = "2006-01-02 15:04:05"
)

// FileLogger appends "YYYY-MM-DD HH:MM:SS: message" lines to a file named
// after the current date, e.g. fmt-vending-2024-05-01.log.
type FileLogger struct {
	Dir    string
	Prefix string

	now  func() time.Time
	lock sync.Mutex
}

// NewFileLogger creates a FileLogger writing into dir.
func NewFileLogger(dir string) *FileLogger {
	return &FileLogger{Dir: dir, Prefix: "fmt-vending-", now: time.Now}
}

// Path returns the log file used at t.
func (l *FileLogger) Path(t time.Time) string {
	return filepath.Join(l.Dir, l.Prefix+t.Format(auditDateLayout)+".log")
}

// Log implements Logger. Write failures go to glog only.
func (l *FileLogger) Log(msg ...string) {
	message := strings.Join(msg, " ")
	glog.V(1).Info(message)
	if err := l.Write(message); err != nil {
		glog.Errorf("audit: %v", err)
	}
}

// Write appends one line holding an exclusive lock on the file.
func (l *FileLogger) Write(message string) error {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	t := now()
	l.lock.Lock()
	defer l.lock.Unlock()
	f, err := os.OpenFile(l.Path(t), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = lockFile(f); err != nil {
		return fmt.Errorf("lock %s: %w", f.Name(), err)
	}
	defer unlockFile(f)
	_, err = f.WriteString(t.Format(auditTimeLayout) + ": " + message + "\n")
	return err
}
