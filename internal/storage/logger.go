package storage

import (
	"log"

	"github.com/dgraph-io/badger/v4"
)

// stdLogger routes Badger's log output through a standard library logger.
type stdLogger struct {
	l *log.Logger
}

var _ badger.Logger = stdLogger{}

// NewLogger adapts l for NewStorage. A nil l gives a nil Logger, which keeps
// Badger quiet.
func NewLogger(l *log.Logger) badger.Logger {
	if l == nil {
		return nil
	}
	return stdLogger{l: l}
}

func (s stdLogger) Errorf(format string, args ...interface{}) {
	s.l.Printf("badger ERROR: "+format, args...)
}

func (s stdLogger) Warningf(format string, args ...interface{}) {
	s.l.Printf("badger WARN: "+format, args...)
}

func (s stdLogger) Infof(format string, args ...interface{}) {
	s.l.Printf("badger INFO: "+format, args...)
}

func (s stdLogger) Debugf(format string, args ...interface{}) {
	s.l.Printf("badger DEBUG: "+format, args...)
}
