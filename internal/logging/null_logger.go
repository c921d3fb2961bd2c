package logging

import "github.com/vvka-141/starload/pkg/starload"

// NullLogger discards all messages.
type NullLogger struct{}

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}

func (l *NullLogger) Info(format string, args ...interface{}) {}

func (l *NullLogger) Error(format string, args ...interface{}) {}

var _ starload.Logger = (*NullLogger)(nil)
