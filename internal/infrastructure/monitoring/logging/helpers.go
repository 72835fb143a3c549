package logging

import (
	"fmt"
	"time"
)

// slowCallThreshold promotes a successful backend call to WARN.
const slowCallThreshold = 5 * time.Second

// LogBackendCall records the outcome of one screening backend call.
func LogBackendCall(l Logger, endpoint string, d time.Duration, records int, err error) {
	fields := []Field{
		String(FieldEndpoint, endpoint),
		Int64("duration_ms", d.Milliseconds()),
	}
	if err != nil {
		l.WithError(err).Warn("backend call failed", fields...)
		return
	}
	fields = append(fields, Int("records", records))
	if d >= slowCallThreshold {
		l.Warn("slow backend call", fields...)
		return
	}
	l.Debug("backend call completed", fields...)
}

// printfAdapter satisfies the client package's printf-style logger.
type printfAdapter struct {
	l Logger
}

// PrintfLogger is the printf-style logger the screening client accepts.
type PrintfLogger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Printf adapts l to a PrintfLogger.
func Printf(l Logger) PrintfLogger {
	return printfAdapter{l: l}
}

func (p printfAdapter) Debugf(format string, args ...interface{}) {
	p.l.Debug(fmt.Sprintf(format, args...))
}

func (p printfAdapter) Infof(format string, args ...interface{}) {
	p.l.Info(fmt.Sprintf(format, args...))
}

func (p printfAdapter) Errorf(format string, args ...interface{}) {
	p.l.Error(fmt.Sprintf(format, args...))
}
