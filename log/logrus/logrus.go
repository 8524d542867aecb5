// Package logrus adapts a *logrus.Entry to canframe.Logger.
package logrus

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/canframe"
)

var _ canframe.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New tags every entry with component=canframe.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "canframe")}
}

func (l Logger) Debug(msg string, f canframe.Fields) { l.E.WithFields(fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f canframe.Fields)  { l.E.WithFields(fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f canframe.Fields)  { l.E.WithFields(fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f canframe.Fields) { l.E.WithFields(fields(f)).Error(msg) }

func fields(f canframe.Fields) logrus.Fields {
	out := make(logrus.Fields, len(f))
	for k, v := range f {
		if id, ok := v.(uint32); ok && k == "frame_id" {
			out[k] = fmt.Sprintf("0x%x", id)
			continue
		}
		// logrus treats the "error" key specially
		if k == "err" {
			k = logrus.ErrorKey
		}
		out[k] = v
	}
	return out
}
