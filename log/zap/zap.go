// Package zap adapts a *zap.Logger to canframe.Logger.
package zap

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/canframe"
)

var _ canframe.Logger = Logger{}

// Logger writes canframe fields as zap fields. frame_id is rendered in hex.
type Logger struct{ L *zap.Logger }

// New names the logger "canframe".
func New(l *zap.Logger) Logger { return Logger{L: l.Named("canframe")} }

func (z Logger) Debug(msg string, f canframe.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f canframe.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f canframe.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f canframe.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f canframe.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		switch v := f[k].(type) {
		case error:
			out = append(out, zap.NamedError(k, v))
		case uint32:
			if k == "frame_id" {
				out = append(out, zap.String(k, fmt.Sprintf("0x%x", v)))
				continue
			}
			out = append(out, zap.Uint32(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
