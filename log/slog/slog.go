// Package slog adapts a *slog.Logger to canframe.Logger.
package slog

import (
	"context"
	"fmt"
	stdslog "log/slog"
	"sort"

	"github.com/unkn0wn-root/canframe"
)

var _ canframe.Logger = Logger{}

type Logger struct{ L *stdslog.Logger }

// New groups canframe attributes under "canframe".
func New(l *stdslog.Logger) Logger { return Logger{L: l.WithGroup("canframe")} }

func (s Logger) Debug(msg string, f canframe.Fields) { s.log(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f canframe.Fields)  { s.log(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f canframe.Fields)  { s.log(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f canframe.Fields) { s.log(stdslog.LevelError, msg, f) }

func (s Logger) log(level stdslog.Level, msg string, f canframe.Fields) {
	ctx := context.Background()
	if !s.L.Enabled(ctx, level) {
		return
	}
	s.L.LogAttrs(ctx, level, msg, attrs(f)...)
}

func attrs(f canframe.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]stdslog.Attr, 0, len(f))
	for _, k := range keys {
		if id, ok := f[k].(uint32); ok && k == "frame_id" {
			out = append(out, stdslog.String(k, fmt.Sprintf("0x%x", id)))
			continue
		}
		out = append(out, stdslog.Any(k, f[k]))
	}
	return out
}
