package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/canframe"
)

func TestFieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Debug("d", nil)
	l.Warn("gen snapshot failed", canframe.Fields{"frame_id": uint32(0x1a), "err": errors.New("down"), "key": "k"})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries=%d", len(entries))
	}
	e := entries[1]
	if e.Level != zapcore.WarnLevel || e.LoggerName != "canframe" {
		t.Fatalf("level=%v name=%q", e.Level, e.LoggerName)
	}
	ctx := e.ContextMap()
	if ctx["frame_id"] != "0x1a" || ctx["err"] != "down" || ctx["key"] != "k" {
		t.Fatalf("fields=%v", ctx)
	}
}
