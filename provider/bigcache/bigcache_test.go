package bigcache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSetGetDelAndSizeLimit(t *testing.T) {
	ctx := context.Background()
	p, err := New(Config{LifeWindow: time.Minute, MaxEntrySize: 16, Shards: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close(ctx)

	if _, ok, err := p.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}
	if ok, err := p.Set(ctx, "k", []byte("small"), 1, 0); !ok || err != nil {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, ok, err := p.Get(ctx, "k")
	if !ok || err != nil || !bytes.Equal(got, []byte("small")) {
		t.Fatalf("Get: %q ok=%v err=%v", got, ok, err)
	}

	if ok, err := p.Set(ctx, "big", bytes.Repeat([]byte{1}, 32), 1, 0); ok || err != nil {
		t.Fatalf("oversized Set: ok=%v err=%v, want rejected", ok, err)
	}

	if err := p.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("second Del: %v", err)
	}
}

func TestLifeWindowRequired(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error")
	}
}
