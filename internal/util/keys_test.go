package util

import (
	"strings"
	"testing"
)

func TestEntryKeyVariesWithInputs(t *testing.T) {
	base := EntryKey("ns", 0x123, 0xabc, 3, []byte{1, 2})
	if !strings.HasPrefix(base, GenKey("ns", 0x123)+":") {
		t.Fatalf("entry key %q not under gen key", base)
	}
	for _, other := range []string{
		EntryKey("ns", 0x124, 0xabc, 3, []byte{1, 2}),
		EntryKey("ns", 0x123, 0xabd, 3, []byte{1, 2}),
		EntryKey("ns", 0x123, 0xabc, 1, []byte{1, 2}),
		EntryKey("ns", 0x123, 0xabc, 3, []byte{1, 3}),
		EntryKey("other", 0x123, 0xabc, 3, []byte{1, 2}),
	} {
		if other == base {
			t.Fatalf("key collision: %q", other)
		}
	}
	if EntryKey("ns", 0x123, 0xabc, 3, []byte{1, 2}) != base {
		t.Fatalf("key not deterministic")
	}
}
