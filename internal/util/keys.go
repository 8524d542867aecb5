package util

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// GenKey is the generation key shared by all cached decodes of one frame id.
func GenKey(ns string, frameID uint32) string {
	return fmt.Sprintf("frame:%s:%x", ns, frameID)
}

// EntryKey identifies one cached decode: frame id, layout fingerprint, decode
// flags and a 64-bit hash of the frame bytes. Collisions are caught by
// comparing the stored bytes.
func EntryKey(ns string, frameID uint32, layout uint64, flags byte, data []byte) string {
	return fmt.Sprintf("frame:%s:%x:%016x:%d:%016x", ns, frameID, layout, flags, xxhash.Sum64(data))
}
