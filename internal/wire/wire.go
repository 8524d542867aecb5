package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version   byte = 1
	kindFrame byte = 1

	// MaxData bounds the frame bytes an entry can carry.
	MaxData = 0xFFFF
)

var (
	ErrCorrupt      = errors.New("canframe: corrupt cache entry")
	ErrDataTooLarge = errors.New("canframe: frame too large for cache entry")
	magic4          = [...]byte{'C', 'A', 'N', 'F'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | kind(1=frame) | gen(u64 be) | dlen(u16 be) | data(dlen) | vlen(u32 be) | payload(vlen)
//
// data holds the raw frame the payload was decoded from, so readers can rule
// out key hash collisions.
func EncodeEntry(gen uint64, data, payload []byte) ([]byte, error) {
	if len(data) > MaxData {
		return nil, ErrDataTooLarge
	}
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 2 + len(data) + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindFrame)

	var u8 [8]byte
	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint64(u8[:], gen)
	buf.Write(u8[:])

	binary.BigEndian.PutUint16(u2[:], uint16(len(data)))
	buf.Write(u2[:])
	buf.Write(data)

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes(), nil
}

// DecodeEntry returns slices into b (zero-copy). Trailing bytes are rejected.
func DecodeEntry(b []byte) (gen uint64, data, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 2
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindFrame {
		return 0, nil, nil, ErrCorrupt
	}

	off := 6

	// gen
	gen = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	// dlen + data
	dlen := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if dlen > len(b)-off {
		return 0, nil, nil, ErrCorrupt
	}
	data = b[off : off+dlen]
	off += dlen

	// vlen
	if off+4 > len(b) {
		return 0, nil, nil, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // overflow-safe; no trailing bytes
		return 0, nil, nil, ErrCorrupt
	}

	return gen, data, b[off : off+vlen], nil
}
