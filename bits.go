package canframe

// Bit buffers are byte slices read MSB-first: bit 0 is the most significant
// bit of byte 0. A frame-wide buffer plays the role of one big unsigned integer.

// putBits ORs the low width bits of v into buf at bit offset off, MSB first.
func putBits(buf []byte, off, width int, v uint64) {
	for i := 0; i < width; i++ {
		if v>>uint(width-1-i)&1 == 0 {
			continue
		}
		pos := off + i
		buf[pos>>3] |= 0x80 >> uint(pos&7)
	}
}

// getBits reads width bits at bit offset off, MSB first.
func getBits(buf []byte, off, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		pos := off + i
		v = v<<1 | uint64(buf[pos>>3]>>uint(7-pos&7)&1)
	}
	return v
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// orInto ORs src into dst; both have the frame length.
func orInto(dst, src []byte) {
	for i := range src {
		dst[i] |= src[i]
	}
}

// intersects reports whether a and b share a set bit.
func intersects(a, b []byte) bool {
	for i := range a {
		if a[i]&b[i] != 0 {
			return true
		}
	}
	return false
}

func widthMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(width) - 1
}

// signExtend interprets the low width bits of raw as two's complement.
func signExtend(raw uint64, width int) int64 {
	if width < 64 && raw&(1<<uint(width-1)) != 0 {
		raw |= ^widthMask(width)
	}
	return int64(raw)
}
