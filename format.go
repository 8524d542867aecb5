package canframe

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// field places one signal inside a frame-wide group buffer.
// shift is the offset of the field's most significant bit, MSB first.
type field struct {
	sig   int // index into codecNode.signals
	shift int
	width int
}

// program packs or unpacks one byte-order group of a node. Bits not covered by
// fields are padding and stay zero.
type program struct {
	fields  []field
	padding int
}

func (p program) empty() bool { return len(p.fields) == 0 }

// compileBig lays out big-endian signals walking ascending by Start with a
// cursor measured from the front of the frame.
func compileBig(message string, signals []*Signal, totalBits int) (program, error) {
	order := orderBy(signals, BigEndian, func(a, b int) int { return cmp.Compare(a, b) })

	var p program
	cursor, prev := 0, -1
	for _, i := range order {
		s := signals[i]
		gap := s.Start - cursor
		if gap < 0 {
			return program{}, overlapError(message, s, signals[prev])
		}
		p.padding += gap
		p.fields = append(p.fields, field{sig: i, shift: s.Start, width: s.Length})
		cursor = s.Start + s.Length
		prev = i
	}
	p.padding += totalBits - cursor
	return p, nil
}

// compileLittle lays out little-endian signals walking descending by Start and
// measuring from the tail. The resulting buffer is byte-reversed before it is
// merged into the frame.
func compileLittle(message string, signals []*Signal, totalBits int) (program, error) {
	order := orderBy(signals, LittleEndian, func(a, b int) int { return cmp.Compare(b, a) })

	var p program
	end, prev := totalBits, -1
	for _, i := range order {
		s := signals[i]
		gap := end - (s.Start + s.Length)
		if gap < 0 {
			return program{}, overlapError(message, s, signals[prev])
		}
		p.padding += gap
		p.fields = append(p.fields, field{sig: i, shift: totalBits - end + gap, width: s.Length})
		end = s.Start
		prev = i
	}
	p.padding += end
	return p, nil
}

func orderBy(signals []*Signal, order ByteOrder, byStart func(a, b int) int) []int {
	idx := make([]int, 0, len(signals))
	for i, s := range signals {
		if s.ByteOrder == order {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int { return byStart(signals[a].Start, signals[b].Start) })
	return idx
}

// checkLayout validates a single signal against the frame size.
func checkLayout(message string, s *Signal, totalBits int) error {
	var reason string
	switch {
	case s.Length <= 0 || s.Length > 64:
		reason = fmt.Sprintf("length %d outside 1..64", s.Length)
	case s.Start < 0 || s.Start+s.Length > totalBits:
		reason = fmt.Sprintf("bits [%d, %d) outside frame of %d bits", s.Start, s.Start+s.Length, totalBits)
	case s.IsFloat && s.Length != 16 && s.Length != 32 && s.Length != 64:
		reason = fmt.Sprintf("float length %d, want 16, 32 or 64", s.Length)
	case s.ByteOrder != BigEndian && s.ByteOrder != LittleEndian:
		reason = fmt.Sprintf("unknown %s", s.ByteOrder)
	case !finite(s.Scale) || !finite(s.Offset):
		reason = fmt.Sprintf("non-finite scale %v or offset %v", s.Scale, s.Offset)
	default:
		return nil
	}
	return &ConfigurationError{Message: message, Signal: s.Name, Reason: reason}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// occupancy returns the physical frame bits s covers.
func occupancy(s *Signal, length int) []byte {
	m := make([]byte, length)
	if s.ByteOrder == LittleEndian {
		putBits(m, length*8-s.Start-s.Length, s.Length, widthMask(s.Length))
		reverseBytes(m)
		return m
	}
	putBits(m, s.Start, s.Length, widthMask(s.Length))
	return m
}

func overlapError(message string, s, other *Signal) error {
	return &ConfigurationError{
		Message: message,
		Signal:  s.Name,
		Reason:  fmt.Sprintf("overlaps signal %q", other.Name),
	}
}
