package canframe

import (
	"fmt"
	"slices"
)

// ByteOrder selects how a signal's bits are numbered across byte boundaries.
type ByteOrder uint8

const (
	// BigEndian ("motorola"): Start is the offset of the most significant bit,
	// counted MSB-first from the front of the frame.
	BigEndian ByteOrder = iota
	// LittleEndian ("intel"): Start is the offset of the least significant bit,
	// where bit i is bit i%8 (from the LSB) of byte i/8.
	LittleEndian
)

func (o ByteOrder) String() string {
	switch o {
	case BigEndian:
		return "big_endian"
	case LittleEndian:
		return "little_endian"
	default:
		return fmt.Sprintf("byte_order(%d)", uint8(o))
	}
}

// Signal describes one named field of a frame. Signals are plain values;
// NewMessage keeps its own copy, so later changes by the caller have no effect.
type Signal struct {
	Name      string
	Start     int // bit offset, see ByteOrder for numbering
	Length    int // bits, 1..64
	ByteOrder ByteOrder
	IsFloat   bool // IEEE 754, Length must be 16, 32 or 64
	IsSigned  bool

	// physical = raw*Scale + Offset. A zero Scale is treated as 1.
	Scale  float64
	Offset float64

	Choices map[int64]string

	// MultiplexerSignal names the multiplexer selecting this signal ("" = always present).
	MultiplexerSignal string
	MultiplexerIDs    []int64
	IsMultiplexer     bool

	Unit    string
	Comment string
}

// ChoiceName returns the choice string for v, if any.
func (s *Signal) ChoiceName(v int64) (string, bool) {
	name, ok := s.Choices[v]
	return name, ok
}

// ChoiceValue returns the number a choice string stands for. Choice names
// are unique within a signal.
func (s *Signal) ChoiceValue(name string) (int64, bool) {
	for v, n := range s.Choices {
		if n == name {
			return v, true
		}
	}
	return 0, false
}

func (s *Signal) String() string {
	return fmt.Sprintf("%s[%d:%d %s]", s.Name, s.Start, s.Length, s.ByteOrder)
}

func (s *Signal) selectedBy(mux string, id int64) bool {
	return s.MultiplexerSignal == mux && slices.Contains(s.MultiplexerIDs, id)
}

func (s *Signal) identityScaling() bool {
	return s.Scale == 1 && s.Offset == 0
}

// clone deep-copies the reference fields and applies defaults.
func (s Signal) clone() Signal {
	s.Scale = coalesce(s.Scale, 1)
	if s.Choices != nil {
		choices := make(map[int64]string, len(s.Choices))
		for k, v := range s.Choices {
			choices[k] = v
		}
		s.Choices = choices
	}
	s.MultiplexerIDs = slices.Clone(s.MultiplexerIDs)
	return s
}
