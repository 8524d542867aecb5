package canframe

import (
	"fmt"
	"math"
	"slices"

	"github.com/x448/float16"
)

// decode unpacks a frame, following the multiplexer ids found in it.
func (t *codecTree) decode(data []byte, o callOptions) (Values, error) {
	if len(data) < t.length {
		return nil, fmt.Errorf("%w: %q got %d bytes, want %d", ErrShortFrame, t.message, len(data), t.length)
	}
	data = data[:t.length]
	reversed := slices.Clone(data)
	reverseBytes(reversed)

	out := make(Values)
	stack := []int{0}
	for len(stack) > 0 {
		node := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		for _, f := range node.big.fields {
			s := node.signals[f.sig]
			out[s.Name] = decodeValue(s, getBits(data, f.shift, f.width), o)
		}
		for _, f := range node.little.fields {
			s := node.signals[f.sig]
			out[s.Name] = decodeValue(s, getBits(reversed, f.shift, f.width), o)
		}

		for _, m := range node.multiplexers {
			s := node.signals[m]
			id, ok := decodeMuxID(s, out[s.Name])
			if !ok {
				continue
			}
			i, ok := node.children[muxEdge{signal: s.Name, id: id}]
			if !ok {
				// unknown ids keep only the signals decoded so far
				if o.unknownMux != nil {
					o.unknownMux(s.Name, id)
				}
				continue
			}
			stack = append(stack, i)
		}
	}
	return out, nil
}

func decodeMuxID(s *Signal, v Value) (int64, bool) {
	if v.IsNamed() {
		return s.ChoiceValue(v.Name)
	}
	return v.integer()
}

func decodeValue(s *Signal, raw uint64, o callOptions) Value {
	var v Value
	switch {
	case s.IsFloat:
		v = Float(floatFromBits(raw, s.Length))
	case !o.scaling || s.identityScaling():
		v = intValue(s, raw)
	case s.IsSigned:
		v = Float(float64(signExtend(raw, s.Length))*s.Scale + s.Offset)
	default:
		v = Float(float64(raw)*s.Scale + s.Offset)
	}
	if o.choices && len(s.Choices) > 0 {
		if k, ok := v.integer(); ok {
			if name, ok := s.Choices[k]; ok {
				return Named(name)
			}
		}
	}
	return v
}

// intValue returns an Int unless an unsigned raw value needs all 64 bits.
func intValue(s *Signal, raw uint64) Value {
	if s.IsSigned {
		return Int(signExtend(raw, s.Length))
	}
	if raw > math.MaxInt64 {
		return Uint(raw)
	}
	return Int(int64(raw))
}

func floatFromBits(raw uint64, width int) float64 {
	switch width {
	case 16:
		return float64(float16.Frombits(uint16(raw)).Float32())
	case 32:
		return float64(math.Float32frombits(uint32(raw)))
	default:
		return math.Float64frombits(raw)
	}
}
