package canframe

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/x448/float16"
)

// encode packs values into a frame, walking the selected branch of the tree.
func (t *codecTree) encode(values Values, o callOptions) ([]byte, error) {
	frame := make([]byte, t.length)
	bigBuf := make([]byte, t.length)
	littleBuf := make([]byte, t.length)

	stack := []int{0}
	for len(stack) > 0 {
		node := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		raws := make([]uint64, len(node.signals))
		for i, s := range node.signals {
			v, ok := values[s.Name]
			if !ok {
				return nil, &MissingSignalError{Message: t.message, Signal: s.Name}
			}
			raw, err := encodeValue(s, v, o.scaling)
			if err != nil {
				return nil, err
			}
			raws[i] = raw
		}

		if !node.big.empty() {
			clear(bigBuf)
			for _, f := range node.big.fields {
				putBits(bigBuf, f.shift, f.width, raws[f.sig])
			}
			orInto(frame, bigBuf)
		}
		if !node.little.empty() {
			clear(littleBuf)
			for _, f := range node.little.fields {
				putBits(littleBuf, f.shift, f.width, raws[f.sig])
			}
			reverseBytes(littleBuf)
			orInto(frame, littleBuf)
		}

		for _, m := range node.multiplexers {
			s := node.signals[m]
			id, err := encodeMuxID(s, values[s.Name])
			if err != nil {
				return nil, err
			}
			i, ok := node.children[muxEdge{signal: s.Name, id: id}]
			if !ok {
				return nil, &MultiplexError{Multiplexer: s.Name, ID: id}
			}
			stack = append(stack, i)
		}
	}
	return frame, nil
}

func encodeMuxID(s *Signal, v Value) (int64, error) {
	if v.IsNamed() {
		id, ok := s.ChoiceValue(v.Name)
		if !ok {
			return 0, &ChoiceError{Signal: s.Name, Choice: v.Name}
		}
		return id, nil
	}
	id, ok := v.integer()
	if !ok {
		return 0, &RangeError{Signal: s.Name, Value: v.String(), Reason: "is not a multiplexer id"}
	}
	return id, nil
}

// encodeValue resolves v to the raw bits of s.
func encodeValue(s *Signal, v Value, scaling bool) (uint64, error) {
	if v.IsNamed() {
		n, ok := s.ChoiceValue(v.Name)
		if !ok {
			return 0, &ChoiceError{Signal: s.Name, Choice: v.Name}
		}
		v = Int(n)
	}
	f, ok := v.Number()
	if !ok {
		return 0, &RangeError{Signal: s.Name, Value: v.String(), Reason: "is not a number"}
	}

	if s.IsFloat {
		if scaling {
			f = (f - s.Offset) / s.Scale
		}
		return floatBits(f, s.Length), nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &RangeError{Signal: s.Name, Value: v.String(), Reason: "is not finite"}
	}
	d := toDecimal(v)
	if scaling {
		// exact decimal arithmetic, rounded half to even
		if !s.identityScaling() {
			d = d.Sub(decimal.NewFromFloat(s.Offset)).Div(decimal.NewFromFloat(s.Scale))
		}
		d = d.RoundBank(0)
	} else if !d.IsInteger() {
		return 0, &RangeError{Signal: s.Name, Value: d.String(), Reason: "is not an integer"}
	}
	return fitRaw(s, d.BigInt())
}

func toDecimal(v Value) decimal.Decimal {
	switch v.Kind {
	case KindInt:
		return decimal.NewFromInt(v.Int)
	case KindUint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.Uint), 0)
	default:
		return decimal.NewFromFloat(v.Float)
	}
}

// fitRaw checks n against the width of s and returns its two's complement bits.
func fitRaw(s *Signal, n *big.Int) (uint64, error) {
	lo, hi := rawBounds(s)
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return 0, &RangeError{Signal: s.Name, Value: n.String(), Min: lo.String(), Max: hi.String()}
	}
	if n.Sign() < 0 {
		return uint64(n.Int64()) & widthMask(s.Length), nil
	}
	return n.Uint64(), nil
}

func rawBounds(s *Signal) (lo, hi *big.Int) {
	one := big.NewInt(1)
	if s.IsSigned {
		half := new(big.Int).Lsh(one, uint(s.Length-1))
		return new(big.Int).Neg(half), new(big.Int).Sub(half, one)
	}
	return new(big.Int), new(big.Int).Sub(new(big.Int).Lsh(one, uint(s.Length)), one)
}

func floatBits(f float64, width int) uint64 {
	switch width {
	case 16:
		return uint64(float16.Fromfloat32(float32(f)).Bits())
	case 32:
		return uint64(math.Float32bits(float32(f)))
	default:
		return math.Float64bits(f)
	}
}
