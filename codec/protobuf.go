package codec

import (
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/canframe"
)

// Protobuf stores canframe.Values as a google.protobuf.Struct. Each signal
// maps to {"k": kind, "v": value}. Integers are carried as decimal strings
// because Struct numbers are float64. The zero value is ready to use.
type Protobuf struct{}

var _ Codec[canframe.Values] = Protobuf{}

func (Protobuf) Encode(vs canframe.Values) ([]byte, error) {
	fields := make(map[string]*structpb.Value, len(vs))
	for name, v := range vs {
		var pv *structpb.Value
		switch v.Kind {
		case canframe.KindFloat:
			pv = structpb.NewNumberValue(v.Float)
		case canframe.KindInt:
			pv = structpb.NewStringValue(strconv.FormatInt(v.Int, 10))
		case canframe.KindUint:
			pv = structpb.NewStringValue(strconv.FormatUint(v.Uint, 10))
		case canframe.KindNamed:
			pv = structpb.NewStringValue(v.Name)
		default:
			return nil, fmt.Errorf("codec: signal %q has invalid value kind", name)
		}
		fields[name] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"k": structpb.NewNumberValue(float64(v.Kind)),
			"v": pv,
		}})
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(&structpb.Struct{Fields: fields})
}

func (Protobuf) Decode(b []byte) (canframe.Values, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	out := make(canframe.Values, len(s.GetFields()))
	for name, f := range s.GetFields() {
		v, err := protoValue(f.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("codec: signal %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func protoValue(s *structpb.Struct) (canframe.Value, error) {
	if s == nil {
		return canframe.Value{}, fmt.Errorf("not a struct")
	}
	k, v := s.GetFields()["k"], s.GetFields()["v"]
	if k == nil || v == nil {
		return canframe.Value{}, fmt.Errorf("missing kind or value")
	}
	kf := k.GetNumberValue()
	if kf != math.Trunc(kf) || kf < float64(canframe.KindFloat) || kf > float64(canframe.KindNamed) {
		return canframe.Value{}, fmt.Errorf("unknown kind %v", kf)
	}
	switch canframe.Kind(kf) {
	case canframe.KindFloat:
		return canframe.Float(v.GetNumberValue()), nil
	case canframe.KindInt:
		i, err := strconv.ParseInt(v.GetStringValue(), 10, 64)
		if err != nil {
			return canframe.Value{}, err
		}
		return canframe.Int(i), nil
	case canframe.KindUint:
		u, err := strconv.ParseUint(v.GetStringValue(), 10, 64)
		if err != nil {
			return canframe.Value{}, err
		}
		return canframe.Uint(u), nil
	case canframe.KindNamed:
		return canframe.Named(v.GetStringValue()), nil
	default:
		return canframe.Value{}, fmt.Errorf("unknown kind %v", kf)
	}
}
