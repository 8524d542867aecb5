package codec

import "encoding/json"

// JSON is a Codec using encoding/json. The zero value is ready to use.
// NaN and infinite floats cannot be encoded; such decodes are simply not cached.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
