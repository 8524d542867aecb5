// Package codec serializes decoded frame values for the frame cache.
// Every codec here satisfies canframe.ValuesCodec when instantiated with
// canframe.Values.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
