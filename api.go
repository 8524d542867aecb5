package canframe

import (
	"time"

	gen "github.com/unkn0wn-root/canframe/genstore"
	pr "github.com/unkn0wn-root/canframe/provider"
)

// ValuesCodec serializes decoded values for the frame cache.
// codec.CBOR[Values], codec.Msgpack[Values], codec.JSON[Values] and
// codec.Protobuf all satisfy it.
type ValuesCodec interface {
	Encode(Values) ([]byte, error)
	Decode([]byte) (Values, error)
}

type SetCostFunc func(key string, raw []byte) int64

// Options tune a Database. The zero value gives a registry without a cache.
// The decoded-frame cache is enabled by setting Provider, which also requires
// Namespace and Codec.
type Options struct {
	Namespace string      // isolates cache keys. e.g. "vehicle:powertrain"
	Provider  pr.Provider // nil => no cache
	Codec     ValuesCodec

	Logger          Logger        // if nil, NopLogger is used
	Hooks           Hooks         // if nil, NopHooks is used
	TTL             time.Duration // cached decodes; 0 => 10m
	CleanupInterval time.Duration // local genstore sweep; 0 => 1h
	GenRetention    time.Duration // local genstore retention; 0 => 30d
	GenStore        gen.GenStore  // nil => LocalGenStore (in-process)
	ComputeSetCost  SetCostFunc   // default 1
	DisableCache    bool          // keep Provider configured but bypass it
}

func NewDatabase(opts Options) (*Database, error) {
	return newDatabase(opts)
}
