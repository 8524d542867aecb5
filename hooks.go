package canframe

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; Database calls them on the
// decode path. Wrap slow implementations with hooks/async.
type Hooks interface {
	// Decode met a multiplexer id with no signal group. The frame still
	// decoded; only the parent group's signals were returned.
	UnknownMultiplexer(message, multiplexer string, id int64)

	// A cached entry was deleted on read.
	// reason ∈ {"corrupt", "gen_mismatch", "data_mismatch", "value_decode"}
	SelfHealEntry(storageKey, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string)

	// GenStore errors. The cache is bypassed for that call.
	GenSnapshotError(storageKey string, err error)
	GenBumpError(storageKey string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) UnknownMultiplexer(string, string, int64) {}
func (NopHooks) SelfHealEntry(string, string)             {}
func (NopHooks) ProviderSetRejected(string)               {}
func (NopHooks) GenSnapshotError(string, error)           {}
func (NopHooks) GenBumpError(string, error)               {}
