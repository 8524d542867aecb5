// Package canframe encodes and decodes CAN frames described by signal
// layouts, including multiplexed messages.
//
// A Message is built once from a MessageConfig. NewMessage validates the
// layout and compiles it into a tree of signal groups: the top level holds
// the signals always present, and every multiplexer id selects a child group.
// Encode and Decode then walk only the branch the multiplexer values select.
//
// Values:
//
//	Float(21.5)       // scaled physical value
//	Int(-3), Uint(7)  // exact integers (raw values when WithScaling(false))
//	Named("Charging") // choice name, encoded via Signal.Choices
//
// Scaling is physical = raw*Scale + Offset. Encode computes
// raw = (physical-Offset)/Scale in decimal and rounds half to even, so
// 0.35 with Scale 0.1 encodes as 4.
//
// Database groups messages by frame id and can cache decoded frames in a
// Provider (ristretto, bigcache, redis). Cached decodes are guarded by a
// per-frame generation held in a GenStore:
//
//	frame:<ns>:<id>                                  - generation key
//	frame:<ns>:<id>:<layout>:<flags>:<xxhash(data)>  - decoded entry
//
// The layout fingerprint keeps decodes made with a different layout out of
// reach even when the generation store loses or resets its counters.
// Replacing a message also bumps its generation, so earlier entries age out.
package canframe
