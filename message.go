package canframe

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	// MaxLength is the largest frame handled, in bytes (CAN FD).
	MaxLength = 64

	maxStandardID = 0x7FF
	maxExtendedID = 0x1FFFFFFF
)

// MessageConfig describes a message as produced by a schema loader.
type MessageConfig struct {
	FrameID         uint32
	IsExtendedFrame bool
	Name            string
	Length          int // bytes
	Signals         []Signal

	Comment   string
	Senders   []string
	CycleTime time.Duration
}

// Message encodes and decodes one frame layout. It is immutable and safe for
// concurrent use.
type Message struct {
	frameID   uint32
	extended  bool
	name      string
	length    int
	signals   []*Signal // ascending by Start
	tree      *codecTree
	layout    uint64 // fingerprint of length and signals, part of cache keys
	comment   string
	senders   []string
	cycleTime time.Duration
}

// NewMessage validates cfg and precomputes the codec tree. Layout problems
// are reported as *ConfigurationError.
func NewMessage(cfg MessageConfig) (*Message, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	signals := make([]*Signal, len(cfg.Signals))
	for i := range cfg.Signals {
		s := cfg.Signals[i].clone()
		signals[i] = &s
	}
	slices.SortStableFunc(signals, func(a, b *Signal) int { return a.Start - b.Start })

	tree, err := buildTree(cfg.Name, signals, cfg.Length)
	if err != nil {
		return nil, err
	}
	return &Message{
		frameID:   cfg.FrameID,
		extended:  cfg.IsExtendedFrame,
		name:      cfg.Name,
		length:    cfg.Length,
		signals:   signals,
		tree:      tree,
		layout:    layoutHash(cfg.Length, signals),
		comment:   cfg.Comment,
		senders:   slices.Clone(cfg.Senders),
		cycleTime: cfg.CycleTime,
	}, nil
}

func validateConfig(cfg MessageConfig) error {
	fail := func(signal, format string, args ...any) error {
		return &ConfigurationError{Message: cfg.Name, Signal: signal, Reason: fmt.Sprintf(format, args...)}
	}
	if cfg.Name == "" {
		return fail("", "name is required")
	}
	if cfg.Length < 0 || cfg.Length > MaxLength {
		return fail("", "length %d outside 0..%d bytes", cfg.Length, MaxLength)
	}
	maxID := uint32(maxStandardID)
	if cfg.IsExtendedFrame {
		maxID = maxExtendedID
	}
	if cfg.FrameID > maxID {
		return fail("", "frame id 0x%x exceeds 0x%x", cfg.FrameID, maxID)
	}

	byName := make(map[string]*Signal, len(cfg.Signals))
	for i := range cfg.Signals {
		s := &cfg.Signals[i]
		if s.Name == "" {
			return fail("", "signal %d has no name", i)
		}
		if _, dup := byName[s.Name]; dup {
			return fail(s.Name, "duplicate signal name")
		}
		byName[s.Name] = s

		seen := make(map[string]int64, len(s.Choices))
		for v, n := range s.Choices {
			if prev, dup := seen[n]; dup {
				return fail(s.Name, "duplicate choice name %q for %d and %d", n, min(prev, v), max(prev, v))
			}
			seen[n] = v
		}
	}
	for _, s := range cfg.Signals {
		if s.MultiplexerSignal == "" {
			continue
		}
		mux, ok := byName[s.MultiplexerSignal]
		if !ok {
			return fail(s.Name, "multiplexer %q not defined", s.MultiplexerSignal)
		}
		if !mux.IsMultiplexer {
			return fail(s.Name, "signal %q is not a multiplexer", s.MultiplexerSignal)
		}
	}
	return nil
}

// layoutHash fingerprints everything that changes how a frame decodes.
// Two messages with the same fingerprint decode any frame identically.
func layoutHash(length int, signals []*Signal) uint64 {
	d := xxhash.New()
	fmt.Fprintf(d, "len=%d;", length)
	for _, s := range signals {
		fmt.Fprintf(d, "%q:%d:%d:%d:%t:%t:%x:%x:%t:%q:%v;",
			s.Name, s.Start, s.Length, s.ByteOrder, s.IsFloat, s.IsSigned,
			math.Float64bits(s.Scale), math.Float64bits(s.Offset),
			s.IsMultiplexer, s.MultiplexerSignal, s.MultiplexerIDs)
		for _, k := range slices.Sorted(maps.Keys(s.Choices)) {
			fmt.Fprintf(d, "%d=%q,", k, s.Choices[k])
		}
	}
	return d.Sum64()
}

func (m *Message) FrameID() uint32          { return m.frameID }
func (m *Message) IsExtendedFrame() bool    { return m.extended }
func (m *Message) Name() string             { return m.name }
func (m *Message) Length() int              { return m.length }
func (m *Message) Comment() string          { return m.comment }
func (m *Message) Senders() []string        { return slices.Clone(m.senders) }
func (m *Message) CycleTime() time.Duration { return m.cycleTime }

// Signals returns copies of all signals, ascending by Start.
func (m *Message) Signals() []Signal {
	out := make([]Signal, len(m.signals))
	for i, s := range m.signals {
		out[i] = s.clone()
	}
	return out
}

// SignalByName returns a copy of the named signal.
func (m *Message) SignalByName(name string) (Signal, error) {
	for _, s := range m.signals {
		if s.Name == name {
			return s.clone(), nil
		}
	}
	return Signal{}, &NotFoundError{Kind: "signal", Key: fmt.Sprintf("%q in message %q", name, m.name)}
}

// IsMultiplexed reports whether any top-level signal selects a signal group.
func (m *Message) IsMultiplexed() bool {
	return len(m.tree.nodes[0].multiplexers) > 0
}

// SignalTree returns the multiplexing hierarchy by signal name.
func (m *Message) SignalTree() []TreeNode {
	return m.tree.view(0)
}

// Encode packs values into exactly Length bytes. Every signal of the selected
// multiplexer branch needs a value; Named values are looked up in Choices.
func (m *Message) Encode(values Values, opts ...Option) ([]byte, error) {
	return m.tree.encode(values, newCallOptions(opts))
}

// Decode unpacks the first Length bytes of data. A multiplexer id without a
// signal group is not an error; that branch contributes only the parent
// group's signals.
func (m *Message) Decode(data []byte, opts ...Option) (Values, error) {
	return m.tree.decode(data, newCallOptions(opts))
}

func (m *Message) String() string {
	return fmt.Sprintf("message(%q, 0x%x, %v, %d)", m.name, m.frameID, m.extended, m.length)
}
