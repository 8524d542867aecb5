package canframe

import (
	"bytes"
	"errors"
	"maps"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestNewMessageConfigurationErrors(t *testing.T) {
	cases := []struct {
		name   string
		cfg    MessageConfig
		signal string
		reason string
	}{
		{
			name:   "overlap same order",
			cfg:    MessageConfig{Name: "M", Length: 2, Signals: []Signal{{Name: "A", Start: 0, Length: 8}, {Name: "B", Start: 4, Length: 8}}},
			signal: "B",
			reason: "overlaps",
		},
		{
			name: "overlap across byte orders",
			cfg: MessageConfig{Name: "M", Length: 1, Signals: []Signal{
				{Name: "A", Start: 0, Length: 4},
				{Name: "B", Start: 0, Length: 8, ByteOrder: LittleEndian},
			}},
			signal: "B",
			reason: "overlaps",
		},
		{
			name:   "outside frame",
			cfg:    MessageConfig{Name: "M", Length: 1, Signals: []Signal{{Name: "A", Start: 4, Length: 8}}},
			signal: "A",
			reason: "outside frame",
		},
		{
			name:   "zero length",
			cfg:    MessageConfig{Name: "M", Length: 1, Signals: []Signal{{Name: "A", Start: 0, Length: 0}}},
			signal: "A",
			reason: "outside 1..64",
		},
		{
			name:   "float width",
			cfg:    MessageConfig{Name: "M", Length: 1, Signals: []Signal{{Name: "A", Start: 0, Length: 8, IsFloat: true}}},
			signal: "A",
			reason: "float length",
		},
		{
			name: "child overlaps multiplexer",
			cfg: MessageConfig{Name: "M", Length: 1, Signals: []Signal{
				{Name: "Mux", Start: 0, Length: 4, IsMultiplexer: true},
				{Name: "A", Start: 2, Length: 4, MultiplexerSignal: "Mux", MultiplexerIDs: []int64{0}},
			}},
			signal: "A",
			reason: "overlaps signal \"Mux\"",
		},
		{
			name: "unreachable",
			cfg: MessageConfig{Name: "M", Length: 1, Signals: []Signal{
				{Name: "Mux", Start: 0, Length: 4, IsMultiplexer: true},
				{Name: "A", Start: 4, Length: 4, MultiplexerSignal: "Mux"},
			}},
			signal: "A",
			reason: "not reachable",
		},
		{
			name: "undefined multiplexer",
			cfg: MessageConfig{Name: "M", Length: 1, Signals: []Signal{
				{Name: "A", Start: 4, Length: 4, MultiplexerSignal: "Nope", MultiplexerIDs: []int64{1}},
			}},
			signal: "A",
			reason: "not defined",
		},
		{
			name: "selector is not a multiplexer",
			cfg: MessageConfig{Name: "M", Length: 1, Signals: []Signal{
				{Name: "Sel", Start: 0, Length: 4},
				{Name: "A", Start: 4, Length: 4, MultiplexerSignal: "Sel", MultiplexerIDs: []int64{1}},
			}},
			signal: "A",
			reason: "is not a multiplexer",
		},
		{
			name: "sibling multiplexers share bits",
			cfg: MessageConfig{Name: "M", Length: 2, Signals: []Signal{
				{Name: "M1", Start: 0, Length: 4, IsMultiplexer: true},
				{Name: "M2", Start: 4, Length: 4, IsMultiplexer: true},
				{Name: "A", Start: 8, Length: 8, MultiplexerSignal: "M1", MultiplexerIDs: []int64{0}},
				{Name: "B", Start: 8, Length: 8, MultiplexerSignal: "M2", MultiplexerIDs: []int64{0}},
			}},
			signal: "M2",
			reason: "overlap those of multiplexer \"M1\"",
		},
		{
			name: "nested group under sibling multiplexer",
			cfg: MessageConfig{Name: "M", Length: 3, Signals: []Signal{
				{Name: "M1", Start: 0, Length: 4, IsMultiplexer: true},
				{Name: "M2", Start: 4, Length: 4, IsMultiplexer: true},
				{Name: "A", Start: 16, Length: 8, MultiplexerSignal: "M1", MultiplexerIDs: []int64{0}},
				{Name: "N", Start: 8, Length: 4, IsMultiplexer: true, MultiplexerSignal: "M2", MultiplexerIDs: []int64{1}},
				{Name: "C", Start: 16, Length: 4, MultiplexerSignal: "N", MultiplexerIDs: []int64{3}},
			}},
			signal: "M2",
			reason: "overlap those of multiplexer",
		},
		{
			name:   "infinite offset",
			cfg:    MessageConfig{Name: "M", Length: 1, Signals: []Signal{{Name: "A", Start: 0, Length: 8, Offset: math.Inf(1)}}},
			signal: "A",
			reason: "non-finite",
		},
		{
			name:   "nan scale",
			cfg:    MessageConfig{Name: "M", Length: 1, Signals: []Signal{{Name: "A", Start: 0, Length: 8, Scale: math.NaN()}}},
			signal: "A",
			reason: "non-finite",
		},
		{
			name:   "duplicate choice names",
			cfg:    MessageConfig{Name: "M", Length: 1, Signals: []Signal{{Name: "A", Start: 0, Length: 8, Choices: map[int64]string{1: "ON", 2: "OFF", 3: "ON"}}}},
			signal: "A",
			reason: "duplicate choice name \"ON\" for 1 and 3",
		},
		{
			name:   "duplicate names",
			cfg:    MessageConfig{Name: "M", Length: 2, Signals: []Signal{{Name: "A", Start: 0, Length: 8}, {Name: "A", Start: 8, Length: 8}}},
			signal: "A",
			reason: "duplicate",
		},
		{
			name:   "standard id too large",
			cfg:    MessageConfig{Name: "M", FrameID: 0x800, Length: 1},
			reason: "frame id",
		},
		{
			name:   "length too large",
			cfg:    MessageConfig{Name: "M", Length: MaxLength + 1},
			reason: "length",
		},
		{
			name:   "no name",
			cfg:    MessageConfig{Length: 1},
			reason: "name is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMessage(tc.cfg)
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("err=%v, want ConfigurationError", err)
			}
			if ce.Signal != tc.signal {
				t.Fatalf("signal=%q, want %q (%v)", ce.Signal, tc.signal, err)
			}
			if !strings.Contains(ce.Reason, tc.reason) {
				t.Fatalf("reason=%q, want it to contain %q", ce.Reason, tc.reason)
			}
		})
	}
}

func TestSiblingGroupsMayShareBits(t *testing.T) {
	_, err := NewMessage(MessageConfig{Name: "M", Length: 1, Signals: []Signal{
		{Name: "Mux", Start: 0, Length: 4, IsMultiplexer: true},
		{Name: "A", Start: 4, Length: 4, MultiplexerSignal: "Mux", MultiplexerIDs: []int64{0}},
		{Name: "B", Start: 4, Length: 4, MultiplexerSignal: "Mux", MultiplexerIDs: []int64{1}},
	}})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
}

func TestSiblingMultiplexersWithDisjointGroups(t *testing.T) {
	m := mustMessage(t, 2,
		Signal{Name: "M1", Start: 0, Length: 4, IsMultiplexer: true},
		Signal{Name: "M2", Start: 4, Length: 4, IsMultiplexer: true},
		Signal{Name: "A", Start: 8, Length: 4, MultiplexerSignal: "M1", MultiplexerIDs: []int64{0}},
		Signal{Name: "B", Start: 12, Length: 4, MultiplexerSignal: "M2", MultiplexerIDs: []int64{0}},
	)
	in := Values{"M1": Int(0), "M2": Int(0), "A": Int(15), "B": Int(3)}
	data := mustEncode(t, m, in)
	if !bytes.Equal(data, []byte{0x00, 0xf3}) {
		t.Fatalf("encode = % x", data)
	}
	if got := mustDecode(t, m, data); !maps.Equal(got, in) {
		t.Fatalf("decode = %v, want %v", got, in)
	}
}

func TestLayoutFingerprint(t *testing.T) {
	base := []Signal{
		{Name: "A", Start: 0, Length: 8, Choices: map[int64]string{1: "ON", 2: "OFF"}},
		{Name: "B", Start: 8, Length: 8, Scale: 0.5},
	}
	fp := func(length int, signals ...Signal) uint64 {
		t.Helper()
		return mustMessage(t, length, signals...).layout
	}
	ref := fp(2, base...)
	if fp(2, base[1], base[0]) != ref {
		t.Fatalf("fingerprint depends on signal order")
	}

	changed := map[string][]Signal{
		"scale":  {base[0], {Name: "B", Start: 8, Length: 8, Scale: 2}},
		"offset": {base[0], {Name: "B", Start: 8, Length: 8, Scale: 0.5, Offset: 1}},
		"order":  {base[0], {Name: "B", Start: 8, Length: 8, Scale: 0.5, ByteOrder: LittleEndian}},
		"signed": {base[0], {Name: "B", Start: 8, Length: 8, Scale: 0.5, IsSigned: true}},
		"choice": {{Name: "A", Start: 0, Length: 8, Choices: map[int64]string{1: "ON", 2: "STANDBY"}}, base[1]},
	}
	for name, signals := range changed {
		if fp(2, signals...) == ref {
			t.Fatalf("%s change kept fingerprint %x", name, ref)
		}
	}
	if fp(3, base...) == ref {
		t.Fatalf("length change kept fingerprint")
	}
}

func TestExtendedFrameID(t *testing.T) {
	m, err := NewMessage(MessageConfig{FrameID: 0x18FEF100, IsExtendedFrame: true, Name: "EEC1", Length: 8})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if m.FrameID() != 0x18FEF100 || !m.IsExtendedFrame() || m.Length() != 8 {
		t.Fatalf("unexpected accessors: %v", m)
	}
}

func TestSignalsSortedAndCopied(t *testing.T) {
	in := []Signal{
		{Name: "C", Start: 16, Length: 8},
		{Name: "A", Start: 0, Length: 8, Choices: map[int64]string{1: "ON"}},
		{Name: "B", Start: 8, Length: 8},
	}
	m := mustMessage(t, 3, in...)

	// caller changes after construction have no effect
	in[1].Choices[1] = "CHANGED"

	sigs := m.Signals()
	var names []string
	for _, s := range sigs {
		names = append(names, s.Name)
	}
	if !reflect.DeepEqual(names, []string{"A", "B", "C"}) {
		t.Fatalf("order = %v", names)
	}
	sigs[0].Choices[1] = "MUTATED"

	a, err := m.SignalByName("A")
	if err != nil {
		t.Fatalf("SignalByName: %v", err)
	}
	if a.Choices[1] != "ON" {
		t.Fatalf("choices leaked: %v", a.Choices)
	}
	if a.Scale != 1 {
		t.Fatalf("default scale = %v, want 1", a.Scale)
	}
}

func TestSignalByNameNotFound(t *testing.T) {
	m := mustMessage(t, 1, Signal{Name: "X", Start: 0, Length: 8})
	_, err := m.SignalByName("Y")
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "signal" {
		t.Fatalf("err=%v, want signal NotFoundError", err)
	}
}

func TestIsMultiplexedAndSignalTree(t *testing.T) {
	plain := mustMessage(t, 1, Signal{Name: "X", Start: 0, Length: 8})
	if plain.IsMultiplexed() {
		t.Fatalf("plain message reported multiplexed")
	}
	if got := plain.SignalTree(); !reflect.DeepEqual(got, []TreeNode{{Name: "X"}}) {
		t.Fatalf("tree = %+v", got)
	}

	m := mustMessage(t, 2,
		Signal{Name: "M", Start: 0, Length: 4, IsMultiplexer: true},
		Signal{Name: "A", Start: 4, Length: 4, MultiplexerSignal: "M", MultiplexerIDs: []int64{0, 2}},
		Signal{Name: "B", Start: 4, Length: 4, MultiplexerSignal: "M", MultiplexerIDs: []int64{1}},
		Signal{Name: "C", Start: 8, Length: 8},
	)
	if !m.IsMultiplexed() {
		t.Fatalf("expected multiplexed")
	}
	want := []TreeNode{
		{Name: "M", Multiplexed: map[int64][]TreeNode{
			0: {{Name: "A"}},
			1: {{Name: "B"}},
			2: {{Name: "A"}},
		}},
		{Name: "C"},
	}
	if got := m.SignalTree(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tree = %+v\nwant %+v", got, want)
	}
}

func TestFormatCompilerShifts(t *testing.T) {
	signals := []*Signal{
		{Name: "B0", Start: 0, Length: 4, ByteOrder: BigEndian},
		{Name: "B1", Start: 8, Length: 8, ByteOrder: BigEndian},
		{Name: "L0", Start: 16, Length: 8, ByteOrder: LittleEndian},
		{Name: "L1", Start: 28, Length: 4, ByteOrder: LittleEndian},
	}
	bp, err := compileBig("T", signals, 32)
	if err != nil {
		t.Fatalf("compileBig: %v", err)
	}
	if want := []field{{0, 0, 4}, {1, 8, 8}}; !reflect.DeepEqual(bp.fields, want) {
		t.Fatalf("big fields = %v, want %v", bp.fields, want)
	}
	if bp.padding != 20 {
		t.Fatalf("big padding = %d, want 20", bp.padding)
	}

	lp, err := compileLittle("T", signals, 32)
	if err != nil {
		t.Fatalf("compileLittle: %v", err)
	}
	// descending by start; shift counts from the front of the reversed buffer
	if want := []field{{3, 0, 4}, {2, 8, 8}}; !reflect.DeepEqual(lp.fields, want) {
		t.Fatalf("little fields = %v, want %v", lp.fields, want)
	}
	if lp.padding != 20 {
		t.Fatalf("little padding = %d, want 20", lp.padding)
	}
}
