package canframe

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/unkn0wn-root/canframe/internal/util"
)

// Database is a registry of messages keyed by frame id and name, with an
// optional cache of decoded frames. It is safe for concurrent use.
type Database struct {
	mu       sync.RWMutex
	messages []*Message
	byID     map[uint32]*Message
	byName   map[string]*Message

	cache *frameCache // nil when disabled
	log   Logger
	hooks Hooks
}

func newDatabase(opts Options) (*Database, error) {
	db := &Database{
		byID:   make(map[uint32]*Message),
		byName: make(map[string]*Message),
	}
	db.log = coalesce[Logger](opts.Logger, NopLogger{})
	db.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if opts.Provider != nil && !opts.DisableCache {
		c, err := newFrameCache(opts, db.log, db.hooks)
		if err != nil {
			return nil, err
		}
		db.cache = c
	}
	return db, nil
}

// AddMessage registers m, replacing any message with the same frame id.
// Replacing bumps the frame's cache generation first; if that fails the
// registry is left unchanged and the error is returned.
func (db *Database) AddMessage(ctx context.Context, m *Message) error {
	if m == nil {
		return errors.New("canframe: nil message")
	}

	db.mu.RLock()
	err := db.checkName(m)
	_, replacing := db.byID[m.FrameID()]
	db.mu.RUnlock()
	if err != nil {
		return err
	}
	if replacing && db.cache != nil {
		if err := db.cache.invalidate(ctx, m.FrameID()); err != nil {
			return err
		}
	}

	db.mu.Lock()
	if err := db.checkName(m); err != nil {
		db.mu.Unlock()
		return err
	}
	old, replaced := db.byID[m.FrameID()]
	if replaced {
		delete(db.byName, old.Name())
		i := slices.Index(db.messages, old)
		db.messages[i] = m
	} else {
		db.messages = append(db.messages, m)
	}
	db.byID[m.FrameID()] = m
	db.byName[m.Name()] = m
	db.mu.Unlock()

	db.log.Info("message registered", Fields{
		"frame_id": m.FrameID(),
		"name":     m.Name(),
		"replaced": replaced,
	})
	return nil
}

func (db *Database) checkName(m *Message) error {
	if other, ok := db.byName[m.Name()]; ok && other.FrameID() != m.FrameID() {
		return &ConfigurationError{
			Message: m.Name(),
			Reason:  fmt.Sprintf("name already used by frame 0x%x", other.FrameID()),
		}
	}
	return nil
}

// Messages returns the registered messages in registration order.
func (db *Database) Messages() []*Message {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.messages)
}

func (db *Database) MessageByName(name string) (*Message, error) {
	db.mu.RLock()
	m, ok := db.byName[name]
	db.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Kind: "message", Key: fmt.Sprintf("%q", name)}
	}
	return m, nil
}

func (db *Database) MessageByFrameID(frameID uint32) (*Message, error) {
	db.mu.RLock()
	m, ok := db.byID[frameID]
	db.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Kind: "message", Key: fmt.Sprintf("0x%x", frameID)}
	}
	return m, nil
}

// EncodeMessage encodes values with the message registered for frameID.
func (db *Database) EncodeMessage(frameID uint32, values Values, opts ...Option) ([]byte, error) {
	m, err := db.MessageByFrameID(frameID)
	if err != nil {
		return nil, err
	}
	return m.Encode(values, opts...)
}

// DecodeMessage decodes data with the message registered for frameID. With a
// cache configured, identical frames are served from the provider. Unknown
// multiplexer ids are reported to Hooks when a frame is actually decoded.
func (db *Database) DecodeMessage(ctx context.Context, frameID uint32, data []byte, opts ...Option) (Values, error) {
	// snapshot before the lookup; a write racing AddMessage is keyed by the old
	// layout and never served for the new message
	var obs uint64
	cached := false
	if db.cache != nil {
		obs, cached = db.cache.snapshot(ctx, frameID)
	}

	m, err := db.MessageByFrameID(frameID)
	if err != nil {
		return nil, err
	}

	o := newCallOptions(opts)
	report := o.unknownMux
	o.unknownMux = func(mux string, id int64) {
		db.hooks.UnknownMultiplexer(m.Name(), mux, id)
		if report != nil {
			report(mux, id)
		}
	}

	if !cached || len(data) < m.Length() {
		return m.tree.decode(data, o)
	}

	frame := data[:m.Length()]
	key := util.EntryKey(db.cache.ns, frameID, m.layout, o.flags(), frame)
	if v, ok := db.cache.get(ctx, key, obs, frame); ok {
		return v, nil
	}
	v, err := m.tree.decode(frame, o)
	if err != nil {
		return nil, err
	}
	db.cache.set(ctx, frameID, key, obs, frame, v)
	return v, nil
}

// Invalidate drops every cached decode of frameID.
func (db *Database) Invalidate(ctx context.Context, frameID uint32) error {
	if db.cache == nil {
		return nil
	}
	return db.cache.invalidate(ctx, frameID)
}

// CacheEnabled reports whether decoded frames are cached.
func (db *Database) CacheEnabled() bool { return db.cache != nil }

// Close releases the cache provider and generation store.
func (db *Database) Close(ctx context.Context) error {
	if db.cache == nil {
		return nil
	}
	return db.cache.close(ctx)
}
