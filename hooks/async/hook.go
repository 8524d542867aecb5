// Package asynchook runs canframe.Hooks on background workers so slow sinks
// never stall Decode. Events are dropped when the queue is full.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    UnknownMuxEvery: 100, // log ~every 100th unknown multiplexer id
//	})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	db, _ := canframe.NewDatabase(canframe.Options{
//	    Namespace: "vehicle:powertrain",
//	    Provider:  provider,
//	    Codec:     codec.Msgpack[canframe.Values]{},
//	    Hooks:     hooks,
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/canframe"
)

type Hooks struct {
	inner   canframe.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

var _ canframe.Hooks = (*Hooks)(nil)

func New(inner canframe.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Events sent after Close
// are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the queue was full.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	defer func() {
		// send on closed queue
		if recover() != nil {
			h.dropped.Add(1)
		}
	}()
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) UnknownMultiplexer(msg, mux string, id int64) {
	h.try(func() { h.inner.UnknownMultiplexer(msg, mux, id) })
}
func (h *Hooks) SelfHealEntry(k, r string)            { h.try(func() { h.inner.SelfHealEntry(k, r) }) }
func (h *Hooks) ProviderSetRejected(k string)         { h.try(func() { h.inner.ProviderSetRejected(k) }) }
func (h *Hooks) GenSnapshotError(k string, err error) { h.try(func() { h.inner.GenSnapshotError(k, err) }) }
func (h *Hooks) GenBumpError(k string, err error)     { h.try(func() { h.inner.GenBumpError(k, err) }) }
