package canframe

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	gen "github.com/unkn0wn-root/canframe/genstore"
	"github.com/unkn0wn-root/canframe/internal/util"
	"github.com/unkn0wn-root/canframe/internal/wire"
	pr "github.com/unkn0wn-root/canframe/provider"
)

// frameCache stores decoded values per (frame id, decode flags, frame bytes).
// Every frame id has a generation; bumping it makes all cached decodes of that
// id stale, and stale entries are deleted when read.
type frameCache struct {
	ns             string
	provider       pr.Provider
	codec          ValuesCodec
	gen            gen.GenStore
	log            Logger
	hooks          Hooks
	ttl            time.Duration
	computeSetCost SetCostFunc
}

func newFrameCache(opts Options, log Logger, hooks Hooks) (*frameCache, error) {
	if opts.Codec == nil {
		return nil, fmt.Errorf("canframe: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("canframe: namespace is required")
	}

	c := &frameCache{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		log:      log,
		hooks:    hooks,
	}
	c.ttl = coalesce(opts.TTL, defaultTTL)

	if opts.ComputeSetCost != nil {
		c.computeSetCost = opts.ComputeSetCost
	} else {
		c.computeSetCost = func(string, []byte) int64 { return 1 }
	}

	if opts.GenStore != nil {
		c.gen = opts.GenStore
	} else {
		// default to in-process generations with periodic cleanup
		c.gen = gen.NewLocalGenStore(
			coalesce(opts.CleanupInterval, defaultSweep),
			coalesce(opts.GenRetention, defaultGenRetention),
		)
	}
	return c, nil
}

func (c *frameCache) snapshot(ctx context.Context, frameID uint32) (uint64, bool) {
	k := util.GenKey(c.ns, frameID)
	g, err := c.gen.Snapshot(ctx, k)
	if err != nil {
		c.hooks.GenSnapshotError(k, err)
		c.log.Warn("gen snapshot failed; bypassing cache", Fields{"key": k, "err": err})
		return 0, false
	}
	return g, true
}

// get returns the cached decode of data if it was stored under generation obs.
func (c *frameCache) get(ctx context.Context, key string, obs uint64, data []byte) (Values, bool) {
	raw, ok, err := c.provider.Get(ctx, key)
	if err != nil {
		c.log.Warn("provider get failed", Fields{"key": key, "err": err})
		return nil, false
	}
	if !ok {
		return nil, false
	}
	g, stored, payload, err := wire.DecodeEntry(raw)
	switch {
	case err != nil:
		c.selfHeal(ctx, key, "corrupt")
		return nil, false
	case g != obs:
		c.selfHeal(ctx, key, "gen_mismatch")
		return nil, false
	case !bytes.Equal(stored, data):
		c.selfHeal(ctx, key, "data_mismatch")
		return nil, false
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.selfHeal(ctx, key, "value_decode")
		return nil, false
	}
	return v, true
}

// set writes v iff the frame's generation still equals obs.
func (c *frameCache) set(ctx context.Context, frameID uint32, key string, obs uint64, data []byte, v Values) {
	if cur, ok := c.snapshot(ctx, frameID); !ok || cur != obs {
		// generation moved; skip stale write
		c.log.Debug("cache set skipped (gen mismatch)", Fields{"key": key, "obs": obs})
		return
	}
	payload, err := c.codec.Encode(v)
	if err != nil {
		c.log.Warn("value encode failed", Fields{"key": key, "err": err})
		return
	}
	entry, err := wire.EncodeEntry(obs, data, payload)
	if err != nil {
		c.log.Warn("cache entry encode failed", Fields{"key": key, "err": err})
		return
	}
	ok, err := c.provider.Set(ctx, key, entry, c.computeSetCost(key, entry), c.ttl)
	if err != nil {
		c.log.Warn("provider set failed", Fields{"key": key, "err": err})
		return
	}
	if !ok {
		c.hooks.ProviderSetRejected(key)
		c.log.Debug("cache set rejected by provider (pressure)", Fields{"key": key})
	}
}

func (c *frameCache) invalidate(ctx context.Context, frameID uint32) error {
	k := util.GenKey(c.ns, frameID)
	g, err := c.gen.Bump(ctx, k)
	if err != nil {
		c.hooks.GenBumpError(k, err)
		return &CacheError{Op: "invalidate", Key: k, Err: err}
	}
	c.log.Debug("invalidated frame (bumped gen)", Fields{"frame_id": frameID, "gen": g})
	return nil
}

func (c *frameCache) selfHeal(ctx context.Context, key, reason string) {
	_ = c.provider.Del(ctx, key)
	c.hooks.SelfHealEntry(key, reason)
}

func (c *frameCache) close(ctx context.Context) error {
	return multierr.Combine(c.gen.Close(ctx), c.provider.Close(ctx))
}
