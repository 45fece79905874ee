package cache

import (
	"context"
	"time"

	"github.com/warchest-gg/server/cache/local"
	cacheredis "github.com/warchest-gg/server/cache/redis"
)

// ZMember is one scored leaderboard entry.
type ZMember struct {
	Member string
	Score  float64
}

// Cache defines the KV / Hash / ZSet operations the server uses: the
// join-code cache, the team budget snapshot hash, and the spending
// leaderboard.
type Cache interface {
	// KV
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	// Hash
	HSet(ctx context.Context, key, field, value string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	// ZSet
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error)
}

// Message is a received pub/sub message.
type Message struct {
	Channel string
	Payload string
}

// PubSub defines channel publish/subscribe operations. The SSE layer
// subscribes to per-lobby channels; the ledger publishes to them.
type PubSub interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error)
}

// Config holds configuration for both Redis and the in-process fallback.
type Config struct {
	RedisAddr      string `mapstructure:"redis_addr"`
	RedisPassword  string `mapstructure:"redis_password"`
	RedisDB        int    `mapstructure:"redis_db"`
	LocalPubSubBuf int    `mapstructure:"local_pubsub_buf"`
}

// NewCache returns a Cache backed by Redis if RedisAddr is set,
// otherwise an in-process cache.
func NewCache(cfg Config) (Cache, error) {
	if cfg.RedisAddr != "" {
		return newRedisCacheAdapter(cfg)
	}
	return &localCacheAdapter{c: local.NewCache()}, nil
}

// NewPubSub returns a PubSub backed by Redis if RedisAddr is set,
// otherwise an in-process fan-out.
func NewPubSub(cfg Config) (PubSub, error) {
	bufSize := cfg.LocalPubSubBuf
	if bufSize <= 0 {
		bufSize = 256
	}
	if cfg.RedisAddr != "" {
		rps, err := cacheredis.NewPubSub(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return &redisPubSubAdapter{ps: rps}, nil
	}
	return &localPubSubAdapter{ps: local.NewPubSub(bufSize)}, nil
}

// ---- adapters bridging sub-package types ----

type localCacheAdapter struct {
	c *local.Cache
}

func (a *localCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	return a.c.Get(ctx, key)
}

func (a *localCacheAdapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return a.c.Set(ctx, key, value, ttl)
}

func (a *localCacheAdapter) Del(ctx context.Context, keys ...string) error {
	return a.c.Del(ctx, keys...)
}

func (a *localCacheAdapter) HSet(ctx context.Context, key, field, value string) error {
	return a.c.HSet(ctx, key, field, value)
}

func (a *localCacheAdapter) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return a.c.HGetAll(ctx, key)
}

func (a *localCacheAdapter) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return a.c.ZAdd(ctx, key, score, member)
}

func (a *localCacheAdapter) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error) {
	entries, err := a.c.ZRevRangeWithScores(ctx, key, start, stop)
	if err != nil {
		return nil, err
	}
	out := make([]ZMember, len(entries))
	for i, e := range entries {
		out[i] = ZMember{Member: e.Member, Score: e.Score}
	}
	return out, nil
}

func newRedisCacheAdapter(cfg Config) (Cache, error) {
	rc, err := cacheredis.NewCache(cacheredis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	return &redisCacheAdapter{c: rc}, nil
}

type redisCacheAdapter struct {
	c *cacheredis.Cache
}

func (a *redisCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	return a.c.Get(ctx, key)
}

func (a *redisCacheAdapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return a.c.Set(ctx, key, value, ttl)
}

func (a *redisCacheAdapter) Del(ctx context.Context, keys ...string) error {
	return a.c.Del(ctx, keys...)
}

func (a *redisCacheAdapter) HSet(ctx context.Context, key, field, value string) error {
	return a.c.HSet(ctx, key, field, value)
}

func (a *redisCacheAdapter) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return a.c.HGetAll(ctx, key)
}

func (a *redisCacheAdapter) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return a.c.ZAdd(ctx, key, score, member)
}

func (a *redisCacheAdapter) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error) {
	entries, err := a.c.ZRevRangeWithScores(ctx, key, start, stop)
	if err != nil {
		return nil, err
	}
	out := make([]ZMember, len(entries))
	for i, e := range entries {
		out[i] = ZMember{Member: e.Member, Score: e.Score}
	}
	return out, nil
}

type localPubSubAdapter struct {
	ps *local.PubSub
}

func (a *localPubSubAdapter) Publish(ctx context.Context, channel, message string) error {
	return a.ps.Publish(ctx, channel, message)
}

func (a *localPubSubAdapter) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	localCh, cancel, err := a.ps.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan *Message, 256)
	go func() {
		defer close(out)
		for msg := range localCh {
			// Drop on a full buffer so a stalled subscriber cannot pin
			// this goroutine after cancellation.
			select {
			case out <- &Message{Channel: msg.Channel, Payload: msg.Payload}:
			default:
			}
		}
	}()
	return out, cancel, nil
}

type redisPubSubAdapter struct {
	ps *cacheredis.PubSub
}

func (a *redisPubSubAdapter) Publish(ctx context.Context, channel, message string) error {
	return a.ps.Publish(ctx, channel, message)
}

func (a *redisPubSubAdapter) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	redisCh, cancel, err := a.ps.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan *Message, 256)
	go func() {
		defer close(out)
		for msg := range redisCh {
			select {
			case out <- &Message{Channel: msg.Channel, Payload: msg.Payload}:
			default:
			}
		}
	}()
	return out, cancel, nil
}
