// Package cache provides the volatile KV store used for sessions and SMS
// codes, plus the pub/sub channel carrying job events. Both come in a
// Redis-backed flavor and an in-process flavor; the deployment chooses by
// setting or omitting a Redis address.
package cache

import (
	"context"
	"time"

	"github.com/socialshowcase/backend/cache/local"
	cacheredis "github.com/socialshowcase/backend/cache/redis"
	"github.com/socialshowcase/backend/config"
)

// Cache defines the KV operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Message is a received pub/sub message.
type Message struct {
	Channel string
	Payload string
}

// PubSub defines channel publish/subscribe operations.
type PubSub interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error)
}

func redisConfig(cfg config.CacheConfig) cacheredis.Config {
	return cacheredis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewCache returns a Cache backed by Redis if RedisAddr is set, otherwise
// an in-process LocalCache.
func NewCache(cfg config.CacheConfig) (Cache, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.NewCache(redisConfig(cfg))
	}
	return local.NewCache(local.Config{GCInterval: cfg.LocalGCInterval})
}

// NewPubSub returns a PubSub backed by Redis if RedisAddr is set, otherwise
// an in-process LocalPubSub. Either way the driver's message type is
// bridged to Message.
func NewPubSub(cfg config.CacheConfig) (PubSub, error) {
	if cfg.RedisAddr != "" {
		rps, err := cacheredis.NewPubSub(redisConfig(cfg))
		if err != nil {
			return nil, err
		}
		return pubSubBridge[*cacheredis.RedisMessage]{
			publish:   rps.Publish,
			subscribe: rps.Subscribe,
			convert:   func(m *cacheredis.RedisMessage) *Message { return &Message{Channel: m.Channel, Payload: m.Payload} },
		}, nil
	}
	buf := cfg.LocalPubSubBuf
	lps := local.NewPubSub(buf)
	return pubSubBridge[*local.LocalMessage]{
		publish:   lps.Publish,
		subscribe: lps.Subscribe,
		convert:   func(m *local.LocalMessage) *Message { return &Message{Channel: m.Channel, Payload: m.Payload} },
	}, nil
}

// pubSubBridge adapts a driver with its own message type to PubSub.
type pubSubBridge[M any] struct {
	publish   func(ctx context.Context, channel, message string) error
	subscribe func(ctx context.Context, channels ...string) (<-chan M, func(), error)
	convert   func(M) *Message
}

func (b pubSubBridge[M]) Publish(ctx context.Context, channel, message string) error {
	return b.publish(ctx, channel, message)
}

func (b pubSubBridge[M]) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	src, cancel, err := b.subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan *Message, 256)
	go func() {
		defer close(out)
		for m := range src {
			out <- b.convert(m)
		}
	}()
	return out, cancel, nil
}
