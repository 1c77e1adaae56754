// Package redis backs the cache and pub/sub interfaces with a Redis server.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// dial opens a client and verifies the server answers within 5 seconds.
func dial(cfg Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisCache implements the KV cache on Redis.
type RedisCache struct {
	rdb *goredis.Client
}

// NewCache connects to Redis and returns the KV cache.
func NewCache(cfg Config) (*RedisCache, error) {
	rdb, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisCache{rdb: rdb}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

func (c *RedisCache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

func (c *RedisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, key, ttl).Err()
}

// RedisMessage is the message type delivered by RedisPubSub.Subscribe.
type RedisMessage struct {
	Channel string
	Payload string
}

// RedisPubSub implements pub/sub on Redis channels.
type RedisPubSub struct {
	rdb *goredis.Client
}

// NewPubSub connects to Redis and returns the pub/sub client.
func NewPubSub(cfg Config) (*RedisPubSub, error) {
	rdb, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	return &RedisPubSub{rdb: rdb}, nil
}

func (p *RedisPubSub) Publish(ctx context.Context, channel, message string) error {
	return p.rdb.Publish(ctx, channel, message).Err()
}

// Subscribe streams messages for the given channels until cancel is called.
func (p *RedisPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan *RedisMessage, func(), error) {
	sub := p.rdb.Subscribe(ctx, channels...)
	out := make(chan *RedisMessage, 256)
	go func() {
		defer close(out)
		for m := range sub.Channel() {
			out <- &RedisMessage{Channel: m.Channel, Payload: m.Payload}
		}
	}()
	return out, func() { _ = sub.Close() }, nil
}
