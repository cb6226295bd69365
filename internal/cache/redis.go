package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"kiosk-admin-console/config"
)

// RedisTier is a Tier shared by every console instance. Each endpoint has
// an epoch counter; entries live under <prefix>:<endpoint>:<epoch>:<params>
// so incrementing the epoch orphans every older entry at once.
type RedisTier struct {
	rdb      *redis.Client
	prefix   string
	channel  string
	instance string
}

// NewRedisTier connects to the Redis server described by cfg.
func NewRedisTier(cfg config.RedisConfig) *RedisTier {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisTierWithClient(rdb, cfg.KeyPrefix, cfg.Channel)
}

func NewRedisTierWithClient(rdb *redis.Client, prefix, channel string) *RedisTier {
	return &RedisTier{
		rdb:      rdb,
		prefix:   prefix,
		channel:  channel,
		instance: uuid.NewString(),
	}
}

// Ping checks the connection.
func (t *RedisTier) Ping(ctx context.Context) error {
	return t.rdb.Ping(ctx).Err()
}

func (t *RedisTier) Close() error {
	return t.rdb.Close()
}

func (t *RedisTier) epochKey(endpoint string) string {
	return fmt.Sprintf("%s:epoch:%s", t.prefix, endpoint)
}

func (t *RedisTier) entryKey(endpoint string, epoch int64, params string) string {
	return fmt.Sprintf("%s:%s:%d:%s", t.prefix, endpoint, epoch, params)
}

func (t *RedisTier) epoch(ctx context.Context, endpoint string) (int64, error) {
	epoch, err := t.rdb.Get(ctx, t.epochKey(endpoint)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return epoch, err
}

func (t *RedisTier) Get(ctx context.Context, endpoint, params string) ([]byte, int64, bool, error) {
	epoch, err := t.epoch(ctx, endpoint)
	if err != nil {
		return nil, 0, false, err
	}
	raw, err := t.rdb.Get(ctx, t.entryKey(endpoint, epoch, params)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, epoch, false, nil
	}
	if err != nil {
		return nil, epoch, false, err
	}
	return raw, epoch, true, nil
}

// Set writes under the epoch the caller read before fetching. If the epoch
// moved on meanwhile the entry is unreachable and simply expires.
func (t *RedisTier) Set(ctx context.Context, endpoint, params string, epoch int64, data []byte, ttl time.Duration) error {
	return t.rdb.Set(ctx, t.entryKey(endpoint, epoch, params), data, ttl).Err()
}

func (t *RedisTier) Revalidate(ctx context.Context, endpoint string) error {
	if err := t.rdb.Incr(ctx, t.epochKey(endpoint)).Err(); err != nil {
		return err
	}
	return t.rdb.Publish(ctx, t.channel, encodeNotice(t.instance, endpoint)).Err()
}

// Listen delivers revalidation notices published by other instances to
// apply until ctx is cancelled.
func (t *RedisTier) Listen(ctx context.Context, apply func(endpoint string)) {
	pubsub := t.rdb.Subscribe(ctx, t.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			origin, endpoint, err := decodeNotice(msg.Payload)
			if err != nil {
				log.Printf("cache: ignoring revalidation notice %q: %v", msg.Payload, err)
				continue
			}
			if origin == t.instance {
				continue
			}
			apply(endpoint)
		}
	}
}

func encodeNotice(instance, endpoint string) string {
	return instance + "|" + endpoint
}

func decodeNotice(payload string) (string, string, error) {
	origin, endpoint, ok := strings.Cut(payload, "|")
	if !ok || endpoint == "" {
		return "", "", errors.New("malformed notice")
	}
	return origin, endpoint, nil
}

// String is used in startup logs.
func (t *RedisTier) String() string {
	return "redis(" + t.rdb.Options().Addr + ", db " + strconv.Itoa(t.rdb.Options().DB) + ")"
}
