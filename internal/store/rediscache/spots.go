package rediscache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"calspots/backend/internal/domain"
	"calspots/backend/internal/service/availability"
)

const defaultPrefix = "calspots:spots"

type cachedSlot struct {
	StartHour       time.Time `msgpack:"s"`
	EndHour         time.Time `msgpack:"e"`
	ClientStartHour time.Time `msgpack:"cs"`
	ClientEndHour   time.Time `msgpack:"ce"`
}

// SpotCache stores computed slot lists in Redis with a fixed TTL.
type SpotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewSpotCache(rdb *redis.Client, ttl time.Duration, prefix string) *SpotCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &SpotCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (c *SpotCache) Get(ctx context.Context, key availability.SpotKey) ([]domain.BookableSlot, bool, error) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	slots, err := decodeSlots(b)
	if err != nil {
		return nil, false, err
	}
	return slots, true, nil
}

func (c *SpotCache) Set(ctx context.Context, key availability.SpotKey, slots []domain.BookableSlot) error {
	b, err := encodeSlots(slots)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(key), b, c.ttl).Err()
}

func (c *SpotCache) key(k availability.SpotKey) string {
	return strings.Join([]string{
		c.prefix,
		k.CalendarID,
		k.Fingerprint,
		k.Date,
		strconv.Itoa(k.Duration),
		string(k.Subtraction),
		string(k.Tiling),
	}, ":")
}

func encodeSlots(slots []domain.BookableSlot) ([]byte, error) {
	out := make([]cachedSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, cachedSlot{
			StartHour:       s.StartHour,
			EndHour:         s.EndHour,
			ClientStartHour: s.ClientStartHour,
			ClientEndHour:   s.ClientEndHour,
		})
	}
	return msgpack.Marshal(out)
}

// decodeSlots returns instants in UTC; msgpack restores them in the local zone.
func decodeSlots(b []byte) ([]domain.BookableSlot, error) {
	var in []cachedSlot
	if err := msgpack.Unmarshal(b, &in); err != nil {
		return nil, err
	}
	out := make([]domain.BookableSlot, 0, len(in))
	for _, s := range in {
		out = append(out, domain.BookableSlot{
			StartHour:       s.StartHour.UTC(),
			EndHour:         s.EndHour.UTC(),
			ClientStartHour: s.ClientStartHour.UTC(),
			ClientEndHour:   s.ClientEndHour.UTC(),
		})
	}
	return out, nil
}
