package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each record as a json string under prefix+id.
type RedisStore[T ValidatingSpec] struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisClient connects to the server at url and checks it responds.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	slog.InfoContext(ctx, "connected to redis", "addr", opt.Addr, "db", opt.DB)
	return client, nil
}

func NewRedisStore[T ValidatingSpec](client *redis.Client, prefix string) *RedisStore[T] {
	return &RedisStore[T]{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisStore[T]) Save(ctx context.Context, id string, o T) error {
	asset := newAsset(id, o, s.now())
	if err := asset.Validate(); err != nil {
		return fmt.Errorf("validating %s: %w", id, err)
	}

	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if err := s.client.Set(ctx, s.key(id), data, 0).Err(); err != nil {
		return fmt.Errorf("saving %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("loading %s: %w", id, err)
	}

	asset := &Asset[T]{}
	if err := json.Unmarshal(data, asset); err != nil {
		return zero, fmt.Errorf("unmarshalling asset: %w", err)
	}
	if err := asset.Validate(); err != nil {
		return zero, fmt.Errorf("validating %s: %w", id, err)
	}

	return asset.Spec, nil
}

// List scans the keyspace for the store's prefix and returns the ids in
// lexical order.
func (s *RedisStore[T]) List(ctx context.Context) ([]string, error) {
	var ids []string

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.prefix, err)
	}

	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *RedisStore[T]) key(id string) string {
	return s.prefix + id
}
