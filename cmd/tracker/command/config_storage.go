package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/sms-tracker/internal/snapshot"
	"github.com/pixil98/sms-tracker/internal/storage"
)

const defaultKeyPrefix = "tracker:save:"

type StorageBackend int

const (
	StorageBackendFile StorageBackend = iota
	StorageBackendRedis
)

func (b *StorageBackend) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "file":
		*b = StorageBackendFile
	case "redis":
		*b = StorageBackendRedis
	default:
		return fmt.Errorf("unknown storage backend: %s", text)
	}
	return nil
}

type StorageConfig struct {
	Backend   StorageBackend `json:"backend"`
	Path      string         `json:"path"`
	RedisURL  string         `json:"redis_url"`
	KeyPrefix string         `json:"key_prefix"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Backend {
	case StorageBackendFile:
		if c.Path == "" {
			el.Add(fmt.Errorf("storage: path is required"))
		} else if _, err := os.Stat(c.Path); err != nil {
			el.Add(fmt.Errorf("storage: invalid path %q: %w", c.Path, err))
		}
	case StorageBackendRedis:
		if c.RedisURL == "" {
			el.Add(fmt.Errorf("storage: redis_url is required"))
		}
	}

	return el.Err()
}

// BuildSlotStore opens the save slot store of the configured backend.
func (c *StorageConfig) BuildSlotStore(ctx context.Context) (storage.Storer[*snapshot.Snapshot], error) {
	switch c.Backend {
	case StorageBackendRedis:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		client, err := storage.NewRedisClient(ctx, c.RedisURL)
		if err != nil {
			return nil, err
		}
		prefix := c.KeyPrefix
		if prefix == "" {
			prefix = defaultKeyPrefix
		}
		return storage.NewRedisStore[*snapshot.Snapshot](client, prefix), nil
	default:
		return storage.NewFileStore[*snapshot.Snapshot](c.Path)
	}
}
