// Package store persists best-effort snapshots as raw byte records with
// overwrite semantics.
package store

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-oms/internal/bus"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	// Get returns None when the key has never been written.
	Get(ctx context.Context, key string) (optional.Option[[]byte], error)
	Close() error
}

type Type string

const (
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
	TypePebble Type = "pebble"
)

type Config struct {
	Type   Type            `yaml:"type" json:"type" validate:"required,oneof=memory redis pebble" jsonschema:"enum=memory,enum=redis,enum=pebble,default=memory"`
	Redis  bus.RedisConfig `yaml:"redis" json:"redis"`
	Pebble PebbleConfig    `yaml:"pebble" json:"pebble"`
}

func New(cfg Config, log *logger.Logger) (Store, error) {
	switch cfg.Type {
	case TypeMemory, "":
		return NewMemoryStore(), nil
	case TypeRedis:
		return NewRedisStore(cfg.Redis, log)
	case TypePebble:
		return NewPebbleStore(cfg.Pebble, log)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown store type %q", cfg.Type)
	}
}
