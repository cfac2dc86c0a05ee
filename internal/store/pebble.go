package store

import (
	"context"
	"errors"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	omserrors "github.com/rxtech-lab/argo-oms/pkg/errors"
	"go.uber.org/zap"
)

type PebbleConfig struct {
	Path string `yaml:"path" json:"path" jsonschema:"default=./data/snapshots"`
	// InMemory keeps the database on an in-memory filesystem.
	InMemory bool `yaml:"in_memory" json:"in_memory"`
	// Sync forces an fsync on every write.
	Sync bool `yaml:"sync" json:"sync"`
	// CacheMB is the block cache size.
	CacheMB int64 `yaml:"cache_mb" json:"cache_mb" validate:"gte=0" jsonschema:"default=64"`
}

type PebbleStore struct {
	db        *pebble.DB
	cache     *pebble.Cache
	writeOpts *pebble.WriteOptions
}

func NewPebbleStore(cfg PebbleConfig, log *logger.Logger) (*PebbleStore, error) {
	cacheMB := cfg.CacheMB
	if cacheMB <= 0 {
		cacheMB = 64
	}

	cache := pebble.NewCache(cacheMB << 20)

	opts := &pebble.Options{
		Cache:        cache,
		MemTableSize: 16 << 20,
		MaxOpenFiles: 256,
	}

	path := cfg.Path
	if cfg.InMemory {
		opts.FS = vfs.NewMem()
		path = "snapshots"
	} else if path == "" {
		cache.Unref()

		return nil, omserrors.New(omserrors.ErrCodeInvalidConfiguration, "pebble store requires a path")
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		cache.Unref()

		return nil, omserrors.Wrapf(omserrors.ErrCodeStoreFailed, err, "failed to open pebble db at %s", path)
	}

	writeOpts := pebble.NoSync
	if cfg.Sync {
		writeOpts = pebble.Sync
	}

	log.Info("Opened pebble store", zap.String("path", path), zap.Bool("in_memory", cfg.InMemory))

	return &PebbleStore{db: db, cache: cache, writeOpts: writeOpts}, nil
}

func (s *PebbleStore) Put(_ context.Context, key string, value []byte) error {
	if err := s.db.Set([]byte(key), value, s.writeOpts); err != nil {
		return omserrors.Wrapf(omserrors.ErrCodeStoreFailed, err, "failed to set %s", key)
	}

	return nil
}

func (s *PebbleStore) Get(_ context.Context, key string) (optional.Option[[]byte], error) {
	data, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return optional.None[[]byte](), nil
	}

	if err != nil {
		return optional.None[[]byte](), omserrors.Wrapf(omserrors.ErrCodeStoreFailed, err, "failed to get %s", key)
	}
	defer closer.Close()

	// data is only valid until closer is closed
	return optional.Some(append([]byte(nil), data...)), nil
}

func (s *PebbleStore) Close() error {
	err := s.db.Close()
	s.cache.Unref()

	return err
}
