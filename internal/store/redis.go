package store

import (
	"context"
	"errors"

	"github.com/moznion/go-optional"
	"github.com/redis/go-redis/v9"
	"github.com/rxtech-lab/argo-oms/internal/bus"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	omserrors "github.com/rxtech-lab/argo-oms/pkg/errors"
	"go.uber.org/zap"
)

// RedisStore writes snapshots with SET, so other processes read them with GET.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(cfg bus.RedisConfig, log *logger.Logger) (*RedisStore, error) {
	client, err := bus.NewRedisClient(context.Background(), cfg)
	if err != nil {
		return nil, omserrors.Wrap(omserrors.ErrCodeStoreFailed, "failed to open redis store", err)
	}

	log.Info("Opened redis store", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))

	return NewRedisStoreWithClient(client, ""), nil
}

// NewRedisStoreWithClient namespaces every key with prefix.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return omserrors.Wrapf(omserrors.ErrCodeStoreFailed, err, "failed to set %s", key)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (optional.Option[[]byte], error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return optional.None[[]byte](), nil
	}

	if err != nil {
		return optional.None[[]byte](), omserrors.Wrapf(omserrors.ErrCodeStoreFailed, err, "failed to get %s", key)
	}

	return optional.Some(value), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
