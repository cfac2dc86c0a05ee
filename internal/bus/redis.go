package bus

import (
	"context"
	"iter"

	"github.com/redis/go-redis/v9"
	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"go.uber.org/zap"
)

// RedisConfig is shared by the redis bus and the redis snapshot store.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr" jsonschema:"default=127.0.0.1:6379"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db" validate:"gte=0"`
	PoolSize int    `yaml:"pool_size" json:"pool_size" validate:"gte=0"`
}

// NewRedisClient opens a client and verifies connectivity.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(errors.ErrCodeSubscribeFailed, err, "failed to connect to redis at %s", cfg.Addr)
	}

	return client, nil
}

// RedisBus uses redis PUBLISH/SUBSCRIBE. Messages published while no
// subscriber is connected are lost.
type RedisBus struct {
	client *redis.Client
	log    *logger.Logger
}

func NewRedisBus(cfg RedisConfig, log *logger.Logger) (*RedisBus, error) {
	client, err := NewRedisClient(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisBusWithClient(client, log), nil
}

func NewRedisBusWithClient(client *redis.Client, log *logger.Logger) *RedisBus {
	return &RedisBus{client: client, log: log.Named("redis-bus")}
}

func (b *RedisBus) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return errors.Wrapf(errors.ErrCodePublishFailed, err, "failed to publish to %s", topic)
	}

	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, topics ...string) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		pubsub := b.client.Subscribe(ctx, topics...)
		defer pubsub.Close()

		// wait for the subscription confirmation
		if _, err := pubsub.Receive(ctx); err != nil {
			if ctx.Err() == nil {
				yield(nil, errors.Wrap(errors.ErrCodeSubscribeFailed, "redis subscribe failed", err))
			}

			return
		}

		b.log.Debug("Subscribed", zap.Strings("topics", topics))

		for {
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					yield(nil, errors.Wrap(errors.ErrCodeSubscribeFailed, "redis receive failed", err))
				}

				return
			}

			if !yield([]byte(msg.Payload), nil) {
				return
			}
		}
	}
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
