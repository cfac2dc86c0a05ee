// Package bus carries trader commands into the engine and market data out of it.
package bus

import (
	"context"
	"iter"

	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
)

// Bus is a topic based publish/subscribe channel.
//
// A Subscribe sequence is finite: it ends when ctx is canceled, when the bus is
// closed, or after yielding a transport error. Callers resubscribe to continue.
type Bus interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topics ...string) iter.Seq2[[]byte, error]
	Close() error
}

type Type string

const (
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
	TypeKafka  Type = "kafka"
)

// Config selects and configures a bus backend.
type Config struct {
	Type  Type        `yaml:"type" json:"type" validate:"required,oneof=memory redis kafka" jsonschema:"enum=memory,enum=redis,enum=kafka,default=memory"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
	Kafka KafkaConfig `yaml:"kafka" json:"kafka"`
	// Buffer is the per subscriber queue length of the memory and kafka backends.
	Buffer int `yaml:"buffer" json:"buffer" validate:"gte=0" jsonschema:"default=1024"`
}

// New builds the backend named by cfg.Type.
func New(cfg Config, log *logger.Logger) (Bus, error) {
	switch cfg.Type {
	case TypeMemory, "":
		return NewMemoryBus(cfg.Buffer), nil
	case TypeRedis:
		return NewRedisBus(cfg.Redis, log)
	case TypeKafka:
		return NewKafkaBus(cfg.Kafka, log)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown bus type %q", cfg.Type)
	}
}
