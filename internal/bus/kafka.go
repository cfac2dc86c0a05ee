package bus

import (
	"context"
	"iter"
	"time"

	"github.com/rxtech-lab/argo-oms/internal/logger"
	"github.com/rxtech-lab/argo-oms/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" json:"brokers"`
	// GroupID is the consumer group. Every engine instance should use its own.
	GroupID        string        `yaml:"group_id" json:"group_id" jsonschema:"default=argo-oms"`
	CommitInterval time.Duration `yaml:"commit_interval" json:"commit_interval"`
}

// MessageWriter is the subset of *kafka.Writer used by the bus.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MessageReader is the subset of *kafka.Reader used by the bus.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// ReaderFactory opens a reader over a set of topics.
type ReaderFactory func(topics []string) MessageReader

type KafkaBus struct {
	writer    MessageWriter
	newReader ReaderFactory
	log       *logger.Logger
}

func NewKafkaBus(cfg KafkaConfig, log *logger.Logger) (*KafkaBus, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "kafka bus requires at least one broker")
	}

	groupID := cfg.GroupID
	if groupID == "" {
		groupID = "argo-oms"
	}

	commitInterval := cfg.CommitInterval
	if commitInterval <= 0 {
		commitInterval = time.Second
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
	}

	readers := func(topics []string) MessageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.Brokers,
			GroupID:        groupID,
			GroupTopics:    topics,
			StartOffset:    kafka.LastOffset,
			CommitInterval: commitInterval,
			MaxAttempts:    3,
		})
	}

	return NewKafkaBusWith(writer, readers, log), nil
}

func NewKafkaBusWith(writer MessageWriter, readers ReaderFactory, log *logger.Logger) *KafkaBus {
	return &KafkaBus{writer: writer, newReader: readers, log: log.Named("kafka-bus")}
}

func (b *KafkaBus) Publish(ctx context.Context, topic string, payload []byte) error {
	err := b.writer.WriteMessages(ctx, kafka.Message{Topic: topic, Value: payload})
	if err != nil {
		return errors.Wrapf(errors.ErrCodePublishFailed, err, "failed to publish to %s", topic)
	}

	return nil
}

func (b *KafkaBus) Subscribe(ctx context.Context, topics ...string) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		reader := b.newReader(topics)
		defer func() {
			if err := reader.Close(); err != nil {
				b.log.Warn("Failed to close kafka reader", zap.Error(err))
			}
		}()

		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil {
					yield(nil, errors.Wrap(errors.ErrCodeSubscribeFailed, "kafka read failed", err))
				}

				return
			}

			if !yield(msg.Value, nil) {
				return
			}
		}
	}
}

func (b *KafkaBus) Close() error {
	return b.writer.Close()
}
