// Package feed publishes trade executions to a Kafka topic for downstream
// consumers.
package feed

import (
	"context"
	"math/rand"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"

	feedv1 "github.com/muhammadchandra19/marketsim/internal/domain/feed/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/marketsim/pkg/config"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
)

// Publisher writes trade events to Kafka. It implements feedv1.Publisher.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
	entropy     *ulid.MonotonicEntropy
}

// NewPublisher creates a Kafka publisher for the trade feed topic.
func NewPublisher(cfg config.KafkaConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(0)), 0),
	}
}

// PublishTrades publishes one event per execution. Event ids are ULIDs so
// consumers can deduplicate across gateway restarts.
func (p *Publisher) PublishTrades(ctx context.Context, trades []orderbookv1.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(trades))
	for _, tr := range trades {
		event := feedv1.CreateFromTrade(tr, ulid.MustNew(ulid.Now(), p.entropy).String())
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.EventID),
			Value: feedv1.ToBytes(event),
		})
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "trades", Value: len(trades)},
		)
		return errors.NewTracer("failed to publish trade events").Wrap(err)
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	if err := p.kafkaWriter.Close(); err != nil {
		return errors.NewTracer("failed to close trade feed writer").Wrap(err)
	}
	return nil
}
