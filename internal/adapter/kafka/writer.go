package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/route-formatter/internal/config"
	"github.com/couchcryptid/route-formatter/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes grouped stops to a Kafka topic.
// It implements pipeline.StopPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured stops topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishStops serializes every stop of one run and publishes them in a
// single WriteMessages call. Stops of the same number hash to the same
// partition.
func (w *Writer) PublishStops(ctx context.Context, runID string, generatedAt time.Time, stops []domain.GroupedStop) error {
	if len(stops) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(stops))
	for i := range stops {
		msg, err := serializeToMessage(runID, generatedAt, stops[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d stops: %w", len(msgs), err)
	}
	w.logger.Debug("stops published", "run_id", runID, "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a GroupedStop into a Kafka message keyed by
// its stop number.
func serializeToMessage(runID string, generatedAt time.Time, stop domain.GroupedStop) (kafkago.Message, error) {
	data, err := json.Marshal(stop)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize stop %d: %w", stop.Number, err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(stop.Number)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "generated_at", Value: []byte(generatedAt.Format(time.RFC3339))},
		},
	}, nil
}
