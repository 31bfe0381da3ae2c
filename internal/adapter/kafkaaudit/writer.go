// Package kafkaaudit publishes analysis audit events to a Kafka topic.
package kafkaaudit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/urbansignal/heatlens/internal/analysis"
	"github.com/urbansignal/heatlens/internal/config"
	"github.com/urbansignal/heatlens/internal/observability"
)

// Writer produces audit records to the configured topic. It implements
// analysis.AuditSink.
type Writer struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the audit topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.AuditTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes and writes one audit record. Failures are counted and
// logged; the caller treats auditing as best-effort.
func (w *Writer) Publish(ctx context.Context, record analysis.AuditRecord) error {
	msg, err := serializeToMessage(record)
	if err != nil {
		w.metrics.AuditErrors.Inc()
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		w.metrics.AuditErrors.Inc()
		return fmt.Errorf("publish audit record: %w", err)
	}
	w.metrics.AuditPublished.Inc()
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an audit record into a Kafka message keyed by a
// fresh event id.
func serializeToMessage(record analysis.AuditRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize audit record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(uuid.NewString()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(record.Kind)},
			{Key: "analyzed_at", Value: []byte(record.At.Format(time.RFC3339))},
		},
	}, nil
}
