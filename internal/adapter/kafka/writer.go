package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/will-it-rain/internal/config"
	"github.com/couchcryptid/will-it-rain/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces rain reports to a Kafka topic.
// It implements pipeline.ReportSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes the reports of one check in a single
// WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, reports []domain.RainReport) error {
	if len(reports) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reports))
	for i := range reports {
		msg, err := serializeToMessage(reports[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	w.logger.Debug("reports published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RainReport into a Kafka message keyed by
// WOEID, so reports for one location stay on one partition.
func serializeToMessage(report domain.RainReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize rain report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(report.WOEID, 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "check_id", Value: []byte(report.CheckID)},
			{Key: "rain", Value: []byte(strconv.FormatBool(report.Rain))},
			{Key: "checked_at", Value: []byte(report.CheckedAt.Format(time.RFC3339))},
		},
	}, nil
}
