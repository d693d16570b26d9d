package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/culvert-return-periods/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes matched assessments to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the given brokers and topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// LoadBatch serializes the assessments and publishes them in a single
// WriteMessages call. Unmatched assessments are skipped.
func (w *Writer) LoadBatch(ctx context.Context, run domain.Run, assessments []domain.Assessment) error {
	msgs := make([]kafkago.Message, 0, len(assessments))
	for i := range assessments {
		if !assessments[i].Matched {
			continue
		}
		msg, err := serializeToMessage(run, assessments[i])
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish assessments: %w", err)
	}
	w.logger.Debug("published assessments", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// assessmentMessage is the JSON payload of a published assessment.
type assessmentMessage struct {
	RunID         string           `json:"run_id"`
	Position      int              `json:"position"`
	BarrierID     string           `json:"barrier_id"`
	NAACCID       int              `json:"naacc_id"`
	Lat           float64          `json:"lat"`
	Long          float64          `json:"long"`
	Capacity      float64          `json:"capacity_m3s"`
	CulvertArea   float64          `json:"culvert_area_m2"`
	CurrentReturn int              `json:"current_max_return_yr"`
	FutureReturn  int              `json:"future_max_return_yr"`
	CulvertCount  int              `json:"culvert_count"`
	Comments      string           `json:"comments,omitempty"`
	Watershed     watershedMessage `json:"watershed"`
}

type watershedMessage struct {
	AreaSqKm    float64 `json:"area_sqkm"`
	TcHours     float64 `json:"tc_hr"`
	CurveNumber float64 `json:"cn"`
}

// serializeToMessage marshals an assessment into a Kafka message keyed by BarrierID.
func serializeToMessage(run domain.Run, a domain.Assessment) (kafkago.Message, error) {
	data, err := json.Marshal(assessmentMessage{
		RunID:         run.ID,
		Position:      a.Position,
		BarrierID:     a.Culvert.BarrierID,
		NAACCID:       a.Culvert.NAACCID,
		Lat:           a.Culvert.Lat,
		Long:          a.Culvert.Long,
		Capacity:      a.Culvert.Capacity,
		CulvertArea:   a.Culvert.CulvertArea,
		CurrentReturn: int(a.CurrentReturn),
		FutureReturn:  int(a.FutureReturn),
		CulvertCount:  a.CulvertCount,
		Comments:      a.Culvert.Comments,
		Watershed: watershedMessage{
			AreaSqKm:    a.Watershed.AreaSqKm,
			TcHours:     a.Watershed.TcHours,
			CurveNumber: a.Watershed.CurveNumber,
		},
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment %s: %w", a.Culvert.BarrierID, err)
	}
	return kafkago.Message{
		Key:   []byte(a.Culvert.BarrierID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(run.ID)},
			{Key: "assessed_at", Value: []byte(run.StartedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
