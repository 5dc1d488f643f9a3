package report

import (
	"context"
	"strconv"
	"time"

	"github.com/kbukum/voicy/logger"
)

// LogSink writes reports to the structured log.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// Send implements Sink.
func (s *LogSink) Send(ctx context.Context, r Report) error {
	s.log.WithContext(ctx).Error("pipeline fault", logger.Fields(
		"report_id", r.ID,
		logger.FieldChatID, r.ChatID,
		logger.FieldMessageID, r.MessageID,
		logger.FieldPhase, r.Phase,
		"code", r.Code,
		logger.FieldError, r.Error,
	))
	return nil
}

// FaultCounter counts faults by phase.
type FaultCounter interface {
	RecordFault(ctx context.Context, phase string)
}

// MetricsSink counts reports.
type MetricsSink struct {
	counter FaultCounter
}

// NewMetricsSink creates a MetricsSink.
func NewMetricsSink(c FaultCounter) *MetricsSink {
	return &MetricsSink{counter: c}
}

// Send implements Sink.
func (s *MetricsSink) Send(ctx context.Context, r Report) error {
	s.counter.RecordFault(ctx, r.Phase)
	return nil
}

// JSONPublisher writes a JSON value to a topic.
type JSONPublisher interface {
	SendJSON(ctx context.Context, topic, key string, value any) error
}

// KafkaSink publishes reports keyed by chat id, so one chat's reports stay ordered.
type KafkaSink struct {
	pub     JSONPublisher
	topic   string
	timeout time.Duration
}

// NewKafkaSink creates a KafkaSink. Each publish is bounded by timeout and
// survives cancellation of the request context.
func NewKafkaSink(pub JSONPublisher, topic string, timeout time.Duration) *KafkaSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaSink{pub: pub, topic: topic, timeout: timeout}
}

// Send implements Sink.
func (s *KafkaSink) Send(ctx context.Context, r Report) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	return s.pub.SendJSON(ctx, s.topic, strconv.FormatInt(r.ChatID, 10), r)
}
