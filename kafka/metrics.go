package kafka

import kafkago "github.com/segmentio/kafka-go"

// WriterMetrics are the producer counters shown in health output.
type WriterMetrics struct {
	Writes   int64 `json:"writes"`
	Messages int64 `json:"messages"`
	Errors   int64 `json:"errors"`
	Retries  int64 `json:"retries"`
}

// CollectWriterMetrics extracts counters from writer stats.
func CollectWriterMetrics(stats kafkago.WriterStats) WriterMetrics {
	return WriterMetrics{
		Writes:   stats.Writes,
		Messages: stats.Messages,
		Errors:   stats.Errors,
		Retries:  stats.Retries,
	}
}
