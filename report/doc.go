// Package report delivers pipeline faults to the log, the fault counter and,
// when configured, a Kafka topic.
package report
