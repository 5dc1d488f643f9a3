// Package kafka publishes error reports to a Kafka topic through a
// kafka-go Writer, with optional TLS and SASL.
package kafka
