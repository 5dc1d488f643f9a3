package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

const clientID = "voicy"

// brokerAuth is the TLS and SASL setup shared by the report writer and the
// health-probe dialer. Nil fields mean plaintext or no SASL.
type brokerAuth struct {
	tls  *tls.Config
	sasl sasl.Mechanism
}

func newBrokerAuth(cfg *Config) (brokerAuth, error) {
	var auth brokerAuth
	if cfg.EnableTLS {
		tc, err := loadTLS(cfg)
		if err != nil {
			return auth, fmt.Errorf("kafka TLS: %w", err)
		}
		auth.tls = tc
	}
	if cfg.EnableSASL {
		m, err := saslMechanism(cfg)
		if err != nil {
			return auth, fmt.Errorf("kafka SASL: %w", err)
		}
		auth.sasl = m
	}
	return auth, nil
}

// CreateTransport builds the writer transport.
func CreateTransport(cfg *Config) (*kafka.Transport, error) {
	auth, err := newBrokerAuth(cfg)
	if err != nil {
		return nil, err
	}
	return &kafka.Transport{
		ClientID:    clientID,
		IdleTimeout: cfg.IdleTimeout,
		MetadataTTL: cfg.MetadataTTL,
		TLS:         auth.tls,
		SASL:        auth.sasl,
	}, nil
}

// CreateDialer builds the dialer used by the component health probe.
func CreateDialer(cfg *Config) (*kafka.Dialer, error) {
	auth, err := newBrokerAuth(cfg)
	if err != nil {
		return nil, err
	}
	return &kafka.Dialer{
		ClientID:      clientID,
		Timeout:       cfg.DialTimeout,
		DualStack:     true,
		TLS:           auth.tls,
		SASLMechanism: auth.sasl,
	}, nil
}

func loadTLS(cfg *Config) (*tls.Config, error) {
	tc := &tls.Config{
		InsecureSkipVerify: cfg.TLSSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}
	if cfg.TLSCAFile == "" {
		return tc, nil
	}
	pem, err := os.ReadFile(cfg.TLSCAFile)
	if err != nil {
		return nil, fmt.Errorf("read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates in %s", cfg.TLSCAFile)
	}
	tc.RootCAs = pool
	return tc, nil
}

var saslMechanisms = map[string]func(user, pass string) (sasl.Mechanism, error){
	"PLAIN": func(user, pass string) (sasl.Mechanism, error) {
		return plain.Mechanism{Username: user, Password: pass}, nil
	},
	"SCRAM-SHA-256": func(user, pass string) (sasl.Mechanism, error) {
		return scram.Mechanism(scram.SHA256, user, pass)
	},
	"SCRAM-SHA-512": func(user, pass string) (sasl.Mechanism, error) {
		return scram.Mechanism(scram.SHA512, user, pass)
	},
}

func saslMechanism(cfg *Config) (sasl.Mechanism, error) {
	build, ok := saslMechanisms[cfg.SASLMechanism]
	if !ok {
		return nil, fmt.Errorf("unsupported mechanism %q", cfg.SASLMechanism)
	}
	return build(cfg.Username, cfg.Password)
}

var compressions = map[string]kafka.Compression{
	"none": 0,
	"gzip": kafka.Gzip,
	"lz4":  kafka.Lz4,
	"zstd": kafka.Zstd,
}

// ResolveCompression maps a codec name; unknown names mean snappy.
func ResolveCompression(name string) kafka.Compression {
	if c, ok := compressions[name]; ok {
		return c
	}
	return kafka.Snappy
}
