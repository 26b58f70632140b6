// Package kafka adapts segmentio/kafka-go to the pipeline's publisher and
// subscriber ports. One *tls.Config is built from the configuration and
// shared by the publisher, the subscriber, and the startup ping.
package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abtiwary/pulsewire/internal/ports"
)

// Config captures the broker connection details shared by both sides of the
// stream.
type Config struct {
	Brokers     []string       `yaml:"brokers"`
	Topic       string         `yaml:"topic"`
	CAFile      string         `yaml:"ca_file"`
	CertFile    string         `yaml:"cert_file"`
	KeyFile     string         `yaml:"key_file"`
	DialTimeout ports.Duration `yaml:"dial_timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.DialTimeout <= 0 {
		c.DialTimeout = ports.Duration(10 * time.Second)
	}
}

func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New("at least one broker is required")
	}
	if c.Topic == "" {
		return errors.New("topic is required")
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("cert_file and key_file must be set together")
	}
	return nil
}

// BuildTLS constructs the TLS configuration once; every broker-facing
// component must receive this same value. Returns nil when no TLS material
// is configured (plaintext broker).
func (c *Config) BuildTLS() (*tls.Config, error) {
	if c.CAFile == "" && c.CertFile == "" {
		return nil, nil
	}

	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("ca file %s contains no usable certificates", c.CAFile)
		}
		cfg.RootCAs = pool
	}

	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client key pair: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}
