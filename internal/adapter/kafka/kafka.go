// Package kafka carries the anti-fraud validation pipeline's broker
// adapters: the publisher that submits transactions for validation and
// the consumer that reconciles verdicts back into persisted state.
package kafka

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Auth holds optional broker authentication settings. The zero value
// means plaintext with no authentication.
type Auth struct {
	SASLUsername  string
	SASLPassword  string
	SASLMechanism string // PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512
	TLSEnabled    bool
}

// saslMechanism builds the SASL mechanism from credentials. No
// credentials means no SASL, matching the plaintext default.
func saslMechanism(auth Auth) (sasl.Mechanism, error) {
	if auth.SASLUsername == "" || auth.SASLPassword == "" {
		return nil, nil
	}

	switch strings.ToUpper(auth.SASLMechanism) {
	case "", "PLAIN":
		return plain.Mechanism{Username: auth.SASLUsername, Password: auth.SASLPassword}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, auth.SASLUsername, auth.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, auth.SASLUsername, auth.SASLPassword)
	default:
		return nil, fmt.Errorf("unsupported sasl mechanism %q", auth.SASLMechanism)
	}
}

func tlsConfig(auth Auth) *tls.Config {
	if !auth.TLSEnabled {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}
