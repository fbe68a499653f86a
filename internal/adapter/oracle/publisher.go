// Package oracle carries decryption requests from the engine to the
// threshold decryptor over a Redis list and delivers the results back.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"confidential-lending/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// requestMessage is the queued form of a decryption request.
type requestMessage struct {
	RequestID uuid.UUID       `json:"request_id"`
	RoundID   uint64          `json:"round_id"`
	Handles   []domain.Handle `json:"handles"`
	Attempt   int             `json:"attempt"`
}

// Publisher implements ports.DecryptionOracle by pushing requests onto a
// Redis list. Publishing is fire-and-forget: results arrive through the
// Relayer.
type Publisher struct {
	client goredis.Cmdable
	key    string
	log    zerolog.Logger
}

// NewPublisher creates a publisher writing to the list at key.
func NewPublisher(client goredis.Cmdable, key string, log zerolog.Logger) *Publisher {
	return &Publisher{client: client, key: key, log: log}
}

// RequestDecryption enqueues req.
func (p *Publisher) RequestDecryption(ctx context.Context, req *domain.DecryptionRequest) error {
	payload, err := json.Marshal(requestMessage{
		RequestID: req.ID,
		RoundID:   req.RoundID,
		Handles:   req.Handles,
		Attempt:   req.Attempts,
	})
	if err != nil {
		return fmt.Errorf("marshal decryption request: %w", err)
	}

	if err := p.client.LPush(ctx, p.key, payload).Err(); err != nil {
		return fmt.Errorf("redis lpush decryption request: %w", err)
	}

	p.log.Debug().
		Str("request_id", req.ID.String()).
		Uint64("round_id", req.RoundID).
		Int("handles", len(req.Handles)).
		Int("attempt", req.Attempts).
		Msg("oracle: decryption request published")
	return nil
}
