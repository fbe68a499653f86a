package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// retryBackoff is how long Run waits after a transport error.
const retryBackoff = time.Second

// Relayer pops queued decryption requests, decrypts them with the
// threshold decryptor and hands the cleartexts to the engine callback.
//
// A request whose delivery fails is dropped from the queue. The engine keeps
// it pending and the stall policy publishes it again.
type Relayer struct {
	client    goredis.Cmdable
	key       string
	decryptor ports.ThresholdDecryptor
	callback  ports.DecryptionCallback
	timeout   time.Duration
	log       zerolog.Logger
}

// NewRelayer creates a relayer reading from the list at key. timeout bounds
// each blocking pop so Run can observe cancellation.
func NewRelayer(
	client goredis.Cmdable,
	key string,
	decryptor ports.ThresholdDecryptor,
	callback ports.DecryptionCallback,
	timeout time.Duration,
	log zerolog.Logger,
) *Relayer {
	return &Relayer{
		client:    client,
		key:       key,
		decryptor: decryptor,
		callback:  callback,
		timeout:   timeout,
		log:       log,
	}
}

// Run processes requests until ctx is cancelled.
func (r *Relayer) Run(ctx context.Context) error {
	r.log.Info().Str("queue", r.key).Msg("oracle relayer started")
	for {
		if ctx.Err() != nil {
			r.log.Info().Msg("oracle relayer stopped")
			return nil
		}

		if _, err := r.ProcessNext(ctx); err != nil {
			if ctx.Err() != nil {
				continue
			}
			r.log.Error().Err(err).Msg("oracle: queue read failed")
			select {
			case <-ctx.Done():
			case <-time.After(retryBackoff):
			}
		}
	}
}

// ProcessNext handles at most one queued request. It returns false when the
// queue stayed empty for the poll timeout. Only transport errors are
// returned; delivery failures are logged.
func (r *Relayer) ProcessNext(ctx context.Context) (bool, error) {
	res, err := r.client.BRPop(ctx, r.timeout, r.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis brpop: %w", err)
	}
	// BRPOP replies with [key, value].
	if len(res) != 2 {
		return false, fmt.Errorf("redis brpop: unexpected reply of %d elements", len(res))
	}

	var msg requestMessage
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		r.log.Error().Err(err).Msg("oracle: dropping malformed request")
		return true, nil
	}

	r.deliver(ctx, &msg)
	return true, nil
}

func (r *Relayer) deliver(ctx context.Context, msg *requestMessage) {
	logger := r.log.With().
		Str("request_id", msg.RequestID.String()).
		Uint64("round_id", msg.RoundID).
		Int("attempt", msg.Attempt).
		Logger()

	cleartexts, err := r.decryptor.Decrypt(ctx, msg.Handles)
	if err != nil {
		logger.Error().Err(err).Msg("oracle: threshold decryption failed")
		return
	}

	report, err := r.callback.OnDecryptionDelivered(ctx, msg.RequestID, cleartexts)
	if err != nil {
		if apperror.HasCode(err, apperror.CodeUnknownOrStaleRequest) {
			logger.Warn().Msg("oracle: stale decryption result discarded")
			return
		}
		logger.Error().Err(err).Msg("oracle: settlement callback failed")
		return
	}

	logger.Info().
		Uint64("next_round_id", report.NextRoundID).
		Int64("net_flow", report.NetFlow).
		Int64("yield", report.Yield).
		Msg("oracle: decryption delivered")
}
