package redis

import (
	"context"
	"fmt"

	"confidential-lending/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const clientName = "lendingd"

// clientOptions builds the connection options shared by the oracle queue,
// the input-replay guard and the rate limiter. Request contexts bound every
// call so a slow Redis cannot stall an HTTP handler past its deadline.
func clientOptions(cfg config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:                  cfg.Addr(),
		Password:              cfg.Password,
		DB:                    cfg.DB,
		ClientName:            clientName,
		ContextTimeoutEnabled: true,
	}
}

// NewClient connects to Redis and verifies the connection before the relayer
// starts blocking on the oracle queue.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(clientOptions(cfg))
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Msg("redis connected")

	return client, nil
}
