package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	goredis "github.com/redis/go-redis/v9"
)

// InputGuard implements ports.InputReplayGuard using Redis SET NX.
// A zero ttl keeps consumed inputs forever.
type InputGuard struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewInputGuard creates a Redis-backed replay guard for confidential inputs.
func NewInputGuard(client goredis.Cmdable, ttl time.Duration) *InputGuard {
	return &InputGuard{
		client: client,
		prefix: "input:",
		ttl:    ttl,
	}
}

// MarkUsed atomically records the input digest for owner.
// Returns true if the digest is new, false if it was already consumed.
func (g *InputGuard) MarkUsed(ctx context.Context, owner common.Address, digest common.Hash) (bool, error) {
	key := g.prefix + strings.ToLower(owner.Hex()) + ":" + digest.Hex()
	result, err := g.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  g.ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis input guard: %w", err)
	}
	return result == "OK", nil
}
