package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// HealthCheck implements ports.HealthChecker for Redis. Besides reachability
// it checks that the oracle queue key, if present, is still a list; any other
// type makes every relayer BRPOP fail.
type HealthCheck struct {
	client   goredis.Cmdable
	queueKey string
}

func NewHealthCheck(client goredis.Cmdable, queueKey string) *HealthCheck {
	return &HealthCheck{client: client, queueKey: queueKey}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	kind, err := h.client.Type(ctx, h.queueKey).Result()
	if err != nil {
		return err
	}
	if kind != "none" && kind != "list" {
		return fmt.Errorf("oracle queue %q holds a %s, want list", h.queueKey, kind)
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "redis"
}
