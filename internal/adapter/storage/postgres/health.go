package postgres

import (
	"context"
	"fmt"
)

// HealthCheck implements ports.HealthChecker for the ledger database. A
// reachable server with a missing schema counts as unhealthy.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	if _, err := h.pool.Exec(ctx, "SELECT 1 FROM rounds LIMIT 1"); err != nil {
		return fmt.Errorf("ledger schema: %w", err)
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
