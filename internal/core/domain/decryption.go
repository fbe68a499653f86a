package domain

import (
	"time"

	"github.com/google/uuid"
)

// DecryptionStatus is the lifecycle state of a decryption request.
type DecryptionStatus string

const (
	DecryptionStatusPending   DecryptionStatus = "PENDING"
	DecryptionStatusDelivered DecryptionStatus = "DELIVERED"
)

// DecryptionRequest correlates an oracle callback with the round it settles.
//
// Handles are laid out as [totalDeposits, totalWithdrawals, carryIn] followed
// by (deposit, withdraw) pairs for each participant in ascending address order.
type DecryptionRequest struct {
	ID          uuid.UUID        `json:"id"`
	RoundID     uint64           `json:"round_id"`
	Handles     []Handle         `json:"handles"`
	Status      DecryptionStatus `json:"status"`
	Attempts    int              `json:"attempts"`
	RequestedAt time.Time        `json:"requested_at"`
	DeliveredAt *time.Time       `json:"delivered_at,omitempty"`
}

// AggregateHandleCount is the number of round-level handles that precede the
// per-participant pairs.
const AggregateHandleCount = 3

// ExpectedCleartexts returns the number of cleartexts a delivery must carry.
func (d *DecryptionRequest) ExpectedCleartexts() int {
	return len(d.Handles)
}
