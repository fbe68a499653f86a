package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// RoundState is the settlement state of a round.
type RoundState string

const (
	RoundStateOpen              RoundState = "OPEN"
	RoundStateDecryptionPending RoundState = "DECRYPTION_PENDING"
	RoundStateSettled           RoundState = "SETTLED"
)

// Round is one batching window. Rounds form an append-only log: a settled
// round is never modified again and the next round is a new value.
type Round struct {
	ID                  uint64     `json:"id"`
	State               RoundState `json:"state"`
	OpenedAt            time.Time  `json:"opened_at"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
	SettledAt           *time.Time `json:"settled_at,omitempty"`
	TotalDeposits       Handle     `json:"total_deposits"`
	TotalWithdrawals    Handle     `json:"total_withdrawals"`
	CarryIn             Handle     `json:"carry_in"` // encrypted reward remainder from the previous settlement
	PoolSnapshotBefore  uint64     `json:"pool_snapshot_before"`
	PoolBalanceAtClose  *uint64    `json:"pool_balance_at_close,omitempty"`
	DecryptionRequestID *uuid.UUID `json:"decryption_request_id,omitempty"`
	NetFlow             *int64     `json:"net_flow,omitempty"`
	Yield               *int64     `json:"yield,omitempty"`
	PoolBalanceAfter    *uint64    `json:"pool_balance_after,omitempty"`
}

// IsOpen reports whether the round still accepts submissions.
func (r *Round) IsOpen() bool {
	return r.State == RoundStateOpen
}

// ReadyAt returns the earliest time the round may be advanced.
func (r *Round) ReadyAt(minDuration time.Duration) time.Time {
	return r.OpenedAt.Add(minDuration)
}

// Participant is one account's accumulated contribution to a round.
type Participant struct {
	RoundID  uint64         `json:"round_id"`
	Account  common.Address `json:"account"`
	Deposit  Handle         `json:"deposit"`
	Withdraw Handle         `json:"withdraw"`
}
