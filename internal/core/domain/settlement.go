package domain

import "errors"

// Collaborator failure kinds. Token and pool adapters wrap these so the
// engine can map them to the right error code.
var (
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInsufficientFunds     = errors.New("insufficient funds")
)

// SettlementReport summarizes one applied settlement.
type SettlementReport struct {
	RoundID          uint64 `json:"round_id"`
	NextRoundID      uint64 `json:"next_round_id"`
	NetFlow          int64  `json:"net_flow"`
	Yield            int64  `json:"yield"`
	Distributed      int64  `json:"distributed"` // yield plus carried remainder that was prorated
	PoolBalanceAfter uint64 `json:"pool_balance_after"`
	Participants     int    `json:"participants"`
	Holders          int    `json:"holders"`
}
