package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Account holds a participant's confidential balances. Both balances are
// handles; plaintext is only reachable through the owner's reveal channel.
type Account struct {
	Owner          common.Address `json:"owner"`
	Wrapped        Handle         `json:"wrapped"`  // 1:1 claim on the underlying held by the engine
	InPool         Handle         `json:"in_pool"`  // claim on funds supplied to the lending pool
	PendingRoundID *uint64        `json:"pending_round_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// HasPoolPosition reports whether the account has ever held an in-pool claim.
func (a *Account) HasPoolPosition() bool {
	return !IsZeroHandle(a.InPool)
}
