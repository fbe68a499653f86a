package dto

import (
	"time"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// AmountRequest is the body of wrap and unwrap. The amount is public: it
// crosses the boundary with the underlying token.
type AmountRequest struct {
	Amount uint64 `json:"amount" binding:"required,gt=0"`
}

// ConfidentialInputRequest carries a client-encrypted amount for lend and
// withdraw. Both fields are 0x-prefixed hex.
type ConfidentialInputRequest struct {
	Ciphertext string `json:"ciphertext" binding:"required,hexbytes"`
	Proof      string `json:"proof" binding:"required,hexbytes"`
}

// ListRoundsQuery holds pagination for the round log.
type ListRoundsQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// AccountResponse exposes an account's handles. Unassigned handles are omitted.
type AccountResponse struct {
	Owner          string  `json:"owner"`
	Wrapped        string  `json:"wrapped,omitempty"`
	InPool         string  `json:"in_pool,omitempty"`
	PendingRoundID *uint64 `json:"pending_round_id,omitempty"`
	UpdatedAt      string  `json:"updated_at"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Owner:          a.Owner.Hex(),
		Wrapped:        handleString(a.Wrapped),
		InPool:         handleString(a.InPool),
		PendingRoundID: a.PendingRoundID,
		UpdatedAt:      a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// RoundResponse is the public view of a round. Cleartexts appear only once
// the round has settled.
type RoundResponse struct {
	ID                  uint64  `json:"id"`
	State               string  `json:"state"`
	OpenedAt            string  `json:"opened_at"`
	ClosedAt            *string `json:"closed_at,omitempty"`
	SettledAt           *string `json:"settled_at,omitempty"`
	PoolSnapshotBefore  uint64  `json:"pool_snapshot_before"`
	PoolBalanceAtClose  *uint64 `json:"pool_balance_at_close,omitempty"`
	DecryptionRequestID *string `json:"decryption_request_id,omitempty"`
	NetFlow             *int64  `json:"net_flow,omitempty"`
	Yield               *int64  `json:"yield,omitempty"`
	PoolBalanceAfter    *uint64 `json:"pool_balance_after,omitempty"`
}

// NewRoundResponse maps a domain round.
func NewRoundResponse(r *domain.Round) RoundResponse {
	return RoundResponse{
		ID:                  r.ID,
		State:               string(r.State),
		OpenedAt:            r.OpenedAt.UTC().Format(time.RFC3339),
		ClosedAt:            timeString(r.ClosedAt),
		SettledAt:           timeString(r.SettledAt),
		PoolSnapshotBefore:  r.PoolSnapshotBefore,
		PoolBalanceAtClose:  r.PoolBalanceAtClose,
		DecryptionRequestID: uuidString(r.DecryptionRequestID),
		NetFlow:             r.NetFlow,
		Yield:               r.Yield,
		PoolBalanceAfter:    r.PoolBalanceAfter,
	}
}

// RoundListResponse wraps a page of the round log.
type RoundListResponse struct {
	Rounds []RoundResponse `json:"rounds"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// SubmissionResponse acknowledges a queued lend or withdraw.
type SubmissionResponse struct {
	RoundID uint64 `json:"round_id"`
	Kind    string `json:"kind"`
	Amount  string `json:"amount"` // earmarked amount handle
}

func handleString(h common.Hash) string {
	if domain.IsZeroHandle(h) {
		return ""
	}
	return h.Hex()
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
