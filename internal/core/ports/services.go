package ports

//go:generate mockgen -destination=mocks/mocks.go -package=mocks confidential-lending/internal/core/ports LendingEngine,RoundDriver,DecryptionCallback,TokenService,ThresholdDecryptor,DecryptionOracle,LendingPool,Token

import (
	"context"
	"time"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Role distinguishes regular accounts from round operators.
type Role string

const (
	RoleAccount  Role = "account"
	RoleOperator Role = "operator"
)

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(account common.Address, role Role) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Account common.Address
	Role    Role
}

// --- Service Ports (Business Logic) ---

// SubmissionKind labels a queued round request.
type SubmissionKind string

const (
	SubmissionDeposit  SubmissionKind = "DEPOSIT"
	SubmissionWithdraw SubmissionKind = "WITHDRAW"
)

// SubmissionReceipt acknowledges a request folded into a round.
type SubmissionReceipt struct {
	RoundID uint64         `json:"round_id"`
	Account common.Address `json:"account"`
	Kind    SubmissionKind `json:"kind"`
	Amount  domain.Handle  `json:"amount"` // earmarked amount handle
}

// RevealedBalance is the owner-only plaintext view of an account.
type RevealedBalance struct {
	Wrapped uint64 `json:"wrapped"`
	InPool  uint64 `json:"in_pool"`
}

// LedgerService covers wrap/unwrap and account reads.
type LedgerService interface {
	Wrap(ctx context.Context, owner common.Address, amount uint64) (*domain.Account, error)
	Unwrap(ctx context.Context, owner common.Address, amount uint64) (*domain.Account, error)
	GetAccount(ctx context.Context, owner common.Address) (*domain.Account, error)
	RevealBalance(ctx context.Context, requester, owner common.Address) (*RevealedBalance, error)
}

// RoundService covers the batching window and its settlement log.
type RoundService interface {
	SubmitDeposit(ctx context.Context, owner common.Address, input domain.EncryptedInput) (*SubmissionReceipt, error)
	SubmitWithdraw(ctx context.Context, owner common.Address, input domain.EncryptedInput) (*SubmissionReceipt, error)
	CurrentRound(ctx context.Context) (*domain.Round, error)
	GetRound(ctx context.Context, id uint64) (*domain.Round, error)
	ListRounds(ctx context.Context, limit, offset int) ([]domain.Round, error)
}

// RoundDriver advances rounds and nudges stalled decryptions.
type RoundDriver interface {
	AdvanceRound(ctx context.Context) (*domain.Round, error)
	// ResubmitStalled re-publishes the pending request once it has waited
	// longer than the maximum decryption delay. Returns true if it did.
	ResubmitStalled(ctx context.Context) (bool, error)
}

// DecryptionCallback is the sole asynchronous entry point into settlement.
type DecryptionCallback interface {
	OnDecryptionDelivered(ctx context.Context, requestID uuid.UUID, cleartexts []uint64) (*domain.SettlementReport, error)
}

// LendingEngine is the full engine surface consumed by the HTTP adapter.
type LendingEngine interface {
	LedgerService
	RoundService
	RoundDriver
	DecryptionCallback
}
