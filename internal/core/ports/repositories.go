package ports

import (
	"context"
	"time"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository defines persistence operations for confidential accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type AccountRepository interface {
	Get(ctx context.Context, owner common.Address) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, owner common.Address) (*domain.Account, error)
	Upsert(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	// ListPoolHolders locks and returns every account holding an in-pool
	// claim, ordered by owner address.
	ListPoolHolders(ctx context.Context, tx pgx.Tx) ([]domain.Account, error)
}

// RoundRepository persists the append-only round log and round participants.
type RoundRepository interface {
	Create(ctx context.Context, tx pgx.Tx, round *domain.Round) error
	Update(ctx context.Context, tx pgx.Tx, round *domain.Round) error
	GetByID(ctx context.Context, id uint64) (*domain.Round, error)
	GetCurrent(ctx context.Context) (*domain.Round, error)
	GetCurrentForUpdate(ctx context.Context, tx pgx.Tx) (*domain.Round, error)
	List(ctx context.Context, limit, offset int) ([]domain.Round, error)

	GetParticipantForUpdate(ctx context.Context, tx pgx.Tx, roundID uint64, account common.Address) (*domain.Participant, error)
	UpsertParticipant(ctx context.Context, tx pgx.Tx, p *domain.Participant) error
	// ListParticipants returns the round's participants ordered by account address.
	ListParticipants(ctx context.Context, tx pgx.Tx, roundID uint64) ([]domain.Participant, error)
}

// DecryptionRequestRepository persists issued oracle requests.
type DecryptionRequestRepository interface {
	Create(ctx context.Context, tx pgx.Tx, req *domain.DecryptionRequest) error
	Get(ctx context.Context, id uuid.UUID) (*domain.DecryptionRequest, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.DecryptionRequest, error)
	MarkDelivered(ctx context.Context, tx pgx.Tx, id uuid.UUID, deliveredAt time.Time) error
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
}

// CiphertextRepository stores sealed ciphertexts and their access-control list.
// Writes happen outside the engine's transaction: a rolled back entrypoint
// leaves unreferenced ciphertexts behind, never a dangling handle.
type CiphertextRepository interface {
	Put(ctx context.Context, handle domain.Handle, sealed []byte) error
	Get(ctx context.Context, handle domain.Handle) ([]byte, error)
	Allow(ctx context.Context, handle domain.Handle, account common.Address) error
	IsAllowed(ctx context.Context, handle domain.Handle, account common.Address) (bool, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
