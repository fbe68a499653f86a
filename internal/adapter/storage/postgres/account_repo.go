package postgres

import (
	"context"
	"errors"
	"fmt"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `owner, wrapped, in_pool, pending_round_id, created_at, updated_at`

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a       domain.Account
		owner   string
		wrapped string
		inPool  *string
	)
	if err := row.Scan(&owner, &wrapped, &inPool, &a.PendingRoundID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Owner = common.HexToAddress(owner)
	a.Wrapped = common.HexToHash(wrapped)
	a.InPool = handleFromNullable(inPool)
	return &a, nil
}

// Get fetches an account by owner (non-locking read).
func (r *AccountRepo) Get(ctx context.Context, owner common.Address) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner = $1`

	a, err := scanAccount(r.pool.QueryRow(ctx, query, addressText(owner)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// GetForUpdate fetches an account with pessimistic locking.
// This MUST be called within a transaction.
func (r *AccountRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, owner common.Address) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner = $1 FOR UPDATE`

	a, err := scanAccount(tx.QueryRow(ctx, query, addressText(owner)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return a, nil
}

// Upsert inserts or replaces an account within a transaction.
func (r *AccountRepo) Upsert(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner) DO UPDATE SET
			wrapped = EXCLUDED.wrapped,
			in_pool = EXCLUDED.in_pool,
			pending_round_id = EXCLUDED.pending_round_id,
			updated_at = EXCLUDED.updated_at`

	_, err := tx.Exec(ctx, query,
		addressText(a.Owner), handleText(a.Wrapped), nullableHandle(a.InPool),
		a.PendingRoundID, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

// ListPoolHolders locks every account with an in-pool claim, ordered by owner.
func (r *AccountRepo) ListPoolHolders(ctx context.Context, tx pgx.Tx) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE in_pool IS NOT NULL ORDER BY owner COLLATE "C" FOR UPDATE`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pool holders: %w", err)
	}
	defer rows.Close()

	var holders []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pool holder: %w", err)
		}
		holders = append(holders, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pool holders: %w", err)
	}
	return holders, nil
}
