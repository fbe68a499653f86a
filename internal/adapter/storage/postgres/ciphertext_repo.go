package postgres

import (
	"context"
	"errors"
	"fmt"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
)

// CiphertextRepo implements ports.CiphertextRepository. It writes through
// the pool, outside the engine's transactions.
type CiphertextRepo struct {
	pool Pool
}

// NewCiphertextRepo creates a new CiphertextRepo.
func NewCiphertextRepo(pool Pool) *CiphertextRepo {
	return &CiphertextRepo{pool: pool}
}

// Put stores a sealed ciphertext. Handles are content addressed, so a
// repeated Put is a no-op.
func (r *CiphertextRepo) Put(ctx context.Context, handle domain.Handle, sealed []byte) error {
	query := `INSERT INTO ciphertexts (handle, sealed) VALUES ($1, $2) ON CONFLICT (handle) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, handleText(handle), sealed); err != nil {
		return fmt.Errorf("insert ciphertext: %w", err)
	}
	return nil
}

// Get returns the sealed ciphertext, or nil if the handle is unknown.
func (r *CiphertextRepo) Get(ctx context.Context, handle domain.Handle) ([]byte, error) {
	query := `SELECT sealed FROM ciphertexts WHERE handle = $1`

	var sealed []byte
	if err := r.pool.QueryRow(ctx, query, handleText(handle)).Scan(&sealed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ciphertext: %w", err)
	}
	return sealed, nil
}

// Allow adds account to the handle's ACL.
func (r *CiphertextRepo) Allow(ctx context.Context, handle domain.Handle, account common.Address) error {
	query := `INSERT INTO ciphertext_acl (handle, account) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, handleText(handle), addressText(account)); err != nil {
		return fmt.Errorf("insert ciphertext acl: %w", err)
	}
	return nil
}

// IsAllowed reports whether account is on the handle's ACL.
func (r *CiphertextRepo) IsAllowed(ctx context.Context, handle domain.Handle, account common.Address) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ciphertext_acl WHERE handle = $1 AND account = $2)`

	var ok bool
	if err := r.pool.QueryRow(ctx, query, handleText(handle), addressText(account)).Scan(&ok); err != nil {
		return false, fmt.Errorf("check ciphertext acl: %w", err)
	}
	return ok, nil
}
