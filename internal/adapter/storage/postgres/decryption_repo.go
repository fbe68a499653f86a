package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const decryptionColumns = `id, round_id, handles, status, attempts, requested_at, delivered_at`

// DecryptionRepo implements ports.DecryptionRequestRepository.
type DecryptionRepo struct {
	pool Pool
}

// NewDecryptionRepo creates a new DecryptionRepo.
func NewDecryptionRepo(pool Pool) *DecryptionRepo {
	return &DecryptionRepo{pool: pool}
}

func scanDecryptionRequest(row rowScanner) (*domain.DecryptionRequest, error) {
	var (
		req     domain.DecryptionRequest
		handles []string
		status  string
	)
	err := row.Scan(&req.ID, &req.RoundID, &handles, &status, &req.Attempts, &req.RequestedAt, &req.DeliveredAt)
	if err != nil {
		return nil, err
	}
	req.Status = domain.DecryptionStatus(status)
	req.Handles = make([]domain.Handle, len(handles))
	for i, h := range handles {
		req.Handles[i] = common.HexToHash(h)
	}
	return &req, nil
}

// Create inserts a decryption request within a transaction.
func (r *DecryptionRepo) Create(ctx context.Context, tx pgx.Tx, req *domain.DecryptionRequest) error {
	query := `INSERT INTO decryption_requests (` + decryptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	handles := make([]string, len(req.Handles))
	for i, h := range req.Handles {
		handles[i] = handleText(h)
	}

	_, err := tx.Exec(ctx, query,
		req.ID, req.RoundID, handles, string(req.Status), req.Attempts, req.RequestedAt, req.DeliveredAt,
	)
	if err != nil {
		return fmt.Errorf("insert decryption request: %w", err)
	}
	return nil
}

// Get fetches a request by id.
func (r *DecryptionRepo) Get(ctx context.Context, id uuid.UUID) (*domain.DecryptionRequest, error) {
	query := `SELECT ` + decryptionColumns + ` FROM decryption_requests WHERE id = $1`

	req, err := scanDecryptionRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get decryption request: %w", err)
	}
	return req, nil
}

// GetForUpdate fetches and locks a request.
// This MUST be called within a transaction.
func (r *DecryptionRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.DecryptionRequest, error) {
	query := `SELECT ` + decryptionColumns + ` FROM decryption_requests WHERE id = $1 FOR UPDATE`

	req, err := scanDecryptionRequest(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get decryption request for update: %w", err)
	}
	return req, nil
}

// MarkDelivered records that the request's result was applied.
func (r *DecryptionRepo) MarkDelivered(ctx context.Context, tx pgx.Tx, id uuid.UUID, deliveredAt time.Time) error {
	query := `UPDATE decryption_requests SET status = $1, delivered_at = $2
		WHERE id = $3 AND status = $4`

	tag, err := tx.Exec(ctx, query,
		string(domain.DecryptionStatusDelivered), deliveredAt, id, string(domain.DecryptionStatusPending),
	)
	if err != nil {
		return fmt.Errorf("mark decryption request delivered: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending decryption request not found: %s", id)
	}
	return nil
}

// IncrementAttempts bumps the publish counter outside any transaction.
func (r *DecryptionRepo) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE decryption_requests SET attempts = attempts + 1 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment decryption attempts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decryption request not found: %s", id)
	}
	return nil
}
