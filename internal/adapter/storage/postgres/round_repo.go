package postgres

import (
	"context"
	"errors"
	"fmt"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
)

const roundColumns = `id, state, opened_at, closed_at, settled_at,
	total_deposits, total_withdrawals, carry_in, pool_snapshot_before,
	pool_balance_at_close, decryption_request_id, net_flow, yield, pool_balance_after`

// RoundRepo implements ports.RoundRepository.
type RoundRepo struct {
	pool Pool
}

// NewRoundRepo creates a new RoundRepo.
func NewRoundRepo(pool Pool) *RoundRepo {
	return &RoundRepo{pool: pool}
}

func scanRound(row rowScanner) (*domain.Round, error) {
	var (
		r                            domain.Round
		state                        string
		deposits, withdrawals, carry string
	)
	err := row.Scan(
		&r.ID, &state, &r.OpenedAt, &r.ClosedAt, &r.SettledAt,
		&deposits, &withdrawals, &carry, &r.PoolSnapshotBefore,
		&r.PoolBalanceAtClose, &r.DecryptionRequestID, &r.NetFlow, &r.Yield, &r.PoolBalanceAfter,
	)
	if err != nil {
		return nil, err
	}
	r.State = domain.RoundState(state)
	r.TotalDeposits = common.HexToHash(deposits)
	r.TotalWithdrawals = common.HexToHash(withdrawals)
	r.CarryIn = common.HexToHash(carry)
	return &r, nil
}

// Create inserts a new round within a transaction.
func (r *RoundRepo) Create(ctx context.Context, tx pgx.Tx, round *domain.Round) error {
	query := `INSERT INTO rounds (` + roundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := tx.Exec(ctx, query,
		round.ID, string(round.State), round.OpenedAt, round.ClosedAt, round.SettledAt,
		handleText(round.TotalDeposits), handleText(round.TotalWithdrawals), handleText(round.CarryIn),
		round.PoolSnapshotBefore, round.PoolBalanceAtClose, round.DecryptionRequestID,
		round.NetFlow, round.Yield, round.PoolBalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

// Update writes back the mutable fields of a round within a transaction.
func (r *RoundRepo) Update(ctx context.Context, tx pgx.Tx, round *domain.Round) error {
	query := `UPDATE rounds SET
			state = $2, closed_at = $3, settled_at = $4,
			total_deposits = $5, total_withdrawals = $6,
			pool_balance_at_close = $7, decryption_request_id = $8,
			net_flow = $9, yield = $10, pool_balance_after = $11
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		round.ID, string(round.State), round.ClosedAt, round.SettledAt,
		handleText(round.TotalDeposits), handleText(round.TotalWithdrawals),
		round.PoolBalanceAtClose, round.DecryptionRequestID,
		round.NetFlow, round.Yield, round.PoolBalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("update round: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("round not found: %d", round.ID)
	}
	return nil
}

// GetByID fetches a round by id.
func (r *RoundRepo) GetByID(ctx context.Context, id uint64) (*domain.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`

	round, err := scanRound(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get round: %w", err)
	}
	return round, nil
}

// GetCurrent fetches the newest round.
func (r *RoundRepo) GetCurrent(ctx context.Context) (*domain.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds ORDER BY id DESC LIMIT 1`

	round, err := scanRound(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current round: %w", err)
	}
	return round, nil
}

// GetCurrentForUpdate fetches and locks the newest round.
// This MUST be called within a transaction.
func (r *RoundRepo) GetCurrentForUpdate(ctx context.Context, tx pgx.Tx) (*domain.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds ORDER BY id DESC LIMIT 1 FOR UPDATE`

	round, err := scanRound(tx.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current round for update: %w", err)
	}
	return round, nil
}

// List returns rounds newest first.
func (r *RoundRepo) List(ctx context.Context, limit, offset int) ([]domain.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds ORDER BY id DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	rounds := []domain.Round{}
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		rounds = append(rounds, *round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return rounds, nil
}

const participantColumns = `round_id, account, deposit, withdraw`

func scanParticipant(row rowScanner) (*domain.Participant, error) {
	var (
		p                 domain.Participant
		account           string
		deposit, withdraw *string
	)
	if err := row.Scan(&p.RoundID, &account, &deposit, &withdraw); err != nil {
		return nil, err
	}
	p.Account = common.HexToAddress(account)
	p.Deposit = handleFromNullable(deposit)
	p.Withdraw = handleFromNullable(withdraw)
	return &p, nil
}

// GetParticipantForUpdate fetches and locks one participant of a round.
func (r *RoundRepo) GetParticipantForUpdate(ctx context.Context, tx pgx.Tx, roundID uint64, account common.Address) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM round_participants
		WHERE round_id = $1 AND account = $2 FOR UPDATE`

	p, err := scanParticipant(tx.QueryRow(ctx, query, roundID, addressText(account)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get participant for update: %w", err)
	}
	return p, nil
}

// UpsertParticipant inserts or replaces a participant's round deltas.
func (r *RoundRepo) UpsertParticipant(ctx context.Context, tx pgx.Tx, p *domain.Participant) error {
	query := `INSERT INTO round_participants (` + participantColumns + `)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (round_id, account) DO UPDATE SET
			deposit = EXCLUDED.deposit,
			withdraw = EXCLUDED.withdraw`

	_, err := tx.Exec(ctx, query,
		p.RoundID, addressText(p.Account), nullableHandle(p.Deposit), nullableHandle(p.Withdraw),
	)
	if err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

// ListParticipants returns a round's participants ordered by account.
func (r *RoundRepo) ListParticipants(ctx context.Context, tx pgx.Tx, roundID uint64) ([]domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM round_participants
		WHERE round_id = $1 ORDER BY account COLLATE "C"`

	rows, err := tx.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var ps []domain.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		ps = append(ps, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return ps, nil
}
