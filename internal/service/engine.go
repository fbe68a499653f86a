package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// EngineDeps groups the collaborators of the lending engine.
type EngineDeps struct {
	Accounts   ports.AccountRepository
	Rounds     ports.RoundRepository
	Requests   ports.DecryptionRequestRepository
	Transactor ports.DBTransactor

	Coprocessor ports.Coprocessor
	Comparator  ports.BalanceComparator
	Reencryptor ports.Reencryptor

	Token  ports.Token
	Pool   ports.LendingPool
	Oracle ports.DecryptionOracle
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// Engine implements ports.LendingEngine. Every state-changing entrypoint
// holds mu and runs inside a single database transaction.
type Engine struct {
	mu sync.Mutex

	address  common.Address
	accounts ports.AccountRepository
	rounds   ports.RoundRepository
	requests ports.DecryptionRequestRepository
	tx       ports.DBTransactor

	fhe     ports.Coprocessor
	cmp     ports.BalanceComparator
	reveal  ports.Reencryptor
	rewards *RewardAllocator

	token  ports.Token
	pool   ports.LendingPool
	oracle ports.DecryptionOracle

	minRoundDuration   time.Duration
	maxDecryptionDelay time.Duration
	now                func() time.Time
	log                zerolog.Logger
}

// NewEngine creates the engine operating as address.
func NewEngine(
	address common.Address,
	deps EngineDeps,
	minRoundDuration, maxDecryptionDelay time.Duration,
	log zerolog.Logger,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		address:            address,
		accounts:           deps.Accounts,
		rounds:             deps.Rounds,
		requests:           deps.Requests,
		tx:                 deps.Transactor,
		fhe:                deps.Coprocessor,
		cmp:                deps.Comparator,
		reveal:             deps.Reencryptor,
		rewards:            NewRewardAllocator(deps.Coprocessor),
		token:              deps.Token,
		pool:               deps.Pool,
		oracle:             deps.Oracle,
		minRoundDuration:   minRoundDuration,
		maxDecryptionDelay: maxDecryptionDelay,
		now:                func() time.Time { return time.Now().UTC() },
		log:                log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Address returns the engine's account on the token and the pool.
func (e *Engine) Address() common.Address {
	return e.address
}

// Bootstrap opens round 1 if the round log is empty.
func (e *Engine) Bootstrap(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	dbTx, err := e.tx.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	current, err := e.rounds.GetCurrentForUpdate(ctx, dbTx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get current round: %w", err))
	}
	if current != nil {
		e.log.Info().Uint64("round_id", current.ID).Str("state", string(current.State)).Msg("resuming round log")
		return nil
	}

	snapshot, err := e.pool.BalanceOf(ctx, e.address)
	if err != nil {
		return apperror.ErrPoolCallFailed(fmt.Errorf("pool balance: %w", err))
	}
	carry, err := e.fhe.TrivialEncrypt(ctx, 0)
	if err != nil {
		return apperror.ErrEncryptionFailure(err)
	}

	round, err := e.openRound(ctx, 1, snapshot, carry)
	if err != nil {
		return err
	}
	if err := e.rounds.Create(ctx, dbTx, round); err != nil {
		return apperror.InternalError(fmt.Errorf("create round: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	e.log.Info().Uint64("round_id", round.ID).Uint64("pool_snapshot", snapshot).Msg("round log initialized")
	return nil
}

// openRound builds a fresh OPEN round with zero aggregates.
func (e *Engine) openRound(ctx context.Context, id, snapshot uint64, carry domain.Handle) (*domain.Round, error) {
	deposits, err := e.fhe.TrivialEncrypt(ctx, 0)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}
	withdrawals, err := e.fhe.TrivialEncrypt(ctx, 0)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}
	return &domain.Round{
		ID:                 id,
		State:              domain.RoundStateOpen,
		OpenedAt:           e.now(),
		TotalDeposits:      deposits,
		TotalWithdrawals:   withdrawals,
		CarryIn:            carry,
		PoolSnapshotBefore: snapshot,
	}, nil
}

// operand returns h, or an encrypted zero for a never-assigned handle.
func (e *Engine) operand(ctx context.Context, h domain.Handle) (domain.Handle, error) {
	if !domain.IsZeroHandle(h) {
		return h, nil
	}
	return e.fhe.TrivialEncrypt(ctx, 0)
}

// grant gives owner read access to each handle.
func (e *Engine) grant(ctx context.Context, owner common.Address, handles ...domain.Handle) error {
	for _, h := range handles {
		if domain.IsZeroHandle(h) {
			continue
		}
		if err := e.fhe.Allow(ctx, h, owner); err != nil {
			return apperror.ErrEncryptionFailure(err)
		}
	}
	return nil
}

// encryptionError keeps AppErrors from the coprocessor and wraps the rest.
func encryptionError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.ErrEncryptionFailure(err)
}

func tokenError(err error) error {
	if errors.Is(err, domain.ErrInsufficientAllowance) {
		return apperror.ErrInsufficientAllowance(err)
	}
	return apperror.ErrTransferFailed(err)
}
