package service

import (
	"context"
	"fmt"

	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
)

// SubmitDeposit earmarks an encrypted amount of owner's wrapped balance for
// supply to the pool when the current round settles.
func (e *Engine) SubmitDeposit(ctx context.Context, owner common.Address, input domain.EncryptedInput) (*ports.SubmissionReceipt, error) {
	return e.submit(ctx, owner, input, ports.SubmissionDeposit)
}

// SubmitWithdraw earmarks an encrypted amount of owner's in-pool claim for
// withdrawal when the current round settles.
func (e *Engine) SubmitWithdraw(ctx context.Context, owner common.Address, input domain.EncryptedInput) (*ports.SubmissionReceipt, error) {
	return e.submit(ctx, owner, input, ports.SubmissionWithdraw)
}

func (e *Engine) submit(ctx context.Context, owner common.Address, input domain.EncryptedInput, kind ports.SubmissionKind) (*ports.SubmissionReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dbTx, err := e.tx.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	round, err := e.rounds.GetCurrentForUpdate(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock current round: %w", err))
	}
	if round == nil {
		return nil, apperror.ErrNotFound("round")
	}
	if !round.IsOpen() {
		return nil, apperror.ErrRoundPending()
	}

	acct, err := e.accounts.GetForUpdate(ctx, dbTx, owner)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if acct == nil {
		return nil, apperror.ErrNotFound("account")
	}

	amount, err := e.fhe.VerifyInput(ctx, owner, input)
	if err != nil {
		return nil, encryptionError(err)
	}

	p, err := e.rounds.GetParticipantForUpdate(ctx, dbTx, round.ID, owner)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock participant: %w", err))
	}
	if p == nil {
		p = &domain.Participant{RoundID: round.ID, Account: owner}
	}

	// Amounts above the spendable balance silently become zero so the
	// outcome does not leak whether the account could cover the request.
	var earmarked domain.Handle
	switch kind {
	case ports.SubmissionDeposit:
		if earmarked, acct.Wrapped, err = e.earmark(ctx, amount, acct.Wrapped); err != nil {
			return nil, err
		}
		if p.Deposit, err = e.accumulate(ctx, p.Deposit, earmarked); err != nil {
			return nil, err
		}
		if round.TotalDeposits, err = e.accumulate(ctx, round.TotalDeposits, earmarked); err != nil {
			return nil, err
		}
	case ports.SubmissionWithdraw:
		if earmarked, acct.InPool, err = e.earmark(ctx, amount, acct.InPool); err != nil {
			return nil, err
		}
		if p.Withdraw, err = e.accumulate(ctx, p.Withdraw, earmarked); err != nil {
			return nil, err
		}
		if round.TotalWithdrawals, err = e.accumulate(ctx, round.TotalWithdrawals, earmarked); err != nil {
			return nil, err
		}
	default:
		return nil, apperror.Validation(fmt.Sprintf("unknown submission kind %q", kind))
	}

	if err := e.grant(ctx, owner, earmarked, acct.Wrapped, acct.InPool, p.Deposit, p.Withdraw); err != nil {
		return nil, err
	}

	roundID := round.ID
	acct.PendingRoundID = &roundID
	acct.UpdatedAt = e.now()

	if err := e.accounts.Upsert(ctx, dbTx, acct); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist account: %w", err))
	}
	if err := e.rounds.UpsertParticipant(ctx, dbTx, p); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist participant: %w", err))
	}
	if err := e.rounds.Update(ctx, dbTx, round); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist round: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	e.log.Info().
		Uint64("round_id", round.ID).
		Str("account", owner.Hex()).
		Str("kind", string(kind)).
		Msg("submission folded into round")

	return &ports.SubmissionReceipt{
		RoundID: round.ID,
		Account: owner,
		Kind:    kind,
		Amount:  earmarked,
	}, nil
}

// earmark computes x = amount <= balance ? amount : 0 and returns x with the
// reduced balance.
func (e *Engine) earmark(ctx context.Context, amount, balance domain.Handle) (domain.Handle, domain.Handle, error) {
	balance, err := e.operand(ctx, balance)
	if err != nil {
		return domain.Handle{}, domain.Handle{}, encryptionError(err)
	}
	zero, err := e.fhe.TrivialEncrypt(ctx, 0)
	if err != nil {
		return domain.Handle{}, domain.Handle{}, encryptionError(err)
	}
	covered, err := e.fhe.Le(ctx, amount, balance)
	if err != nil {
		return domain.Handle{}, domain.Handle{}, encryptionError(err)
	}
	x, err := e.fhe.Select(ctx, covered, amount, zero)
	if err != nil {
		return domain.Handle{}, domain.Handle{}, encryptionError(err)
	}
	rest, err := e.fhe.Sub(ctx, balance, x)
	if err != nil {
		return domain.Handle{}, domain.Handle{}, encryptionError(err)
	}
	return x, rest, nil
}

func (e *Engine) accumulate(ctx context.Context, total, x domain.Handle) (domain.Handle, error) {
	total, err := e.operand(ctx, total)
	if err != nil {
		return domain.Handle{}, encryptionError(err)
	}
	sum, err := e.fhe.Add(ctx, total, x)
	if err != nil {
		return domain.Handle{}, encryptionError(err)
	}
	return sum, nil
}

// CurrentRound returns the newest round in the log.
func (e *Engine) CurrentRound(ctx context.Context) (*domain.Round, error) {
	round, err := e.rounds.GetCurrent(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get current round: %w", err))
	}
	if round == nil {
		return nil, apperror.ErrNotFound("round")
	}
	return round, nil
}

// GetRound returns one round of the log.
func (e *Engine) GetRound(ctx context.Context, id uint64) (*domain.Round, error) {
	round, err := e.rounds.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get round: %w", err))
	}
	if round == nil {
		return nil, apperror.ErrNotFound("round")
	}
	return round, nil
}

// ListRounds returns rounds newest first.
func (e *Engine) ListRounds(ctx context.Context, limit, offset int) ([]domain.Round, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rounds, err := e.rounds.List(ctx, limit, offset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list rounds: %w", err))
	}
	return rounds, nil
}
