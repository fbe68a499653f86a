package service

import (
	"context"
	"fmt"

	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
)

// Wrap pulls amount of the underlying from owner and credits the same
// amount to owner's confidential wrapped balance.
func (e *Engine) Wrap(ctx context.Context, owner common.Address, amount uint64) (*domain.Account, error) {
	if amount == 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dbTx, err := e.tx.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	acct, err := e.accounts.GetForUpdate(ctx, dbTx, owner)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	now := e.now()
	if acct == nil {
		acct = &domain.Account{Owner: owner, CreatedAt: now}
	}

	current, err := e.operand(ctx, acct.Wrapped)
	if err != nil {
		return nil, encryptionError(err)
	}
	wrapped, err := e.fhe.AddPlain(ctx, current, amount)
	if err != nil {
		return nil, encryptionError(err)
	}
	if err := e.grant(ctx, owner, wrapped); err != nil {
		return nil, err
	}
	acct.Wrapped = wrapped
	acct.UpdatedAt = now

	if err := e.accounts.Upsert(ctx, dbTx, acct); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist account: %w", err))
	}

	if err := e.token.TransferFrom(ctx, e.address, owner, e.address, amount); err != nil {
		return nil, tokenError(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		if refundErr := e.token.Transfer(ctx, e.address, owner, amount); refundErr != nil {
			e.log.Error().Err(refundErr).Str("account", owner.Hex()).Msg("wrap refund failed after commit error")
		}
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	e.log.Info().Str("account", owner.Hex()).Msg("underlying wrapped")
	return acct, nil
}

// Unwrap debits owner's wrapped balance and returns the underlying. Only
// the sufficiency bit of the balance is revealed.
func (e *Engine) Unwrap(ctx context.Context, owner common.Address, amount uint64) (*domain.Account, error) {
	if amount == 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dbTx, err := e.tx.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	acct, err := e.accounts.GetForUpdate(ctx, dbTx, owner)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if acct == nil || domain.IsZeroHandle(acct.Wrapped) {
		return nil, apperror.ErrInsufficientBalance()
	}

	ok, err := e.cmp.IsAtLeast(ctx, acct.Wrapped, amount)
	if err != nil {
		return nil, encryptionError(err)
	}
	if !ok {
		return nil, apperror.ErrInsufficientBalance()
	}

	wrapped, err := e.fhe.SubPlain(ctx, acct.Wrapped, amount)
	if err != nil {
		return nil, encryptionError(err)
	}
	if err := e.grant(ctx, owner, wrapped); err != nil {
		return nil, err
	}
	acct.Wrapped = wrapped
	acct.UpdatedAt = e.now()

	if err := e.accounts.Upsert(ctx, dbTx, acct); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist account: %w", err))
	}

	if err := e.token.Transfer(ctx, e.address, owner, amount); err != nil {
		return nil, apperror.ErrTransferFailed(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		e.log.Error().Err(err).Str("account", owner.Hex()).Msg("unwrap transfer sent but ledger commit failed")
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	e.log.Info().Str("account", owner.Hex()).Msg("underlying unwrapped")
	return acct, nil
}

// GetAccount returns owner's handles and pending round.
func (e *Engine) GetAccount(ctx context.Context, owner common.Address) (*domain.Account, error) {
	acct, err := e.accounts.Get(ctx, owner)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if acct == nil {
		return nil, apperror.ErrNotFound("account")
	}
	return acct, nil
}

// RevealBalance serves owner's plaintext balances. Only the owner may read.
func (e *Engine) RevealBalance(ctx context.Context, requester, owner common.Address) (*ports.RevealedBalance, error) {
	if requester != owner {
		return nil, apperror.ErrForbidden()
	}

	acct, err := e.GetAccount(ctx, owner)
	if err != nil {
		return nil, err
	}

	var out ports.RevealedBalance
	if !domain.IsZeroHandle(acct.Wrapped) {
		if out.Wrapped, err = e.reveal.Reveal(ctx, requester, acct.Wrapped); err != nil {
			return nil, err
		}
	}
	if !domain.IsZeroHandle(acct.InPool) {
		if out.InPool, err = e.reveal.Reveal(ctx, requester, acct.InPool); err != nil {
			return nil, err
		}
	}
	return &out, nil
}
