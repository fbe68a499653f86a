package service

import (
	"context"
	"testing"

	"confidential-lending/internal/core/domain"
	"confidential-lending/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Wrap_Success(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()

	h.fund(t, testAlice, 1_000)

	b := h.balance(t, testAlice)
	assert.Equal(t, uint64(1_000), b.Wrapped)
	assert.Equal(t, uint64(0), b.InPool)

	held, _ := h.token.BalanceOf(ctx, testEngine)
	assert.Equal(t, uint64(1_000), held)
	own, _ := h.token.BalanceOf(ctx, testAlice)
	assert.Equal(t, uint64(0), own)

	// Wrapping again accumulates.
	h.fund(t, testAlice, 500)
	assert.Equal(t, uint64(1_500), h.balance(t, testAlice).Wrapped)
	h.assertInvariants(t)
}

func TestEngine_Wrap_ZeroAmount(t *testing.T) {
	h := setupEngine(t)

	_, err := h.engine.Wrap(context.Background(), testAlice, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAmount))
}

func TestEngine_Wrap_InsufficientAllowance_NoStateChange(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.token.Mint(testAlice, 1_000)
	require.NoError(t, h.token.Approve(ctx, testAlice, testEngine, 100))

	_, err := h.engine.Wrap(ctx, testAlice, 1_000)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientAllowance))

	_, err = h.engine.GetAccount(ctx, testAlice)
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound), "rolled back wrap must not create the account")

	held, _ := h.token.BalanceOf(ctx, testEngine)
	assert.Equal(t, uint64(0), held)
}

func TestEngine_Wrap_TransferFailed(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	// Allowance without funds.
	require.NoError(t, h.token.Approve(ctx, testAlice, testEngine, 1_000))

	_, err := h.engine.Wrap(ctx, testAlice, 1_000)
	assert.True(t, apperror.HasCode(err, apperror.CodeTransferFailed))
}

func TestEngine_Unwrap_Success(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)

	acct, err := h.engine.Unwrap(ctx, testAlice, 400)
	require.NoError(t, err)
	assert.Equal(t, testAlice, acct.Owner)

	assert.Equal(t, uint64(600), h.balance(t, testAlice).Wrapped)
	own, _ := h.token.BalanceOf(ctx, testAlice)
	assert.Equal(t, uint64(400), own)
	h.assertInvariants(t)
}

func TestEngine_Unwrap_InsufficientBalance(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()

	_, err := h.engine.Unwrap(ctx, testAlice, 1)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientBalance), "unknown account")

	h.fund(t, testAlice, 1_000)
	_, err = h.engine.Unwrap(ctx, testAlice, 1_001)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientBalance))
	assert.Equal(t, uint64(1_000), h.balance(t, testAlice).Wrapped)

	_, err = h.engine.Unwrap(ctx, testAlice, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidAmount))
}

func TestEngine_RevealBalance_OwnerOnly(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)

	_, err := h.engine.RevealBalance(ctx, testBob, testAlice)
	assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))

	_, err = h.engine.RevealBalance(ctx, testBob, testBob)
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
}

func TestEngine_GetAccount_ExposesHandlesOnly(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)

	acct, err := h.engine.GetAccount(ctx, testAlice)
	require.NoError(t, err)
	assert.False(t, domain.IsZeroHandle(acct.Wrapped))
	assert.Nil(t, acct.PendingRoundID)

	// The stored handle is not readable by another account.
	_, err = h.kms.Reveal(ctx, testBob, acct.Wrapped)
	assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))
}
