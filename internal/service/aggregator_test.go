package service

import (
	"context"
	"testing"

	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_SubmitDeposit_EarmarksWrapped(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)

	receipt, err := h.engine.SubmitDeposit(ctx, testAlice, h.input(t, testAlice, 300))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), receipt.RoundID)
	assert.Equal(t, ports.SubmissionDeposit, receipt.Kind)

	// The receipt amount is readable by its owner only.
	v, err := h.kms.Reveal(ctx, testAlice, receipt.Amount)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), v)

	assert.Equal(t, uint64(700), h.balance(t, testAlice).Wrapped)

	acct, err := h.engine.GetAccount(ctx, testAlice)
	require.NoError(t, err)
	require.NotNil(t, acct.PendingRoundID)
	assert.Equal(t, uint64(1), *acct.PendingRoundID)

	// No external transfer before settlement.
	supplied, _ := h.pool.BalanceOf(ctx, testEngine)
	assert.Equal(t, uint64(0), supplied)
	assert.Empty(t, h.lender.supply)
}

func TestEngine_SubmitDeposit_Accumulates(t *testing.T) {
	h := setupEngine(t)
	h.fund(t, testAlice, 1_000)

	h.deposit(t, testAlice, 200)
	h.deposit(t, testAlice, 300)

	req := h.advance(t)
	cleartexts := h.decrypt(t, req)
	assert.Equal(t, []uint64{500, 0, 0, 500, 0}, cleartexts)
}

func TestEngine_SubmitDeposit_OverBalanceBecomesZero(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)

	receipt, err := h.engine.SubmitDeposit(ctx, testAlice, h.input(t, testAlice, 1_001))
	require.NoError(t, err, "an uncovered amount is not an error")

	v, err := h.kms.Reveal(ctx, testAlice, receipt.Amount)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	assert.Equal(t, uint64(1_000), h.balance(t, testAlice).Wrapped)

	report := h.settle(t)
	assert.Equal(t, int64(0), report.NetFlow)
	assert.Empty(t, h.lender.supply)
	assert.Equal(t, uint64(1_000), h.balance(t, testAlice).Wrapped)
	h.assertInvariants(t)
}

func TestEngine_SubmitWithdraw_EarmarksInPool(t *testing.T) {
	h := setupEngine(t)
	h.fund(t, testAlice, 1_000)
	h.deposit(t, testAlice, 1_000)
	h.settle(t)

	h.withdraw(t, testAlice, 400)
	b := h.balance(t, testAlice)
	assert.Equal(t, uint64(600), b.InPool)
	assert.Equal(t, uint64(0), b.Wrapped)

	// Withdrawing more than the remaining claim earmarks nothing.
	h.withdraw(t, testAlice, 601)
	assert.Equal(t, uint64(600), h.balance(t, testAlice).InPool)
}

func TestEngine_Submit_UnknownAccount(t *testing.T) {
	h := setupEngine(t)

	_, err := h.engine.SubmitDeposit(context.Background(), testBob, h.input(t, testBob, 1))
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
}

func TestEngine_Submit_InvalidProof_NoStateChange(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)
	h.fund(t, testBob, 1_000)

	// Input encrypted for Alice, submitted by Bob.
	_, err := h.engine.SubmitDeposit(ctx, testBob, h.input(t, testAlice, 100))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidProof))

	in := h.input(t, testAlice, 100)
	in.Proof = in.Proof[:16]
	_, err = h.engine.SubmitWithdraw(ctx, testAlice, in)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidProof))

	acct, err := h.engine.GetAccount(ctx, testBob)
	require.NoError(t, err)
	assert.Nil(t, acct.PendingRoundID)
	assert.Equal(t, uint64(1_000), h.balance(t, testBob).Wrapped)
}

func TestEngine_Submit_ReplayedInput(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)

	in := h.input(t, testAlice, 100)
	_, err := h.engine.SubmitDeposit(ctx, testAlice, in)
	require.NoError(t, err)

	_, err = h.engine.SubmitDeposit(ctx, testAlice, in)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidProof))
	assert.Equal(t, uint64(900), h.balance(t, testAlice).Wrapped)
}

func TestEngine_Submit_RoundPending(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)
	h.deposit(t, testAlice, 100)
	h.advance(t)

	_, err := h.engine.SubmitDeposit(ctx, testAlice, h.input(t, testAlice, 100))
	assert.True(t, apperror.HasCode(err, apperror.CodeRoundPending))
	_, err = h.engine.SubmitWithdraw(ctx, testAlice, h.input(t, testAlice, 100))
	assert.True(t, apperror.HasCode(err, apperror.CodeRoundPending))

	// Wrap and unwrap stay available while the round is pending.
	h.fund(t, testAlice, 50)
	_, err = h.engine.Unwrap(ctx, testAlice, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), h.balance(t, testAlice).Wrapped)
}

func TestEngine_RoundReads(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)
	h.deposit(t, testAlice, 1_000)
	h.settle(t)
	h.settle(t)

	rounds, err := h.engine.ListRounds(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, rounds, 3)
	assert.Equal(t, uint64(3), rounds[0].ID)
	assert.Equal(t, domain.RoundStateOpen, rounds[0].State)
	assert.Equal(t, domain.RoundStateSettled, rounds[2].State)

	page, err := h.engine.ListRounds(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, uint64(2), page[0].ID)

	r, err := h.engine.GetRound(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, r.NetFlow)
	assert.Equal(t, int64(1_000), *r.NetFlow)

	_, err = h.engine.GetRound(ctx, 42)
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
}
