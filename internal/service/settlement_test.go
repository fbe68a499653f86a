package service

import (
	"context"
	"math"
	"testing"

	"confidential-lending/internal/core/domain"
	"confidential-lending/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Settlement_AggregatesIntoSingleSupply(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 500_000)
	h.fund(t, testBob, 400_000)
	h.fund(t, testCarol, 300_000)

	h.deposit(t, testAlice, 500_000)
	h.deposit(t, testBob, 400_000)
	h.deposit(t, testCarol, 300_000)

	report := h.settle(t)

	assert.Equal(t, []uint64{1_200_000}, h.lender.supply, "exactly one supply call")
	assert.Empty(t, h.lender.drain)
	assert.Equal(t, int64(1_200_000), report.NetFlow)
	assert.Equal(t, int64(0), report.Yield)
	assert.Equal(t, 3, report.Participants)
	assert.Equal(t, uint64(2), report.NextRoundID)

	assert.Equal(t, uint64(500_000), h.balance(t, testAlice).InPool)
	assert.Equal(t, uint64(400_000), h.balance(t, testBob).InPool)
	assert.Equal(t, uint64(300_000), h.balance(t, testCarol).InPool)

	for _, who := range []common.Address{testAlice, testBob, testCarol} {
		acct, err := h.engine.GetAccount(ctx, who)
		require.NoError(t, err)
		assert.Nil(t, acct.PendingRoundID)
	}
	h.assertInvariants(t)
}

func TestEngine_Settlement_RoundLog(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()
	h.fund(t, testAlice, 1_000)
	h.deposit(t, testAlice, 1_000)
	req := h.advance(t)
	_, err := h.engine.OnDecryptionDelivered(ctx, req.ID, h.decrypt(t, req))
	require.NoError(t, err)

	settled, err := h.engine.GetRound(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RoundStateSettled, settled.State)
	require.NotNil(t, settled.SettledAt)
	require.NotNil(t, settled.PoolBalanceAfter)
	assert.Equal(t, uint64(1_000), *settled.PoolBalanceAfter)
	require.NotNil(t, settled.Yield)
	assert.Equal(t, int64(0), *settled.Yield)

	next := h.currentRound(t)
	assert.Equal(t, uint64(2), next.ID)
	assert.Equal(t, domain.RoundStateOpen, next.State)
	assert.Equal(t, uint64(1_000), next.PoolSnapshotBefore)
	assert.NotEqual(t, settled.TotalDeposits, next.TotalDeposits, "next round starts with fresh aggregates")

	stored, err := h.store.DecryptionRequests().Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DecryptionStatusDelivered, stored.Status)
	assert.NotNil(t, stored.DeliveredAt)
}

func TestEngine_Settlement_YieldProportionality(t *testing.T) {
	h := setupEngine(t)
	h.fund(t, testAlice, 600_000)
	h.fund(t, testBob, 400_000)
	h.deposit(t, testAlice, 600_000)
	h.deposit(t, testBob, 400_000)
	h.settle(t)

	h.pool.AccrueYield(testEngine, 100_000)
	report := h.settle(t)

	assert.Equal(t, int64(100_000), report.Yield)
	assert.Equal(t, 2, report.Holders)
	assert.Equal(t, uint64(660_000), h.balance(t, testAlice).InPool)
	assert.Equal(t, uint64(440_000), h.balance(t, testBob).InPool)
	assert.Equal(t, uint64(0), h.carry(t))
	h.assertInvariants(t)
}

func TestEngine_Settlement_RemainderCarriedForward(t *testing.T) {
	h := setupEngine(t)
	for _, who := range []common.Address{testAlice, testBob, testCarol} {
		h.fund(t, who, 1_000)
		h.deposit(t, who, 1_000)
	}
	h.settle(t)

	h.pool.AccrueYield(testEngine, 100)
	h.settle(t)

	// 100 over three equal claims: 33 each, 1 carried.
	for _, who := range []common.Address{testAlice, testBob, testCarol} {
		assert.Equal(t, uint64(1_033), h.balance(t, who).InPool)
	}
	assert.Equal(t, uint64(1), h.carry(t))
	h.assertInvariants(t)

	// The carried unit joins the next distribution: 1 + 2 = 3 over three claims.
	h.pool.AccrueYield(testEngine, 2)
	report := h.settle(t)
	assert.Equal(t, int64(3), report.Distributed)
	for _, who := range []common.Address{testAlice, testBob, testCarol} {
		assert.Equal(t, uint64(1_034), h.balance(t, who).InPool)
	}
	assert.Equal(t, uint64(0), h.carry(t))
	h.assertInvariants(t)
}

func TestEngine_Settlement_LossRoundsAgainstHolders(t *testing.T) {
	h := setupEngine(t)
	for _, who := range []common.Address{testAlice, testBob, testCarol} {
		h.fund(t, who, 1_000)
		h.deposit(t, who, 1_000)
	}
	h.settle(t)

	require.Equal(t, uint64(100), h.pool.RealizeLoss(testEngine, 100))
	report := h.settle(t)
	assert.Equal(t, int64(-100), report.Yield)

	// Each claim loses ceil(100/3) = 34; the 2 over-collected are carried.
	for _, who := range []common.Address{testAlice, testBob, testCarol} {
		assert.Equal(t, uint64(966), h.balance(t, who).InPool)
	}
	assert.Equal(t, uint64(2), h.carry(t))
	h.assertInvariants(t)
}

func TestEngine_Settlement_LossWithFullWithdrawal(t *testing.T) {
	h := setupEngine(t)
	h.fund(t, testAlice, 1_000)
	h.fund(t, testBob, 1_000)
	h.deposit(t, testAlice, 1_000)
	h.deposit(t, testBob, 1_000)
	h.settle(t)

	h.withdraw(t, testAlice, 1_000)
	require.Equal(t, uint64(100), h.pool.RealizeLoss(testEngine, 100))
	report := h.settle(t)
	assert.Equal(t, int64(-100), report.Yield)

	// Alice's funds left at face value; the loss falls on what stayed in.
	a := h.balance(t, testAlice)
	assert.Equal(t, uint64(1_000), a.Wrapped)
	assert.Equal(t, uint64(0), a.InPool)
	assert.Equal(t, uint64(900), h.balance(t, testBob).InPool)
	assert.Equal(t, uint64(0), h.carry(t))
	h.assertInvariants(t)

	// The remaining claim is fully withdrawable.
	h.withdraw(t, testBob, 900)
	h.settle(t)
	b := h.balance(t, testBob)
	assert.Equal(t, uint64(900), b.Wrapped)
	assert.Equal(t, uint64(0), b.InPool)
	h.assertInvariants(t)
}

func TestEngine_Settlement_LossWithPartialWithdrawal(t *testing.T) {
	h := setupEngine(t)
	h.fund(t, testAlice, 1_000)
	h.fund(t, testBob, 1_000)
	h.deposit(t, testAlice, 1_000)
	h.deposit(t, testBob, 1_000)
	h.settle(t)

	h.withdraw(t, testAlice, 400)
	require.Equal(t, uint64(100), h.pool.RealizeLoss(testEngine, 100))
	h.settle(t)

	// 100 over the 1,600 left in: ceil(37.5) = 38 and ceil(62.5) = 63, 1 carried.
	a := h.balance(t, testAlice)
	assert.Equal(t, uint64(400), a.Wrapped)
	assert.Equal(t, uint64(562), a.InPool)
	assert.Equal(t, uint64(937), h.balance(t, testBob).InPool)
	assert.Equal(t, uint64(1), h.carry(t))
	h.assertInvariants(t)
}

func TestEngine_Settlement_YieldWithoutHoldersIsCarried(t *testing.T) {
	h := setupEngine(t)

	h.pool.AccrueYield(testEngine, 50)
	report := h.settle(t)
	assert.Equal(t, int64(50), report.Yield)
	assert.Equal(t, 0, report.Holders)
	assert.Equal(t, uint64(50), h.carry(t))

	// The first depositor does not share in yield accrued before it joined.
	h.fund(t, testAlice, 1_000)
	h.deposit(t, testAlice, 1_000)
	h.settle(t)
	assert.Equal(t, uint64(1_000), h.balance(t, testAlice).InPool)
	assert.Equal(t, uint64(50), h.carry(t))
	h.assertInvariants(t)
}

func TestEngine_Settlement_NetWithdrawal(t *testing.T) {
	h := setupEngine(t)
	h.fund(t, testAlice, 1_000)
	h.fund(t, testBob, 1_000)
	h.deposit(t, testAlice, 1_000)
	h.deposit(t, testBob, 1_000)
	h.settle(t)

	h.withdraw(t, testAlice, 700)
	h.deposit(t, testBob, 0)
	report := h.settle(t)

	assert.Equal(t, int64(-700), report.NetFlow)
	assert.Equal(t, []uint64{700}, h.lender.drain)

	a := h.balance(t, testAlice)
	assert.Equal(t, uint64(300), a.InPool)
	assert.Equal(t, uint64(700), a.Wrapped)
	h.assertInvariants(t)
}

func TestEngine_Settlement_MixedFlowNetsOut(t *testing.T) {
	h := setupEngine(t)
	h.fund(t, testAlice, 1_000)
	h.deposit(t, testAlice, 1_000)
	h.settle(t)

	h.fund(t, testBob, 400)
	h.withdraw(t, testAlice, 400)
	h.deposit(t, testBob, 400)
	report := h.settle(t)

	assert.Equal(t, int64(0), report.NetFlow)
	assert.Equal(t, []uint64{1_000}, h.lender.supply, "a zero net flow makes no pool call")
	assert.Empty(t, h.lender.drain)

	assert.Equal(t, uint64(600), h.balance(t, testAlice).InPool)
	assert.Equal(t, uint64(400), h.balance(t, testAlice).Wrapped)
	assert.Equal(t, uint64(400), h.balance(t, testBob).InPool)
	h.assertInvariants(t)
}

func TestEngine_Settlement_BobAndCarol(t *testing.T) {
	h := setupEngine(t)
	ctx := context.Background()

	h.fund(t, testBob, 600_000)
	h.fund(t, testCarol, 400_000)
	h.deposit(t, testBob, 600_000)
	h.deposit(t, testCarol, 400_000)
	h.settle(t)

	supplied, _ := h.pool.BalanceOf(ctx, testEngine)
	assert.Equal(t, uint64(1_000_000), supplied)

	h.pool.AccrueYield(testEngine, 100_000)
	h.settle(t)

	supplied, _ = h.pool.BalanceOf(ctx, testEngine)
	assert.Equal(t, uint64(1_100_000), supplied)
	assert.Equal(t, uint64(660_000), h.balance(t, testBob).InPool)
	assert.Equal(t, uint64(440_000), h.balance(t, testCarol).InPool)

	h.withdraw(t, testBob, 660_000)
	h.settle(t)

	supplied, _ = h.pool.BalanceOf(ctx, testEngine)
	assert.Equal(t, uint64(440_000), supplied)
	held, _ := h.token.BalanceOf(ctx, testEngine)
	assert.Equal(t, uint64(660_000), held)
	h.assertInvariants(t)

	_, err := h.engine.Unwrap(ctx, testBob, 600_000)
	require.NoError(t, err)
	own, _ := h.token.BalanceOf(ctx, testBob)
	assert.Equal(t, uint64(600_000), own)

	b := h.balance(t, testBob)
	assert.Equal(t, uint64(60_000), b.Wrapped, "yield portion stays wrapped")
	assert.Equal(t, uint64(0), b.InPool)
	h.assertInvariants(t)
}

func TestVerifyAggregates(t *testing.T) {
	req := &domain.DecryptionRequest{Handles: make([]domain.Handle, domain.AggregateHandleCount+4)}

	agg, err := verifyAggregates(req, 2, []uint64{500, 200, 3, 500, 0, 0, 200})
	require.NoError(t, err)
	assert.Equal(t, int64(300), agg.netFlow)
	assert.Equal(t, uint64(3), agg.carryIn)

	_, err = verifyAggregates(req, 1, []uint64{500, 200, 3, 500, 0, 0, 200})
	assert.True(t, apperror.HasCode(err, apperror.CodeAggregateMismatch), "participant count")

	_, err = verifyAggregates(req, 2, []uint64{500, 200, 3, 400, 0, 0, 200})
	assert.True(t, apperror.HasCode(err, apperror.CodeAggregateMismatch), "deposit sum")

	_, err = verifyAggregates(req, 2, []uint64{1 << 63, 0, 0, 1 << 63, 0, 0, 0})
	assert.True(t, apperror.HasCode(err, apperror.CodeAggregateMismatch), "out of range")
}

func TestVerifyAggregates_RejectsWrappingSums(t *testing.T) {
	req := &domain.DecryptionRequest{Handles: make([]domain.Handle, domain.AggregateHandleCount+8)}
	const top = uint64(math.MaxInt64)

	// top+top+top+2 wraps to top modulo 2^64.
	_, err := verifyAggregates(req, 4, []uint64{top, 0, 0, top, 0, top, 0, top, 0, 2, 0})
	assert.True(t, apperror.HasCode(err, apperror.CodeAggregateMismatch), "deposits")

	_, err = verifyAggregates(req, 4, []uint64{0, top, 0, 0, top, 0, top, 0, top, 0, 2})
	assert.True(t, apperror.HasCode(err, apperror.CodeAggregateMismatch), "withdrawals")
}
