package service

import (
	"context"
	"fmt"
	"math"
	"math/bits"

	"confidential-lending/internal/core/domain"
	"confidential-lending/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
)

// aggregates are the verified cleartexts of a decryption result.
type aggregates struct {
	totalDeposits    uint64
	totalWithdrawals uint64
	carryIn          uint64
	netFlow          int64
}

// verifyAggregates checks the cleartexts against the request layout and
// checks that the round totals equal the sum of per-participant amounts.
func verifyAggregates(req *domain.DecryptionRequest, participants int, cleartexts []uint64) (*aggregates, error) {
	if len(cleartexts) != req.ExpectedCleartexts() {
		return nil, apperror.ErrAggregateMismatch(
			fmt.Sprintf("expected %d cleartexts, got %d", req.ExpectedCleartexts(), len(cleartexts)))
	}
	if want := domain.AggregateHandleCount + 2*participants; len(cleartexts) != want {
		return nil, apperror.ErrAggregateMismatch(
			fmt.Sprintf("request covers %d participants, round has %d", (len(cleartexts)-domain.AggregateHandleCount)/2, participants))
	}

	agg := &aggregates{
		totalDeposits:    cleartexts[0],
		totalWithdrawals: cleartexts[1],
		carryIn:          cleartexts[2],
	}
	if agg.totalDeposits > math.MaxInt64 || agg.totalWithdrawals > math.MaxInt64 {
		return nil, apperror.ErrAggregateMismatch("round total out of range")
	}

	var sumDeposits, sumWithdrawals uint64
	var sumNet int64
	for i := domain.AggregateHandleCount; i < len(cleartexts); i += 2 {
		dep, wd := cleartexts[i], cleartexts[i+1]
		if dep > agg.totalDeposits || wd > agg.totalWithdrawals {
			return nil, apperror.ErrAggregateMismatch("participant amount exceeds round total")
		}
		var carryD, carryW uint64
		sumDeposits, carryD = bits.Add64(sumDeposits, dep, 0)
		sumWithdrawals, carryW = bits.Add64(sumWithdrawals, wd, 0)
		if carryD != 0 || carryW != 0 || sumDeposits > agg.totalDeposits || sumWithdrawals > agg.totalWithdrawals {
			return nil, apperror.ErrAggregateMismatch("participant amounts exceed round total")
		}
		sumNet += int64(dep) - int64(wd)
	}

	if sumDeposits != agg.totalDeposits {
		return nil, apperror.ErrAggregateMismatch(
			fmt.Sprintf("deposits: total %d, participants %d", agg.totalDeposits, sumDeposits))
	}
	if sumWithdrawals != agg.totalWithdrawals {
		return nil, apperror.ErrAggregateMismatch(
			fmt.Sprintf("withdrawals: total %d, participants %d", agg.totalWithdrawals, sumWithdrawals))
	}

	agg.netFlow = int64(agg.totalDeposits) - int64(agg.totalWithdrawals)
	if agg.netFlow != sumNet {
		return nil, apperror.ErrAggregateMismatch(
			fmt.Sprintf("net flow: total %d, participants %d", agg.netFlow, sumNet))
	}
	return agg, nil
}

// settle applies a verified decryption result inside dbTx: moves the net
// flow through the pool, credits participants, prorates yield and opens the
// next round. If anything fails after the pool call, the call is reversed.
func (e *Engine) settle(
	ctx context.Context,
	dbTx pgx.Tx,
	round *domain.Round,
	req *domain.DecryptionRequest,
	cleartexts []uint64,
) (report *domain.SettlementReport, err error) {
	participants, err := e.rounds.ListParticipants(ctx, dbTx, round.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list participants: %w", err))
	}

	agg, err := verifyAggregates(req, len(participants), cleartexts)
	if err != nil {
		e.log.Error().Err(err).Uint64("round_id", round.ID).Msg("decryption result rejected")
		return nil, err
	}
	if agg.carryIn > round.PoolSnapshotBefore {
		return nil, apperror.ErrAggregateMismatch("carried remainder exceeds pool snapshot")
	}
	if agg.totalWithdrawals > round.PoolSnapshotBefore-agg.carryIn {
		return nil, apperror.ErrAggregateMismatch("withdrawals exceed pool claims")
	}

	if err := e.applyNetFlow(ctx, agg.netFlow); err != nil {
		e.log.Error().Err(err).Uint64("round_id", round.ID).Int64("net_flow", agg.netFlow).Msg("pool call failed")
		return nil, err
	}
	defer func() {
		if err != nil {
			e.reversePoolCall(ctx, agg.netFlow)
		}
	}()

	poolAfter, err := e.pool.BalanceOf(ctx, e.address)
	if err != nil {
		return nil, apperror.ErrPoolCallFailed(fmt.Errorf("pool balance: %w", err))
	}

	yield := int64(poolAfter) - int64(round.PoolSnapshotBefore) - agg.netFlow
	distributable := yield + int64(agg.carryIn)
	totalClaims := round.PoolSnapshotBefore - agg.carryIn

	// Accounts touched by this settlement, keyed by owner.
	touched := make(map[common.Address]*domain.Account)
	holders, err := e.accounts.ListPoolHolders(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list pool holders: %w", err))
	}
	for i := range holders {
		touched[holders[i].Owner] = &holders[i]
	}

	deposits := make(map[common.Address]domain.Handle, len(participants))
	withdrawals := make(map[common.Address]domain.Handle, len(participants))
	for i, p := range participants {
		deposits[p.Account] = req.Handles[domain.AggregateHandleCount+2*i]
		withdrawals[p.Account] = req.Handles[domain.AggregateHandleCount+2*i+1]
		if _, ok := touched[p.Account]; ok {
			continue
		}
		acct, err := e.accounts.GetForUpdate(ctx, dbTx, p.Account)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock participant account: %w", err))
		}
		if acct == nil {
			return nil, apperror.InternalError(fmt.Errorf("participant %s has no account", p.Account.Hex()))
		}
		touched[p.Account] = acct
	}

	// A gain is shared over each holder's pre-round claim: its in-pool
	// balance plus whatever it earmarked for withdrawal. Withdrawn funds left
	// the pool at face value, so a loss is shared only over what stays in,
	// and no share can exceed the balance it is taken from.
	claims := make([]domain.Handle, len(holders))
	for i, h := range holders {
		claims[i] = h.InPool
		if distributable < 0 {
			continue
		}
		if wd, ok := withdrawals[h.Owner]; ok {
			if claims[i], err = e.fhe.Add(ctx, h.InPool, wd); err != nil {
				return nil, encryptionError(err)
			}
		}
	}
	if distributable < 0 {
		totalClaims -= agg.totalWithdrawals
		if uint64(-distributable) > totalClaims {
			return nil, apperror.InternalError(fmt.Errorf(
				"round %d: loss %d exceeds remaining pool claims %d", round.ID, -distributable, totalClaims))
		}
	}

	alloc, err := e.rewards.Allocate(ctx, claims, distributable, totalClaims)
	if err != nil {
		return nil, encryptionError(err)
	}

	now := e.now()
	for _, p := range participants {
		acct := touched[p.Account]
		inPool, err := e.operand(ctx, acct.InPool)
		if err != nil {
			return nil, encryptionError(err)
		}
		if acct.InPool, err = e.fhe.Add(ctx, inPool, deposits[p.Account]); err != nil {
			return nil, encryptionError(err)
		}
		wrapped, err := e.operand(ctx, acct.Wrapped)
		if err != nil {
			return nil, encryptionError(err)
		}
		if acct.Wrapped, err = e.fhe.Add(ctx, wrapped, withdrawals[p.Account]); err != nil {
			return nil, encryptionError(err)
		}
		acct.PendingRoundID = nil
	}

	for i, h := range holders {
		if i >= len(alloc.Rewards) {
			break
		}
		acct := touched[h.Owner]
		if acct.InPool, err = alloc.apply(ctx, e.fhe, acct.InPool, i); err != nil {
			return nil, encryptionError(err)
		}
	}

	for _, acct := range touched {
		if err := e.grant(ctx, acct.Owner, acct.Wrapped, acct.InPool); err != nil {
			return nil, err
		}
		acct.UpdatedAt = now
		if err := e.accounts.Upsert(ctx, dbTx, acct); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("persist account: %w", err))
		}
	}

	round.State = domain.RoundStateSettled
	round.SettledAt = &now
	round.NetFlow = &agg.netFlow
	round.Yield = &yield
	round.PoolBalanceAfter = &poolAfter
	if err := e.rounds.Update(ctx, dbTx, round); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("persist round: %w", err))
	}
	if err := e.requests.MarkDelivered(ctx, dbTx, req.ID, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mark request delivered: %w", err))
	}

	next, err := e.openRound(ctx, round.ID+1, poolAfter, alloc.Remainder)
	if err != nil {
		return nil, err
	}
	if err := e.rounds.Create(ctx, dbTx, next); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create next round: %w", err))
	}

	return &domain.SettlementReport{
		RoundID:          round.ID,
		NextRoundID:      next.ID,
		NetFlow:          agg.netFlow,
		Yield:            yield,
		Distributed:      distributable,
		PoolBalanceAfter: poolAfter,
		Participants:     len(participants),
		Holders:          len(holders),
	}, nil
}

// applyNetFlow supplies a positive net flow to the pool or withdraws a
// negative one. Zero is a no-op.
func (e *Engine) applyNetFlow(ctx context.Context, net int64) error {
	switch {
	case net > 0:
		if err := e.pool.Supply(ctx, e.address, uint64(net)); err != nil {
			return apperror.ErrPoolCallFailed(fmt.Errorf("supply %d: %w", net, err))
		}
	case net < 0:
		if err := e.pool.Withdraw(ctx, e.address, uint64(-net)); err != nil {
			return apperror.ErrPoolCallFailed(fmt.Errorf("withdraw %d: %w", -net, err))
		}
	}
	return nil
}

// reversePoolCall undoes applyNetFlow on a best-effort basis.
func (e *Engine) reversePoolCall(ctx context.Context, net int64) {
	if net == 0 {
		return
	}
	if err := e.applyNetFlow(ctx, -net); err != nil {
		e.log.Error().Err(err).Int64("net_flow", net).Msg("reversing pool call failed, pool and ledger diverge")
		return
	}
	e.log.Warn().Int64("net_flow", net).Msg("pool call reversed")
}
