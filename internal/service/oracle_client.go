package service

import (
	"context"
	"fmt"
	"time"

	"confidential-lending/internal/core/domain"
	"confidential-lending/pkg/apperror"

	"github.com/google/uuid"
)

// AdvanceRound closes the open round and asks the oracle to decrypt its
// aggregates. The request is persisted before it is published; a failed
// publish is retried by ResubmitStalled.
func (e *Engine) AdvanceRound(ctx context.Context) (*domain.Round, error) {
	round, req, err := e.closeRound(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.oracle.RequestDecryption(ctx, req); err != nil {
		e.log.Error().Err(err).
			Uint64("round_id", round.ID).
			Str("request_id", req.ID.String()).
			Msg("publishing decryption request failed")
	}

	return round, nil
}

func (e *Engine) closeRound(ctx context.Context) (*domain.Round, *domain.DecryptionRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dbTx, err := e.tx.Begin(ctx)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	round, err := e.rounds.GetCurrentForUpdate(ctx, dbTx)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lock current round: %w", err))
	}
	if round == nil {
		return nil, nil, apperror.ErrNotFound("round")
	}
	if round.State == domain.RoundStateDecryptionPending {
		return nil, nil, apperror.ErrRoundAlreadyPending()
	}
	if !round.IsOpen() {
		return nil, nil, apperror.InternalError(fmt.Errorf("current round %d is %s", round.ID, round.State))
	}

	now := e.now()
	if now.Before(round.ReadyAt(e.minRoundDuration)) {
		return nil, nil, apperror.ErrRoundNotReady()
	}

	poolBalance, err := e.pool.BalanceOf(ctx, e.address)
	if err != nil {
		return nil, nil, apperror.ErrPoolCallFailed(fmt.Errorf("pool balance: %w", err))
	}

	participants, err := e.rounds.ListParticipants(ctx, dbTx, round.ID)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("list participants: %w", err))
	}

	handles := make([]domain.Handle, 0, domain.AggregateHandleCount+2*len(participants))
	handles = append(handles, round.TotalDeposits, round.TotalWithdrawals, round.CarryIn)
	for _, p := range participants {
		dep, err := e.operand(ctx, p.Deposit)
		if err != nil {
			return nil, nil, encryptionError(err)
		}
		wd, err := e.operand(ctx, p.Withdraw)
		if err != nil {
			return nil, nil, encryptionError(err)
		}
		handles = append(handles, dep, wd)
	}

	req := &domain.DecryptionRequest{
		ID:          uuid.New(),
		RoundID:     round.ID,
		Handles:     handles,
		Status:      domain.DecryptionStatusPending,
		Attempts:    1,
		RequestedAt: now,
	}
	if err := e.requests.Create(ctx, dbTx, req); err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("persist decryption request: %w", err))
	}

	round.State = domain.RoundStateDecryptionPending
	round.ClosedAt = &now
	round.PoolBalanceAtClose = &poolBalance
	round.DecryptionRequestID = &req.ID
	if err := e.rounds.Update(ctx, dbTx, round); err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("persist round: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	e.log.Info().
		Uint64("round_id", round.ID).
		Str("request_id", req.ID.String()).
		Int("participants", len(participants)).
		Msg("round closed, decryption requested")

	return round, req, nil
}

// ResubmitStalled re-publishes the pending request under the same id once
// it has gone unanswered for the maximum decryption delay.
func (e *Engine) ResubmitStalled(ctx context.Context) (bool, error) {
	round, err := e.rounds.GetCurrent(ctx)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("get current round: %w", err))
	}
	if round == nil || round.State != domain.RoundStateDecryptionPending || round.DecryptionRequestID == nil {
		return false, nil
	}

	req, err := e.requests.Get(ctx, *round.DecryptionRequestID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("get decryption request: %w", err))
	}
	if req == nil || req.Status != domain.DecryptionStatusPending {
		return false, nil
	}

	due := req.RequestedAt.Add(time.Duration(req.Attempts) * e.maxDecryptionDelay)
	if e.now().Before(due) {
		return false, nil
	}

	if err := e.requests.IncrementAttempts(ctx, req.ID); err != nil {
		return false, apperror.InternalError(fmt.Errorf("increment attempts: %w", err))
	}
	req.Attempts++

	if err := e.oracle.RequestDecryption(ctx, req); err != nil {
		return false, apperror.InternalError(fmt.Errorf("republish decryption request: %w", err))
	}

	e.log.Warn().
		Uint64("round_id", round.ID).
		Str("request_id", req.ID.String()).
		Int("attempts", req.Attempts).
		Msg("stalled decryption request resubmitted")
	return true, nil
}

// OnDecryptionDelivered applies the oracle's cleartexts to the pending round.
// A result is applied at most once; anything else is rejected without
// changing state.
func (e *Engine) OnDecryptionDelivered(ctx context.Context, requestID uuid.UUID, cleartexts []uint64) (*domain.SettlementReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dbTx, err := e.tx.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	req, err := e.requests.GetForUpdate(ctx, dbTx, requestID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock decryption request: %w", err))
	}
	if req == nil || req.Status != domain.DecryptionStatusPending {
		return nil, apperror.ErrUnknownOrStaleRequest()
	}

	round, err := e.rounds.GetCurrentForUpdate(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock current round: %w", err))
	}
	if round == nil ||
		round.State != domain.RoundStateDecryptionPending ||
		round.DecryptionRequestID == nil ||
		*round.DecryptionRequestID != requestID {
		return nil, apperror.ErrUnknownOrStaleRequest()
	}

	report, err := e.settle(ctx, dbTx, round, req, cleartexts)
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		e.reversePoolCall(ctx, report.NetFlow)
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	e.log.Info().
		Uint64("round_id", report.RoundID).
		Str("request_id", requestID.String()).
		Int64("net_flow", report.NetFlow).
		Int64("yield", report.Yield).
		Uint64("pool_balance", report.PoolBalanceAfter).
		Msg("round settled")

	return report, nil
}
