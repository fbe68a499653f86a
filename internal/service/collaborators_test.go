package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"confidential-lending/internal/adapter/storage/memory"
	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports/mocks"
	"confidential-lending/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type collaboratorTestDeps struct {
	engine *Engine
	token  *mocks.MockToken
	pool   *mocks.MockLendingPool
	oracle *mocks.MockDecryptionOracle
	ctrl   *gomock.Controller
}

func setupWithMockCollaborators(t *testing.T) *collaboratorTestDeps {
	ctrl := gomock.NewController(t)
	ks, err := DeriveKeySet(testMasterKey)
	require.NoError(t, err)
	store := memory.NewStore()
	fhe, err := NewFHECoprocessor(ks, store.Ciphertexts(), testEngine, nil, zerolog.Nop())
	require.NoError(t, err)
	kms, err := NewKMS(ks, store.Ciphertexts(), zerolog.Nop())
	require.NoError(t, err)

	d := &collaboratorTestDeps{
		token:  mocks.NewMockToken(ctrl),
		pool:   mocks.NewMockLendingPool(ctrl),
		oracle: mocks.NewMockDecryptionOracle(ctrl),
		ctrl:   ctrl,
	}
	d.engine = NewEngine(testEngine, EngineDeps{
		Accounts:    store.Accounts(),
		Rounds:      store.Rounds(),
		Requests:    store.DecryptionRequests(),
		Transactor:  store.Transactor(),
		Coprocessor: fhe,
		Comparator:  kms,
		Reencryptor: kms,
		Token:       d.token,
		Pool:        d.pool,
		Oracle:      d.oracle,
	}, 0, time.Hour, zerolog.Nop())
	return d
}

func TestEngine_Bootstrap_PoolUnavailable(t *testing.T) {
	d := setupWithMockCollaborators(t)
	ctx := context.Background()

	d.pool.EXPECT().BalanceOf(ctx, testEngine).Return(uint64(0), errors.New("rpc timeout"))

	err := d.engine.Bootstrap(ctx)
	assert.True(t, apperror.HasCode(err, apperror.CodePoolCallFailed))

	_, err = d.engine.CurrentRound(ctx)
	assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))
}

func TestEngine_Wrap_MapsTokenErrors(t *testing.T) {
	d := setupWithMockCollaborators(t)
	ctx := context.Background()

	d.token.EXPECT().
		TransferFrom(ctx, testEngine, testAlice, testEngine, uint64(10)).
		Return(fmt.Errorf("token: %w", domain.ErrInsufficientAllowance))
	_, err := d.engine.Wrap(ctx, testAlice, 10)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientAllowance))

	d.token.EXPECT().
		TransferFrom(ctx, testEngine, testAlice, testEngine, uint64(10)).
		Return(errors.New("reverted"))
	_, err = d.engine.Wrap(ctx, testAlice, 10)
	assert.True(t, apperror.HasCode(err, apperror.CodeTransferFailed))
}

func TestEngine_Unwrap_TransferFailedRollsBack(t *testing.T) {
	d := setupWithMockCollaborators(t)
	ctx := context.Background()

	d.token.EXPECT().TransferFrom(ctx, testEngine, testAlice, testEngine, uint64(100)).Return(nil)
	_, err := d.engine.Wrap(ctx, testAlice, 100)
	require.NoError(t, err)

	d.token.EXPECT().Transfer(ctx, testEngine, testAlice, uint64(40)).Return(errors.New("reverted"))
	_, err = d.engine.Unwrap(ctx, testAlice, 40)
	assert.True(t, apperror.HasCode(err, apperror.CodeTransferFailed))

	b, err := d.engine.RevealBalance(ctx, testAlice, testAlice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), b.Wrapped)
}

func TestEngine_Settle_BalanceReadFailureReversesPoolCall(t *testing.T) {
	d := setupWithMockCollaborators(t)
	ctx := context.Background()

	d.pool.EXPECT().BalanceOf(ctx, testEngine).Return(uint64(0), nil)
	require.NoError(t, d.engine.Bootstrap(ctx))

	d.token.EXPECT().TransferFrom(ctx, testEngine, testAlice, testEngine, uint64(100)).Return(nil)
	_, err := d.engine.Wrap(ctx, testAlice, 100)
	require.NoError(t, err)

	ks, _ := DeriveKeySet(testMasterKey)
	inputs, _ := NewInputEncryptor(ks, testEngine)
	in, _ := inputs.Encrypt(testAlice, 100)
	_, err = d.engine.SubmitDeposit(ctx, testAlice, in)
	require.NoError(t, err)

	var req *domain.DecryptionRequest
	d.pool.EXPECT().BalanceOf(ctx, testEngine).Return(uint64(0), nil)
	d.oracle.EXPECT().RequestDecryption(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, r *domain.DecryptionRequest) error {
			req = r
			return nil
		})
	_, err = d.engine.AdvanceRound(ctx)
	require.NoError(t, err)
	require.NotNil(t, req)

	gomock.InOrder(
		d.pool.EXPECT().Supply(ctx, testEngine, uint64(100)).Return(nil),
		d.pool.EXPECT().BalanceOf(ctx, testEngine).Return(uint64(0), errors.New("rpc timeout")),
		d.pool.EXPECT().Withdraw(ctx, testEngine, uint64(100)).Return(nil),
	)
	_, err = d.engine.OnDecryptionDelivered(ctx, req.ID, []uint64{100, 0, 0, 100, 0})
	assert.True(t, apperror.HasCode(err, apperror.CodePoolCallFailed))

	r, err := d.engine.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoundStateDecryptionPending, r.State)
}
