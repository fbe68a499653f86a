package sim

import (
	"context"
	"testing"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice  = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	engine = common.HexToAddress("0x00000000000000000000000000000000000c11a1")
)

func TestToken_TransferFrom_RequiresAllowance(t *testing.T) {
	ctx := context.Background()
	tok := NewToken(common.HexToAddress("0x70"))
	tok.Mint(alice, 1000)

	err := tok.TransferFrom(ctx, engine, alice, engine, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientAllowance)

	require.NoError(t, tok.Approve(ctx, alice, engine, 300))
	require.NoError(t, tok.TransferFrom(ctx, engine, alice, engine, 100))

	left, err := tok.Allowance(ctx, alice, engine)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), left)

	bal, _ := tok.BalanceOf(ctx, engine)
	assert.Equal(t, uint64(100), bal)
	bal, _ = tok.BalanceOf(ctx, alice)
	assert.Equal(t, uint64(900), bal)
}

func TestToken_Transfer_InsufficientFunds(t *testing.T) {
	tok := NewToken(common.HexToAddress("0x70"))
	tok.Mint(alice, 10)

	err := tok.Transfer(context.Background(), alice, engine, 11)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestPool_SupplyWithdrawAndYield(t *testing.T) {
	ctx := context.Background()
	tok := NewToken(common.HexToAddress("0x70"))
	pool := NewPool(common.HexToAddress("0x90"), tok)
	tok.Mint(engine, 1_000_000)

	require.NoError(t, pool.Supply(ctx, engine, 600_000))
	pool.AccrueYield(engine, 6_000)

	bal, err := pool.BalanceOf(ctx, engine)
	require.NoError(t, err)
	assert.Equal(t, uint64(606_000), bal)

	require.NoError(t, pool.Withdraw(ctx, engine, 606_000))
	held, _ := tok.BalanceOf(ctx, engine)
	assert.Equal(t, uint64(1_006_000), held)

	err = pool.Withdraw(ctx, engine, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestPool_RealizeLoss(t *testing.T) {
	ctx := context.Background()
	tok := NewToken(common.HexToAddress("0x70"))
	pool := NewPool(common.HexToAddress("0x90"), tok)
	tok.Mint(engine, 100)
	require.NoError(t, pool.Supply(ctx, engine, 100))

	assert.Equal(t, uint64(30), pool.RealizeLoss(engine, 30))
	assert.Equal(t, uint64(70), pool.RealizeLoss(engine, 500))

	bal, _ := pool.BalanceOf(ctx, engine)
	assert.Equal(t, uint64(0), bal)
}
