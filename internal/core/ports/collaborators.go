package ports

import (
	"context"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// Token is the underlying fungible asset. Failures wrap
// domain.ErrInsufficientAllowance or domain.ErrInsufficientFunds where applicable.
type Token interface {
	Transfer(ctx context.Context, from, to common.Address, amount uint64) error
	TransferFrom(ctx context.Context, spender, from, to common.Address, amount uint64) error
	Approve(ctx context.Context, owner, spender common.Address, amount uint64) error
	Allowance(ctx context.Context, owner, spender common.Address) (uint64, error)
	BalanceOf(ctx context.Context, who common.Address) (uint64, error)
}

// LendingPool is the external yield-bearing pool adapter.
type LendingPool interface {
	// Supply moves amount of the underlying from supplier into the pool.
	Supply(ctx context.Context, supplier common.Address, amount uint64) error
	// Withdraw returns amount of the underlying from the pool to recipient.
	Withdraw(ctx context.Context, recipient common.Address, amount uint64) error
	// BalanceOf reports holder's claim including accrued yield.
	BalanceOf(ctx context.Context, holder common.Address) (uint64, error)
}

// DecryptionOracle accepts fire-and-forget decryption requests. Results come
// back through DecryptionCallback.
type DecryptionOracle interface {
	RequestDecryption(ctx context.Context, req *domain.DecryptionRequest) error
}
