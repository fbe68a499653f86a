package sim

import (
	"context"
	"fmt"
	"sync"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// Pool is an Aave-like lending pool. Supplied funds are held in the token
// under the pool's address; yield is injected with AccrueYield.
type Pool struct {
	mu       sync.Mutex
	address  common.Address
	token    *Token
	supplied map[common.Address]uint64
}

// NewPool creates a pool at address over token.
func NewPool(address common.Address, token *Token) *Pool {
	return &Pool{
		address:  address,
		token:    token,
		supplied: make(map[common.Address]uint64),
	}
}

// Address returns the pool contract address.
func (p *Pool) Address() common.Address {
	return p.address
}

func (p *Pool) Supply(ctx context.Context, supplier common.Address, amount uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.token.Transfer(ctx, supplier, p.address, amount); err != nil {
		return fmt.Errorf("supply: %w", err)
	}
	p.supplied[supplier] += amount
	return nil
}

func (p *Pool) Withdraw(ctx context.Context, recipient common.Address, amount uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.supplied[recipient] < amount {
		return fmt.Errorf("withdraw: %w: %s supplied %d, need %d", domain.ErrInsufficientFunds, recipient.Hex(), p.supplied[recipient], amount)
	}
	if err := p.token.Transfer(ctx, p.address, recipient, amount); err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	p.supplied[recipient] -= amount
	return nil
}

func (p *Pool) BalanceOf(_ context.Context, holder common.Address) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.supplied[holder], nil
}

// AccrueYield mints amount into the pool and credits it to holder.
func (p *Pool) AccrueYield(holder common.Address, amount uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.token.Mint(p.address, amount)
	p.supplied[holder] += amount
}

// RealizeLoss removes up to amount from holder's position and returns what
// was removed.
func (p *Pool) RealizeLoss(holder common.Address, amount uint64) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if amount > p.supplied[holder] {
		amount = p.supplied[holder]
	}
	p.supplied[holder] -= amount
	p.token.burn(p.address, amount)
	return amount
}
