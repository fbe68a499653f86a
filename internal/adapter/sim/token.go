// Package sim provides in-process stand-ins for the underlying token and
// the lending pool.
package sim

import (
	"context"
	"fmt"
	"sync"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// Token is an ERC-20 style ledger with allowances.
type Token struct {
	mu         sync.Mutex
	address    common.Address
	balances   map[common.Address]uint64
	allowances map[common.Address]map[common.Address]uint64
}

// NewToken creates an empty token deployed at address.
func NewToken(address common.Address) *Token {
	return &Token{
		address:    address,
		balances:   make(map[common.Address]uint64),
		allowances: make(map[common.Address]map[common.Address]uint64),
	}
}

// Address returns the token contract address.
func (t *Token) Address() common.Address {
	return t.address
}

// Mint credits amount to who.
func (t *Token) Mint(who common.Address, amount uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.balances[who] += amount
}

func (t *Token) Transfer(_ context.Context, from, to common.Address, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.move(from, to, amount)
}

func (t *Token) TransferFrom(_ context.Context, spender, from, to common.Address, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	allowed := t.allowances[from][spender]
	if allowed < amount {
		return fmt.Errorf("%w: %s allows %s %d, need %d", domain.ErrInsufficientAllowance, from.Hex(), spender.Hex(), allowed, amount)
	}
	if err := t.move(from, to, amount); err != nil {
		return err
	}
	t.allowances[from][spender] = allowed - amount
	return nil
}

func (t *Token) Approve(_ context.Context, owner, spender common.Address, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.allowances[owner]
	if !ok {
		m = make(map[common.Address]uint64)
		t.allowances[owner] = m
	}
	m[spender] = amount
	return nil
}

func (t *Token) Allowance(_ context.Context, owner, spender common.Address) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.allowances[owner][spender], nil
}

func (t *Token) BalanceOf(_ context.Context, who common.Address) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.balances[who], nil
}

func (t *Token) move(from, to common.Address, amount uint64) error {
	if t.balances[from] < amount {
		return fmt.Errorf("%w: %s holds %d, need %d", domain.ErrInsufficientFunds, from.Hex(), t.balances[from], amount)
	}
	t.balances[from] -= amount
	t.balances[to] += amount
	return nil
}

func (t *Token) burn(who common.Address, amount uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if amount > t.balances[who] {
		amount = t.balances[who]
	}
	t.balances[who] -= amount
}
