package service

import (
	"context"
	"fmt"

	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports"
)

// RewardAllocator prorates a plaintext yield over encrypted claims.
type RewardAllocator struct {
	fhe ports.Coprocessor
}

// NewRewardAllocator creates an allocator on top of the coprocessor.
func NewRewardAllocator(fhe ports.Coprocessor) *RewardAllocator {
	return &RewardAllocator{fhe: fhe}
}

// Allocation is the outcome of one proration.
type Allocation struct {
	// Rewards[i] is the magnitude of claim i's share. Empty when nothing
	// was distributed.
	Rewards []domain.Handle
	// Loss is set when the shares are to be subtracted.
	Loss bool
	// Remainder is the undistributed part, carried to the next settlement.
	Remainder domain.Handle
}

func (a *Allocation) apply(ctx context.Context, fhe ports.Coprocessor, balance domain.Handle, i int) (domain.Handle, error) {
	if a.Loss {
		return fhe.Sub(ctx, balance, a.Rewards[i])
	}
	return fhe.Add(ctx, balance, a.Rewards[i])
}

// Allocate splits distributable over claims summing to total.
//
// A gain gives each claim floor(d*claim/total); a loss takes
// ceil(|d|*claim/total). Either way the remainder is non-negative and is
// returned encrypted, since it is derived from the encrypted claims.
func (r *RewardAllocator) Allocate(ctx context.Context, claims []domain.Handle, distributable int64, total uint64) (*Allocation, error) {
	if total == 0 || len(claims) == 0 || distributable == 0 {
		carried := uint64(0)
		if distributable > 0 {
			carried = uint64(distributable)
		}
		rem, err := r.fhe.TrivialEncrypt(ctx, carried)
		if err != nil {
			return nil, fmt.Errorf("encrypting remainder: %w", err)
		}
		return &Allocation{Remainder: rem}, nil
	}

	loss := distributable < 0
	magnitude := uint64(distributable)
	if loss {
		magnitude = uint64(-distributable)
	}

	rewards := make([]domain.Handle, len(claims))
	sum, err := r.fhe.TrivialEncrypt(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("encrypting zero: %w", err)
	}
	for i, claim := range claims {
		if rewards[i], err = r.fhe.MulDiv(ctx, claim, magnitude, total, loss); err != nil {
			return nil, fmt.Errorf("prorating claim %d: %w", i, err)
		}
		if sum, err = r.fhe.Add(ctx, sum, rewards[i]); err != nil {
			return nil, fmt.Errorf("summing shares: %w", err)
		}
	}

	whole, err := r.fhe.TrivialEncrypt(ctx, magnitude)
	if err != nil {
		return nil, fmt.Errorf("encrypting distributable: %w", err)
	}
	var rem domain.Handle
	if loss {
		rem, err = r.fhe.Sub(ctx, sum, whole)
	} else {
		rem, err = r.fhe.Sub(ctx, whole, sum)
	}
	if err != nil {
		return nil, fmt.Errorf("computing remainder: %w", err)
	}

	return &Allocation{Rewards: rewards, Loss: loss, Remainder: rem}, nil
}
