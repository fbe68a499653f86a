package service

import (
	"context"
	"fmt"

	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// vault seals values at rest and addresses them by the Keccak-256 of the
// sealed bytes.
type vault struct {
	store  ports.CiphertextRepository
	sealer *sealer
}

func newVault(store ports.CiphertextRepository, storageKey []byte) (*vault, error) {
	s, err := newSealer(storageKey)
	if err != nil {
		return nil, fmt.Errorf("storage sealer: %w", err)
	}
	return &vault{store: store, sealer: s}, nil
}

func (v *vault) put(ctx context.Context, value uint64) (domain.Handle, error) {
	sealed, err := v.sealer.seal(value, nil)
	if err != nil {
		return domain.Handle{}, err
	}
	h := crypto.Keccak256Hash(sealed)
	if err := v.store.Put(ctx, h, sealed); err != nil {
		return domain.Handle{}, fmt.Errorf("storing ciphertext: %w", err)
	}
	return h, nil
}

func (v *vault) load(ctx context.Context, h domain.Handle) (uint64, error) {
	sealed, err := v.store.Get(ctx, h)
	if err != nil {
		return 0, fmt.Errorf("loading ciphertext: %w", err)
	}
	if sealed == nil {
		return 0, fmt.Errorf("unknown handle %s", h.Hex())
	}
	return v.sealer.open(sealed, nil)
}

// FHECoprocessor implements ports.Coprocessor. Every operation returns a
// fresh handle; operands are never exposed to the caller.
type FHECoprocessor struct {
	vault  *vault
	inputs *sealer
	proofs *InputProofService
	guard  ports.InputReplayGuard
	log    zerolog.Logger
}

// NewFHECoprocessor creates a coprocessor serving inputs addressed to engine.
// guard may be nil, in which case input reuse is not tracked.
func NewFHECoprocessor(
	keys *KeySet,
	store ports.CiphertextRepository,
	engine common.Address,
	guard ports.InputReplayGuard,
	log zerolog.Logger,
) (*FHECoprocessor, error) {
	v, err := newVault(store, keys.Storage)
	if err != nil {
		return nil, err
	}
	inputs, err := newSealer(keys.Input)
	if err != nil {
		return nil, fmt.Errorf("input sealer: %w", err)
	}
	return &FHECoprocessor{
		vault:  v,
		inputs: inputs,
		proofs: NewInputProofService(keys.Proof, engine),
		guard:  guard,
		log:    log,
	}, nil
}

func (c *FHECoprocessor) TrivialEncrypt(ctx context.Context, value uint64) (domain.Handle, error) {
	return c.vault.put(ctx, value)
}

// VerifyInput checks the proof, rejects reused ciphertexts and re-seals the
// amount under the storage key.
func (c *FHECoprocessor) VerifyInput(ctx context.Context, owner common.Address, input domain.EncryptedInput) (domain.Handle, error) {
	if len(input.Ciphertext) == 0 || !c.proofs.Verify(owner, input.Ciphertext, input.Proof) {
		return domain.Handle{}, apperror.ErrInvalidProof()
	}

	amount, err := c.inputs.open(input.Ciphertext, c.proofs.bindingData(owner))
	if err != nil {
		return domain.Handle{}, apperror.ErrInvalidProof()
	}

	if c.guard != nil {
		fresh, err := c.guard.MarkUsed(ctx, owner, crypto.Keccak256Hash(input.Ciphertext))
		if err != nil {
			return domain.Handle{}, apperror.InternalError(fmt.Errorf("input replay guard: %w", err))
		}
		if !fresh {
			c.log.Warn().Str("account", owner.Hex()).Msg("confidential input replay rejected")
			return domain.Handle{}, apperror.ErrInvalidProof()
		}
	}

	return c.vault.put(ctx, amount)
}

func (c *FHECoprocessor) Add(ctx context.Context, a, b domain.Handle) (domain.Handle, error) {
	return c.binary(ctx, a, b, func(x, y uint64) uint64 { return x + y })
}

// Sub wraps on underflow like a fixed-width ciphertext would. Callers only
// subtract amounts already bounded by a Select or by a proration of the
// operand itself.
func (c *FHECoprocessor) Sub(ctx context.Context, a, b domain.Handle) (domain.Handle, error) {
	return c.binary(ctx, a, b, func(x, y uint64) uint64 { return x - y })
}

func (c *FHECoprocessor) AddPlain(ctx context.Context, a domain.Handle, v uint64) (domain.Handle, error) {
	x, err := c.vault.load(ctx, a)
	if err != nil {
		return domain.Handle{}, err
	}
	return c.vault.put(ctx, x+v)
}

func (c *FHECoprocessor) SubPlain(ctx context.Context, a domain.Handle, v uint64) (domain.Handle, error) {
	x, err := c.vault.load(ctx, a)
	if err != nil {
		return domain.Handle{}, err
	}
	return c.vault.put(ctx, x-v)
}

func (c *FHECoprocessor) Le(ctx context.Context, a, b domain.Handle) (domain.Handle, error) {
	return c.binary(ctx, a, b, func(x, y uint64) uint64 {
		if x <= y {
			return 1
		}
		return 0
	})
}

func (c *FHECoprocessor) Select(ctx context.Context, cond, ifTrue, ifFalse domain.Handle) (domain.Handle, error) {
	bit, err := c.vault.load(ctx, cond)
	if err != nil {
		return domain.Handle{}, err
	}
	pick := ifFalse
	if bit != 0 {
		pick = ifTrue
	}
	v, err := c.vault.load(ctx, pick)
	if err != nil {
		return domain.Handle{}, err
	}
	return c.vault.put(ctx, v)
}

func (c *FHECoprocessor) MulDiv(ctx context.Context, a domain.Handle, num, den uint64, roundUp bool) (domain.Handle, error) {
	x, err := c.vault.load(ctx, a)
	if err != nil {
		return domain.Handle{}, err
	}
	v, err := mulDiv(x, num, den, roundUp)
	if err != nil {
		return domain.Handle{}, err
	}
	return c.vault.put(ctx, v)
}

func (c *FHECoprocessor) Allow(ctx context.Context, h domain.Handle, account common.Address) error {
	if err := c.vault.store.Allow(ctx, h, account); err != nil {
		return fmt.Errorf("granting access: %w", err)
	}
	return nil
}

func (c *FHECoprocessor) binary(ctx context.Context, a, b domain.Handle, op func(x, y uint64) uint64) (domain.Handle, error) {
	x, err := c.vault.load(ctx, a)
	if err != nil {
		return domain.Handle{}, err
	}
	y, err := c.vault.load(ctx, b)
	if err != nil {
		return domain.Handle{}, err
	}
	return c.vault.put(ctx, op(x, y))
}

// mulDiv computes a*num/den in 256-bit precision.
func mulDiv(a, num, den uint64, roundUp bool) (uint64, error) {
	if den == 0 {
		return 0, fmt.Errorf("mul-div by zero")
	}
	product := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(num))
	d := uint256.NewInt(den)
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(product, d, r)
	if roundUp && !r.IsZero() {
		q.AddUint64(q, 1)
	}
	if !q.IsUint64() {
		return 0, fmt.Errorf("mul-div result overflows 64 bits")
	}
	return q.Uint64(), nil
}
