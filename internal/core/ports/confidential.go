package ports

import (
	"context"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// Coprocessor evaluates homomorphic operations over handles. None of its
// methods return plaintext.
type Coprocessor interface {
	TrivialEncrypt(ctx context.Context, value uint64) (domain.Handle, error)
	// VerifyInput checks the input proof for owner and imports the ciphertext.
	VerifyInput(ctx context.Context, owner common.Address, input domain.EncryptedInput) (domain.Handle, error)
	Add(ctx context.Context, a, b domain.Handle) (domain.Handle, error)
	Sub(ctx context.Context, a, b domain.Handle) (domain.Handle, error)
	AddPlain(ctx context.Context, a domain.Handle, v uint64) (domain.Handle, error)
	SubPlain(ctx context.Context, a domain.Handle, v uint64) (domain.Handle, error)
	// Le returns an encrypted boolean (1 or 0) for a <= b.
	Le(ctx context.Context, a, b domain.Handle) (domain.Handle, error)
	Select(ctx context.Context, cond, ifTrue, ifFalse domain.Handle) (domain.Handle, error)
	// MulDiv computes a*num/den rounded down, or up when roundUp is set.
	MulDiv(ctx context.Context, a domain.Handle, num, den uint64, roundUp bool) (domain.Handle, error)
	// Allow grants account read access to h through the reveal channel.
	Allow(ctx context.Context, h domain.Handle, account common.Address) error
}

// BalanceComparator reveals a single comparison bit against a plaintext bound.
type BalanceComparator interface {
	IsAtLeast(ctx context.Context, h domain.Handle, amount uint64) (bool, error)
}

// Reencryptor serves reads of a handle to an account on its ACL.
type Reencryptor interface {
	Reveal(ctx context.Context, requester common.Address, h domain.Handle) (uint64, error)
}

// ThresholdDecryptor is the decryption capability held by the oracle relayer.
type ThresholdDecryptor interface {
	Decrypt(ctx context.Context, handles []domain.Handle) ([]uint64, error)
}

// InputReplayGuard rejects confidential inputs that were already consumed.
type InputReplayGuard interface {
	// MarkUsed returns true if the input digest is new for owner.
	MarkUsed(ctx context.Context, owner common.Address, digest common.Hash) (bool, error)
}
