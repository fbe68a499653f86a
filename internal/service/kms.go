package service

import (
	"context"
	"fmt"

	"confidential-lending/internal/core/domain"
	"confidential-lending/internal/core/ports"
	"confidential-lending/pkg/apperror"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// KMS is the only component that turns handles back into plaintext. The
// engine gets the comparison bit, owners get their own balances through
// Reveal, and only the oracle relayer holds Decrypt.
type KMS struct {
	vault *vault
	log   zerolog.Logger
}

// NewKMS creates a KMS over the same ciphertext store as the coprocessor.
func NewKMS(keys *KeySet, store ports.CiphertextRepository, log zerolog.Logger) (*KMS, error) {
	v, err := newVault(store, keys.Storage)
	if err != nil {
		return nil, err
	}
	return &KMS{vault: v, log: log}, nil
}

// IsAtLeast reveals whether the value behind h is >= amount and nothing else.
func (k *KMS) IsAtLeast(ctx context.Context, h domain.Handle, amount uint64) (bool, error) {
	v, err := k.vault.load(ctx, h)
	if err != nil {
		return false, apperror.ErrEncryptionFailure(err)
	}
	return v >= amount, nil
}

// Reveal returns the value behind h if requester is on its ACL.
func (k *KMS) Reveal(ctx context.Context, requester common.Address, h domain.Handle) (uint64, error) {
	ok, err := k.vault.store.IsAllowed(ctx, h, requester)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("checking acl: %w", err))
	}
	if !ok {
		return 0, apperror.ErrForbidden()
	}
	v, err := k.vault.load(ctx, h)
	if err != nil {
		return 0, apperror.ErrEncryptionFailure(err)
	}
	return v, nil
}

// Decrypt returns the cleartexts behind handles, in order.
func (k *KMS) Decrypt(ctx context.Context, handles []domain.Handle) ([]uint64, error) {
	out := make([]uint64, len(handles))
	for i, h := range handles {
		v, err := k.vault.load(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("decrypting handle %d: %w", i, err)
		}
		out[i] = v
	}
	k.log.Debug().Int("handles", len(handles)).Msg("threshold decryption served")
	return out, nil
}
