package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// InputProofService binds a client ciphertext to the engine and the
// submitting account with HMAC-SHA256.
type InputProofService struct {
	key    []byte
	engine common.Address
}

// NewInputProofService creates a proof service for the given engine address.
func NewInputProofService(key []byte, engine common.Address) *InputProofService {
	return &InputProofService{key: key, engine: engine}
}

// Sign computes the proof for ciphertext submitted by owner.
func (s *InputProofService) Sign(owner common.Address, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(s.bindingData(owner))
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

// Verify checks proof in constant time.
func (s *InputProofService) Verify(owner common.Address, ciphertext, proof []byte) bool {
	return hmac.Equal(s.Sign(owner, ciphertext), proof)
}

// bindingData is engine || owner; also used as AEAD associated data so a
// ciphertext cannot be replayed under another account.
func (s *InputProofService) bindingData(owner common.Address) []byte {
	b := make([]byte, 0, 2*common.AddressLength)
	b = append(b, s.engine.Bytes()...)
	return append(b, owner.Bytes()...)
}

// InputEncryptor is the client-side half: it produces inputs that
// FHECoprocessor.VerifyInput accepts.
type InputEncryptor struct {
	inputs *sealer
	proofs *InputProofService
}

// NewInputEncryptor creates an encryptor for inputs addressed to engine.
func NewInputEncryptor(keys *KeySet, engine common.Address) (*InputEncryptor, error) {
	inputs, err := newSealer(keys.Input)
	if err != nil {
		return nil, fmt.Errorf("input sealer: %w", err)
	}
	return &InputEncryptor{
		inputs: inputs,
		proofs: NewInputProofService(keys.Proof, engine),
	}, nil
}

// Encrypt seals amount for owner and attaches the proof.
func (e *InputEncryptor) Encrypt(owner common.Address, amount uint64) (domain.EncryptedInput, error) {
	ct, err := e.inputs.seal(amount, e.proofs.bindingData(owner))
	if err != nil {
		return domain.EncryptedInput{}, fmt.Errorf("sealing input: %w", err)
	}
	return domain.EncryptedInput{
		Ciphertext: ct,
		Proof:      e.proofs.Sign(owner, ct),
	}, nil
}
