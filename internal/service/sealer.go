package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// HKDF info labels for the coprocessor's derived keys.
const (
	keyInfoStorage = "confidential-lending/v1/storage"
	keyInfoInput   = "confidential-lending/v1/input"
	keyInfoProof   = "confidential-lending/v1/proof"
)

// KeySet holds the keys derived from the coprocessor master key.
type KeySet struct {
	Storage []byte // seals ciphertexts at rest
	Input   []byte // seals client inputs in transit
	Proof   []byte // authenticates client inputs
}

// DeriveKeySet expands a 64-character hex master key into purpose-bound keys.
func DeriveKeySet(masterHex string) (*KeySet, error) {
	master, err := hex.DecodeString(masterHex)
	if err != nil {
		return nil, fmt.Errorf("decoding master key: %w", err)
	}
	if len(master) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes, got %d", len(master))
	}

	derive := func(info string) ([]byte, error) {
		key := make([]byte, 32)
		if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), key); err != nil {
			return nil, fmt.Errorf("deriving %s key: %w", info, err)
		}
		return key, nil
	}

	ks := &KeySet{}
	if ks.Storage, err = derive(keyInfoStorage); err != nil {
		return nil, err
	}
	if ks.Input, err = derive(keyInfoInput); err != nil {
		return nil, err
	}
	if ks.Proof, err = derive(keyInfoProof); err != nil {
		return nil, err
	}
	return ks, nil
}

// sealer encrypts 64-bit values with AES-256-GCM.
// Output layout: nonce(12) + ciphertext(8) + tag(16).
type sealer struct {
	aead cipher.AEAD
}

func newSealer(key []byte) (*sealer, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("AES key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &sealer{aead: aesGCM}, nil
}

func (s *sealer) seal(v uint64, aad []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	var plain [8]byte
	binary.BigEndian.PutUint64(plain[:], v)
	return s.aead.Seal(nonce, nonce, plain[:], aad), nil
}

func (s *sealer) open(sealed []byte, aad []byte) (uint64, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return 0, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plain, err := s.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return 0, fmt.Errorf("decrypting: %w", err)
	}
	if len(plain) != 8 {
		return 0, fmt.Errorf("unexpected plaintext length %d", len(plain))
	}

	return binary.BigEndian.Uint64(plain), nil
}
