package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// Handle is an opaque reference to a ciphertext held by the confidential
// coprocessor. The engine stores and combines handles; it never sees the
// value behind one.
type Handle = common.Hash

// EncryptedInput is a client-encrypted amount plus the proof binding it to
// the engine and the submitting account.
type EncryptedInput struct {
	Ciphertext []byte `json:"ciphertext"`
	Proof      []byte `json:"proof"`
}

// IsZeroHandle reports whether h has never been assigned.
func IsZeroHandle(h Handle) bool {
	return h == (Handle{})
}
