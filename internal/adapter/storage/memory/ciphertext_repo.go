package memory

import (
	"context"
	"sync"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
)

// CiphertextRepo implements ports.CiphertextRepository. It is not part of
// the transactional state.
type CiphertextRepo struct {
	mu          sync.RWMutex
	ciphertexts map[domain.Handle][]byte
	acl         map[domain.Handle]map[common.Address]struct{}
}

func newCiphertextRepo() *CiphertextRepo {
	return &CiphertextRepo{
		ciphertexts: make(map[domain.Handle][]byte),
		acl:         make(map[domain.Handle]map[common.Address]struct{}),
	}
}

func (r *CiphertextRepo) Put(_ context.Context, handle domain.Handle, sealed []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ciphertexts[handle] = append([]byte(nil), sealed...)
	return nil
}

func (r *CiphertextRepo) Get(_ context.Context, handle domain.Handle) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sealed, ok := r.ciphertexts[handle]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), sealed...), nil
}

func (r *CiphertextRepo) Allow(_ context.Context, handle domain.Handle, account common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.acl[handle]
	if !ok {
		m = make(map[common.Address]struct{})
		r.acl[handle] = m
	}
	m[account] = struct{}{}
	return nil
}

func (r *CiphertextRepo) IsAllowed(_ context.Context, handle domain.Handle, account common.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.acl[handle][account]
	return ok, nil
}
