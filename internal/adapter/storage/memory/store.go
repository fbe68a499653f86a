// Package memory provides in-process repositories for local runs and tests.
// Writes made inside a transaction are journaled and undone on Rollback.
package memory

import (
	"context"
	"sync"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type state struct {
	accounts     map[common.Address]domain.Account
	rounds       map[uint64]domain.Round
	participants map[uint64]map[common.Address]domain.Participant
	requests     map[uuid.UUID]domain.DecryptionRequest
}

func newState() *state {
	return &state{
		accounts:     make(map[common.Address]domain.Account),
		rounds:       make(map[uint64]domain.Round),
		participants: make(map[uint64]map[common.Address]domain.Participant),
		requests:     make(map[uuid.UUID]domain.DecryptionRequest),
	}
}

// Store holds the ledger state shared by the memory repositories.
type Store struct {
	mu   sync.RWMutex
	data *state

	txMu sync.Mutex // one writer transaction at a time

	ciphertexts *CiphertextRepo
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		data:        newState(),
		ciphertexts: newCiphertextRepo(),
	}
}

func (s *Store) Accounts() *AccountRepo { return &AccountRepo{store: s} }
func (s *Store) Rounds() *RoundRepo { return &RoundRepo{store: s} }
func (s *Store) DecryptionRequests() *DecryptionRepo { return &DecryptionRepo{store: s} }
func (s *Store) Ciphertexts() *CiphertextRepo { return s.ciphertexts }
func (s *Store) Transactor() *Transactor { return &Transactor{store: s} }

// Transactor implements ports.DBTransactor.
type Transactor struct {
	store *Store
}

// Begin blocks until no other transaction is open.
func (t *Transactor) Begin(_ context.Context) (pgx.Tx, error) {
	t.store.txMu.Lock()
	return &memTx{store: t.store}, nil
}

// memTx satisfies pgx.Tx; only Commit and Rollback are meaningful.
type memTx struct {
	pgx.Tx
	store *Store
	undo  []func(*state)
	done  bool
}

// record journals the inverse of a write made through tx. The caller holds
// s.mu. Writes outside a transaction are not journaled.
func (s *Store) record(tx pgx.Tx, undo func(*state)) {
	if mt, ok := tx.(*memTx); ok && !mt.done && mt.store == s {
		mt.undo = append(mt.undo, undo)
	}
}

func (tx *memTx) Commit(_ context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true
	tx.undo = nil
	tx.store.txMu.Unlock()
	return nil
}

func (tx *memTx) Rollback(_ context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true
	tx.store.mu.Lock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i](tx.store.data)
	}
	tx.store.mu.Unlock()
	tx.undo = nil
	tx.store.txMu.Unlock()
	return nil
}
