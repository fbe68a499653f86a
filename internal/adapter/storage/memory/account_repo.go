package memory

import (
	"bytes"
	"context"
	"sort"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	store *Store
}

func (r *AccountRepo) Get(_ context.Context, owner common.Address) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.data.accounts[owner]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AccountRepo) GetForUpdate(ctx context.Context, _ pgx.Tx, owner common.Address) (*domain.Account, error) {
	return r.Get(ctx, owner)
}

func (r *AccountRepo) Upsert(_ context.Context, tx pgx.Tx, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	owner := account.Owner
	prev, existed := r.store.data.accounts[owner]
	r.store.record(tx, func(st *state) {
		if existed {
			st.accounts[owner] = prev
		} else {
			delete(st.accounts, owner)
		}
	})
	r.store.data.accounts[account.Owner] = *account
	return nil
}

func (r *AccountRepo) ListPoolHolders(_ context.Context, _ pgx.Tx) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var holders []domain.Account
	for _, a := range r.store.data.accounts {
		if a.HasPoolPosition() {
			holders = append(holders, a)
		}
	}
	sort.Slice(holders, func(i, j int) bool {
		return bytes.Compare(holders[i].Owner.Bytes(), holders[j].Owner.Bytes()) < 0
	})
	return holders, nil
}
