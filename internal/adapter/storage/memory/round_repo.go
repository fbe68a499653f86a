package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"confidential-lending/internal/core/domain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
)

// RoundRepo implements ports.RoundRepository.
type RoundRepo struct {
	store *Store
}

func (r *RoundRepo) Create(_ context.Context, tx pgx.Tx, round *domain.Round) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.data.rounds[round.ID]; exists {
		return fmt.Errorf("round %d already exists", round.ID)
	}
	id := round.ID
	r.store.record(tx, func(st *state) { delete(st.rounds, id) })
	r.store.data.rounds[round.ID] = *round
	return nil
}

func (r *RoundRepo) Update(_ context.Context, tx pgx.Tx, round *domain.Round) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	prev, exists := r.store.data.rounds[round.ID]
	if !exists {
		return fmt.Errorf("round %d not found", round.ID)
	}
	r.store.record(tx, func(st *state) { st.rounds[prev.ID] = prev })
	r.store.data.rounds[round.ID] = *round
	return nil
}

func (r *RoundRepo) GetByID(_ context.Context, id uint64) (*domain.Round, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	round, ok := r.store.data.rounds[id]
	if !ok {
		return nil, nil
	}
	return &round, nil
}

func (r *RoundRepo) GetCurrent(_ context.Context) (*domain.Round, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var latest *domain.Round
	for _, round := range r.store.data.rounds {
		if latest == nil || round.ID > latest.ID {
			round := round
			latest = &round
		}
	}
	return latest, nil
}

func (r *RoundRepo) GetCurrentForUpdate(ctx context.Context, _ pgx.Tx) (*domain.Round, error) {
	return r.GetCurrent(ctx)
}

// List returns rounds newest first.
func (r *RoundRepo) List(_ context.Context, limit, offset int) ([]domain.Round, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rounds := make([]domain.Round, 0, len(r.store.data.rounds))
	for _, round := range r.store.data.rounds {
		rounds = append(rounds, round)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].ID > rounds[j].ID })

	if offset >= len(rounds) {
		return []domain.Round{}, nil
	}
	rounds = rounds[offset:]
	if limit > 0 && limit < len(rounds) {
		rounds = rounds[:limit]
	}
	return rounds, nil
}

func (r *RoundRepo) GetParticipantForUpdate(_ context.Context, _ pgx.Tx, roundID uint64, account common.Address) (*domain.Participant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.data.participants[roundID][account]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *RoundRepo) UpsertParticipant(_ context.Context, tx pgx.Tx, p *domain.Participant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ps, ok := r.store.data.participants[p.RoundID]
	if !ok {
		ps = make(map[common.Address]domain.Participant)
		r.store.data.participants[p.RoundID] = ps
	}
	roundID, account := p.RoundID, p.Account
	prev, existed := ps[account]
	r.store.record(tx, func(st *state) {
		if existed {
			st.participants[roundID][account] = prev
			return
		}
		delete(st.participants[roundID], account)
		if len(st.participants[roundID]) == 0 {
			delete(st.participants, roundID)
		}
	})
	ps[p.Account] = *p
	return nil
}

func (r *RoundRepo) ListParticipants(_ context.Context, _ pgx.Tx, roundID uint64) ([]domain.Participant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ps := make([]domain.Participant, 0, len(r.store.data.participants[roundID]))
	for _, p := range r.store.data.participants[roundID] {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		return bytes.Compare(ps[i].Account.Bytes(), ps[j].Account.Bytes()) < 0
	})
	return ps, nil
}
