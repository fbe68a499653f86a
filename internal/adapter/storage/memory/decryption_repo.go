package memory

import (
	"context"
	"fmt"
	"time"

	"confidential-lending/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DecryptionRepo implements ports.DecryptionRequestRepository.
type DecryptionRepo struct {
	store *Store
}

func (r *DecryptionRepo) Create(_ context.Context, tx pgx.Tx, req *domain.DecryptionRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.data.requests[req.ID]; exists {
		return fmt.Errorf("decryption request %s already exists", req.ID)
	}
	cp := *req
	cp.Handles = append([]domain.Handle(nil), req.Handles...)
	r.store.record(tx, func(st *state) { delete(st.requests, cp.ID) })
	r.store.data.requests[req.ID] = cp
	return nil
}

func (r *DecryptionRepo) Get(_ context.Context, id uuid.UUID) (*domain.DecryptionRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	req, ok := r.store.data.requests[id]
	if !ok {
		return nil, nil
	}
	req.Handles = append([]domain.Handle(nil), req.Handles...)
	return &req, nil
}

func (r *DecryptionRepo) GetForUpdate(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*domain.DecryptionRequest, error) {
	return r.Get(ctx, id)
}

func (r *DecryptionRepo) MarkDelivered(_ context.Context, tx pgx.Tx, id uuid.UUID, deliveredAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	req, ok := r.store.data.requests[id]
	if !ok {
		return fmt.Errorf("decryption request %s not found", id)
	}
	prev := req
	r.store.record(tx, func(st *state) { st.requests[id] = prev })
	req.Status = domain.DecryptionStatusDelivered
	req.DeliveredAt = &deliveredAt
	r.store.data.requests[id] = req
	return nil
}

func (r *DecryptionRepo) IncrementAttempts(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	req, ok := r.store.data.requests[id]
	if !ok {
		return fmt.Errorf("decryption request %s not found", id)
	}
	req.Attempts++
	r.store.data.requests[id] = req
	return nil
}
