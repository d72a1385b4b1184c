package repository

import (
	"context"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/idx"
	"github.com/BruksfildServices01/client-onboarding/internal/models"
)

// ClientMemoryRepository keeps clients in process memory. Backs the memory
// store driver for local runs and stands in for the hosted store in tests.
type ClientMemoryRepository struct {
	mu      sync.Mutex
	clients []models.Client
	ids     *idx.Generator
	now     func() time.Time
}

func NewClientMemoryRepository() *ClientMemoryRepository {
	return &ClientMemoryRepository{
		ids: idx.NewGenerator(),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *ClientMemoryRepository) Insert(
	ctx context.Context,
	in domain.NewClient,
) (*models.Client, error) {

	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("insert client", "", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if n := len(r.clients); n > 0 && !now.After(r.clients[n-1].CreatedAt) {
		now = r.clients[n-1].CreatedAt.Add(time.Microsecond)
	}

	c := models.Client{
		ID:           r.ids.NewAt(now),
		Name:         in.Name,
		Email:        in.Email,
		BusinessName: in.BusinessName,
		CreatedAt:    now,
	}
	r.clients = append(r.clients, c)

	return &c, nil
}

func (r *ClientMemoryRepository) ListAll(
	ctx context.Context,
) ([]models.Client, error) {

	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("list clients", "", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Client, len(r.clients))
	copy(out, r.clients)
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*ClientMemoryRepository)(nil)
