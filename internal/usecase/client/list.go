package client

import (
	"context"
	"slices"

	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/dto"
)

type ListClients struct {
	repo domain.Repository
}

func NewListClients(repo domain.Repository) *ListClients {
	return &ListClients{repo: repo}
}

// Execute returns every client, oldest first.
func (uc *ListClients) Execute(ctx context.Context) ([]dto.ClientListDTO, error) {
	clients, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ClientListDTO, 0, len(clients))
	for _, c := range clients {
		out = append(out, dto.ClientListDTO{
			ID:           c.ID,
			Name:         c.Name,
			Email:        c.Email,
			BusinessName: c.BusinessName,
			CreatedAt:    c.CreatedAt,
		})
	}

	slices.SortStableFunc(out, func(a, b dto.ClientListDTO) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return out, nil
}
