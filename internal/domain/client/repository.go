package client

import (
	"context"

	"github.com/BruksfildServices01/client-onboarding/internal/models"
)

// NewClient carries the caller-supplied fields of an insert. ID and CreatedAt
// are assigned by the store.
type NewClient struct {
	Name         string
	Email        string
	BusinessName string
}

type Repository interface {
	Insert(ctx context.Context, in NewClient) (*models.Client, error)

	// ListAll returns every client ordered by created_at ascending.
	ListAll(ctx context.Context) ([]models.Client, error)
}

type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Notifier sends one transactional email and returns the provider's message id.
type Notifier interface {
	Send(ctx context.Context, email Email) (string, error)
}
