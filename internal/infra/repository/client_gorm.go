package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/models"
)

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

func (r *ClientGormRepository) Insert(
	ctx context.Context,
	in domain.NewClient,
) (*models.Client, error) {

	client := models.Client{
		Name:         in.Name,
		Email:        in.Email,
		BusinessName: in.BusinessName,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, domain.NewStoreError("insert client", pgMessage(err), err)
	}

	return &client, nil
}

func (r *ClientGormRepository) ListAll(
	ctx context.Context,
) ([]models.Client, error) {

	clients := make([]models.Client, 0)
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&clients).Error; err != nil {
		return nil, domain.NewStoreError("list clients", pgMessage(err), err)
	}

	return clients, nil
}

// pgMessage prefers the server's own message over the driver's wrapped text.
func pgMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

// Compile-time check
var _ domain.Repository = (*ClientGormRepository)(nil)
