package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/client-onboarding/internal/db"
	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/idx"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func TestClientGormRepository_InsertAssignsIDAndTimestamp(t *testing.T) {
	repo := NewClientGormRepository(newTestDB(t))

	c, err := repo.Insert(context.Background(), domain.NewClient{
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		BusinessName: "Analytical Engines",
	})
	require.NoError(t, err)

	require.True(t, idx.Valid(c.ID))
	require.False(t, c.CreatedAt.IsZero())
	require.Equal(t, "Ada Lovelace", c.Name)
	require.Equal(t, "ada@example.com", c.Email)
	require.Equal(t, "Analytical Engines", c.BusinessName)
}

func TestClientGormRepository_ListAllOrdersByCreation(t *testing.T) {
	repo := NewClientGormRepository(newTestDB(t))
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	var ids []string
	for _, n := range names {
		c, err := repo.Insert(ctx, domain.NewClient{Name: n, Email: n + "@example.com", BusinessName: n + " ltd"})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	clients, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 3)

	for i, c := range clients {
		require.Equal(t, names[i], c.Name)
		require.Equal(t, ids[i], c.ID)
		if i > 0 {
			require.False(t, c.CreatedAt.Before(clients[i-1].CreatedAt))
		}
	}
}

func TestClientGormRepository_ListAllEmpty(t *testing.T) {
	repo := NewClientGormRepository(newTestDB(t))

	clients, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, clients)
	require.Empty(t, clients)
}

func TestClientGormRepository_StoreFailureIsWrapped(t *testing.T) {
	gdb := newTestDB(t)
	require.NoError(t, gdb.Migrator().DropTable("clients"))
	repo := NewClientGormRepository(gdb)

	_, err := repo.Insert(context.Background(), domain.NewClient{Name: "a", Email: "a@b.c", BusinessName: "c"})
	require.Error(t, err)
	require.True(t, domain.IsStoreError(err))
	require.Contains(t, domain.StoreMessage(err), "clients")

	_, err = repo.ListAll(context.Background())
	require.True(t, domain.IsStoreError(err))
}

func TestPgMessage(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"clients_pkey\""}
	require.Equal(t, pgErr.Message, pgMessage(errors.Join(errors.New("wrapped"), pgErr)))
	require.Equal(t, "plain", pgMessage(errors.New("plain")))
}
