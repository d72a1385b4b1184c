package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/models"
)

const (
	clientsTable   = "clients"
	clientsColumns = "id,name,email,business_name,created_at"

	defaultPostgRESTTimeout = 15 * time.Second
)

// ClientPostgRESTRepository talks to the hosted clients table through the
// project's REST endpoint (Supabase exposes it under /rest/v1).
type ClientPostgRESTRepository struct {
	client  *postgrest.Client
	timeout time.Duration
}

type clientInsertRow struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	BusinessName string `json:"business_name"`
}

// clientRow is a row as the hosted table returns it. The id column may be
// int8, uuid or text depending on how the table was created, and created_at
// may be timestamp or timestamptz.
type clientRow struct {
	ID           json.RawMessage `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	BusinessName string          `json:"business_name"`
	CreatedAt    string          `json:"created_at"`
}

// NewClientPostgRESTRepository accepts an empty projectURL or key; calls then
// fail at the store and the failure is reported per operation.
func NewClientPostgRESTRepository(projectURL, key string) *ClientPostgRESTRepository {
	restURL := strings.TrimSuffix(projectURL, "/") + "/rest/v1"

	client := postgrest.NewClient(restURL, "public", map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	})

	return &ClientPostgRESTRepository{client: client, timeout: defaultPostgRESTTimeout}
}

func (r *ClientPostgRESTRepository) Insert(
	ctx context.Context,
	in domain.NewClient,
) (*models.Client, error) {

	rows, err := r.call(ctx, func() ([]clientRow, error) {
		var inserted []clientRow
		_, err := r.client.
			From(clientsTable).
			Insert(clientInsertRow{
				Name:         in.Name,
				Email:        in.Email,
				BusinessName: in.BusinessName,
			}, false, "", "representation", "").
			ExecuteTo(&inserted)
		return inserted, err
	})
	if err != nil {
		return nil, storeError("insert client", err)
	}

	if len(rows) == 0 {
		return nil, domain.NewStoreError("insert client", "store returned no row", nil)
	}

	c, err := rows[0].toModel()
	if err != nil {
		return nil, domain.NewStoreError("insert client", "", err)
	}

	return &c, nil
}

func (r *ClientPostgRESTRepository) ListAll(
	ctx context.Context,
) ([]models.Client, error) {

	rows, err := r.call(ctx, func() ([]clientRow, error) {
		var listed []clientRow
		_, err := r.client.
			From(clientsTable).
			Select(clientsColumns, "", false).
			Order("created_at", &postgrest.OrderOpts{Ascending: true}).
			ExecuteTo(&listed)
		return listed, err
	})
	if err != nil {
		return nil, storeError("list clients", err)
	}

	clients := make([]models.Client, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, domain.NewStoreError("list clients", "", err)
		}
		clients = append(clients, c)
	}

	return clients, nil
}

// call runs one request under the caller's context plus a fixed deadline.
// postgrest-go does not take a context, so a request that outlives the
// deadline is abandoned and its result discarded.
func (r *ClientPostgRESTRepository) call(
	ctx context.Context,
	do func() ([]clientRow, error),
) ([]clientRow, error) {

	if r.client.ClientError != nil {
		return nil, fmt.Errorf("invalid store endpoint: %w", r.client.ClientError)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		rows []clientRow
		err  error
	}
	done := make(chan result, 1)

	go func() {
		rows, err := do()
		done <- result{rows: rows, err: err}
	}()

	select {
	case res := <-done:
		return res.rows, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func storeError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewStoreError(op, "", err)
	}
	return domain.NewStoreError(op, postgrestMessage(err), err)
}

func (row clientRow) toModel() (models.Client, error) {
	id, err := rowID(row.ID)
	if err != nil {
		return models.Client{}, err
	}

	createdAt, err := parseRowTime(row.CreatedAt)
	if err != nil {
		return models.Client{}, err
	}

	return models.Client{
		ID:           id,
		Name:         row.Name,
		Email:        row.Email,
		BusinessName: row.BusinessName,
		CreatedAt:    createdAt,
	}, nil
}

// rowID renders a JSON string or number id as its text.
func rowID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errors.New("row has no id")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode row id: %w", err)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode row id: %w", err)
	}
	return n.String(), nil
}

// Postgres timestamptz comes back with an offset, plain timestamp without one
// (read as UTC).
var rowTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
}

func parseRowTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range rowTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("decode created_at %q", s)
}

// postgrest-go renders API errors as "(<code>) <message>"; the user only sees
// the message part.
var postgrestCodePrefix = regexp.MustCompile(`^\([^)]*\)\s*`)

func postgrestMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := postgrestCodePrefix.ReplaceAllString(err.Error(), "")
	if msg == "" {
		return err.Error()
	}
	return msg
}

// Compile-time check
var _ domain.Repository = (*ClientPostgRESTRepository)(nil)
