package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/pkg/database"
)

// ClientRepository persists sales clients.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository constructs the repository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create inserts a new active client.
func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = client.CreatedAt
	client.Active = true
	const query = `INSERT INTO clients (id, name, phone1, phone2, address, active, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		client.ID, client.Name, client.Phone1, client.Phone2, client.Address,
		client.Active, client.CreatedBy, client.CreatedAt, client.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// FindByID fetches a client by identifier.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*models.Client, error) {
	const query = `SELECT id, name, phone1, phone2, address, active, created_by, created_at, updated_at
FROM clients WHERE id = $1`
	var client models.Client
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &client, query, id); err != nil {
		return nil, err
	}
	return &client, nil
}
