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

// InteractionRepository appends interaction audit records.
type InteractionRepository struct {
	db *sqlx.DB
}

// NewInteractionRepository constructs the repository.
func NewInteractionRepository(db *sqlx.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Create inserts an interaction row. Interactions are never updated.
func (r *InteractionRepository) Create(ctx context.Context, interaction *models.Interaction) error {
	if interaction.ID == "" {
		interaction.ID = uuid.NewString()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO interactions
	(id, opportunity_id, employee_id, source_id, summary, stage_before, stage_after, next_follow_up_date, created_by, created_at)
	VALUES (:id, :opportunity_id, :employee_id, :source_id, :summary, :stage_before, :stage_after, :next_follow_up_date, :created_by, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, interaction); err != nil {
		return fmt.Errorf("create interaction: %w", err)
	}
	return nil
}

// ListByOpportunity returns the interaction history, newest first.
func (r *InteractionRepository) ListByOpportunity(ctx context.Context, opportunityID string) ([]models.Interaction, error) {
	const query = `SELECT id, opportunity_id, employee_id, source_id, summary, stage_before, stage_after,
       next_follow_up_date, created_by, created_at
FROM interactions WHERE opportunity_id = $1 ORDER BY created_at DESC`
	var interactions []models.Interaction
	if err := sqlx.SelectContext(ctx, database.Conn(ctx, r.db), &interactions, query, opportunityID); err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return interactions, nil
}
