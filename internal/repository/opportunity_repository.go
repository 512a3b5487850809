package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/pkg/database"
)

const opportunityColumns = `id, client_id, employee_id, source_id, ad_type_id, stage_id, status_id, category_id,
       interested_product, expected_value, lost_reason_id, notes, first_contact_at, last_contact_at,
       active, created_by, created_at, updated_by, updated_at`

// OpportunityRepository persists sales opportunities.
type OpportunityRepository struct {
	db *sqlx.DB
}

// NewOpportunityRepository constructs the repository.
func NewOpportunityRepository(db *sqlx.DB) *OpportunityRepository {
	return &OpportunityRepository{db: db}
}

// LockClient takes a transaction-scoped advisory lock keyed by client id so
// concurrent interactions for one client run one after another.
func (r *OpportunityRepository) LockClient(ctx context.Context, clientID string) error {
	const query = `SELECT pg_advisory_xact_lock(hashtext($1))`
	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, query, clientID); err != nil {
		return fmt.Errorf("lock client %s: %w", clientID, err)
	}
	return nil
}

// FindOpenByClient returns the newest active, non-terminal opportunity of the
// client, or nil when there is none.
func (r *OpportunityRepository) FindOpenByClient(ctx context.Context, clientID string) (*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + `
FROM opportunities
WHERE client_id = $1 AND active = TRUE AND stage_id <> ALL($2)
ORDER BY created_at DESC
LIMIT 1`
	var opp models.Opportunity
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &opp, query, clientID, pq.Array(terminalStageCodes())); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open opportunity: %w", err)
	}
	return &opp, nil
}

// GetByID fetches an opportunity by identifier.
func (r *OpportunityRepository) GetByID(ctx context.Context, id string) (*models.Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1`
	var opp models.Opportunity
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &opp, query, id); err != nil {
		return nil, err
	}
	return &opp, nil
}

// Create inserts a new opportunity.
func (r *OpportunityRepository) Create(ctx context.Context, opp *models.Opportunity) error {
	if opp.ID == "" {
		opp.ID = uuid.NewString()
	}
	if opp.CreatedAt.IsZero() {
		opp.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO opportunities
	(id, client_id, employee_id, source_id, ad_type_id, stage_id, status_id, category_id, interested_product,
	 expected_value, lost_reason_id, notes, first_contact_at, last_contact_at, active, created_by, created_at)
	VALUES (:id, :client_id, :employee_id, :source_id, :ad_type_id, :stage_id, :status_id, :category_id, :interested_product,
	 :expected_value, :lost_reason_id, :notes, :first_contact_at, :last_contact_at, :active, :created_by, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, opp); err != nil {
		return fmt.Errorf("create opportunity: %w", err)
	}
	return nil
}

// ApplyChangesParams groups a merge-if-present update.
type ApplyChangesParams struct {
	ID        string
	Changes   models.OpportunityChanges
	UpdatedBy string
	At        time.Time
}

// ApplyChanges overwrites only the supplied fields, always refreshes the
// contact and updater metadata, and returns the resulting stage.
func (r *OpportunityRepository) ApplyChanges(ctx context.Context, params ApplyChangesParams) (models.Stage, error) {
	args := make([]interface{}, 0, 14)
	setParts := make([]string, 0, 13)
	set := func(column string, value interface{}) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	c := params.Changes
	if v, ok := c.EmployeeID.Get(); ok {
		set("employee_id", v)
	}
	if v, ok := c.SourceID.Get(); ok {
		set("source_id", v)
	}
	if v, ok := c.AdTypeID.Get(); ok {
		set("ad_type_id", v)
	}
	if v, ok := c.StageID.Get(); ok {
		set("stage_id", int(v))
	}
	if v, ok := c.StatusID.Get(); ok {
		set("status_id", v)
	}
	if v, ok := c.CategoryID.Get(); ok {
		set("category_id", v)
	}
	if v, ok := c.InterestedProduct.Get(); ok {
		set("interested_product", v)
	}
	if v, ok := c.ExpectedValue.Get(); ok {
		set("expected_value", v)
	}
	if v, ok := c.LostReasonID.Get(); ok {
		set("lost_reason_id", v)
	}
	if v, ok := c.Notes.Get(); ok {
		set("notes", v)
	}
	set("last_contact_at", params.At)
	set("updated_by", params.UpdatedBy)
	set("updated_at", params.At)

	args = append(args, params.ID)
	query := fmt.Sprintf("UPDATE opportunities SET %s WHERE id = $%d RETURNING stage_id",
		strings.Join(setParts, ", "), len(args))

	var stage models.Stage
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &stage, query, args...); err != nil {
		return 0, fmt.Errorf("update opportunity: %w", err)
	}
	return stage, nil
}

func terminalStageCodes() []int64 {
	codes := make([]int64, len(models.TerminalStages))
	for i, stage := range models.TerminalStages {
		codes[i] = int64(stage)
	}
	return codes
}
