package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/pkg/database"
)

const permissionColumns = `id, employee_id, permission_date, type, from_time, to_time, duration_minutes, reason, status,
       approved_by, approved_at, manager_comment, created_by, created_at`

// PermissionRepository persists employee permission requests.
type PermissionRepository struct {
	db *sqlx.DB
}

// NewPermissionRepository constructs the repository.
func NewPermissionRepository(db *sqlx.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Create inserts a new permission request, Pending unless told otherwise.
func (r *PermissionRepository) Create(ctx context.Context, permission *models.Permission) error {
	if permission.ID == "" {
		permission.ID = uuid.NewString()
	}
	if permission.Status == "" {
		permission.Status = models.PermissionStatusPending
	}
	if permission.CreatedAt.IsZero() {
		permission.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO permissions
	(id, employee_id, permission_date, type, from_time, to_time, duration_minutes, reason, status, created_by, created_at)
	VALUES (:id, :employee_id, :permission_date, :type, :from_time, :to_time, :duration_minutes, :reason, :status, :created_by, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, permission); err != nil {
		return fmt.Errorf("create permission: %w", err)
	}
	return nil
}

// GetByID fetches a permission request by identifier.
func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*models.Permission, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate fetches and row-locks a permission request inside a transaction.
func (r *PermissionRepository) GetForUpdate(ctx context.Context, id string) (*models.Permission, error) {
	return r.get(ctx, id, true)
}

func (r *PermissionRepository) get(ctx context.Context, id string, lock bool) (*models.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	var permission models.Permission
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &permission, query, id); err != nil {
		return nil, err
	}
	return &permission, nil
}

// List returns permission requests matching the filter, newest first.
func (r *PermissionRepository) List(ctx context.Context, filter models.PermissionFilter) ([]models.Permission, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 6)
	builder.WriteString(`SELECT ` + permissionColumns + ` FROM permissions`)

	conditions := make([]string, 0, 4)
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("permission_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("permission_date <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY permission_date DESC, created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var permissions []models.Permission
	if err := sqlx.SelectContext(ctx, database.Conn(ctx, r.db), &permissions, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}

// DecidePermissionParams groups the columns written by a decision.
type DecidePermissionParams struct {
	ID         string
	Status     models.PermissionStatus
	ApprovedBy string
	ApprovedAt time.Time
	Comment    *string
}

// Decide records the outcome of a pending request. It returns sql.ErrNoRows
// when the request does not exist or was already decided.
func (r *PermissionRepository) Decide(ctx context.Context, params DecidePermissionParams) error {
	const query = `UPDATE permissions
SET status = $1, approved_by = $2, approved_at = $3, manager_comment = $4
WHERE id = $5 AND status = $6`
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		params.Status,
		params.ApprovedBy,
		params.ApprovedAt,
		params.Comment,
		params.ID,
		models.PermissionStatusPending,
	)
	if err != nil {
		return fmt.Errorf("decide permission: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check permission update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
