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

// TaskRepository persists follow-up tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs the repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CompleteOpen marks every Pending / In Progress task of the opportunity as
// completed and returns the number of closed tasks.
func (r *TaskRepository) CompleteOpen(ctx context.Context, completion models.TaskCompletion) (int64, error) {
	const query = `UPDATE tasks
SET status = $1, completed_at = $2, completed_by = $3, completion_note = $4
WHERE opportunity_id = $5 AND status IN ($6, $7)`
	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		models.TaskStatusCompleted,
		completion.CompletedAt,
		completion.CompletedBy,
		completion.Note,
		completion.OpportunityID,
		models.TaskStatusPending,
		models.TaskStatusInProgress,
	)
	if err != nil {
		return 0, fmt.Errorf("complete open tasks: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check completed task rows: %w", err)
	}
	return rows, nil
}

// Create inserts a new task, defaulting to Pending / Medium.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO tasks
	(id, opportunity_id, assigned_to, task_type_id, description, due_date, priority, status, created_by, created_at)
	VALUES (:id, :opportunity_id, :assigned_to, :task_type_id, :description, :due_date, :priority, :status, :created_by, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}
