package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/pkg/database"
)

// NotificationRepository persists notifications for roles and employees.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository constructs the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts one unread notification.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.IsRead = false
	const query = `INSERT INTO notifications
	(id, title, body, target_role, employee_id, form_name, related_id, created_by, is_read, created_at)
	VALUES (:id, :title, :body, :target_role, :employee_id, :form_name, :related_id, :created_by, :is_read, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListForRecipient returns notifications addressed to the employee or to any
// of the roles, newest first.
func (r *NotificationRepository) ListForRecipient(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	args := make([]interface{}, 0, len(filter.Roles)+1)
	targets := make([]string, 0, 2)
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		targets = append(targets, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if len(filter.Roles) > 0 {
		placeholders := make([]string, len(filter.Roles))
		for i, role := range filter.Roles {
			args = append(args, role)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		targets = append(targets, fmt.Sprintf("target_role IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(targets) == 0 {
		return []models.Notification{}, nil
	}

	where := "(" + strings.Join(targets, " OR ") + ")"
	if filter.UnreadOnly {
		where += " AND is_read = FALSE"
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	query := fmt.Sprintf(`SELECT id, title, body, target_role, employee_id, form_name, related_id, created_by, is_read, created_at, updated_at
FROM notifications WHERE %s ORDER BY created_at DESC LIMIT %d`, where, limit)

	var notifications []models.Notification
	if err := sqlx.SelectContext(ctx, database.Conn(ctx, r.db), &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
