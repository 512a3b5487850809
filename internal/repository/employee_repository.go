package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/pkg/database"
)

// EmployeeRepository reads HR employee records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindByUserID resolves the employee linked to an application user.
func (r *EmployeeRepository) FindByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	const query = `SELECT id, user_id, full_name, attendance_code, active FROM employees WHERE user_id = $1 LIMIT 1`
	var employee models.Employee
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &employee, query, userID); err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByID fetches an employee by identifier.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, user_id, full_name, attendance_code, active FROM employees WHERE id = $1`
	var employee models.Employee
	if err := sqlx.GetContext(ctx, database.Conn(ctx, r.db), &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}
