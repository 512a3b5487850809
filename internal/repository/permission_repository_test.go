package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-ops-api/internal/models"
)

var permissionRowColumns = []string{
	"id", "employee_id", "permission_date", "type", "from_time", "to_time", "duration_minutes", "reason", "status",
	"approved_by", "approved_at", "manager_comment", "created_by", "created_at",
}

func TestPermissionGetForUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPermissionRepository(db)

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(permissionRowColumns).
		AddRow("perm-1", "emp-1", day, "LateIn", "08:00", "09:30", 90, "traffic", "Pending", nil, nil, nil, "user-1", day)
	mock.ExpectQuery(regexp.QuoteMeta("FROM permissions WHERE id = $1 FOR UPDATE")).
		WithArgs("perm-1").
		WillReturnRows(rows)

	permission, err := repo.GetForUpdate(context.Background(), "perm-1")
	require.NoError(t, err)
	assert.Equal(t, models.PermissionTypeLateIn, permission.Type)
	require.NotNil(t, permission.DurationMinutes)
	assert.Equal(t, 90, *permission.DurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPermissionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM permissions WHERE employee_id = $1 AND status IN ($2) ORDER BY permission_date DESC, created_at DESC LIMIT 50 OFFSET 0")).
		WithArgs("emp-1", "Pending").
		WillReturnRows(sqlmock.NewRows(permissionRowColumns))

	items, err := repo.List(context.Background(), models.PermissionFilter{
		EmployeeID: "emp-1",
		Status:     []models.PermissionStatus{models.PermissionStatusPending},
	})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionDecide(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPermissionRepository(db)

	at := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $5 AND status = $6")).
		WithArgs("Approved", "mgr-1", at, nil, "perm-1", "Pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Decide(context.Background(), DecidePermissionParams{
		ID:         "perm-1",
		Status:     models.PermissionStatusApproved,
		ApprovedBy: "mgr-1",
		ApprovedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionDecideAlreadyDecided(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPermissionRepository(db)

	mock.ExpectExec("UPDATE permissions").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Decide(context.Background(), DecidePermissionParams{ID: "perm-1", Status: models.PermissionStatusRejected})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
