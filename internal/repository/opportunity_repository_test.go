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

var opportunityRowColumns = []string{
	"id", "client_id", "employee_id", "source_id", "ad_type_id", "stage_id", "status_id", "category_id",
	"interested_product", "expected_value", "lost_reason_id", "notes", "first_contact_at", "last_contact_at",
	"active", "created_by", "created_at", "updated_by", "updated_at",
}

func TestOpportunityFindOpenByClient(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOpportunityRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(opportunityRowColumns).
		AddRow("opp-1", "client-1", "emp-1", 2, nil, 2, nil, nil, "Sofa", 1500.5, nil, nil, now, now, true, "user-1", now, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE client_id = $1 AND active = TRUE AND stage_id <> ALL($2)")).
		WithArgs("client-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	opp, err := repo.FindOpenByClient(context.Background(), "client-1")
	require.NoError(t, err)
	require.NotNil(t, opp)
	assert.Equal(t, "opp-1", opp.ID)
	assert.Equal(t, models.Stage(2), opp.StageID)
	require.NotNil(t, opp.ExpectedValue)
	assert.InDelta(t, 1500.5, *opp.ExpectedValue, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityFindOpenByClientNone(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOpportunityRepository(db)

	mock.ExpectQuery("FROM opportunities").WillReturnError(sql.ErrNoRows)

	opp, err := repo.FindOpenByClient(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Nil(t, opp)
}

func TestOpportunityLockClient(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOpportunityRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("client-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.LockClient(context.Background(), "client-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityApplyChangesOnlySuppliedFields(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOpportunityRepository(db)

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE opportunities SET stage_id = $1, expected_value = $2, last_contact_at = $3, updated_by = $4, updated_at = $5 WHERE id = $6 RETURNING stage_id")).
		WithArgs(3, 0.0, at, "user-9", at, "opp-1").
		WillReturnRows(sqlmock.NewRows([]string{"stage_id"}).AddRow(3))

	stage, err := repo.ApplyChanges(context.Background(), ApplyChangesParams{
		ID: "opp-1",
		Changes: models.OpportunityChanges{
			StageID:       models.Some(models.StageWon),
			ExpectedValue: models.Some(0.0),
		},
		UpdatedBy: "user-9",
		At:        at,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageWon, stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityApplyChangesNothingSupplied(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOpportunityRepository(db)

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE opportunities SET last_contact_at = $1, updated_by = $2, updated_at = $3 WHERE id = $4 RETURNING stage_id")).
		WithArgs(at, "user-9", at, "opp-1").
		WillReturnRows(sqlmock.NewRows([]string{"stage_id"}).AddRow(2))

	stage, err := repo.ApplyChanges(context.Background(), ApplyChangesParams{ID: "opp-1", UpdatedBy: "user-9", At: at})
	require.NoError(t, err)
	assert.Equal(t, models.Stage(2), stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpportunityCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOpportunityRepository(db)

	mock.ExpectExec("INSERT INTO opportunities").WillReturnResult(sqlmock.NewResult(1, 1))

	opp := &models.Opportunity{ClientID: "client-1", StageID: models.StageNew, Active: true, CreatedBy: "user-1"}
	require.NoError(t, repo.Create(context.Background(), opp))
	assert.NotEmpty(t, opp.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTerminalStageCodes(t *testing.T) {
	assert.Equal(t, []int64{3, 4, 5}, terminalStageCodes())
}
