package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-ops-api/internal/models"
)

func TestClientCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	phone := "0812"
	mock.ExpectExec("INSERT INTO clients").
		WithArgs(sqlmock.AnyArg(), "Acme", "0812", nil, nil, true, "user-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	client := &models.Client{Name: "Acme", Phone1: &phone, CreatedBy: "user-1"}
	require.NoError(t, repo.Create(context.Background(), client))
	assert.NotEmpty(t, client.ID)
	assert.True(t, client.Active)
	assert.Equal(t, client.CreatedAt, client.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClientRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM clients WHERE id").WithArgs("client-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone1", "phone2", "address", "active", "created_by", "created_at", "updated_at"}).
			AddRow("client-1", "Acme", nil, nil, nil, true, "user-1", now, now))

	client, err := repo.FindByID(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", client.Name)

	mock.ExpectQuery("FROM clients WHERE id").WithArgs("missing").WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
