package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-ops-api/internal/dto"
	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/pkg/export"
)

type failingPermissions struct{ *memPermissions }

func (failingPermissions) List(context.Context, models.PermissionFilter) ([]models.Permission, error) {
	return nil, errors.New("db down")
}

func TestExportPermissionsCSV(t *testing.T) {
	f := newPermissionFixture(t)
	f.svc.now = func() time.Time { return time.Date(2024, 6, 4, 10, 30, 0, 0, time.UTC) }
	seeded := f.seed("emp-1", models.PermissionTypeLateIn, "user-1")
	minutes := 45
	seeded.DurationMinutes = &minutes
	f.seed("emp-unknown", models.PermissionTypeErrand, "user-9")

	res, err := f.svc.Export(context.Background(), dto.PermissionQuery{Status: []models.PermissionStatus{models.PermissionStatusPending}}, export.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "permissions-20240604-103000.csv", res.Filename)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, exportPageSize, f.permissions.lastFilter.Limit)
	assert.Equal(t, []models.PermissionStatus{models.PermissionStatusPending}, f.permissions.lastFilter.Status)

	body := string(res.Body)
	assert.True(t, strings.HasPrefix(body, "Employee,Date,Type,From,To,Minutes,Status,Reason,Decided By,Decided At\n"))
	assert.Contains(t, body, "Dana,2024-06-03,LateIn,,,45,Pending,doctor,,")
	assert.Contains(t, body, "emp-unknown,2024-06-03,Errand")
}

func TestExportPermissionsPDF(t *testing.T) {
	f := newPermissionFixture(t)
	f.seed("emp-2", models.PermissionTypeEarlyOut, "user-2")

	res, err := f.svc.Export(context.Background(), dto.PermissionQuery{}, export.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, strings.HasPrefix(string(res.Body), "%PDF-"))
}

func TestExportPermissionsListFailure(t *testing.T) {
	f := newPermissionFixture(t)
	f.svc.permissions = failingPermissions{f.permissions}

	_, err := f.svc.Export(context.Background(), dto.PermissionQuery{}, export.FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load permission requests")
}
