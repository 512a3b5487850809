package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-ops-api/internal/dto"
	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
	"github.com/noah-isme/sales-ops-api/pkg/export"
)

type permissionServiceMock struct {
	submitted dto.SubmitPermissionRequest
	decided   dto.DecidePermissionRequest
	query     dto.PermissionQuery
	mineUser  string
	items     []models.Permission
	err       error
}

func (m *permissionServiceMock) Submit(_ context.Context, req dto.SubmitPermissionRequest) (*dto.SubmitPermissionResponse, error) {
	m.submitted = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SubmitPermissionResponse{Success: true, PermissionID: "p-1", Message: "Permission request submitted"}, nil
}

func (m *permissionServiceMock) Decide(_ context.Context, req dto.DecidePermissionRequest) error {
	m.decided = req
	return m.err
}

func (m *permissionServiceMock) List(_ context.Context, query dto.PermissionQuery) ([]models.Permission, error) {
	m.query = query
	return m.items, m.err
}

func (m *permissionServiceMock) ListMine(_ context.Context, userID string, query dto.PermissionQuery) ([]models.Permission, error) {
	m.mineUser = userID
	m.query = query
	return m.items, m.err
}

func (m *permissionServiceMock) Get(_ context.Context, id string) (*models.Permission, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Permission{ID: id}, nil
}

func (m *permissionServiceMock) Export(_ context.Context, query dto.PermissionQuery, format export.Format) (*dto.PermissionExport, error) {
	m.query = query
	if m.err != nil {
		return nil, m.err
	}
	return &dto.PermissionExport{Filename: "permissions." + string(format), ContentType: format.ContentType(), Body: []byte("a,b\n"), Rows: 1}, nil
}

func TestPermissionHandlerSubmitLegacyShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &permissionServiceMock{}
	h := NewPermissionHandler(svc)

	c, w := newGinContext(http.MethodPost, "/permissions", []byte(`{"permissionDate":"2024-05-02","type":"LateIn","reason":"clinic","fromTime":"08:00","toTime":"09:30"}`))
	withUser(c, "user-3", models.RoleEmployee)
	h.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-3", svc.submitted.UserID)
	assert.Equal(t, "2024-05-02", svc.submitted.PermissionDate.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "p-1", body["permissionId"])
	assert.NotContains(t, body, "data")
}

func TestPermissionHandlerSubmitRejectsForeignUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &permissionServiceMock{}
	h := NewPermissionHandler(svc)

	c, w := newGinContext(http.MethodPost, "/permissions", []byte(`{"userId":"user-9","permissionDate":"2024-05-02","type":"Errand","reason":"bank"}`))
	withUser(c, "user-3", models.RoleEmployee)
	h.Submit(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "userId does not match the authenticated user", decodeBody(t, w)["message"])
	assert.Empty(t, svc.submitted.UserID)
}

func TestPermissionHandlerSubmitBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPermissionHandler(&permissionServiceMock{})

	c, w := newGinContext(http.MethodPost, "/permissions", []byte(`{"permissionDate":"02/05/2024","type":"LateIn"}`))
	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPermissionHandlerDecide(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &permissionServiceMock{}
	h := NewPermissionHandler(svc)

	c, w := newGinContext(http.MethodPost, "/permissions/decide", []byte(`{"permissionId":"p-1","status":"approved","comment":"ok"}`))
	withUser(c, "mgr-1", models.RoleManager)
	h.Decide(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mgr-1", svc.decided.UserID)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Permission request approved", body["message"])
}

func TestPermissionHandlerDecideRejectsForeignDecider(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &permissionServiceMock{}
	h := NewPermissionHandler(svc)

	c, w := newGinContext(http.MethodPost, "/permissions/decide", []byte(`{"permissionId":"p-1","status":"approved","userId":"mgr-2"}`))
	withUser(c, "mgr-1", models.RoleManager)
	h.Decide(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.decided.PermissionID)
}

func TestPermissionHandlerDecideConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &permissionServiceMock{err: appErrors.Clone(appErrors.ErrConflict, "permission request already Approved")}
	h := NewPermissionHandler(svc)

	c, w := newGinContext(http.MethodPost, "/permissions/decide", []byte(`{"permissionId":"p-1","status":"Rejected"}`))
	h.Decide(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "permission request already Approved", decodeBody(t, w)["message"])
}

func TestPermissionHandlerListFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &permissionServiceMock{items: []models.Permission{{ID: "p-1"}}}
	h := NewPermissionHandler(svc)

	c, w := newGinContext(http.MethodGet, "/permissions?status=pending,Approved&employeeId=e-1&dateFrom=2024-05-01&limit=5", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.PermissionStatus{models.PermissionStatusPending, models.PermissionStatusApproved}, svc.query.Status)
	assert.Equal(t, "e-1", svc.query.EmployeeID)
	require.NotNil(t, svc.query.DateFrom)
	assert.Equal(t, 5, svc.query.Limit)
}

func TestPermissionHandlerListUnknownStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPermissionHandler(&permissionServiceMock{})

	c, w := newGinContext(http.MethodGet, "/permissions?status=Maybe", nil)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPermissionHandlerMine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &permissionServiceMock{}
	h := NewPermissionHandler(svc)

	c, w := newGinContext(http.MethodGet, "/permissions/mine", nil)
	withUser(c, "user-3", models.RoleEmployee)
	h.Mine(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-3", svc.mineUser)

	c, w = newGinContext(http.MethodGet, "/permissions/mine", nil)
	h.Mine(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPermissionHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPermissionHandler(&permissionServiceMock{err: appErrors.ErrNotFound})

	c, w := newGinContext(http.MethodGet, "/permissions/p-9", nil)
	c.Params = gin.Params{{Key: "id", Value: "p-9"}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPermissionHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &permissionServiceMock{}
	h := NewPermissionHandler(svc)

	c, w := newGinContext(http.MethodGet, "/permissions/export?format=csv&status=Approved", nil)
	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="permissions.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", w.Header().Get("X-Total-Rows"))
	assert.Equal(t, "a,b\n", w.Body.String())
	assert.Equal(t, []models.PermissionStatus{models.PermissionStatusApproved}, svc.query.Status)
}

func TestPermissionHandlerExportUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewPermissionHandler(&permissionServiceMock{})

	c, w := newGinContext(http.MethodGet, "/permissions/export?format=xlsx", nil)
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
