package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-ops-api/internal/dto"
	"github.com/noah-isme/sales-ops-api/internal/middleware"
	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
)

type interactionServiceMock struct {
	got     dto.RecordInteractionRequest
	result  *dto.RecordInteractionResult
	err     error
	history []models.Interaction
}

func (m *interactionServiceMock) RecordInteraction(_ context.Context, req dto.RecordInteractionRequest) (*dto.RecordInteractionResult, error) {
	m.got = req
	return m.result, m.err
}

func (m *interactionServiceMock) History(_ context.Context, _ string) ([]models.Interaction, error) {
	return m.history, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func withUser(c *gin.Context, userID string, role models.UserRole) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID, Role: role})
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestInteractionHandlerRecordDefaultsActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	taskID := "task-1"
	svc := &interactionServiceMock{result: &dto.RecordInteractionResult{
		ClientID: "c-1", OpportunityID: "o-1", InteractionID: "i-1", TaskID: &taskID, IsNewClient: true, IsNewOpportunity: true,
	}}
	h := NewInteractionHandler(svc)

	payload := []byte(`{"isNewClient":true,"clientName":"Acme","phone1":"0812","summary":"first call","stageId":1,"expectedValue":0,"nextFollowUpDate":"2024-05-10"}`)
	c, w := newGinContext(http.MethodPost, "/interactions", payload)
	withUser(c, "user-7", models.RoleSales)

	h.Record(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-7", svc.got.CreatedBy)
	assert.True(t, svc.got.ExpectedValue.Set)
	assert.Equal(t, float64(0), svc.got.ExpectedValue.Value)
	assert.False(t, svc.got.SourceID.Set)
	assert.Equal(t, "2024-05-10", svc.got.NextFollowUpDate.Value.String())

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Interaction recorded successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "o-1", data["opportunityId"])
	assert.Equal(t, "task-1", data["taskId"])
}

func TestInteractionHandlerRecordAcceptsMatchingActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &interactionServiceMock{result: &dto.RecordInteractionResult{}}
	h := NewInteractionHandler(svc)

	c, w := newGinContext(http.MethodPost, "/interactions", []byte(`{"clientId":"c-1","summary":"x","createdBy":" user-7 "}`))
	withUser(c, "user-7", models.RoleSales)
	h.Record(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-7", svc.got.CreatedBy)
}

func TestInteractionHandlerRecordRejectsForeignActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &interactionServiceMock{result: &dto.RecordInteractionResult{}}
	h := NewInteractionHandler(svc)

	c, w := newGinContext(http.MethodPost, "/interactions", []byte(`{"clientId":"c-1","summary":"x","createdBy":"user-1"}`))
	withUser(c, "user-7", models.RoleSales)
	h.Record(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "createdBy does not match the authenticated user", decodeBody(t, w)["message"])
	assert.Empty(t, svc.got.ClientID)
}

func TestInteractionHandlerRecordInvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewInteractionHandler(&interactionServiceMock{})

	c, w := newGinContext(http.MethodPost, "/interactions", []byte(`{"summary":`))
	h.Record(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
}

func TestInteractionHandlerRecordServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &interactionServiceMock{err: appErrors.Clone(appErrors.ErrValidation, "summary is required")}
	h := NewInteractionHandler(svc)

	c, w := newGinContext(http.MethodPost, "/interactions", []byte(`{"clientId":"c-1"}`))
	h.Record(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "summary is required", body["message"])
}

func TestInteractionHandlerHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &interactionServiceMock{history: []models.Interaction{{ID: "i-1"}, {ID: "i-2"}}}
	h := NewInteractionHandler(svc)

	c, w := newGinContext(http.MethodGet, "/opportunities/o-1/interactions", nil)
	c.Params = gin.Params{{Key: "id", Value: "o-1"}}
	h.History(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, data, 2)
}
