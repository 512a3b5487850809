package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sales-ops-api/internal/dto"
	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
	"github.com/noah-isme/sales-ops-api/pkg/export"
	"github.com/noah-isme/sales-ops-api/pkg/response"
)

type permissionService interface {
	Submit(ctx context.Context, req dto.SubmitPermissionRequest) (*dto.SubmitPermissionResponse, error)
	Decide(ctx context.Context, req dto.DecidePermissionRequest) error
	List(ctx context.Context, query dto.PermissionQuery) ([]models.Permission, error)
	ListMine(ctx context.Context, userID string, query dto.PermissionQuery) ([]models.Permission, error)
	Get(ctx context.Context, id string) (*models.Permission, error)
	Export(ctx context.Context, query dto.PermissionQuery, format export.Format) (*dto.PermissionExport, error)
}

// PermissionHandler exposes the permission approval workflow.
type PermissionHandler struct {
	service permissionService
}

// NewPermissionHandler constructs the handler.
func NewPermissionHandler(service permissionService) *PermissionHandler {
	return &PermissionHandler{service: service}
}

// Submit godoc
// @Summary Submit a permission request
// @Tags Permissions
// @Accept json
// @Produce json
// @Param payload body dto.SubmitPermissionRequest true "Permission request"
// @Success 201 {object} dto.SubmitPermissionResponse
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /permissions [post]
func (h *PermissionHandler) Submit(c *gin.Context) {
	var req dto.SubmitPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid permission payload"))
		return
	}
	actor, err := resolveActor(c, "userId", req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.UserID = actor

	res, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusCreated, res)
}

// Decide godoc
// @Summary Approve or reject a permission request
// @Tags Permissions
// @Accept json
// @Produce json
// @Param payload body dto.DecidePermissionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /permissions/decide [post]
func (h *PermissionHandler) Decide(c *gin.Context) {
	var req dto.DecidePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	actor, err := resolveActor(c, "userId", req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	req.UserID = actor

	if err := h.service.Decide(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	decision, _ := models.ParsePermissionDecision(req.Status)
	response.JSON(c, http.StatusOK, nil, fmt.Sprintf("Permission request %s", strings.ToLower(string(decision))))
}

// List godoc
// @Summary List permission requests
// @Tags Permissions
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param employeeId query string false "Employee ID"
// @Param dateFrom query string false "YYYY-MM-DD"
// @Param dateTo query string false "YYYY-MM-DD"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /permissions [get]
func (h *PermissionHandler) List(c *gin.Context) {
	query, err := parsePermissionQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	query.EmployeeID = strings.TrimSpace(c.Query("employeeId"))
	items, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, "")
}

// Mine godoc
// @Summary List the caller's permission requests
// @Tags Permissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /permissions/mine [get]
func (h *PermissionHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	query, err := parsePermissionQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.ListMine(c.Request.Context(), claims.UserID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, "")
}

// Get godoc
// @Summary Get a permission request
// @Tags Permissions
// @Produce json
// @Param id path string true "Permission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /permissions/{id} [get]
func (h *PermissionHandler) Get(c *gin.Context) {
	permission, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, permission, "")
}

// Export godoc
// @Summary Download permission requests as CSV or PDF
// @Tags Permissions
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Param status query string false "Comma separated statuses"
// @Param employeeId query string false "Employee ID"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /permissions/export [get]
func (h *PermissionHandler) Export(c *gin.Context) {
	format, ok := export.ParseFormat(c.Query("format"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	query, err := parsePermissionQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	query.EmployeeID = strings.TrimSpace(c.Query("employeeId"))

	report, err := h.service.Export(c.Request.Context(), query, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Header("X-Total-Rows", strconv.Itoa(report.Rows))
	c.Data(http.StatusOK, report.ContentType, report.Body)
}

func parsePermissionQuery(c *gin.Context) (dto.PermissionQuery, error) {
	var query dto.PermissionQuery
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.EqualFold(part, string(models.PermissionStatusPending)) {
				query.Status = append(query.Status, models.PermissionStatusPending)
				continue
			}
			status, ok := models.ParsePermissionDecision(part)
			if !ok {
				return query, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", part))
			}
			query.Status = append(query.Status, status)
		}
	}
	if raw := c.Query("dateFrom"); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			return query, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		query.DateFrom = &date.Time
	}
	if raw := c.Query("dateTo"); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			return query, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		query.DateTo = &date.Time
	}
	query.Limit = intQuery(c, "limit")
	query.Offset = intQuery(c, "offset")
	return query, nil
}

func intQuery(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
