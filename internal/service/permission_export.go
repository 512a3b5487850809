package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sales-ops-api/internal/dto"
	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
	"github.com/noah-isme/sales-ops-api/pkg/export"
)

const (
	exportPageSize = 200
	exportMaxRows  = 5000
)

var permissionExportColumns = []string{
	"Employee", "Date", "Type", "From", "To", "Minutes", "Status", "Reason", "Decided By", "Decided At",
}

// Export renders the permission requests matching query as a downloadable
// report. Rows beyond exportMaxRows are dropped.
func (s *PermissionService) Export(ctx context.Context, query dto.PermissionQuery, format export.Format) (*dto.PermissionExport, error) {
	items := make([]models.Permission, 0, exportPageSize)
	for offset := 0; len(items) < exportMaxRows; offset += exportPageSize {
		page, err := s.permissions.List(ctx, models.PermissionFilter{
			EmployeeID: query.EmployeeID,
			Status:     query.Status,
			DateFrom:   query.DateFrom,
			DateTo:     query.DateTo,
			Limit:      exportPageSize,
			Offset:     offset,
		})
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load permission requests")
		}
		items = append(items, page...)
		if len(page) < exportPageSize {
			break
		}
	}
	if len(items) > exportMaxRows {
		items = items[:exportMaxRows]
	}

	names := s.employeeNames(ctx, items)
	table := export.Table{
		Title:   "Permission requests",
		Columns: permissionExportColumns,
		Rows:    make([][]string, 0, len(items)),
	}
	for _, p := range items {
		minutes := ""
		if p.DurationMinutes != nil {
			minutes = strconv.Itoa(*p.DurationMinutes)
		}
		decidedAt := ""
		if p.ApprovedAt != nil {
			decidedAt = p.ApprovedAt.UTC().Format(time.RFC3339)
		}
		table.Rows = append(table.Rows, []string{
			names[p.EmployeeID],
			models.NewDate(p.PermissionDate).String(),
			string(p.Type),
			stringValue(p.FromTime),
			stringValue(p.ToTime),
			minutes,
			string(p.Status),
			p.Reason,
			stringValue(p.ApprovedBy),
			decidedAt,
		})
	}

	body, err := export.Render(format, table)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render permission report")
	}
	return &dto.PermissionExport{
		Filename:    fmt.Sprintf("permissions-%s.%s", s.now().Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Body:        body,
		Rows:        len(items),
	}, nil
}

// employeeNames maps employee ids to display names, falling back to the id.
func (s *PermissionService) employeeNames(ctx context.Context, items []models.Permission) map[string]string {
	names := make(map[string]string)
	for _, p := range items {
		if _, ok := names[p.EmployeeID]; ok {
			continue
		}
		names[p.EmployeeID] = p.EmployeeID
		employee, err := s.employees.GetByID(ctx, p.EmployeeID)
		if err != nil {
			s.logger.Debug("employee name lookup failed", zap.String("employee_id", p.EmployeeID), zap.Error(err))
			continue
		}
		if employee.FullName != "" {
			names[p.EmployeeID] = employee.FullName
		}
	}
	return names
}
