package models

import (
	"fmt"
	"strings"
	"time"
)

// PermissionType classifies short-notice schedule deviations.
type PermissionType string

const (
	PermissionTypeLateIn   PermissionType = "LateIn"
	PermissionTypeEarlyOut PermissionType = "EarlyOut"
	PermissionTypeErrand   PermissionType = "Errand"
)

// ParsePermissionType matches a type case-insensitively.
func ParsePermissionType(raw string) (PermissionType, bool) {
	for _, t := range []PermissionType{PermissionTypeLateIn, PermissionTypeEarlyOut, PermissionTypeErrand} {
		if strings.EqualFold(strings.TrimSpace(raw), string(t)) {
			return t, true
		}
	}
	return "", false
}

// PermissionStatus is the approval state of a permission request.
type PermissionStatus string

const (
	PermissionStatusPending  PermissionStatus = "Pending"
	PermissionStatusApproved PermissionStatus = "Approved"
	PermissionStatusRejected PermissionStatus = "Rejected"
)

// ParsePermissionDecision accepts only the two terminal statuses.
func ParsePermissionDecision(raw string) (PermissionStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approved":
		return PermissionStatusApproved, true
	case "rejected":
		return PermissionStatusRejected, true
	default:
		return "", false
	}
}

// Permission is an employee request for a schedule deviation on one day.
type Permission struct {
	ID              string           `db:"id" json:"id"`
	EmployeeID      string           `db:"employee_id" json:"employeeId"`
	PermissionDate  time.Time        `db:"permission_date" json:"permissionDate"`
	Type            PermissionType   `db:"type" json:"type"`
	FromTime        *string          `db:"from_time" json:"fromTime,omitempty"`
	ToTime          *string          `db:"to_time" json:"toTime,omitempty"`
	DurationMinutes *int             `db:"duration_minutes" json:"durationMinutes,omitempty"`
	Reason          string           `db:"reason" json:"reason"`
	Status          PermissionStatus `db:"status" json:"status"`
	ApprovedBy      *string          `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time       `db:"approved_at" json:"approvedAt,omitempty"`
	ManagerComment  *string          `db:"manager_comment" json:"managerComment,omitempty"`
	CreatedBy       string           `db:"created_by" json:"createdBy"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
}

// PermissionFilter constrains listing queries.
type PermissionFilter struct {
	EmployeeID string
	Status     []PermissionStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// DurationMinutes returns the minutes between two HH:MM clock times.
func DurationMinutes(from, to string) (int, error) {
	start, err := time.Parse("15:04", strings.TrimSpace(from))
	if err != nil {
		return 0, fmt.Errorf("invalid fromTime %q", from)
	}
	end, err := time.Parse("15:04", strings.TrimSpace(to))
	if err != nil {
		return 0, fmt.Errorf("invalid toTime %q", to)
	}
	if !end.After(start) {
		return 0, fmt.Errorf("toTime must be after fromTime")
	}
	return int(end.Sub(start).Minutes()), nil
}
