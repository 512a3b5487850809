package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sales-ops-api/internal/dto"
	"github.com/noah-isme/sales-ops-api/internal/models"
	"github.com/noah-isme/sales-ops-api/internal/repository"
	"github.com/noah-isme/sales-ops-api/pkg/database"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
)

const (
	workflowSubmitPermission = "submit_permission"
	workflowDecidePermission = "decide_permission"
)

type permissionRepository interface {
	Create(ctx context.Context, permission *models.Permission) error
	GetByID(ctx context.Context, id string) (*models.Permission, error)
	GetForUpdate(ctx context.Context, id string) (*models.Permission, error)
	List(ctx context.Context, filter models.PermissionFilter) ([]models.Permission, error)
	Decide(ctx context.Context, params repository.DecidePermissionParams) error
}

type attendanceRepository interface {
	ExcuseLateness(ctx context.Context, attendanceCode string, day time.Time) (int64, error)
	ExcuseEarlyLeave(ctx context.Context, attendanceCode string, day time.Time) (int64, error)
}

type employeeLookup interface {
	ResolveByUserID(ctx context.Context, userID string) (*models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	Forget(ctx context.Context, userID string)
}

type permissionNotifier interface {
	NotifyRoles(ctx context.Context, params dto.NotifyRolesParams) error
	NotifyEmployee(ctx context.Context, params dto.NotifyEmployeeParams) error
}

// PermissionService runs the permission request approval workflow.
type PermissionService struct {
	tx           unitOfWorkRunner
	permissions  permissionRepository
	attendance   attendanceRepository
	employees    employeeLookup
	notifier     permissionNotifier
	managerRoles []models.UserRole
	validator    *validator.Validate
	metrics      *MetricsService
	logger       *zap.Logger
	now          func() time.Time
}

// PermissionServiceDeps bundles the collaborators of PermissionService.
type PermissionServiceDeps struct {
	Transactor   unitOfWorkRunner
	Permissions  permissionRepository
	Attendance   attendanceRepository
	Employees    employeeLookup
	Notifier     permissionNotifier
	ManagerRoles []models.UserRole
	Validator    *validator.Validate
	Metrics      *MetricsService
	Logger       *zap.Logger
}

// NewPermissionService constructs the service.
func NewPermissionService(deps PermissionServiceDeps) *PermissionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionService{
		tx:           deps.Transactor,
		permissions:  deps.Permissions,
		attendance:   deps.Attendance,
		employees:    deps.Employees,
		notifier:     deps.Notifier,
		managerRoles: deps.ManagerRoles,
		validator:    newRequestValidator(deps.Validator),
		metrics:      deps.Metrics,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores a pending permission request for the employee linked to
// req.UserID and notifies managers once it is committed.
func (s *PermissionService) Submit(ctx context.Context, req dto.SubmitPermissionRequest) (*dto.SubmitPermissionResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Type = strings.TrimSpace(req.Type)
	req.Reason = strings.TrimSpace(req.Reason)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	permissionType, _ := models.ParsePermissionType(req.Type)

	employee, err := s.employees.ResolveByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	permission := &models.Permission{
		EmployeeID:     employee.ID,
		PermissionDate: req.PermissionDate.Time,
		Type:           permissionType,
		FromTime:       trimmedPtr(req.FromTime),
		ToTime:         trimmedPtr(req.ToTime),
		Reason:         req.Reason,
		Status:         models.PermissionStatusPending,
		CreatedBy:      req.UserID,
		CreatedAt:      s.now(),
	}
	if req.CreatedAt != nil && !req.CreatedAt.IsZero() {
		permission.CreatedAt = req.CreatedAt.UTC()
	}
	if permission.FromTime != nil && permission.ToTime != nil {
		minutes, err := models.DurationMinutes(*permission.FromTime, *permission.ToTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		permission.DurationMinutes = &minutes
	}

	err = s.tx.Run(ctx, workflowSubmitPermission, func(ctx context.Context, uow *database.UnitOfWork) error {
		if err := s.permissions.Create(ctx, permission); err != nil {
			return err
		}
		uow.AfterCommit("notify_managers", func(ctx context.Context) error {
			return s.notifier.NotifyRoles(ctx, dto.NotifyRolesParams{
				Title: "New permission request",
				Message: fmt.Sprintf("%s requested %s on %s: %s",
					employee.FullName, permission.Type, req.PermissionDate.String(), permission.Reason),
				RelatedID: permission.ID,
				Roles:     s.managerRoles,
				FormName:  models.FormPermissions,
				CreatedBy: req.UserID,
			})
		})
		return nil
	})
	s.metrics.RecordWorkflow(workflowSubmitPermission, err)
	if repository.IsForeignKeyViolation(err) {
		// The cached employee link outlived the employee row.
		s.employees.Forget(ctx, req.UserID)
		s.logger.Warn("submit permission referenced a missing employee",
			zap.String("user_id", req.UserID), zap.String("employee_id", employee.ID))
		return nil, appErrors.Wrap(err, appErrors.ErrEmployeeNotLinked.Code, appErrors.ErrEmployeeNotLinked.Status, appErrors.ErrEmployeeNotLinked.Message)
	}
	if err != nil {
		s.logger.Error("submit permission failed", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to submit permission request")
	}

	return &dto.SubmitPermissionResponse{
		Success:      true,
		PermissionID: permission.ID,
		Message:      "Permission request submitted",
	}, nil
}

// Decide approves or rejects a pending request. Approving LateIn or EarlyOut
// excuses the matching attendance minutes in the same transaction. The
// submitter is notified after the commit.
func (s *PermissionService) Decide(ctx context.Context, req dto.DecidePermissionRequest) error {
	req.PermissionID = strings.TrimSpace(req.PermissionID)
	req.Status = strings.TrimSpace(req.Status)
	req.UserID = strings.TrimSpace(req.UserID)
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}
	decision, _ := models.ParsePermissionDecision(req.Status)

	err := s.tx.Run(ctx, workflowDecidePermission, func(ctx context.Context, uow *database.UnitOfWork) error {
		permission, err := s.permissions.GetForUpdate(ctx, req.PermissionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "permission request not found")
			}
			return err
		}
		if permission.Status != models.PermissionStatusPending {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("permission request already %s", strings.ToLower(string(permission.Status))))
		}

		if err := s.permissions.Decide(ctx, repository.DecidePermissionParams{
			ID:         permission.ID,
			Status:     decision,
			ApprovedBy: req.UserID,
			ApprovedAt: s.now(),
			Comment:    optionalString(strings.TrimSpace(req.Comment)),
		}); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrConflict, "permission request already decided")
			}
			return err
		}

		if decision == models.PermissionStatusApproved {
			if err := s.excuseAttendance(ctx, permission); err != nil {
				return err
			}
		}

		title, message := decisionMessage(permission, decision, req.Comment)
		uow.AfterCommit("notify_submitter", func(ctx context.Context) error {
			return s.notifier.NotifyEmployee(ctx, dto.NotifyEmployeeParams{
				UserID:    permission.CreatedBy,
				Title:     title,
				Message:   message,
				RelatedID: permission.ID,
				FormName:  models.FormPermissions,
				CreatedBy: req.UserID,
			})
		})
		return nil
	})
	s.metrics.RecordWorkflow(workflowDecidePermission, err)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		s.logger.Error("decide permission failed", zap.String("permission_id", req.PermissionID), zap.Error(err))
		return appErrors.Internal(err, "failed to decide permission request")
	}
	return nil
}

// List returns permission requests for managers.
func (s *PermissionService) List(ctx context.Context, query dto.PermissionQuery) ([]models.Permission, error) {
	items, err := s.permissions.List(ctx, models.PermissionFilter{
		EmployeeID: query.EmployeeID,
		Status:     query.Status,
		DateFrom:   query.DateFrom,
		DateTo:     query.DateTo,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list permission requests")
	}
	return items, nil
}

// ListMine returns the requests of the employee linked to userID.
func (s *PermissionService) ListMine(ctx context.Context, userID string, query dto.PermissionQuery) ([]models.Permission, error) {
	employee, err := s.employees.ResolveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	query.EmployeeID = employee.ID
	return s.List(ctx, query)
}

// Get returns a single permission request.
func (s *PermissionService) Get(ctx context.Context, id string) (*models.Permission, error) {
	permission, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "permission request not found")
		}
		return nil, appErrors.Internal(err, "failed to load permission request")
	}
	return permission, nil
}

func (s *PermissionService) excuseAttendance(ctx context.Context, permission *models.Permission) error {
	var excuse func(ctx context.Context, attendanceCode string, day time.Time) (int64, error)
	switch permission.Type {
	case models.PermissionTypeLateIn:
		excuse = s.attendance.ExcuseLateness
	case models.PermissionTypeEarlyOut:
		excuse = s.attendance.ExcuseEarlyLeave
	default:
		return nil
	}

	employee, err := s.employees.GetByID(ctx, permission.EmployeeID)
	if err != nil {
		return err
	}
	if employee.AttendanceCode == nil || *employee.AttendanceCode == "" {
		s.logger.Warn("employee has no attendance code, attendance left unchanged",
			zap.String("employee_id", employee.ID), zap.String("permission_id", permission.ID))
		return nil
	}

	rows, err := excuse(ctx, *employee.AttendanceCode, permission.PermissionDate)
	if err != nil {
		return err
	}
	if rows == 0 {
		s.logger.Info("no attendance record to excuse",
			zap.String("permission_id", permission.ID),
			zap.Time("date", permission.PermissionDate))
	}
	return nil
}

func decisionMessage(permission *models.Permission, decision models.PermissionStatus, comment string) (string, string) {
	verb := strings.ToLower(string(decision))
	title := fmt.Sprintf("Permission request %s", verb)
	message := fmt.Sprintf("Your %s request for %s was %s.",
		permission.Type, models.NewDate(permission.PermissionDate).String(), verb)
	if comment = strings.TrimSpace(comment); comment != "" {
		message += " Comment: " + comment
	}
	return title, message
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	return optionalString(strings.TrimSpace(*value))
}
