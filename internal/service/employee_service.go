package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
)

type employeeRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Employee, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// EmployeeService resolves application users to HR employee records.
type EmployeeService struct {
	repo   employeeRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewEmployeeService constructs the service. cache may be nil.
func NewEmployeeService(repo employeeRepository, cache *CacheService, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, cache: cache, logger: logger}
}

func employeeCacheKey(userID string) string {
	return fmt.Sprintf("employee:user:%s", userID)
}

// ResolveByUserID returns the employee linked to userID, or ErrEmployeeNotLinked.
// Lookups are cached when a cache is configured.
func (s *EmployeeService) ResolveByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	if userID == "" {
		return nil, appErrors.ErrEmployeeNotLinked
	}
	key := employeeCacheKey(userID)
	var cached models.Employee
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	employee, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrEmployeeNotLinked
		}
		return nil, appErrors.Internal(err, "failed to resolve employee")
	}
	s.cache.Set(ctx, key, employee, 0)
	return employee, nil
}

// Forget drops the cached link for userID so the next lookup reads the database.
func (s *EmployeeService) Forget(ctx context.Context, userID string) {
	s.cache.Invalidate(ctx, employeeCacheKey(userID))
}

// GetByID returns the employee with the given id.
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Internal(err, "failed to load employee")
	}
	return employee, nil
}
