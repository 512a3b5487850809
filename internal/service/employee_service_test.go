package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-ops-api/internal/models"
	appErrors "github.com/noah-isme/sales-ops-api/pkg/errors"
)

type stubEmployeeRepo struct {
	employee *models.Employee
	err      error
	calls    int
}

func (r *stubEmployeeRepo) FindByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.employee, nil
}

func (r *stubEmployeeRepo) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.employee, nil
}

type memCache struct {
	values map[string]interface{}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	value, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*models.Employee)) = *(value.(*models.Employee))
	return nil
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func TestResolveByUserIDUsesCache(t *testing.T) {
	repo := &stubEmployeeRepo{employee: &models.Employee{ID: "emp-1", FullName: "Dana"}}
	cache := NewCacheService(&memCache{values: map[string]interface{}{}}, NewMetricsService(), time.Minute, nil, true)
	svc := NewEmployeeService(repo, cache, nil)

	first, err := svc.ResolveByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := svc.ResolveByUserID(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "emp-1", first.ID)
	assert.Equal(t, "emp-1", second.ID)
	assert.Equal(t, 1, repo.calls)
}

func TestResolveByUserIDWithoutCache(t *testing.T) {
	repo := &stubEmployeeRepo{employee: &models.Employee{ID: "emp-1"}}
	svc := NewEmployeeService(repo, nil, nil)

	_, err := svc.ResolveByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	_, err = svc.ResolveByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestResolveByUserIDNotLinked(t *testing.T) {
	svc := NewEmployeeService(&stubEmployeeRepo{err: sql.ErrNoRows}, nil, nil)

	_, err := svc.ResolveByUserID(context.Background(), "user-1")
	assert.ErrorIs(t, err, appErrors.ErrEmployeeNotLinked)

	_, err = svc.ResolveByUserID(context.Background(), "")
	assert.ErrorIs(t, err, appErrors.ErrEmployeeNotLinked)
}

func TestResolveByUserIDStoreFailure(t *testing.T) {
	svc := NewEmployeeService(&stubEmployeeRepo{err: errors.New("timeout")}, nil, nil)

	_, err := svc.ResolveByUserID(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestForgetDropsCachedEmployee(t *testing.T) {
	repo := &stubEmployeeRepo{employee: &models.Employee{ID: "emp-1"}}
	store := &memCache{values: map[string]interface{}{}}
	svc := NewEmployeeService(repo, NewCacheService(store, NewMetricsService(), time.Minute, nil, true), nil)

	_, err := svc.ResolveByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Contains(t, store.values, employeeCacheKey("user-1"))

	svc.Forget(context.Background(), "user-1")
	assert.NotContains(t, store.values, employeeCacheKey("user-1"))

	_, err = svc.ResolveByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestForgetWithoutCache(t *testing.T) {
	svc := NewEmployeeService(&stubEmployeeRepo{}, nil, nil)
	assert.NotPanics(t, func() { svc.Forget(context.Background(), "user-1") })
}
