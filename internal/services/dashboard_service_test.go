package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crm-system/internal/entities"
	"crm-system/pkg/config"
	"crm-system/pkg/constants"
)

type fakeCacheRepo struct {
	store  map[string]string
	getErr error
	setErr error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: make(map[string]string)}
}

func (r *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	if r.getErr != nil {
		return "", r.getErr
	}
	val, ok := r.store[key]
	if !ok {
		return "", errors.New("ключ не найден")
	}
	return val, nil
}

func (r *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.store[key] = value.(string)
	return nil
}

func (r *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(r.store, key)
	}
	return nil
}

func newDashboardFixture() (DashboardServiceInterface, *fakeRequestRepo, *fakeCustomerRepo, *fakeAppointmentRepo, *fakeCacheRepo) {
	requestRepo := newFakeRequestRepo()
	customerRepo := newFakeCustomerRepo()
	appointmentRepo := newFakeAppointmentRepo()
	cacheRepo := newFakeCacheRepo()
	svc := NewDashboardService(
		requestRepo, customerRepo, appointmentRepo, cacheRepo,
		config.DashboardConfig{CacheTTL: time.Minute}, zap.NewNop(),
	)
	return svc, requestRepo, customerRepo, appointmentRepo, cacheRepo
}

func TestGetSummary_AggregatesFromDB(t *testing.T) {
	svc, requestRepo, customerRepo, _, _ := newDashboardFixture()
	ctx := context.Background()

	for _, status := range []string{
		constants.RequestStatusNew,
		constants.RequestStatusNew,
		constants.RequestStatusInProgress,
	} {
		_, err := requestRepo.CreateRequest(ctx, &entities.ContactRequest{Name: "Тест", Status: status})
		require.NoError(t, err)
	}
	_, err := customerRepo.CreateCustomer(ctx, nil, &entities.Customer{Name: "Клиент"})
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint64(3), summary.RequestsTotal)
	assert.Equal(t, uint64(2), summary.RequestsByStatus[constants.RequestStatusNew])
	assert.Equal(t, uint64(1), summary.RequestsByStatus[constants.RequestStatusInProgress])
	assert.Equal(t, uint64(1), summary.CustomersTotal)
	assert.Equal(t, uint64(0), summary.AppointmentsTotal)
}

func TestGetSummary_ServedFromCache(t *testing.T) {
	svc, requestRepo, _, _, cacheRepo := newDashboardFixture()
	ctx := context.Background()

	// Первый вызов наполняет кеш.
	_, err := requestRepo.CreateRequest(ctx, &entities.ContactRequest{Name: "Тест", Status: constants.RequestStatusNew})
	require.NoError(t, err)
	first, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	require.Contains(t, cacheRepo.store, constants.CacheKeyDashboardSummary)

	// Новая заявка не видна, пока кеш жив.
	_, err = requestRepo.CreateRequest(ctx, &entities.ContactRequest{Name: "Еще", Status: constants.RequestStatusNew})
	require.NoError(t, err)
	second, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.RequestsTotal, second.RequestsTotal)

	// После инвалидации сводка пересчитывается.
	require.NoError(t, svc.InvalidateSummary(ctx))
	third, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), third.RequestsTotal)
}

func TestGetSummary_CacheFailureIsNotFatal(t *testing.T) {
	svc, requestRepo, _, _, cacheRepo := newDashboardFixture()
	ctx := context.Background()
	cacheRepo.getErr = errors.New("redis недоступен")
	cacheRepo.setErr = errors.New("redis недоступен")

	_, err := requestRepo.CreateRequest(ctx, &entities.ContactRequest{Name: "Тест", Status: constants.RequestStatusNew})
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), summary.RequestsTotal)
}

func TestGetSummary_CorruptedCacheRecomputed(t *testing.T) {
	svc, requestRepo, _, _, cacheRepo := newDashboardFixture()
	ctx := context.Background()
	cacheRepo.store[constants.CacheKeyDashboardSummary] = "{не json"

	_, err := requestRepo.CreateRequest(ctx, &entities.ContactRequest{Name: "Тест", Status: constants.RequestStatusNew})
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), summary.RequestsTotal)
}
