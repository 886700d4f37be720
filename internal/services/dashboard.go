package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"crm-system/internal/dto"
	"crm-system/internal/repositories"
	"crm-system/pkg/config"
	"crm-system/pkg/constants"
)

type DashboardServiceInterface interface {
	GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error)
	InvalidateSummary(ctx context.Context) error
}

type DashboardService struct {
	requestRepo     repositories.RequestRepositoryInterface
	customerRepo    repositories.CustomerRepositoryInterface
	appointmentRepo repositories.AppointmentRepositoryInterface
	cacheRepo       repositories.CacheRepositoryInterface
	cfg             config.DashboardConfig
	logger          *zap.Logger
}

func NewDashboardService(
	requestRepo repositories.RequestRepositoryInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	appointmentRepo repositories.AppointmentRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cfg config.DashboardConfig,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		requestRepo:     requestRepo,
		customerRepo:    customerRepo,
		appointmentRepo: appointmentRepo,
		cacheRepo:       cacheRepo,
		cfg:             cfg,
		logger:          logger,
	}
}

// GetSummary отдает сводку из кеша; при промахе собирает её из БД и
// кеширует. Ошибки Redis не фатальны: сводка тогда просто считается заново.
func (s *DashboardService) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, constants.CacheKeyDashboardSummary); err == nil && cached != "" {
		var summary dto.DashboardSummaryDTO
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
		s.logger.Warn("Повреждённая сводка в кеше, пересчитываем")
	}

	byStatus, err := s.requestRepo.CountRequestsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var requestsTotal uint64
	for _, count := range byStatus {
		requestsTotal += count
	}

	customersTotal, err := s.customerRepo.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	appointmentsTotal, err := s.appointmentRepo.CountAppointments(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryDTO{
		RequestsByStatus:  byStatus,
		RequestsTotal:     requestsTotal,
		CustomersTotal:    customersTotal,
		AppointmentsTotal: appointmentsTotal,
	}

	if payload, err := json.Marshal(summary); err == nil {
		if err := s.cacheRepo.Set(ctx, constants.CacheKeyDashboardSummary, string(payload), s.cfg.CacheTTL); err != nil {
			s.logger.Warn("Не удалось записать сводку в кеш", zap.Error(err))
		}
	}

	return summary, nil
}

func (s *DashboardService) InvalidateSummary(ctx context.Context) error {
	return s.cacheRepo.Del(ctx, constants.CacheKeyDashboardSummary)
}
