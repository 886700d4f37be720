package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"crm-system/internal/dto"
	"crm-system/internal/entities"
	"crm-system/internal/repositories"
	"crm-system/pkg/config"
	"crm-system/pkg/constants"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/utils"
)

type AppointmentServiceInterface interface {
	FindAppointment(ctx context.Context, id uint64) (*dto.AppointmentDTO, error)
	CreateAppointment(ctx context.Context, data dto.CreateAppointmentDTO) (*dto.AppointmentDTO, error)
	UpdateStatus(ctx context.Context, id uint64, data dto.UpdateAppointmentStatusDTO) (*dto.AppointmentDTO, error)
	DeleteAppointment(ctx context.Context, id uint64) error
}

type AppointmentService struct {
	txManager       repositories.TxManagerInterface
	appointmentRepo repositories.AppointmentRepositoryInterface
	customerRepo    repositories.CustomerRepositoryInterface
	customerLogRepo repositories.CustomerLogRepositoryInterface
	conversionCfg   config.ConversionConfig
	logger          *zap.Logger
}

func NewAppointmentService(
	txManager repositories.TxManagerInterface,
	appointmentRepo repositories.AppointmentRepositoryInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	customerLogRepo repositories.CustomerLogRepositoryInterface,
	conversionCfg config.ConversionConfig,
	logger *zap.Logger,
) AppointmentServiceInterface {
	return &AppointmentService{
		txManager:       txManager,
		appointmentRepo: appointmentRepo,
		customerRepo:    customerRepo,
		customerLogRepo: customerLogRepo,
		conversionCfg:   conversionCfg,
		logger:          logger,
	}
}

func (s *AppointmentService) FindAppointment(ctx context.Context, id uint64) (*dto.AppointmentDTO, error) {
	appointment, err := s.appointmentRepo.FindAppointment(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	mapped := mapAppointment(appointment)
	return &mapped, nil
}

func (s *AppointmentService) CreateAppointment(ctx context.Context, data dto.CreateAppointmentDTO) (*dto.AppointmentDTO, error) {
	appointment := &entities.Appointment{
		CustomerID:      data.CustomerID,
		Title:           data.Title,
		AppointmentDate: data.AppointmentDate,
		DurationMinutes: s.conversionCfg.DefaultAppointmentDuration,
		Location:        data.Location,
		Description:     data.Description,
		Status:          constants.AppointmentStatusPlanned,
	}
	if data.DurationMinutes != nil && *data.DurationMinutes > 0 {
		appointment.DurationMinutes = *data.DurationMinutes
	}

	actorID, actorName := utils.ActorFromContext(ctx)

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.customerRepo.FindCustomer(ctx, tx, data.CustomerID); err != nil {
			return err
		}

		newID, err := s.appointmentRepo.CreateAppointment(ctx, tx, appointment)
		if err != nil {
			return err
		}
		appointment.ID = newID

		_, err = s.customerLogRepo.AddLog(ctx, tx, &entities.CustomerLog{
			CustomerID: data.CustomerID,
			Text:       fmt.Sprintf("Назначена встреча \"%s\"", appointment.Title),
			UserID:     actorID,
			UserName:   actorName,
		})
		return err
	})
	if err != nil {
		s.logger.Error("Ошибка создания встречи", zap.Error(err))
		return nil, err
	}

	mapped := mapAppointment(appointment)
	return &mapped, nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, id uint64, data dto.UpdateAppointmentStatusDTO) (*dto.AppointmentDTO, error) {
	if !constants.IsValidAppointmentStatus(data.Status) {
		return nil, apperrors.NewInvalidInputError("недопустимый статус встречи: %s", data.Status)
	}

	actorID, actorName := utils.ActorFromContext(ctx)

	var updated *entities.Appointment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		appointment, err := s.appointmentRepo.FindAppointment(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.appointmentRepo.UpdateStatus(ctx, tx, id, data.Status); err != nil {
			return err
		}
		_, err = s.customerLogRepo.AddLog(ctx, tx, &entities.CustomerLog{
			CustomerID: appointment.CustomerID,
			Text:       fmt.Sprintf("Статус встречи \"%s\" изменен на %s", appointment.Title, data.Status),
			UserID:     actorID,
			UserName:   actorName,
		})
		if err != nil {
			return err
		}
		appointment.Status = data.Status
		updated = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	mapped := mapAppointment(updated)
	return &mapped, nil
}

func (s *AppointmentService) DeleteAppointment(ctx context.Context, id uint64) error {
	actorID, actorName := utils.ActorFromContext(ctx)

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		appointment, err := s.appointmentRepo.FindAppointment(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.appointmentRepo.DeleteAppointment(ctx, tx, id); err != nil {
			return err
		}
		_, err = s.customerLogRepo.AddLog(ctx, tx, &entities.CustomerLog{
			CustomerID: appointment.CustomerID,
			Text:       fmt.Sprintf("Встреча \"%s\" удалена", appointment.Title),
			UserID:     actorID,
			UserName:   actorName,
		})
		return err
	})
}
