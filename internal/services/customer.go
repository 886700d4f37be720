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
	"crm-system/pkg/types"
	"crm-system/pkg/utils"
)

type CustomerServiceInterface interface {
	GetCustomers(ctx context.Context, filter types.Filter) ([]dto.CustomerDTO, uint64, error)
	FindCustomer(ctx context.Context, id uint64) (*dto.CustomerDTO, error)
	CreateCustomer(ctx context.Context, data dto.CreateCustomerDTO) (*dto.CustomerDTO, error)
	UpdateCustomer(ctx context.Context, id uint64, data dto.UpdateCustomerDTO) (*dto.CustomerDTO, error)
	DeleteCustomer(ctx context.Context, id uint64) error
	GetLogs(ctx context.Context, id uint64) ([]dto.CustomerLogDTO, error)
	GetAppointments(ctx context.Context, id uint64) ([]dto.AppointmentDTO, error)
}

type CustomerService struct {
	txManager       repositories.TxManagerInterface
	customerRepo    repositories.CustomerRepositoryInterface
	customerLogRepo repositories.CustomerLogRepositoryInterface
	appointmentRepo repositories.AppointmentRepositoryInterface
	conversionCfg   config.ConversionConfig
	logger          *zap.Logger
}

func NewCustomerService(
	txManager repositories.TxManagerInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	customerLogRepo repositories.CustomerLogRepositoryInterface,
	appointmentRepo repositories.AppointmentRepositoryInterface,
	conversionCfg config.ConversionConfig,
	logger *zap.Logger,
) CustomerServiceInterface {
	return &CustomerService{
		txManager:       txManager,
		customerRepo:    customerRepo,
		customerLogRepo: customerLogRepo,
		appointmentRepo: appointmentRepo,
		conversionCfg:   conversionCfg,
		logger:          logger,
	}
}

func (s *CustomerService) GetCustomers(ctx context.Context, filter types.Filter) ([]dto.CustomerDTO, uint64, error) {
	customers, total, err := s.customerRepo.GetCustomers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.CustomerDTO, 0, len(customers))
	for i := range customers {
		list = append(list, mapCustomer(&customers[i]))
	}
	return list, total, nil
}

func (s *CustomerService) FindCustomer(ctx context.Context, id uint64) (*dto.CustomerDTO, error) {
	customer, err := s.customerRepo.FindCustomer(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	mapped := mapCustomer(customer)
	return &mapped, nil
}

func (s *CustomerService) CreateCustomer(ctx context.Context, data dto.CreateCustomerDTO) (*dto.CustomerDTO, error) {
	data.Normalize()

	customerType := s.conversionCfg.DefaultCustomerType
	if data.Type != nil {
		if !constants.IsValidCustomerType(*data.Type) {
			return nil, apperrors.NewInvalidInputError("недопустимый тип клиента: %s", *data.Type)
		}
		customerType = *data.Type
	}

	customer := &entities.Customer{
		Name:        data.Name,
		Email:       data.Email,
		Phone:       data.Phone,
		Address:     data.Address,
		City:        data.City,
		PostalCode:  data.PostalCode,
		Country:     data.Country,
		CompanyName: data.CompanyName,
		Type:        customerType,
		Status:      constants.CustomerStatusActive,
	}
	if customer.Country == nil {
		customer.Country = utils.StringPtr(s.conversionCfg.DefaultCountry)
	}
	if data.Newsletter != nil {
		customer.Newsletter = *data.Newsletter
	}

	actorID, actorName := utils.ActorFromContext(ctx)

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		newID, err := s.customerRepo.CreateCustomer(ctx, tx, customer)
		if err != nil {
			return err
		}
		customer.ID = newID

		_, err = s.customerLogRepo.AddLog(ctx, tx, &entities.CustomerLog{
			CustomerID: newID,
			Text:       "Клиент создан вручную",
			UserID:     actorID,
			UserName:   actorName,
		})
		return err
	})
	if err != nil {
		s.logger.Error("Ошибка создания клиента", zap.Error(err))
		return nil, err
	}

	created, err := s.customerRepo.FindCustomer(ctx, nil, customer.ID)
	if err != nil {
		return nil, err
	}
	mapped := mapCustomer(created)
	return &mapped, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint64, data dto.UpdateCustomerDTO) (*dto.CustomerDTO, error) {
	if data.Type != nil && !constants.IsValidCustomerType(*data.Type) {
		return nil, apperrors.NewInvalidInputError("недопустимый тип клиента: %s", *data.Type)
	}
	if data.Status != nil && !constants.IsValidCustomerStatus(*data.Status) {
		return nil, apperrors.NewInvalidInputError("недопустимый статус клиента: %s", *data.Status)
	}

	actorID, actorName := utils.ActorFromContext(ctx)

	var updated *entities.Customer
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		customer, err := s.customerRepo.FindCustomer(ctx, tx, id)
		if err != nil {
			return err
		}

		changed := applyCustomerUpdate(customer, data)
		if !changed {
			updated = customer
			return nil
		}

		if err := s.customerRepo.UpdateCustomer(ctx, tx, id, customer); err != nil {
			return err
		}

		if _, err := s.customerLogRepo.AddLog(ctx, tx, &entities.CustomerLog{
			CustomerID: id,
			Text:       "Данные клиента обновлены",
			UserID:     actorID,
			UserName:   actorName,
		}); err != nil {
			return err
		}

		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	mapped := mapCustomer(updated)
	return &mapped, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint64) error {
	actorID, actorName := utils.ActorFromContext(ctx)

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.customerRepo.FindCustomer(ctx, tx, id); err != nil {
			return err
		}
		if err := s.customerRepo.SoftDeleteCustomer(ctx, tx, id); err != nil {
			return err
		}
		_, err := s.customerLogRepo.AddLog(ctx, tx, &entities.CustomerLog{
			CustomerID: id,
			Text:       fmt.Sprintf("Клиент удален пользователем %s", actorName),
			UserID:     actorID,
			UserName:   actorName,
		})
		return err
	})
}

func (s *CustomerService) GetLogs(ctx context.Context, id uint64) ([]dto.CustomerLogDTO, error) {
	if _, err := s.customerRepo.FindCustomer(ctx, nil, id); err != nil {
		return nil, err
	}

	logs, err := s.customerLogRepo.GetLogsByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	list := make([]dto.CustomerLogDTO, 0, len(logs))
	for _, l := range logs {
		list = append(list, dto.CustomerLogDTO{
			ID:        l.ID,
			Text:      l.Text,
			UserName:  l.UserName,
			CreatedAt: l.CreatedAt.Local().Format(timeLayout),
		})
	}
	return list, nil
}

func (s *CustomerService) GetAppointments(ctx context.Context, id uint64) ([]dto.AppointmentDTO, error) {
	if _, err := s.customerRepo.FindCustomer(ctx, nil, id); err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetAppointmentsByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	list := make([]dto.AppointmentDTO, 0, len(appointments))
	for i := range appointments {
		list = append(list, mapAppointment(&appointments[i]))
	}
	return list, nil
}

func applyCustomerUpdate(customer *entities.Customer, data dto.UpdateCustomerDTO) bool {
	changed := false
	if data.Name != nil && *data.Name != customer.Name {
		customer.Name = *data.Name
		changed = true
	}
	if data.Email != nil {
		customer.Email = data.Email
		changed = true
	}
	if data.Phone != nil {
		customer.Phone = data.Phone
		changed = true
	}
	if data.Address != nil {
		customer.Address = data.Address
		changed = true
	}
	if data.City != nil {
		customer.City = data.City
		changed = true
	}
	if data.PostalCode != nil {
		customer.PostalCode = data.PostalCode
		changed = true
	}
	if data.Country != nil {
		customer.Country = data.Country
		changed = true
	}
	if data.CompanyName != nil {
		customer.CompanyName = data.CompanyName
		changed = true
	}
	if data.Type != nil && *data.Type != customer.Type {
		customer.Type = *data.Type
		changed = true
	}
	if data.Status != nil && *data.Status != customer.Status {
		customer.Status = *data.Status
		changed = true
	}
	if data.Newsletter != nil && *data.Newsletter != customer.Newsletter {
		customer.Newsletter = *data.Newsletter
		changed = true
	}
	return changed
}
