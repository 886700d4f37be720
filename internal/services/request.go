package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"crm-system/internal/dto"
	"crm-system/internal/entities"
	"crm-system/internal/events"
	"crm-system/internal/repositories"
	"crm-system/pkg/config"
	"crm-system/pkg/constants"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/eventbus"
	"crm-system/pkg/types"
	"crm-system/pkg/utils"
)

type RequestServiceInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]dto.ContactRequestDTO, uint64, error)
	FindRequest(ctx context.Context, id uint64) (*dto.ContactRequestDTO, error)
	CreateRequest(ctx context.Context, data dto.CreateContactRequestDTO) (*dto.ContactRequestDTO, error)
	ConvertToCustomer(ctx context.Context, id uint64, data dto.ConvertToCustomerDTO) (*dto.ConversionResultDTO, error)
	UpdateStatus(ctx context.Context, id uint64, data dto.UpdateRequestStatusDTO) (*dto.ContactRequestDTO, error)
	AssignRequest(ctx context.Context, id uint64, data dto.AssignRequestDTO) (*dto.ContactRequestDTO, error)
	AddNote(ctx context.Context, id uint64, data dto.AddNoteDTO) error
	GetNotes(ctx context.Context, id uint64) ([]dto.RequestNoteDTO, error)
	DeleteRequest(ctx context.Context, id uint64) error
}

type RequestService struct {
	txManager       repositories.TxManagerInterface
	requestRepo     repositories.RequestRepositoryInterface
	customerRepo    repositories.CustomerRepositoryInterface
	appointmentRepo repositories.AppointmentRepositoryInterface
	noteRepo        repositories.RequestNoteRepositoryInterface
	customerLogRepo repositories.CustomerLogRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	bus             *eventbus.Bus
	conversionCfg   config.ConversionConfig
	logger          *zap.Logger
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	appointmentRepo repositories.AppointmentRepositoryInterface,
	noteRepo repositories.RequestNoteRepositoryInterface,
	customerLogRepo repositories.CustomerLogRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	bus *eventbus.Bus,
	conversionCfg config.ConversionConfig,
	logger *zap.Logger,
) RequestServiceInterface {
	return &RequestService{
		txManager:       txManager,
		requestRepo:     requestRepo,
		customerRepo:    customerRepo,
		appointmentRepo: appointmentRepo,
		noteRepo:        noteRepo,
		customerLogRepo: customerLogRepo,
		userRepo:        userRepo,
		bus:             bus,
		conversionCfg:   conversionCfg,
		logger:          logger,
	}
}

func (s *RequestService) GetRequests(ctx context.Context, filter types.Filter) ([]dto.ContactRequestDTO, uint64, error) {
	requests, total, err := s.requestRepo.GetRequests(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.ContactRequestDTO, 0, len(requests))
	for i := range requests {
		list = append(list, mapRequest(&requests[i]))
	}
	return list, total, nil
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*dto.ContactRequestDTO, error) {
	req, err := s.requestRepo.FindRequest(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	mapped := mapRequest(req)
	return &mapped, nil
}

func (s *RequestService) CreateRequest(ctx context.Context, data dto.CreateContactRequestDTO) (*dto.ContactRequestDTO, error) {
	req := &entities.ContactRequest{
		Name:    data.Name,
		Email:   data.Email,
		Phone:   data.Phone,
		Service: data.Service,
		Message: data.Message,
		Status:  constants.RequestStatusNew,
	}

	newID, err := s.requestRepo.CreateRequest(ctx, req)
	if err != nil {
		s.logger.Error("Ошибка создания заявки", zap.Error(err))
		return nil, err
	}
	req.ID = newID

	s.bus.Publish(ctx, events.RequestCreatedEvent{
		RequestID:   newID,
		RequestName: req.Name,
		Service:     utils.StringOrDefault(req.Service, ""),
	})

	created, err := s.requestRepo.FindRequest(ctx, nil, newID)
	if err != nil {
		return nil, err
	}
	mapped := mapRequest(created)
	return &mapped, nil
}

// ConvertToCustomer - конвертация заявки в клиента. Все записи (клиент,
// встреча, заявка, аудит) выполняются в одной транзакции; строка заявки
// блокируется FOR UPDATE, повторная конвертация отклоняется. Уведомления
// уходят после коммита и на исход операции не влияют.
func (s *RequestService) ConvertToCustomer(ctx context.Context, id uint64, data dto.ConvertToCustomerDTO) (*dto.ConversionResultDTO, error) {
	if data.CreateAppointment && data.AppointmentData == nil {
		return nil, apperrors.NewInvalidInputError("для создания встречи необходимо передать appointment_data")
	}
	if data.CustomerData != nil {
		data.CustomerData.Normalize()
		if data.CustomerData.Type != nil && !constants.IsValidCustomerType(*data.CustomerData.Type) {
			return nil, apperrors.NewInvalidInputError("недопустимый тип клиента: %s", *data.CustomerData.Type)
		}
	}

	actorID, actorName := utils.ActorFromContext(ctx)

	var result dto.ConversionResultDTO
	var convertedEvent events.RequestConvertedEvent

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindRequestForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.CustomerID != nil {
			return apperrors.ErrAlreadyConverted
		}

		customer := s.buildCustomer(req, data.CustomerData)
		customerID, err := s.customerRepo.CreateCustomer(ctx, tx, customer)
		if err != nil {
			return err
		}
		customer.ID = customerID

		var appointment *entities.Appointment
		var appointmentID *uint64
		if data.CreateAppointment {
			appointment = s.buildAppointment(customerID, req, data.AppointmentData)
			apptID, err := s.appointmentRepo.CreateAppointment(ctx, tx, appointment)
			if err != nil {
				return err
			}
			appointment.ID = apptID
			appointmentID = &apptID
		}

		if err := s.requestRepo.MarkConverted(ctx, tx, req.ID, customerID, appointmentID); err != nil {
			return err
		}

		txID := uuid.New()
		noteText := fmt.Sprintf("Заявка сконвертирована в клиента \"%s\" (ID %d)", customer.Name, customerID)
		if appointment != nil {
			noteText += fmt.Sprintf(", назначена встреча \"%s\"", appointment.Title)
		}
		if data.Note != nil && *data.Note != "" {
			noteText += ": " + *data.Note
		}
		if _, err := s.noteRepo.AddNote(ctx, tx, &entities.RequestNote{
			RequestID: req.ID,
			Text:      noteText,
			UserID:    actorID,
			UserName:  actorName,
			TxID:      &txID,
		}); err != nil {
			return err
		}

		if _, err := s.customerLogRepo.AddLog(ctx, tx, &entities.CustomerLog{
			CustomerID: customerID,
			Text:       fmt.Sprintf("Клиент создан из заявки №%d", req.ID),
			UserID:     actorID,
			UserName:   actorName,
		}); err != nil {
			return err
		}

		req.CustomerID = &customerID
		req.AppointmentID = appointmentID
		req.Status = constants.RequestStatusCompleted

		result = dto.ConversionResultDTO{
			Customer: mapCustomer(customer),
			Request:  mapRequest(req),
		}
		if appointment != nil {
			mapped := mapAppointment(appointment)
			result.Appointment = &mapped
		}

		convertedEvent = events.RequestConvertedEvent{
			RequestID:     req.ID,
			CustomerID:    customerID,
			CustomerName:  customer.Name,
			AppointmentID: appointmentID,
			ActorName:     actorName,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Конвертация заявки не удалась", zap.Uint64("requestID", id), zap.Error(err))
		return nil, err
	}

	s.bus.Publish(ctx, convertedEvent)
	return &result, nil
}

// buildCustomer собирает поля клиента: явные значения перекрывают данные
// заявки, значения по умолчанию берутся из конфига.
func (s *RequestService) buildCustomer(req *entities.ContactRequest, data *dto.ConversionCustomerDataDTO) *entities.Customer {
	customer := &entities.Customer{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Country:    utils.StringPtr(s.conversionCfg.DefaultCountry),
		Type:       s.conversionCfg.DefaultCustomerType,
		Status:     constants.CustomerStatusActive,
		Newsletter: false,
	}

	if data == nil {
		return customer
	}

	if data.Name != nil && *data.Name != "" {
		customer.Name = *data.Name
	}
	if data.Email != nil {
		customer.Email = data.Email
	}
	if data.Phone != nil {
		customer.Phone = data.Phone
	}
	customer.Address = data.Address
	customer.City = data.City
	customer.PostalCode = data.PostalCode
	customer.CompanyName = data.CompanyName
	if data.Country != nil && *data.Country != "" {
		customer.Country = data.Country
	}
	if data.Type != nil {
		customer.Type = *data.Type
	}
	if data.Newsletter != nil {
		customer.Newsletter = *data.Newsletter
	}
	return customer
}

func (s *RequestService) buildAppointment(customerID uint64, req *entities.ContactRequest, data *dto.AppointmentDataDTO) *entities.Appointment {
	appointment := &entities.Appointment{
		CustomerID:      customerID,
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
	// Текст заявки служит описанием встречи, если явного не передали.
	if appointment.Description == nil && req.Message != nil {
		appointment.Description = req.Message
	}
	return appointment
}

func (s *RequestService) UpdateStatus(ctx context.Context, id uint64, data dto.UpdateRequestStatusDTO) (*dto.ContactRequestDTO, error) {
	if !constants.IsValidRequestStatus(data.Status) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidStatus, data.Status)
	}

	actorID, actorName := utils.ActorFromContext(ctx)

	var updated *entities.ContactRequest
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindRequestForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if !constants.CanTransitRequestStatus(req.Status, data.Status) {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrTransitionForbidden, req.Status, data.Status)
		}

		if err := s.requestRepo.UpdateStatus(ctx, tx, id, data.Status); err != nil {
			return err
		}

		noteText := fmt.Sprintf("Статус изменен на %s", data.Status)
		if data.Note != nil && *data.Note != "" {
			noteText = fmt.Sprintf("Статус изменен на %s: %s", data.Status, *data.Note)
		}
		txID := uuid.New()
		if _, err := s.noteRepo.AddNote(ctx, tx, &entities.RequestNote{
			RequestID: req.ID,
			Text:      noteText,
			UserID:    actorID,
			UserName:  actorName,
			TxID:      &txID,
		}); err != nil {
			return err
		}

		req.Status = data.Status
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	mapped := mapRequest(updated)
	return &mapped, nil
}

// AssignRequest назначает ответственного. Заявка в статусе NEW при этом
// переводится в IN_PROGRESS; уже продвинутый статус не понижается.
func (s *RequestService) AssignRequest(ctx context.Context, id uint64, data dto.AssignRequestDTO) (*dto.ContactRequestDTO, error) {
	processor, err := s.userRepo.FindUserByID(ctx, data.ProcessorID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	actorID, actorName := utils.ActorFromContext(ctx)

	var updated *entities.ContactRequest
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindRequestForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		newStatus := req.Status
		if req.Status == constants.RequestStatusNew {
			newStatus = constants.RequestStatusInProgress
		}

		if err := s.requestRepo.Assign(ctx, tx, id, processor.ID, newStatus); err != nil {
			return err
		}

		txID := uuid.New()
		if _, err := s.noteRepo.AddNote(ctx, tx, &entities.RequestNote{
			RequestID: req.ID,
			Text:      fmt.Sprintf("Заявка назначена на %s", processor.Fio),
			UserID:    actorID,
			UserName:  actorName,
			TxID:      &txID,
		}); err != nil {
			return err
		}

		req.ProcessorID = &processor.ID
		req.Status = newStatus
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	mapped := mapRequest(updated)
	if mapped.Processor != nil {
		mapped.Processor.Fio = processor.Fio
	}
	return &mapped, nil
}

func (s *RequestService) AddNote(ctx context.Context, id uint64, data dto.AddNoteDTO) error {
	if _, err := s.requestRepo.FindRequest(ctx, nil, id); err != nil {
		return err
	}

	actorID, actorName := utils.ActorFromContext(ctx)
	txID := uuid.New()
	_, err := s.noteRepo.AddNote(ctx, nil, &entities.RequestNote{
		RequestID: id,
		Text:      data.Text,
		UserID:    actorID,
		UserName:  actorName,
		TxID:      &txID,
	})
	return err
}

func (s *RequestService) GetNotes(ctx context.Context, id uint64) ([]dto.RequestNoteDTO, error) {
	if _, err := s.requestRepo.FindRequest(ctx, nil, id); err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.GetNotesByRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	list := make([]dto.RequestNoteDTO, 0, len(notes))
	for _, n := range notes {
		list = append(list, dto.RequestNoteDTO{
			ID:        n.ID,
			Text:      n.Text,
			UserName:  n.UserName,
			CreatedAt: n.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	return list, nil
}

func (s *RequestService) DeleteRequest(ctx context.Context, id uint64) error {
	return s.requestRepo.DeleteRequest(ctx, id)
}
