package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crm-system/internal/dto"
	"crm-system/internal/entities"
	"crm-system/pkg/config"
	"crm-system/pkg/constants"
	"crm-system/pkg/contextkeys"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/eventbus"
	"crm-system/pkg/types"
	"crm-system/pkg/utils"
)

// --- Фейковые зависимости ---

type fakeTxManager struct {
	runs int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.runs++
	return fn(nil)
}

type fakeRequestRepo struct {
	requests map[uint64]*entities.ContactRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uint64]*entities.ContactRequest)}
}

func (r *fakeRequestRepo) GetRequests(ctx context.Context, filter types.Filter) ([]entities.ContactRequest, uint64, error) {
	list := make([]entities.ContactRequest, 0, len(r.requests))
	for _, req := range r.requests {
		list = append(list, *req)
	}
	return list, uint64(len(list)), nil
}

func (r *fakeRequestRepo) FindRequest(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ContactRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *fakeRequestRepo) FindRequestForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ContactRequest, error) {
	return r.FindRequest(ctx, tx, id)
}

func (r *fakeRequestRepo) CreateRequest(ctx context.Context, req *entities.ContactRequest) (uint64, error) {
	id := uint64(len(r.requests) + 1)
	now := time.Now()
	clone := *req
	clone.ID = id
	clone.CreatedAt = &now
	r.requests[id] = &clone
	return id, nil
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	req, ok := r.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.Status = status
	return nil
}

func (r *fakeRequestRepo) Assign(ctx context.Context, tx pgx.Tx, id uint64, processorID uint64, status string) error {
	req, ok := r.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.ProcessorID = &processorID
	req.Status = status
	return nil
}

func (r *fakeRequestRepo) MarkConverted(ctx context.Context, tx pgx.Tx, id uint64, customerID uint64, appointmentID *uint64) error {
	req, ok := r.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if req.CustomerID != nil {
		return apperrors.ErrAlreadyConverted
	}
	req.CustomerID = &customerID
	req.AppointmentID = appointmentID
	req.Status = constants.RequestStatusCompleted
	return nil
}

func (r *fakeRequestRepo) DeleteRequest(ctx context.Context, id uint64) error {
	if _, ok := r.requests[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r *fakeRequestRepo) CountRequestsByStatus(ctx context.Context) (map[string]uint64, error) {
	counts := make(map[string]uint64)
	for _, req := range r.requests {
		counts[req.Status]++
	}
	return counts, nil
}

type fakeCustomerRepo struct {
	customers map[uint64]*entities.Customer
	createErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uint64]*entities.Customer)}
}

func (r *fakeCustomerRepo) GetCustomers(ctx context.Context, filter types.Filter) ([]entities.Customer, uint64, error) {
	return nil, 0, nil
}

func (r *fakeCustomerRepo) FindCustomer(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCustomerRepo) CreateCustomer(ctx context.Context, tx pgx.Tx, c *entities.Customer) (uint64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	id := uint64(len(r.customers) + 1)
	clone := *c
	clone.ID = id
	r.customers[id] = &clone
	return id, nil
}

func (r *fakeCustomerRepo) UpdateCustomer(ctx context.Context, tx pgx.Tx, id uint64, c *entities.Customer) error {
	return nil
}

func (r *fakeCustomerRepo) SoftDeleteCustomer(ctx context.Context, tx pgx.Tx, id uint64) error {
	return nil
}

func (r *fakeCustomerRepo) CountCustomers(ctx context.Context) (uint64, error) {
	return uint64(len(r.customers)), nil
}

type fakeAppointmentRepo struct {
	appointments map[uint64]*entities.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uint64]*entities.Appointment)}
}

func (r *fakeAppointmentRepo) FindAppointment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *fakeAppointmentRepo) GetAppointmentsByCustomer(ctx context.Context, customerID uint64) ([]entities.Appointment, error) {
	return nil, nil
}

func (r *fakeAppointmentRepo) CreateAppointment(ctx context.Context, tx pgx.Tx, a *entities.Appointment) (uint64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	id := uint64(len(r.appointments) + 1)
	clone := *a
	clone.ID = id
	r.appointments[id] = &clone
	return id, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	a, ok := r.appointments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeAppointmentRepo) DeleteAppointment(ctx context.Context, tx pgx.Tx, id uint64) error {
	if _, ok := r.appointments[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) CountAppointments(ctx context.Context) (uint64, error) {
	return uint64(len(r.appointments)), nil
}

type fakeNoteRepo struct {
	notes []entities.RequestNote
}

func (r *fakeNoteRepo) AddNote(ctx context.Context, tx pgx.Tx, note *entities.RequestNote) (uint64, error) {
	id := uint64(len(r.notes) + 1)
	clone := *note
	clone.ID = id
	clone.CreatedAt = time.Now()
	r.notes = append(r.notes, clone)
	return id, nil
}

func (r *fakeNoteRepo) GetNotesByRequest(ctx context.Context, requestID uint64) ([]entities.RequestNote, error) {
	// Новые заметки идут первыми, как в боевом репозитории.
	list := make([]entities.RequestNote, 0, len(r.notes))
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].RequestID == requestID {
			list = append(list, r.notes[i])
		}
	}
	return list, nil
}

func (r *fakeNoteRepo) CountNotesByRequest(ctx context.Context, requestID uint64) (uint64, error) {
	var count uint64
	for _, n := range r.notes {
		if n.RequestID == requestID {
			count++
		}
	}
	return count, nil
}

type fakeCustomerLogRepo struct {
	logs []entities.CustomerLog
}

func (r *fakeCustomerLogRepo) AddLog(ctx context.Context, tx pgx.Tx, log *entities.CustomerLog) (uint64, error) {
	id := uint64(len(r.logs) + 1)
	clone := *log
	clone.ID = id
	r.logs = append(r.logs, clone)
	return id, nil
}

func (r *fakeCustomerLogRepo) GetLogsByCustomer(ctx context.Context, customerID uint64) ([]entities.CustomerLog, error) {
	list := make([]entities.CustomerLog, 0)
	for _, l := range r.logs {
		if l.CustomerID == customerID {
			list = append(list, l)
		}
	}
	return list, nil
}

type fakeUserRepo struct {
	users map[uint64]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*entities.User)}
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindActiveUsersByRoles(ctx context.Context, roles []string) ([]entities.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, u *entities.User) (uint64, error) {
	id := uint64(len(r.users) + 1)
	clone := *u
	clone.ID = id
	r.users[id] = &clone
	return id, nil
}

// --- Сборка сервиса ---

type requestServiceFixture struct {
	service         RequestServiceInterface
	txManager       *fakeTxManager
	requestRepo     *fakeRequestRepo
	customerRepo    *fakeCustomerRepo
	appointmentRepo *fakeAppointmentRepo
	noteRepo        *fakeNoteRepo
	customerLogRepo *fakeCustomerLogRepo
	userRepo        *fakeUserRepo
}

func newRequestServiceFixture() *requestServiceFixture {
	f := &requestServiceFixture{
		txManager:       &fakeTxManager{},
		requestRepo:     newFakeRequestRepo(),
		customerRepo:    newFakeCustomerRepo(),
		appointmentRepo: newFakeAppointmentRepo(),
		noteRepo:        &fakeNoteRepo{},
		customerLogRepo: &fakeCustomerLogRepo{},
		userRepo:        newFakeUserRepo(),
	}
	cfg := config.ConversionConfig{
		DefaultCountry:             "Таджикистан",
		DefaultCustomerType:        constants.CustomerTypePrivate,
		DefaultAppointmentDuration: 60,
	}
	f.service = NewRequestService(
		f.txManager, f.requestRepo, f.customerRepo, f.appointmentRepo,
		f.noteRepo, f.customerLogRepo, f.userRepo,
		eventbus.New(zap.NewNop()), cfg, zap.NewNop(),
	)
	return f
}

func (f *requestServiceFixture) seedRequest(t *testing.T, status string) uint64 {
	t.Helper()
	id, err := f.requestRepo.CreateRequest(context.Background(), &entities.ContactRequest{
		Name:    "Фаррух Саидов",
		Email:   utils.StringPtr("farrukh@example.com"),
		Phone:   utils.StringPtr("+992900000001"),
		Service: utils.StringPtr("Консультация"),
		Message: utils.StringPtr("Хочу узнать подробнее об услугах."),
		Status:  status,
	})
	require.NoError(t, err)
	return id
}

func actorContext(userID uint64, userName string) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, userID)
	return context.WithValue(ctx, contextkeys.UserNameKey, userName)
}

// --- Конвертация ---

func TestConvertToCustomer_HappyPath(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	res, err := f.service.ConvertToCustomer(actorContext(7, "Менеджер Продаж"), id, dto.ConvertToCustomerDTO{})
	require.NoError(t, err)
	require.NotNil(t, res)

	// Клиент наследует контакты заявки и получает значения по умолчанию.
	assert.Equal(t, "Фаррух Саидов", res.Customer.Name)
	assert.Equal(t, "farrukh@example.com", res.Customer.Email)
	assert.Equal(t, "+992900000001", res.Customer.Phone)
	assert.Equal(t, "Таджикистан", res.Customer.Country)
	assert.Equal(t, constants.CustomerTypePrivate, res.Customer.Type)
	assert.Equal(t, constants.CustomerStatusActive, res.Customer.Status)
	assert.False(t, res.Customer.Newsletter)

	// Заявка завершена и связана с клиентом.
	assert.Equal(t, constants.RequestStatusCompleted, res.Request.Status)
	require.NotNil(t, res.Request.CustomerID)
	assert.Equal(t, res.Customer.ID, *res.Request.CustomerID)
	assert.Nil(t, res.Appointment)

	// Аудит: одна заметка по заявке и одна запись по клиенту, оба с автором.
	require.Len(t, f.noteRepo.notes, 1)
	assert.Contains(t, f.noteRepo.notes[0].Text, "сконвертирована в клиента")
	assert.Equal(t, "Менеджер Продаж", f.noteRepo.notes[0].UserName)
	require.NotNil(t, f.noteRepo.notes[0].TxID)
	require.Len(t, f.customerLogRepo.logs, 1)
	assert.Contains(t, f.customerLogRepo.logs[0].Text, "создан из заявки")
}

func TestConvertToCustomer_OverridesBeatRequestFields(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusInProgress)

	newsletter := true
	res, err := f.service.ConvertToCustomer(context.Background(), id, dto.ConvertToCustomerDTO{
		CustomerData: &dto.ConversionCustomerDataDTO{
			Name:       utils.StringPtr("ООО «Сомон»"),
			Email:      utils.StringPtr("info@somon.example"),
			Country:    utils.StringPtr("Узбекистан"),
			Type:       utils.StringPtr(constants.CustomerTypeBusiness),
			Newsletter: &newsletter,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ООО «Сомон»", res.Customer.Name)
	assert.Equal(t, "info@somon.example", res.Customer.Email)
	assert.Equal(t, "Узбекистан", res.Customer.Country)
	assert.Equal(t, constants.CustomerTypeBusiness, res.Customer.Type)
	assert.True(t, res.Customer.Newsletter)
	// Не перекрытые поля наследуются из заявки.
	assert.Equal(t, "+992900000001", res.Customer.Phone)
}

func TestConvertToCustomer_LegacyAliasNormalized(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	res, err := f.service.ConvertToCustomer(context.Background(), id, dto.ConvertToCustomerDTO{
		CustomerData: &dto.ConversionCustomerDataDTO{
			LegacyZipCode:     utils.StringPtr("734000"),
			LegacyCompanyName: utils.StringPtr("Сомон"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "734000", res.Customer.PostalCode)
	assert.Equal(t, "Сомон", res.Customer.CompanyName)
}

func TestConvertToCustomer_WithAppointment(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	date := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	res, err := f.service.ConvertToCustomer(context.Background(), id, dto.ConvertToCustomerDTO{
		CreateAppointment: true,
		AppointmentData: &dto.AppointmentDataDTO{
			Title:           "Демонстрация системы",
			AppointmentDate: date,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Appointment)

	assert.Equal(t, res.Customer.ID, res.Appointment.CustomerID)
	assert.Equal(t, constants.AppointmentStatusPlanned, res.Appointment.Status)
	// Длительность по умолчанию из конфига, описание - из текста заявки.
	assert.Equal(t, 60, res.Appointment.DurationMinutes)
	assert.Equal(t, "Хочу узнать подробнее об услугах.", res.Appointment.Description)
	require.NotNil(t, res.Request.AppointmentID)
	assert.Equal(t, res.Appointment.ID, *res.Request.AppointmentID)
}

func TestConvertToCustomer_AppointmentRequestedWithoutData(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	_, err := f.service.ConvertToCustomer(context.Background(), id, dto.ConvertToCustomerDTO{
		CreateAppointment: true,
	})
	require.Error(t, err)

	var invalidInput *apperrors.InvalidInputError
	assert.True(t, errors.As(err, &invalidInput))
	// Никаких записей не произошло.
	assert.Empty(t, f.customerRepo.customers)
	assert.Empty(t, f.noteRepo.notes)
}

func TestConvertToCustomer_SecondCallRejected(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	_, err := f.service.ConvertToCustomer(context.Background(), id, dto.ConvertToCustomerDTO{})
	require.NoError(t, err)

	_, err = f.service.ConvertToCustomer(context.Background(), id, dto.ConvertToCustomerDTO{})
	require.ErrorIs(t, err, apperrors.ErrAlreadyConverted)

	// Второй клиент не создан, второй пары записей аудита нет.
	assert.Len(t, f.customerRepo.customers, 1)
	assert.Len(t, f.noteRepo.notes, 1)
	assert.Len(t, f.customerLogRepo.logs, 1)
}

func TestConvertToCustomer_CustomerCreateErrorAbortsAll(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)
	f.customerRepo.createErr = apperrors.ErrConflict

	_, err := f.service.ConvertToCustomer(context.Background(), id, dto.ConvertToCustomerDTO{})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	req, findErr := f.requestRepo.FindRequest(context.Background(), nil, id)
	require.NoError(t, findErr)
	assert.Nil(t, req.CustomerID)
	assert.Empty(t, f.noteRepo.notes)
}

func TestConvertToCustomer_NotFound(t *testing.T) {
	f := newRequestServiceFixture()

	_, err := f.service.ConvertToCustomer(context.Background(), 999, dto.ConvertToCustomerDTO{})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConvertToCustomer_AnonymousActorIsSystem(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	_, err := f.service.ConvertToCustomer(context.Background(), id, dto.ConvertToCustomerDTO{})
	require.NoError(t, err)

	require.Len(t, f.noteRepo.notes, 1)
	assert.Equal(t, constants.SystemActorName, f.noteRepo.notes[0].UserName)
	assert.Nil(t, f.noteRepo.notes[0].UserID)
}

// --- Смена статуса ---

func TestUpdateStatus_AllowedTransitions(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{constants.RequestStatusNew, constants.RequestStatusInProgress},
		{constants.RequestStatusNew, constants.RequestStatusCompleted},
		{constants.RequestStatusNew, constants.RequestStatusCancelled},
		{constants.RequestStatusInProgress, constants.RequestStatusCompleted},
		{constants.RequestStatusInProgress, constants.RequestStatusCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			f := newRequestServiceFixture()
			id := f.seedRequest(t, tc.from)

			res, err := f.service.UpdateStatus(context.Background(), id, dto.UpdateRequestStatusDTO{Status: tc.to})
			require.NoError(t, err)
			assert.Equal(t, tc.to, res.Status)

			// Каждая смена статуса оставляет ровно одну заметку.
			require.Len(t, f.noteRepo.notes, 1)
			assert.Equal(t, "Статус изменен на "+tc.to, f.noteRepo.notes[0].Text)
		})
	}
}

func TestUpdateStatus_ForbiddenTransitions(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{constants.RequestStatusCompleted, constants.RequestStatusNew},
		{constants.RequestStatusCompleted, constants.RequestStatusInProgress},
		{constants.RequestStatusCancelled, constants.RequestStatusInProgress},
		{constants.RequestStatusInProgress, constants.RequestStatusNew},
		{constants.RequestStatusNew, constants.RequestStatusNew},
	}

	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			f := newRequestServiceFixture()
			id := f.seedRequest(t, tc.from)

			_, err := f.service.UpdateStatus(context.Background(), id, dto.UpdateRequestStatusDTO{Status: tc.to})
			require.ErrorIs(t, err, apperrors.ErrTransitionForbidden)

			// Статус и журнал не тронуты.
			req, findErr := f.requestRepo.FindRequest(context.Background(), nil, id)
			require.NoError(t, findErr)
			assert.Equal(t, tc.from, req.Status)
			assert.Empty(t, f.noteRepo.notes)
		})
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	_, err := f.service.UpdateStatus(context.Background(), id, dto.UpdateRequestStatusDTO{Status: "ARCHIVED"})
	require.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	assert.Zero(t, f.txManager.runs)
}

func TestUpdateStatus_NoteAppended(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	note := "клиент подтвердил интерес"
	_, err := f.service.UpdateStatus(actorContext(3, "Оператор Заявок"), id, dto.UpdateRequestStatusDTO{
		Status: constants.RequestStatusInProgress,
		Note:   &note,
	})
	require.NoError(t, err)

	require.Len(t, f.noteRepo.notes, 1)
	assert.Equal(t, "Статус изменен на IN_PROGRESS: клиент подтвердил интерес", f.noteRepo.notes[0].Text)
	assert.Equal(t, "Оператор Заявок", f.noteRepo.notes[0].UserName)
}

// --- Назначение ---

func TestAssignRequest_PromotesNewToInProgress(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)
	userID, err := f.userRepo.CreateUser(context.Background(), &entities.User{
		Fio:    "Менеджер Продаж",
		Email:  "manager@crm.local",
		Role:   constants.RoleManager,
		Status: constants.UserStatusActiveCode,
	})
	require.NoError(t, err)

	res, err := f.service.AssignRequest(context.Background(), id, dto.AssignRequestDTO{ProcessorID: userID})
	require.NoError(t, err)

	assert.Equal(t, constants.RequestStatusInProgress, res.Status)
	require.NotNil(t, res.Processor)
	assert.Equal(t, userID, res.Processor.ID)
	assert.Equal(t, "Менеджер Продаж", res.Processor.Fio)

	require.Len(t, f.noteRepo.notes, 1)
	assert.Contains(t, f.noteRepo.notes[0].Text, "назначена на Менеджер Продаж")
}

func TestAssignRequest_DoesNotDemoteStatus(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusCompleted)
	userID, err := f.userRepo.CreateUser(context.Background(), &entities.User{Fio: "Менеджер", Status: constants.UserStatusActiveCode})
	require.NoError(t, err)

	res, err := f.service.AssignRequest(context.Background(), id, dto.AssignRequestDTO{ProcessorID: userID})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusCompleted, res.Status)
}

func TestAssignRequest_UnknownUser(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	_, err := f.service.AssignRequest(context.Background(), id, dto.AssignRequestDTO{ProcessorID: 42})
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)

	// Заявка не тронута, транзакция даже не начиналась.
	req, findErr := f.requestRepo.FindRequest(context.Background(), nil, id)
	require.NoError(t, findErr)
	assert.Nil(t, req.ProcessorID)
	assert.Equal(t, constants.RequestStatusNew, req.Status)
	assert.Zero(t, f.txManager.runs)
}

// --- Заметки ---

func TestAddNoteAndGetNotes(t *testing.T) {
	f := newRequestServiceFixture()
	id := f.seedRequest(t, constants.RequestStatusNew)

	require.NoError(t, f.service.AddNote(actorContext(5, "Оператор"), id, dto.AddNoteDTO{Text: "первая"}))
	require.NoError(t, f.service.AddNote(actorContext(5, "Оператор"), id, dto.AddNoteDTO{Text: "вторая"}))

	notes, err := f.service.GetNotes(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	// Новые заметки первыми.
	assert.Equal(t, "вторая", notes[0].Text)
	assert.Equal(t, "первая", notes[1].Text)
	assert.Equal(t, "Оператор", notes[0].UserName)
}

func TestAddNote_RequestNotFound(t *testing.T) {
	f := newRequestServiceFixture()

	err := f.service.AddNote(context.Background(), 404, dto.AddNoteDTO{Text: "не дойдет"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- Создание заявки ---

func TestCreateRequest_StartsAsNew(t *testing.T) {
	f := newRequestServiceFixture()

	res, err := f.service.CreateRequest(context.Background(), dto.CreateContactRequestDTO{
		Name:  "Мадина Рахимова",
		Email: utils.StringPtr("madina@example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, constants.RequestStatusNew, res.Status)
	assert.Equal(t, "Мадина Рахимова", res.Name)
	assert.Nil(t, res.CustomerID)
}
