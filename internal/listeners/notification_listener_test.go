package listeners

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crm-system/internal/entities"
	"crm-system/internal/events"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/utils"
)

type createdBatch struct {
	UserIDs  []uint64
	Title    string
	Message  string
	Type     string
	Metadata map[string]string
}

type fakeNotificationRepo struct {
	batches []createdBatch
}

func (r *fakeNotificationRepo) CreateForUsers(ctx context.Context, userIDs []uint64, title, message, ntype string, metadata map[string]string) error {
	r.batches = append(r.batches, createdBatch{
		UserIDs:  userIDs,
		Title:    title,
		Message:  message,
		Type:     ntype,
		Metadata: metadata,
	})
	return nil
}

func (r *fakeNotificationRepo) GetByUser(ctx context.Context, userID uint64, limit int) ([]entities.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uint64, userID uint64) error {
	return nil
}

type fakeUserRepo struct {
	activeUsers []entities.User
	err         error
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindActiveUsersByRoles(ctx context.Context, roles []string) ([]entities.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.activeUsers, nil
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, u *entities.User) (uint64, error) {
	return 0, nil
}

func TestHandleRequestCreated(t *testing.T) {
	notificationRepo := &fakeNotificationRepo{}
	userRepo := &fakeUserRepo{activeUsers: []entities.User{{ID: 1}, {ID: 2}}}
	listener := NewNotificationListener(notificationRepo, userRepo, zap.NewNop())

	err := listener.handleRequestCreated(context.Background(), events.RequestCreatedEvent{
		RequestID:   10,
		RequestName: "Фаррух Саидов",
		Service:     "Консультация",
	})
	require.NoError(t, err)

	require.Len(t, notificationRepo.batches, 1)
	batch := notificationRepo.batches[0]
	assert.Equal(t, []uint64{1, 2}, batch.UserIDs)
	assert.Equal(t, "Новая заявка", batch.Title)
	assert.Contains(t, batch.Message, "заявка №10")
	assert.Contains(t, batch.Message, "Консультация")
	assert.Equal(t, "10", batch.Metadata["request_id"])
}

func TestHandleRequestConverted(t *testing.T) {
	notificationRepo := &fakeNotificationRepo{}
	userRepo := &fakeUserRepo{activeUsers: []entities.User{{ID: 1}}}
	listener := NewNotificationListener(notificationRepo, userRepo, zap.NewNop())

	err := listener.handleRequestConverted(context.Background(), events.RequestConvertedEvent{
		RequestID:     10,
		CustomerID:    3,
		CustomerName:  "ООО «Сомон»",
		AppointmentID: utils.Uint64Ptr(5),
		ActorName:     "Менеджер Продаж",
	})
	require.NoError(t, err)

	require.Len(t, notificationRepo.batches, 1)
	batch := notificationRepo.batches[0]
	assert.Contains(t, batch.Message, "Менеджер Продаж")
	assert.Contains(t, batch.Message, "ООО «Сомон»")
	assert.Contains(t, batch.Message, "назначил(а) встречу")
	assert.Equal(t, "3", batch.Metadata["customer_id"])
	assert.Equal(t, "5", batch.Metadata["appointment_id"])
}

func TestHandleRequestConverted_WithoutAppointment(t *testing.T) {
	notificationRepo := &fakeNotificationRepo{}
	userRepo := &fakeUserRepo{activeUsers: []entities.User{{ID: 1}}}
	listener := NewNotificationListener(notificationRepo, userRepo, zap.NewNop())

	err := listener.handleRequestConverted(context.Background(), events.RequestConvertedEvent{
		RequestID:    10,
		CustomerID:   3,
		CustomerName: "Клиент",
		ActorName:    "Система",
	})
	require.NoError(t, err)

	require.Len(t, notificationRepo.batches, 1)
	assert.NotContains(t, notificationRepo.batches[0].Message, "встречу")
	assert.NotContains(t, notificationRepo.batches[0].Metadata, "appointment_id")
}

func TestRecipientLookupFailureReturnsError(t *testing.T) {
	notificationRepo := &fakeNotificationRepo{}
	userRepo := &fakeUserRepo{err: apperrors.ErrNotFound}
	listener := NewNotificationListener(notificationRepo, userRepo, zap.NewNop())

	err := listener.handleRequestCreated(context.Background(), events.RequestCreatedEvent{RequestID: 1, RequestName: "Тест"})
	require.Error(t, err)
	assert.Empty(t, notificationRepo.batches)
}

func TestForeignEventIsIgnored(t *testing.T) {
	notificationRepo := &fakeNotificationRepo{}
	listener := NewNotificationListener(notificationRepo, &fakeUserRepo{}, zap.NewNop())

	// Событие другого типа под тем же именем не должно ломать обработчик.
	err := listener.handleRequestCreated(context.Background(), events.RequestConvertedEvent{RequestID: 1})
	require.NoError(t, err)
	assert.Empty(t, notificationRepo.batches)
}
