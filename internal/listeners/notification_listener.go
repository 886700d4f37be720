package listeners

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"crm-system/internal/events"
	"crm-system/internal/repositories"
	"crm-system/pkg/constants"
	"crm-system/pkg/eventbus"
)

// NotificationListener рассылает уведомления администраторам и менеджерам.
// Вызывается шиной асинхронно: любая ошибка здесь логируется и не влияет
// на исход породившей событие операции.
type NotificationListener struct {
	notificationRepo repositories.NotificationRepositoryInterface
	userRepo         repositories.UserRepositoryInterface
	logger           *zap.Logger
}

func NewNotificationListener(
	notificationRepo repositories.NotificationRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe("request.created", l.handleRequestCreated)
	bus.Subscribe("request.converted", l.handleRequestConverted)
	l.logger.Info("NotificationListener подписан на события 'request.created' и 'request.converted'")
}

func (l *NotificationListener) recipientIDs(ctx context.Context) ([]uint64, error) {
	users, err := l.userRepo.FindActiveUsersByRoles(ctx, []string{constants.RoleAdmin, constants.RoleManager})
	if err != nil {
		return nil, fmt.Errorf("не удалось определить получателей уведомления: %w", err)
	}
	ids := make([]uint64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (l *NotificationListener) handleRequestCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestCreatedEvent)
	if !ok {
		return nil
	}

	ids, err := l.recipientIDs(ctx)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Поступила новая заявка №%d от %s", e.RequestID, e.RequestName)
	if e.Service != "" {
		message += fmt.Sprintf(" (услуга: %s)", e.Service)
	}

	return l.notificationRepo.CreateForUsers(ctx, ids,
		"Новая заявка", message,
		constants.NotificationTypeRequestCreated,
		map[string]string{"request_id": strconv.FormatUint(e.RequestID, 10)},
	)
}

func (l *NotificationListener) handleRequestConverted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestConvertedEvent)
	if !ok {
		return nil
	}

	ids, err := l.recipientIDs(ctx)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("%s сконвертировал(а) заявку №%d в клиента \"%s\"", e.ActorName, e.RequestID, e.CustomerName)
	metadata := map[string]string{
		"request_id":  strconv.FormatUint(e.RequestID, 10),
		"customer_id": strconv.FormatUint(e.CustomerID, 10),
	}
	if e.AppointmentID != nil {
		message += " и назначил(а) встречу"
		metadata["appointment_id"] = strconv.FormatUint(*e.AppointmentID, 10)
	}

	return l.notificationRepo.CreateForUsers(ctx, ids,
		"Заявка сконвертирована", message,
		constants.NotificationTypeRequestConverted,
		metadata,
	)
}
