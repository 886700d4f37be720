package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crm-system/internal/entities"
	"crm-system/pkg/constants"
	apperrors "crm-system/pkg/errors"
)

func seedUserRow(t *testing.T, email string) uint64 {
	t.Helper()
	repo := NewUserRepository(testPool, zap.NewNop())
	id, err := repo.CreateUser(context.Background(), &entities.User{
		Fio:      "Зарина Каримова",
		Email:    email,
		Password: "hash",
		Role:     constants.RoleManager,
		Status:   constants.UserStatusActiveCode,
	})
	require.NoError(t, err)
	return id
}

func TestNotificationFanOutAndMarkRead(t *testing.T) {
	cleanupTables(t)
	repo := NewNotificationRepository(testPool, zap.NewNop())
	ctx := context.Background()

	firstID := seedUserRow(t, "manager1@crm.local")
	secondID := seedUserRow(t, "manager2@crm.local")

	err := repo.CreateForUsers(ctx, []uint64{firstID, secondID},
		"Новая заявка", "Поступила заявка №1: Консультация",
		constants.NotificationTypeRequestCreated,
		map[string]string{"request_id": "1"})
	require.NoError(t, err)

	list, err := repo.GetByUser(ctx, firstID, 50)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Новая заявка", list[0].Title)
	assert.Equal(t, "1", list[0].Metadata["request_id"])
	assert.False(t, list[0].IsRead)

	// Отметка прочитанным работает только для своего уведомления.
	err = repo.MarkRead(ctx, list[0].ID, secondID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.MarkRead(ctx, list[0].ID, firstID))

	list, err = repo.GetByUser(ctx, firstID, 50)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
}

func TestCreateForUsers_EmptyRecipientsIsNoop(t *testing.T) {
	cleanupTables(t)
	repo := NewNotificationRepository(testPool, zap.NewNop())

	require.NoError(t, repo.CreateForUsers(context.Background(), nil, "t", "m", "x", nil))
}
