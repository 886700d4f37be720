package repositories

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crm-system/internal/entities"
	"crm-system/pkg/constants"
	"crm-system/pkg/database/postgresql"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/utils"
)

var testPool *pgxpool.Pool

// TestMain подключается к тестовой БД из TEST_DATABASE_URL и применяет
// миграции. Без заданной переменной интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl == "" {
		log.Println("TEST_DATABASE_URL не задан, интеграционные тесты репозиториев пропущены")
		os.Exit(0)
	}

	if err := postgresql.RunMigrations(testDbUrl); err != nil {
		log.Fatalf("Не удалось применить миграции к тестовой БД: %v", err)
	}

	var err error
	testPool, err = pgxpool.New(context.Background(), testDbUrl)
	if err != nil {
		log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	defer testPool.Close()

	os.Exit(m.Run())
}

// cleanupTables очищает таблицы для обеспечения изоляции тестов.
func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE notifications, request_notes, customer_logs, contact_requests, appointments, customers, users RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func seedRequestRow(t *testing.T) uint64 {
	t.Helper()
	repo := NewRequestRepository(testPool, zap.NewNop())
	id, err := repo.CreateRequest(context.Background(), &entities.ContactRequest{
		Name:    "Фаррух Саидов",
		Email:   utils.StringPtr("farrukh@example.com"),
		Phone:   utils.StringPtr("+992900000001"),
		Service: utils.StringPtr("Консультация"),
		Message: utils.StringPtr("Хочу узнать подробнее об услугах."),
		Status:  constants.RequestStatusNew,
	})
	require.NoError(t, err)
	return id
}

func TestCreateAndFindRequest(t *testing.T) {
	cleanupTables(t)
	repo := NewRequestRepository(testPool, zap.NewNop())
	ctx := context.Background()

	id := seedRequestRow(t)

	req, err := repo.FindRequest(ctx, nil, id)
	require.NoError(t, err)
	assert.Equal(t, "Фаррух Саидов", req.Name)
	assert.Equal(t, constants.RequestStatusNew, req.Status)
	assert.Nil(t, req.CustomerID)
	require.NotNil(t, req.CreatedAt)

	_, err = repo.FindRequest(ctx, nil, id+100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMarkConverted_SecondAttemptFails(t *testing.T) {
	cleanupTables(t)
	requestRepo := NewRequestRepository(testPool, zap.NewNop())
	customerRepo := NewCustomerRepository(testPool, zap.NewNop())
	ctx := context.Background()

	id := seedRequestRow(t)
	customerID, err := customerRepo.CreateCustomer(ctx, nil, &entities.Customer{
		Name:   "Фаррух Саидов",
		Type:   constants.CustomerTypePrivate,
		Status: constants.CustomerStatusActive,
	})
	require.NoError(t, err)

	require.NoError(t, requestRepo.MarkConverted(ctx, nil, id, customerID, nil))

	req, err := requestRepo.FindRequest(ctx, nil, id)
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusCompleted, req.Status)
	require.NotNil(t, req.CustomerID)
	assert.Equal(t, customerID, *req.CustomerID)

	// Повторная конвертация упирается в guard customer_id IS NULL.
	secondID, err := customerRepo.CreateCustomer(ctx, nil, &entities.Customer{
		Name:   "Дубликат",
		Type:   constants.CustomerTypePrivate,
		Status: constants.CustomerStatusActive,
	})
	require.NoError(t, err)
	err = requestRepo.MarkConverted(ctx, nil, id, secondID, nil)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConverted)
}

func TestMarkConverted_InsideTransaction(t *testing.T) {
	cleanupTables(t)
	txManager := NewTxManager(testPool)
	requestRepo := NewRequestRepository(testPool, zap.NewNop())
	customerRepo := NewCustomerRepository(testPool, zap.NewNop())
	ctx := context.Background()

	id := seedRequestRow(t)

	// Боевой сценарий: блокировка строки и фиксация конвертации в одной
	// транзакции.
	err := txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := requestRepo.FindRequestForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		require.Nil(t, req.CustomerID)

		customerID, err := customerRepo.CreateCustomer(ctx, tx, &entities.Customer{
			Name:   req.Name,
			Type:   constants.CustomerTypePrivate,
			Status: constants.CustomerStatusActive,
		})
		if err != nil {
			return err
		}
		return requestRepo.MarkConverted(ctx, tx, id, customerID, nil)
	})
	require.NoError(t, err)

	req, err := requestRepo.FindRequest(ctx, nil, id)
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusCompleted, req.Status)
	require.NotNil(t, req.CustomerID)
}

func TestUpdateStatusAndFilter(t *testing.T) {
	cleanupTables(t)
	repo := NewRequestRepository(testPool, zap.NewNop())
	ctx := context.Background()

	id := seedRequestRow(t)
	seedRequestRow(t)

	require.NoError(t, repo.UpdateStatus(ctx, nil, id, constants.RequestStatusInProgress))

	counts, err := repo.CountRequestsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), counts[constants.RequestStatusNew])
	assert.Equal(t, uint64(1), counts[constants.RequestStatusInProgress])
}

func TestRequestNotesNewestFirst(t *testing.T) {
	cleanupTables(t)
	noteRepo := NewRequestNoteRepository(testPool)
	ctx := context.Background()

	id := seedRequestRow(t)

	txID := uuid.New()
	for _, text := range []string{"первая", "вторая", "третья"} {
		_, err := noteRepo.AddNote(ctx, nil, &entities.RequestNote{
			RequestID: id,
			Text:      text,
			UserName:  constants.SystemActorName,
			TxID:      &txID,
		})
		require.NoError(t, err)
	}

	notes, err := noteRepo.GetNotesByRequest(ctx, id)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "третья", notes[0].Text)
	assert.Equal(t, "первая", notes[2].Text)
	require.NotNil(t, notes[0].TxID)
	assert.Equal(t, txID, *notes[0].TxID)
}
