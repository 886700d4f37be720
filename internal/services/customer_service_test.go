package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crm-system/internal/dto"
	"crm-system/pkg/config"
	"crm-system/pkg/constants"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/utils"
)

func newCustomerFixture() (CustomerServiceInterface, *fakeCustomerRepo, *fakeCustomerLogRepo) {
	customerRepo := newFakeCustomerRepo()
	logRepo := &fakeCustomerLogRepo{}
	cfg := config.ConversionConfig{
		DefaultCountry:             "Таджикистан",
		DefaultCustomerType:        constants.CustomerTypePrivate,
		DefaultAppointmentDuration: 60,
	}
	svc := NewCustomerService(&fakeTxManager{}, customerRepo, logRepo, newFakeAppointmentRepo(), cfg, zap.NewNop())
	return svc, customerRepo, logRepo
}

func TestCreateCustomer_Defaults(t *testing.T) {
	svc, _, logRepo := newCustomerFixture()

	res, err := svc.CreateCustomer(context.Background(), dto.CreateCustomerDTO{Name: "Мадина Рахимова"})
	require.NoError(t, err)

	assert.Equal(t, constants.CustomerTypePrivate, res.Type)
	assert.Equal(t, constants.CustomerStatusActive, res.Status)
	assert.Equal(t, "Таджикистан", res.Country)
	assert.False(t, res.Newsletter)

	require.Len(t, logRepo.logs, 1)
	assert.Equal(t, "Клиент создан вручную", logRepo.logs[0].Text)
}

func TestCreateCustomer_LegacyAliases(t *testing.T) {
	svc, _, _ := newCustomerFixture()

	res, err := svc.CreateCustomer(context.Background(), dto.CreateCustomerDTO{
		Name:              "ООО «Сомон»",
		Type:              utils.StringPtr(constants.CustomerTypeBusiness),
		LegacyZipCode:     utils.StringPtr("734000"),
		LegacyCompanyName: utils.StringPtr("Сомон"),
	})
	require.NoError(t, err)

	assert.Equal(t, "734000", res.PostalCode)
	assert.Equal(t, "Сомон", res.CompanyName)
	assert.Equal(t, constants.CustomerTypeBusiness, res.Type)
}

func TestCreateCustomer_UnknownType(t *testing.T) {
	svc, customerRepo, _ := newCustomerFixture()

	_, err := svc.CreateCustomer(context.Background(), dto.CreateCustomerDTO{
		Name: "Тест",
		Type: utils.StringPtr("ALIEN"),
	})
	require.Error(t, err)

	var invalidInput *apperrors.InvalidInputError
	assert.True(t, errors.As(err, &invalidInput))
	assert.Empty(t, customerRepo.customers)
}

func TestUpdateCustomer_UnknownStatusRejected(t *testing.T) {
	svc, customerRepo, _ := newCustomerFixture()

	created, err := svc.CreateCustomer(context.Background(), dto.CreateCustomerDTO{Name: "Тест"})
	require.NoError(t, err)

	_, err = svc.UpdateCustomer(context.Background(), created.ID, dto.UpdateCustomerDTO{
		Status: utils.StringPtr("FROZEN"),
	})
	require.Error(t, err)

	var invalidInput *apperrors.InvalidInputError
	assert.True(t, errors.As(err, &invalidInput))

	stored, findErr := customerRepo.FindCustomer(context.Background(), nil, created.ID)
	require.NoError(t, findErr)
	assert.Equal(t, constants.CustomerStatusActive, stored.Status)
}

func TestDeleteCustomer_WritesAuditLog(t *testing.T) {
	svc, _, logRepo := newCustomerFixture()

	created, err := svc.CreateCustomer(context.Background(), dto.CreateCustomerDTO{Name: "Тест"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(context.Background(), created.ID))

	require.Len(t, logRepo.logs, 2)
	assert.Contains(t, logRepo.logs[1].Text, "удален")
}

func TestDeleteCustomer_NotFound(t *testing.T) {
	svc, _, _ := newCustomerFixture()

	err := svc.DeleteCustomer(context.Background(), 404)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
