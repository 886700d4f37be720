package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRequestStatus(t *testing.T) {
	for _, s := range RequestStatuses {
		assert.True(t, IsValidRequestStatus(s), s)
	}
	assert.False(t, IsValidRequestStatus("ARCHIVED"))
	assert.False(t, IsValidRequestStatus("new"))
	assert.False(t, IsValidRequestStatus(""))
}

func TestCanTransitRequestStatus(t *testing.T) {
	allowed := map[[2]string]bool{
		{RequestStatusNew, RequestStatusInProgress}:        true,
		{RequestStatusNew, RequestStatusCompleted}:         true,
		{RequestStatusNew, RequestStatusCancelled}:         true,
		{RequestStatusInProgress, RequestStatusCompleted}:  true,
		{RequestStatusInProgress, RequestStatusCancelled}:  true,
	}

	// Полный перебор: всё, чего нет в таблице, должно быть запрещено,
	// включая переход в тот же статус.
	for _, from := range RequestStatuses {
		for _, to := range RequestStatuses {
			expected := allowed[[2]string{from, to}]
			assert.Equal(t, expected, CanTransitRequestStatus(from, to), "%s -> %s", from, to)
		}
	}
}

func TestFinalStatusesHaveNoOutgoingTransitions(t *testing.T) {
	for _, final := range FinalRequestStatuses {
		assert.True(t, IsFinalRequestStatus(final))
		for _, to := range RequestStatuses {
			assert.False(t, CanTransitRequestStatus(final, to), "%s -> %s", final, to)
		}
	}
	assert.False(t, IsFinalRequestStatus(RequestStatusNew))
	assert.False(t, IsFinalRequestStatus(RequestStatusInProgress))
}
