package models_test

import (
	"testing"

	"cafe/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	status, err := models.ParseOrderStatus(" Confirmed ")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, status)

	_, err = models.ParseOrderStatus("shipped")
	assert.Error(t, err)

	_, err = models.ParseOrderStatus("")
	assert.Error(t, err)
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		allowed  bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusDelivered, false},
		{models.StatusConfirmed, models.StatusDelivered, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusPending, false},
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusConfirmed, false},
		{models.StatusPending, models.StatusPending, true},
		{models.OrderStatus("bogus"), models.OrderStatus("bogus"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, models.StatusDelivered.Terminal())
	assert.True(t, models.StatusCancelled.Terminal())
	assert.False(t, models.StatusPending.Terminal())
	assert.False(t, models.OrderStatus("x").Terminal())
}
