package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPaid, StatusShipped, true},
		{StatusShipped, StatusCompleted, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusCompleted, false},
		{StatusPaid, StatusCompleted, false},
		{StatusCompleted, StatusPaid, false},
		{StatusPaid, StatusPending, false},
		{StatusPending, StatusCancelled, true},
		{StatusPaid, StatusCancelled, true},
		{StatusShipped, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCancelled, StatusPaid, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusCountable(t *testing.T) {
	assert.False(t, StatusPending.Countable())
	assert.True(t, StatusPaid.Countable())
	assert.True(t, StatusShipped.Countable())
	assert.True(t, StatusCompleted.Countable())
	assert.False(t, StatusCancelled.Countable())
}
