package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusAccepted, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusReady, false},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusAccepted, OrderStatusReady, true},
		{OrderStatusAccepted, OrderStatusCancelled, true},
		{OrderStatusAccepted, OrderStatusCompleted, false},
		{OrderStatusReady, OrderStatusCompleted, true},
		{OrderStatusReady, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusAccepted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPlatformSettings_MergeLeavesNilFieldsUntouched(t *testing.T) {
	s := DefaultPlatformSettings()
	minimum := 250.0

	merged := s.Merge(PlatformSettingsPatch{MinimumOrderValue: &minimum})

	assert.InDelta(t, 250, merged.MinimumOrderValue, 0.001)
	assert.Equal(t, s.CommissionRate, merged.CommissionRate)
	assert.Equal(t, s.UserRegistrationEnabled, merged.UserRegistrationEnabled)
}
