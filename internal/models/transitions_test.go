package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnyTransitionAllowsEveryKnownPair(t *testing.T) {
	v := AnyTransition{}
	for _, from := range PackageStatuses {
		for _, to := range PackageStatuses {
			assert.True(t, v.Allow(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, v.Allow(StatusPending, PackageStatus("lost")))
}

func TestForwardOnlyTransitions(t *testing.T) {
	v := ForwardOnlyTransitions{}

	assert.True(t, v.Allow(StatusPending, StatusPickedUp))
	assert.True(t, v.Allow(StatusOutForDelivery, StatusDelivered))
	assert.True(t, v.Allow(StatusFailed, StatusPending))

	assert.False(t, v.Allow(StatusDelivered, StatusPending))
	assert.False(t, v.Allow(StatusPending, StatusDelivered))
	assert.False(t, v.Allow(StatusDelivered, StatusDelivered))
}

func TestPackageStatusValid(t *testing.T) {
	assert.True(t, StatusOutForDelivery.Valid())
	assert.False(t, PackageStatus("").Valid())
	assert.False(t, PackageStatus("returned").Valid())
}
