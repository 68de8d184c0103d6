package services

import (
	"context"

	"track_swiftly/internal/models"
	"track_swiftly/internal/policy"
)

// StatsService reports status tallies over the ledger.
type StatsService struct {
	packages PackageStore
	gate     *policy.Gate
}

func NewStatsService(packages PackageStore, gate *policy.Gate) *StatsService {
	return &StatsService{packages: packages, gate: gate}
}

// Delivery tallies every package. Admins and delivery staff only.
func (s *StatsService) Delivery(ctx context.Context, actor policy.Actor) (models.DeliveryStats, error) {
	if err := s.gate.Authorize(ctx, actor, policy.ActionView, policy.ResourceStats, ""); err != nil {
		return models.DeliveryStats{}, err
	}
	return s.packages.Stats(ctx, "")
}

// Customer tallies one customer's packages. Customers may only ask for
// their own.
func (s *StatsService) Customer(ctx context.Context, actor policy.Actor, customerID string) (models.DeliveryStats, error) {
	if customerID == "" {
		return models.DeliveryStats{}, NewValidationError("customerId", "Customer id is required")
	}
	if err := s.gate.Authorize(ctx, actor, policy.ActionView, policy.ResourceStats, customerID); err != nil {
		return models.DeliveryStats{}, err
	}
	return s.packages.Stats(ctx, customerID)
}
