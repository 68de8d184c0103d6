package repository

import (
	"context"

	"track_swiftly/internal/models"
)

// Stats tallies packages by status in a single aggregate query, so the
// counts come from one snapshot. customerID narrows the tally to one
// customer's packages; "" counts everything.
func (r *PackageRepository) Stats(ctx context.Context, customerID string) (models.DeliveryStats, error) {
	q := r.db.WithContext(ctx).Model(&models.Package{}).Select(
		`COUNT(*) AS total_packages,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS delivered,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_transit,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending,
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS failed`,
		models.StatusDelivered, models.StatusInTransit, models.StatusPending, models.StatusFailed,
	)
	if customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}

	var stats models.DeliveryStats
	if err := q.Scan(&stats).Error; err != nil {
		return models.DeliveryStats{}, err
	}
	return stats, nil
}
