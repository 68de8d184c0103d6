package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"track_swiftly/internal/models"
	"track_swiftly/internal/policy"
)

// PackageRepository persists packages and their status history. Every write
// that changes a package's status appends a history entry in the same
// transaction.
type PackageRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db, now: time.Now}
}

// UnknownLocation is recorded on history entries of updates that did not
// report a location.
const UnknownLocation = "Unknown"

// StatusChange describes a status update and the history entry it produces.
type StatusChange struct {
	Status    models.PackageStatus
	Location  *string
	Notes     *string
	UpdatedBy string
}

// StatusCheck inspects the current row inside the update transaction. A
// non-nil error aborts the update.
type StatusCheck func(current *models.Package) error

// Create inserts pkg and its first history entry atomically. A taken
// tracking number yields ErrDuplicateKey.
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package, entry *models.PackageHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pkg).Error; err != nil {
			return translate(err)
		}
		entry.PackageID = pkg.ID
		entry.Status = pkg.Status
		if err := r.appendHistory(tx, entry); err != nil {
			return err
		}
		pkg.UpdatedAt = entry.Timestamp
		return tx.Model(&models.Package{}).Where("id = ?", pkg.ID).UpdateColumn("updated_at", entry.Timestamp).Error
	})
}

func (r *PackageRepository) FindByID(ctx context.Context, id string) (*models.Package, error) {
	var p models.Package
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PackageRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Package, error) {
	var p models.Package
	if err := r.db.WithContext(ctx).Where("tracking_number = ?", trackingNumber).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// List returns the packages matching scope, newest first.
func (r *PackageRepository) List(ctx context.Context, scope policy.PackageScope) ([]models.Package, error) {
	q := r.db.WithContext(ctx).Model(&models.Package{})
	if scope.CustomerID != "" {
		q = q.Where("customer_id = ?", scope.CustomerID)
	}
	if scope.DeliveryStaffID != "" {
		q = q.Where("delivery_staff_id = ?", scope.DeliveryStaffID)
	}
	if scope.Status != "" {
		q = q.Where("status = ?", scope.Status)
	}

	pkgs := []models.Package{}
	if err := q.Order("created_at DESC").Find(&pkgs).Error; err != nil {
		return nil, err
	}
	return pkgs, nil
}

// UpdateStatus applies change to the package and appends the matching history
// entry. check, when set, runs against the current row first.
func (r *PackageRepository) UpdateStatus(ctx context.Context, id string, change StatusChange, check StatusCheck) (*models.Package, *models.PackageHistory, error) {
	var (
		pkg   models.Package
		entry *models.PackageHistory
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&pkg).Error; err != nil {
			return translate(err)
		}
		if check != nil {
			if err := check(&pkg); err != nil {
				return err
			}
		}

		location := UnknownLocation
		if change.Location != nil {
			location = *change.Location
		}
		entry = &models.PackageHistory{
			PackageID: id,
			Status:    change.Status,
			Location:  location,
			Notes:     change.Notes,
			UpdatedBy: change.UpdatedBy,
		}
		if err := r.appendHistory(tx, entry); err != nil {
			return err
		}

		fields := map[string]interface{}{
			"status":     change.Status,
			"updated_at": entry.Timestamp,
		}
		if change.Location != nil {
			fields["current_location"] = *change.Location
		}
		if err := tx.Model(&models.Package{}).Where("id = ?", id).UpdateColumns(fields).Error; err != nil {
			return fmt.Errorf("updating package: %w", err)
		}
		return tx.Where("id = ?", id).First(&pkg).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &pkg, entry, nil
}

// Delete removes the package and its whole history.
func (r *PackageRepository) Delete(ctx context.Context, id string) (*models.Package, error) {
	var pkg models.Package
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&pkg).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("package_id = ?", id).Delete(&models.PackageHistory{}).Error; err != nil {
			return fmt.Errorf("deleting history: %w", err)
		}
		return tx.Where("id = ?", id).Delete(&models.Package{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// History returns the package's entries oldest first.
func (r *PackageRepository) History(ctx context.Context, packageID string) ([]models.PackageHistory, error) {
	entries := []models.PackageHistory{}
	err := r.db.WithContext(ctx).
		Where("package_id = ?", packageID).
		Order("timestamp ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Purge deletes every package and history entry and reports the counts.
func (r *PackageRepository) Purge(ctx context.Context) (history int64, packages int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		h := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.PackageHistory{})
		if h.Error != nil {
			return h.Error
		}
		p := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Package{})
		if p.Error != nil {
			return p.Error
		}
		history, packages = h.RowsAffected, p.RowsAffected
		return nil
	})
	return history, packages, err
}

// appendHistory stamps entry so the package's ledger stays strictly ordered
// by timestamp, then inserts it.
func (r *PackageRepository) appendHistory(tx *gorm.DB, entry *models.PackageHistory) error {
	var last models.PackageHistory
	err := tx.Where("package_id = ?", entry.PackageID).
		Order("timestamp DESC").
		Limit(1).
		Find(&last).Error
	if err != nil {
		return fmt.Errorf("reading last history entry: %w", err)
	}

	ts := r.now().UTC().Truncate(time.Microsecond)
	if last.ID != "" && !ts.After(last.Timestamp) {
		ts = last.Timestamp.UTC().Add(time.Microsecond)
	}
	entry.Timestamp = ts

	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	return nil
}
