package services

import (
	"context"

	"track_swiftly/internal/cache"
	"track_swiftly/internal/models"
	"track_swiftly/internal/policy"
	"track_swiftly/internal/repository"
)

// UserStore is the persistence the services need for accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, role models.Role) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, changes repository.ProfileChanges) (*models.User, error)
	Delete(ctx context.Context, id string) (repository.UserDeletion, error)
}

// PackageStore is the persistence the services need for the package ledger.
type PackageStore interface {
	Create(ctx context.Context, pkg *models.Package, entry *models.PackageHistory) error
	FindByID(ctx context.Context, id string) (*models.Package, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Package, error)
	List(ctx context.Context, scope policy.PackageScope) ([]models.Package, error)
	UpdateStatus(ctx context.Context, id string, change repository.StatusChange, check repository.StatusCheck) (*models.Package, *models.PackageHistory, error)
	Delete(ctx context.Context, id string) (*models.Package, error)
	History(ctx context.Context, packageID string) ([]models.PackageHistory, error)
	Stats(ctx context.Context, customerID string) (models.DeliveryStats, error)
}

// TrackingCache holds packages looked up by tracking number.
type TrackingCache interface {
	Package(ctx context.Context, trackingNumber string) (*models.Package, bool)
	// Fill caches a row read from the database, keeping any existing entry.
	Fill(ctx context.Context, pkg *models.Package)
	// Store replaces the entry with a freshly written row.
	Store(ctx context.Context, pkg *models.Package)
	Forget(ctx context.Context, trackingNumber string)
}

type noCache struct{}

func (noCache) Package(context.Context, string) (*models.Package, bool) { return nil, false }
func (noCache) Fill(context.Context, *models.Package)                   {}
func (noCache) Store(context.Context, *models.Package)                  {}
func (noCache) Forget(context.Context, string)                          {}

var (
	_ UserStore     = (*repository.UserRepository)(nil)
	_ PackageStore  = (*repository.PackageRepository)(nil)
	_ TrackingCache = noCache{}
	_ TrackingCache = (*cache.TrackingCache)(nil)
)
