package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"track_swiftly/internal/models"
)

// UserRepository persists accounts.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ProfileChanges holds the profile fields to update; nil fields are left alone.
type ProfileChanges struct {
	Name  *string
	Phone *string
}

// UserDeletion reports what deleting an account touched. TrackingNumbers
// lists every package that was removed or lost its assignee.
type UserDeletion struct {
	PackagesDeleted    int64
	HistoryDeleted     int64
	PackagesUnassigned int64
	TrackingNumbers    []string
}

// Create inserts u. A taken email yields ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Exists reports whether an account with id is present.
func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns accounts newest first, optionally restricted to one role.
func (r *UserRepository) List(ctx context.Context, role models.Role) ([]models.User, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	users := []models.User{}
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile applies changes to the account and returns the stored row.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*models.User, error) {
	var updated models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			return translate(err)
		}
		fields := map[string]interface{}{}
		if changes.Name != nil {
			fields["name"] = *changes.Name
		}
		if changes.Phone != nil {
			fields["phone"] = *changes.Phone
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the account in one transaction. Packages the user owns are
// deleted together with their history; packages assigned to the user lose
// their assignee. History entries the user authored are kept.
func (r *UserRepository) Delete(ctx context.Context, id string) (UserDeletion, error) {
	var res UserDeletion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Select("id").Where("id = ?", id).First(&u).Error; err != nil {
			return translate(err)
		}

		var owned []models.Package
		if err := tx.Select("id", "tracking_number").Where("customer_id = ?", id).Find(&owned).Error; err != nil {
			return fmt.Errorf("listing owned packages: %w", err)
		}
		if len(owned) > 0 {
			ids := make([]string, 0, len(owned))
			for _, p := range owned {
				ids = append(ids, p.ID)
				res.TrackingNumbers = append(res.TrackingNumbers, p.TrackingNumber)
			}

			hist := tx.Where("package_id IN ?", ids).Delete(&models.PackageHistory{})
			if hist.Error != nil {
				return fmt.Errorf("deleting package history: %w", hist.Error)
			}
			res.HistoryDeleted = hist.RowsAffected

			pkgs := tx.Where("id IN ?", ids).Delete(&models.Package{})
			if pkgs.Error != nil {
				return fmt.Errorf("deleting packages: %w", pkgs.Error)
			}
			res.PackagesDeleted = pkgs.RowsAffected
		}

		var assigned []string
		if err := tx.Model(&models.Package{}).Where("delivery_staff_id = ?", id).Pluck("tracking_number", &assigned).Error; err != nil {
			return fmt.Errorf("listing assigned packages: %w", err)
		}
		res.TrackingNumbers = append(res.TrackingNumbers, assigned...)

		unassigned := tx.Model(&models.Package{}).
			Where("delivery_staff_id = ?", id).
			Update("delivery_staff_id", nil)
		if unassigned.Error != nil {
			return fmt.Errorf("unassigning packages: %w", unassigned.Error)
		}
		res.PackagesUnassigned = unassigned.RowsAffected

		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
	if err != nil {
		return UserDeletion{}, err
	}
	return res, nil
}
