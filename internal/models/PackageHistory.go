package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PackageHistory is one immutable entry of a package's status ledger.
type PackageHistory struct {
	ID        string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PackageID string        `gorm:"type:varchar(36);not null;index:idx_package_history_package_id" json:"packageId"`
	Status    PackageStatus `gorm:"type:varchar(20);not null" json:"status"`
	Location  string        `gorm:"type:varchar(255);not null" json:"location"`
	Notes     *string       `gorm:"type:text" json:"notes,omitempty"`
	Timestamp time.Time     `gorm:"not null" json:"timestamp"`
	UpdatedBy string        `gorm:"type:varchar(36);not null" json:"updatedBy"`
}

func (PackageHistory) TableName() string {
	return "package_history"
}

func (h *PackageHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
