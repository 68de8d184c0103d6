package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PackageStatus is the delivery state of a package.
type PackageStatus string

const (
	StatusPending        PackageStatus = "pending"
	StatusPickedUp       PackageStatus = "picked_up"
	StatusInTransit      PackageStatus = "in_transit"
	StatusOutForDelivery PackageStatus = "out_for_delivery"
	StatusDelivered      PackageStatus = "delivered"
	StatusFailed         PackageStatus = "failed"
)

// PackageStatuses lists every status in lifecycle order.
var PackageStatuses = []PackageStatus{
	StatusPending,
	StatusPickedUp,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusFailed,
}

func (s PackageStatus) Valid() bool {
	for _, known := range PackageStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Package struct {
	ID                string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TrackingNumber    string        `gorm:"type:varchar(50);uniqueIndex:idx_packages_tracking_number;not null" json:"trackingNumber"`
	SenderName        string        `gorm:"type:varchar(255);not null" json:"senderName"`
	SenderAddress     string        `gorm:"type:text;not null" json:"senderAddress"`
	ReceiverName      string        `gorm:"type:varchar(255);not null" json:"receiverName"`
	ReceiverAddress   string        `gorm:"type:text;not null" json:"receiverAddress"`
	ReceiverPhone     string        `gorm:"type:varchar(20);not null" json:"receiverPhone"`
	Status            PackageStatus `gorm:"type:varchar(20);not null;default:pending;index:idx_packages_status" json:"status"`
	CurrentLocation   *string       `gorm:"type:varchar(255)" json:"currentLocation,omitempty"`
	EstimatedDelivery time.Time     `gorm:"not null" json:"estimatedDelivery"`
	Weight            float64       `gorm:"type:decimal(10,2);not null" json:"weight"`
	Description       *string       `gorm:"type:text" json:"description,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	DeliveryStaffID   *string       `gorm:"type:varchar(36);index" json:"deliveryStaffId,omitempty"`
	CustomerID        string        `gorm:"type:varchar(36);not null;index:idx_packages_customer_id" json:"customerId"`

	// Schema-level references. The repository enforces the same rules itself
	// so behaviour does not depend on the engine honouring them.
	Customer      *User            `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	DeliveryStaff *User            `gorm:"foreignKey:DeliveryStaffID;constraint:OnDelete:SET NULL" json:"-"`
	History       []PackageHistory `gorm:"foreignKey:PackageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// OwnerID is the customer the package belongs to.
func (p *Package) OwnerID() string { return p.CustomerID }

// AssigneeID is the delivery staff member assigned to the package, or "".
func (p *Package) AssigneeID() string {
	if p.DeliveryStaffID == nil {
		return ""
	}
	return *p.DeliveryStaffID
}

// DeliveryStats is the status tally over a set of packages. picked_up and
// out_for_delivery count towards TotalPackages only.
type DeliveryStats struct {
	TotalPackages int64 `json:"totalPackages"`
	Delivered     int64 `json:"delivered"`
	InTransit     int64 `json:"inTransit"`
	Pending       int64 `json:"pending"`
	Failed        int64 `json:"failed"`
}
