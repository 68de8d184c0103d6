package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"track_swiftly/internal/models"
	"track_swiftly/internal/policy"
	"track_swiftly/internal/repository"
)

const (
	defaultOriginLocation = "Warehouse"
	createdNote           = "Package created"
)

// CreatePackageInput is the data an admin supplies for a new package.
type CreatePackageInput struct {
	TrackingNumber    string
	SenderName        string
	SenderAddress     string
	ReceiverName      string
	ReceiverAddress   string
	ReceiverPhone     string
	CurrentLocation   *string
	EstimatedDelivery time.Time
	Weight            float64
	Description       *string
	CustomerID        *string
	DeliveryStaffID   *string
}

// StatusUpdateInput moves a package to a new status.
type StatusUpdateInput struct {
	Status   models.PackageStatus
	Location *string
	Notes    *string
}

// PackageService runs the package lifecycle: every status change goes
// through here and is recorded in the package's history.
type PackageService struct {
	packages    PackageStore
	users       UserStore
	gate        *policy.Gate
	transitions models.TransitionValidator
	tracking    TrackingCache
}

func NewPackageService(packages PackageStore, users UserStore, gate *policy.Gate, transitions models.TransitionValidator, tracking TrackingCache) *PackageService {
	if transitions == nil {
		transitions = models.AnyTransition{}
	}
	if tracking == nil {
		tracking = noCache{}
	}
	return &PackageService{
		packages:    packages,
		users:       users,
		gate:        gate,
		transitions: transitions,
		tracking:    tracking,
	}
}

// Create registers a package in pending state together with its first
// history entry. Admin only. The customer defaults to the creating admin.
func (s *PackageService) Create(ctx context.Context, actor policy.Actor, in CreatePackageInput) (*models.Package, error) {
	if err := s.gate.Authorize(ctx, actor, policy.ActionCreate, policy.ResourcePackage, nil); err != nil {
		return nil, err
	}
	pkg, err := s.validateCreate(ctx, actor, in)
	if err != nil {
		return nil, err
	}

	location := defaultOriginLocation
	if pkg.CurrentLocation != nil {
		location = *pkg.CurrentLocation
	}
	note := createdNote
	entry := &models.PackageHistory{
		Location:  location,
		Notes:     &note,
		UpdatedBy: actor.ID,
	}

	if err := s.packages.Create(ctx, pkg, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("tracking number %q already exists: %w", pkg.TrackingNumber, ErrConflict)
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"package_id":      pkg.ID,
		"tracking_number": pkg.TrackingNumber,
		"customer_id":     pkg.CustomerID,
		"created_by":      actor.ID,
	}).Info("package created")
	return pkg, nil
}

func (s *PackageService) validateCreate(ctx context.Context, actor policy.Actor, in CreatePackageInput) (*models.Package, error) {
	pkg := &models.Package{
		TrackingNumber:    strings.TrimSpace(in.TrackingNumber),
		SenderName:        strings.TrimSpace(in.SenderName),
		SenderAddress:     strings.TrimSpace(in.SenderAddress),
		ReceiverName:      strings.TrimSpace(in.ReceiverName),
		ReceiverAddress:   strings.TrimSpace(in.ReceiverAddress),
		ReceiverPhone:     strings.TrimSpace(in.ReceiverPhone),
		Status:            models.StatusPending,
		CurrentLocation:   trimmed(in.CurrentLocation),
		EstimatedDelivery: in.EstimatedDelivery.UTC(),
		Weight:            in.Weight,
		Description:       trimmed(in.Description),
		CustomerID:        actor.ID,
		DeliveryStaffID:   trimmed(in.DeliveryStaffID),
	}
	if c := trimmed(in.CustomerID); c != nil {
		pkg.CustomerID = *c
	}

	verr := &ValidationError{}
	required := []struct{ field, value, msg string }{
		{"trackingNumber", pkg.TrackingNumber, "Tracking number is required"},
		{"senderName", pkg.SenderName, "Sender name is required"},
		{"senderAddress", pkg.SenderAddress, "Sender address is required"},
		{"receiverName", pkg.ReceiverName, "Receiver name is required"},
		{"receiverAddress", pkg.ReceiverAddress, "Receiver address is required"},
	}
	for _, r := range required {
		if r.value == "" {
			verr.Add(r.field, r.msg)
		}
	}
	if !IsIndianMobile(pkg.ReceiverPhone) {
		verr.Add("receiverPhone", "Valid Indian receiver phone is required")
	}
	if in.EstimatedDelivery.IsZero() {
		verr.Add("estimatedDelivery", "Valid estimated delivery date is required")
	}
	if in.Weight < 0 {
		verr.Add("weight", "Weight must be a positive number")
	}

	if err := s.checkUserRef(ctx, verr, "customerId", pkg.CustomerID); err != nil {
		return nil, err
	}
	if pkg.DeliveryStaffID != nil {
		if err := s.checkUserRef(ctx, verr, "deliveryStaffId", *pkg.DeliveryStaffID); err != nil {
			return nil, err
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *PackageService) checkUserRef(ctx context.Context, verr *ValidationError, field, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		verr.Add(field, "User does not exist")
	}
	return nil
}

// UpdateStatus moves the package to a new status and appends the history
// entry in the same transaction. Admins and delivery staff only.
func (s *PackageService) UpdateStatus(ctx context.Context, actor policy.Actor, id string, in StatusUpdateInput) (*models.Package, error) {
	if err := s.gate.Authorize(ctx, actor, policy.ActionUpdateStatus, policy.ResourcePackage, nil); err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, NewValidationError("status", "Invalid status")
	}

	change := repository.StatusChange{
		Status:    in.Status,
		Location:  trimmed(in.Location),
		Notes:     trimmed(in.Notes),
		UpdatedBy: actor.ID,
	}
	check := func(current *models.Package) error {
		if err := s.gate.Authorize(ctx, actor, policy.ActionUpdateStatus, policy.ResourcePackage, current); err != nil {
			return err
		}
		if !s.transitions.Allow(current.Status, in.Status) {
			return NewValidationError("status", fmt.Sprintf("Cannot move package from %s to %s", current.Status, in.Status))
		}
		return nil
	}

	pkg, entry, err := s.packages.UpdateStatus(ctx, id, change, check)
	if err != nil {
		return nil, notFound("package", err)
	}
	s.tracking.Store(ctx, pkg)

	logrus.WithFields(logrus.Fields{
		"package_id": pkg.ID,
		"status":     pkg.Status,
		"location":   entry.Location,
		"updated_by": actor.ID,
	}).Info("package status updated")
	return pkg, nil
}

// Delete removes the package and its history. Admin only.
func (s *PackageService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := s.gate.Authorize(ctx, actor, policy.ActionDelete, policy.ResourcePackage, nil); err != nil {
		return err
	}
	pkg, err := s.packages.Delete(ctx, id)
	if err != nil {
		return notFound("package", err)
	}
	s.tracking.Forget(ctx, pkg.TrackingNumber)

	logrus.WithFields(logrus.Fields{"package_id": id, "deleted_by": actor.ID}).Info("package deleted")
	return nil
}

func (s *PackageService) Get(ctx context.Context, actor policy.Actor, id string) (*models.Package, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("package", err)
	}
	if err := s.gate.Authorize(ctx, actor, policy.ActionView, policy.ResourcePackage, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Track is the public lookup by tracking number.
func (s *PackageService) Track(ctx context.Context, trackingNumber string) (*models.Package, error) {
	if pkg, ok := s.tracking.Package(ctx, trackingNumber); ok {
		return pkg, nil
	}
	pkg, err := s.packages.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, notFound("package", err)
	}
	s.tracking.Fill(ctx, pkg)
	return pkg, nil
}

// List returns the packages visible to actor, narrowed by filter.
func (s *PackageService) List(ctx context.Context, actor policy.Actor, filter policy.PackageFilter) ([]models.Package, error) {
	if err := s.gate.Authorize(ctx, actor, policy.ActionList, policy.ResourcePackage, nil); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, NewValidationError("status", "Invalid status")
	}
	scope, err := policy.ScopeFor(actor, filter)
	if err != nil {
		return nil, err
	}
	return s.packages.List(ctx, scope)
}

// History returns the package's entries oldest first.
func (s *PackageService) History(ctx context.Context, actor policy.Actor, id string) ([]models.PackageHistory, error) {
	if actor.IsAnonymous() {
		return nil, ErrUnauthenticated
	}
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("package", err)
	}
	if err := s.gate.Authorize(ctx, actor, policy.ActionViewHistory, policy.ResourcePackage, pkg); err != nil {
		return nil, err
	}
	return s.packages.History(ctx, id)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
