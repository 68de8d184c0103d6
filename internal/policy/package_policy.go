package policy

import (
	"context"

	"track_swiftly/internal/models"
)

// Ownable is implemented by resources that belong to a customer.
type Ownable interface {
	OwnerID() string
}

// Assignable is implemented by resources that can be assigned to delivery staff.
type Assignable interface {
	AssigneeID() string
}

// PackagePolicy governs package reads and writes.
//
//	admin           everything
//	delivery_staff  read any, list assigned, update status of any
//	customer        read and list own only
//	anonymous       tracking-number lookup only
//
// RestrictStaffUpdates narrows delivery staff status updates to packages
// assigned to them.
type PackagePolicy struct {
	RestrictStaffUpdates bool
}

func (p PackagePolicy) Can(_ context.Context, actor Actor, action Action, resource any) bool {
	if action == ActionTrack {
		return true
	}
	if actor.IsAnonymous() {
		return false
	}

	switch actor.Role {
	case models.RoleAdmin:
		return true

	case models.RoleDeliveryStaff:
		switch action {
		case ActionView, ActionList, ActionViewHistory:
			return true
		case ActionUpdateStatus:
			// nil asks whether staff may update statuses at all
			if !p.RestrictStaffUpdates || resource == nil {
				return true
			}
			assignable, ok := resource.(Assignable)
			return ok && assignable.AssigneeID() == actor.ID
		}
		return false

	case models.RoleCustomer:
		switch action {
		case ActionList:
			return true
		case ActionView, ActionViewHistory:
			ownable, ok := resource.(Ownable)
			return ok && ownable.OwnerID() == actor.ID
		}
		return false
	}
	return false
}
