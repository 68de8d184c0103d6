package policy

import "track_swiftly/internal/models"

// PackageFilter carries the optional list filters a caller asked for.
type PackageFilter struct {
	CustomerID string
	Status     models.PackageStatus
}

// PackageScope is the predicate a package list is evaluated against. Empty
// fields match anything; all set fields must match.
type PackageScope struct {
	CustomerID      string
	DeliveryStaffID string
	Status          models.PackageStatus
}

// ScopeFor builds the list predicate for actor. Customers only ever see their
// own packages and delivery staff the ones assigned to them, whatever filter
// was asked for; only admins may filter by customer.
func ScopeFor(actor Actor, f PackageFilter) (PackageScope, error) {
	if actor.IsAnonymous() {
		return PackageScope{}, ErrUnauthenticated
	}

	scope := PackageScope{Status: f.Status}
	switch actor.Role {
	case models.RoleCustomer:
		scope.CustomerID = actor.ID
	case models.RoleDeliveryStaff:
		scope.DeliveryStaffID = actor.ID
	case models.RoleAdmin:
		scope.CustomerID = f.CustomerID
	default:
		return PackageScope{}, ErrForbidden
	}
	return scope, nil
}

// Matches reports whether p satisfies the scope.
func (s PackageScope) Matches(p *models.Package) bool {
	if s.CustomerID != "" && p.CustomerID != s.CustomerID {
		return false
	}
	if s.DeliveryStaffID != "" && p.AssigneeID() != s.DeliveryStaffID {
		return false
	}
	if s.Status != "" && p.Status != s.Status {
		return false
	}
	return true
}
