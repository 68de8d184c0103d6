package policy

import (
	"context"

	"track_swiftly/internal/models"
)

// UserPolicy governs profile access. The resource is the target user id.
// Anyone may read or update their own profile; admins may do anything else.
type UserPolicy struct{}

func (UserPolicy) Can(_ context.Context, actor Actor, action Action, resource any) bool {
	if actor.IsAnonymous() {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}
	switch action {
	case ActionView, ActionUpdate:
		target, ok := resource.(string)
		return ok && target == actor.ID
	}
	return false
}

// StatsPolicy governs delivery statistics. The resource is the customer id
// the statistics are scoped to, or "" for the whole ledger.
type StatsPolicy struct{}

func (StatsPolicy) Can(_ context.Context, actor Actor, action Action, resource any) bool {
	if actor.IsAnonymous() || action != ActionView {
		return false
	}
	scope, _ := resource.(string)
	switch actor.Role {
	case models.RoleAdmin, models.RoleDeliveryStaff:
		return true
	case models.RoleCustomer:
		return scope != "" && scope == actor.ID
	}
	return false
}
