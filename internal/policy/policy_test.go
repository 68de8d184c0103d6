package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track_swiftly/internal/models"
)

var (
	admin    = Actor{ID: "admin-1", Role: models.RoleAdmin}
	staff    = Actor{ID: "staff-1", Role: models.RoleDeliveryStaff}
	customer = Actor{ID: "cust-1", Role: models.RoleCustomer}
	other    = Actor{ID: "cust-2", Role: models.RoleCustomer}
)

func strPtr(s string) *string { return &s }

func TestGate_NoPolicy(t *testing.T) {
	g := NewGate()
	err := g.Authorize(context.Background(), admin, ActionView, "unknown", nil)
	assert.ErrorIs(t, err, ErrNoPolicyDefined)
}

func TestGate_AnonymousVersusForbidden(t *testing.T) {
	g := NewDefaultGate(false)
	ctx := context.Background()
	pkg := &models.Package{CustomerID: customer.ID}

	assert.ErrorIs(t, g.Authorize(ctx, Anonymous, ActionView, ResourcePackage, pkg), ErrUnauthenticated)
	assert.ErrorIs(t, g.Authorize(ctx, other, ActionView, ResourcePackage, pkg), ErrForbidden)
	assert.NoError(t, g.Authorize(ctx, Anonymous, ActionTrack, ResourcePackage, pkg))
}

func TestPackagePolicy(t *testing.T) {
	ctx := context.Background()
	owned := &models.Package{CustomerID: customer.ID, DeliveryStaffID: strPtr("staff-2")}

	tests := []struct {
		name   string
		policy PackagePolicy
		actor  Actor
		action Action
		want   bool
	}{
		{"admin creates", PackagePolicy{}, admin, ActionCreate, true},
		{"admin deletes", PackagePolicy{}, admin, ActionDelete, true},
		{"staff cannot create", PackagePolicy{}, staff, ActionCreate, false},
		{"staff cannot delete", PackagePolicy{}, staff, ActionDelete, false},
		{"staff reads any", PackagePolicy{}, staff, ActionView, true},
		{"staff reads any history", PackagePolicy{}, staff, ActionViewHistory, true},
		{"staff updates unassigned", PackagePolicy{}, staff, ActionUpdateStatus, true},
		{"restricted staff cannot update unassigned", PackagePolicy{RestrictStaffUpdates: true}, staff, ActionUpdateStatus, false},
		{"owner reads", PackagePolicy{}, customer, ActionView, true},
		{"owner reads history", PackagePolicy{}, customer, ActionViewHistory, true},
		{"owner cannot update", PackagePolicy{}, customer, ActionUpdateStatus, false},
		{"other customer cannot read", PackagePolicy{}, other, ActionView, false},
		{"other customer cannot read history", PackagePolicy{}, other, ActionViewHistory, false},
		{"anonymous cannot list", PackagePolicy{}, Anonymous, ActionList, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Can(ctx, tt.actor, tt.action, owned))
		})
	}

	assigned := &models.Package{CustomerID: customer.ID, DeliveryStaffID: strPtr(staff.ID)}
	assert.True(t, PackagePolicy{RestrictStaffUpdates: true}.Can(ctx, staff, ActionUpdateStatus, assigned))
	assert.True(t, PackagePolicy{RestrictStaffUpdates: true}.Can(ctx, staff, ActionUpdateStatus, nil))
	assert.False(t, PackagePolicy{}.Can(ctx, customer, ActionUpdateStatus, nil))
}

func TestUserPolicy(t *testing.T) {
	ctx := context.Background()
	p := UserPolicy{}

	assert.True(t, p.Can(ctx, customer, ActionView, customer.ID))
	assert.True(t, p.Can(ctx, customer, ActionUpdate, customer.ID))
	assert.False(t, p.Can(ctx, customer, ActionView, other.ID))
	assert.False(t, p.Can(ctx, staff, ActionUpdate, customer.ID))
	assert.False(t, p.Can(ctx, customer, ActionList, nil))
	assert.False(t, p.Can(ctx, staff, ActionDelete, customer.ID))
	assert.True(t, p.Can(ctx, admin, ActionList, nil))
	assert.True(t, p.Can(ctx, admin, ActionDelete, customer.ID))
	assert.False(t, p.Can(ctx, Anonymous, ActionView, ""))
}

func TestStatsPolicy(t *testing.T) {
	ctx := context.Background()
	p := StatsPolicy{}

	assert.True(t, p.Can(ctx, admin, ActionView, ""))
	assert.True(t, p.Can(ctx, staff, ActionView, ""))
	assert.False(t, p.Can(ctx, customer, ActionView, ""))

	assert.True(t, p.Can(ctx, customer, ActionView, customer.ID))
	assert.False(t, p.Can(ctx, customer, ActionView, other.ID))
	assert.True(t, p.Can(ctx, staff, ActionView, customer.ID))
	assert.True(t, p.Can(ctx, admin, ActionView, customer.ID))
	assert.False(t, p.Can(ctx, Anonymous, ActionView, customer.ID))
}

func TestScopeFor(t *testing.T) {
	filter := PackageFilter{CustomerID: other.ID, Status: models.StatusPending}

	scope, err := ScopeFor(customer, filter)
	require.NoError(t, err)
	assert.Equal(t, PackageScope{CustomerID: customer.ID, Status: models.StatusPending}, scope)

	scope, err = ScopeFor(staff, filter)
	require.NoError(t, err)
	assert.Equal(t, PackageScope{DeliveryStaffID: staff.ID, Status: models.StatusPending}, scope)

	scope, err = ScopeFor(admin, filter)
	require.NoError(t, err)
	assert.Equal(t, PackageScope{CustomerID: other.ID, Status: models.StatusPending}, scope)

	_, err = ScopeFor(Anonymous, filter)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPackageScope_Matches(t *testing.T) {
	pkg := &models.Package{CustomerID: customer.ID, DeliveryStaffID: strPtr(staff.ID), Status: models.StatusInTransit}

	assert.True(t, PackageScope{}.Matches(pkg))
	assert.True(t, PackageScope{CustomerID: customer.ID}.Matches(pkg))
	assert.True(t, PackageScope{DeliveryStaffID: staff.ID, Status: models.StatusInTransit}.Matches(pkg))
	assert.False(t, PackageScope{CustomerID: other.ID}.Matches(pkg))
	assert.False(t, PackageScope{DeliveryStaffID: "staff-9"}.Matches(pkg))
	assert.False(t, PackageScope{CustomerID: customer.ID, Status: models.StatusDelivered}.Matches(pkg))

	unassigned := &models.Package{CustomerID: customer.ID}
	assert.False(t, PackageScope{DeliveryStaffID: staff.ID}.Matches(unassigned))
}

func TestActorFor(t *testing.T) {
	assert.True(t, ActorFor(nil).IsAnonymous())
	a := ActorFor(&models.User{ID: "u1", Role: models.RoleAdmin})
	assert.True(t, a.Is(models.RoleAdmin))
	assert.False(t, Anonymous.Is(models.RoleCustomer))
}
