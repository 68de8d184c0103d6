package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"track_swiftly/internal/models"
	"track_swiftly/internal/policy"
	"track_swiftly/internal/repository"
)

// ProfileUpdate carries the profile fields a caller wants to change.
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

type UserService struct {
	users    UserStore
	gate     *policy.Gate
	tracking TrackingCache
}

func NewUserService(users UserStore, gate *policy.Gate, tracking TrackingCache) *UserService {
	if tracking == nil {
		tracking = noCache{}
	}
	return &UserService{users: users, gate: gate, tracking: tracking}
}

// List returns every account, or those with the given role. Admin only.
func (s *UserService) List(ctx context.Context, actor policy.Actor, role models.Role) ([]models.User, error) {
	if err := s.gate.Authorize(ctx, actor, policy.ActionList, policy.ResourceUser, nil); err != nil {
		return nil, err
	}
	if role != "" && !role.Valid() {
		return nil, NewValidationError("role", "Invalid role")
	}
	return s.users.List(ctx, role)
}

func (s *UserService) Get(ctx context.Context, actor policy.Actor, id string) (*models.User, error) {
	if err := s.gate.Authorize(ctx, actor, policy.ActionView, policy.ResourceUser, id); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}

// Update changes the name and/or phone of a profile.
func (s *UserService) Update(ctx context.Context, actor policy.Actor, id string, in ProfileUpdate) (*models.User, error) {
	if err := s.gate.Authorize(ctx, actor, policy.ActionUpdate, policy.ResourceUser, id); err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			verr.Add("name", "Name cannot be empty")
		}
		in.Name = &name
	}
	checkPhone(verr, in.Phone)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	u, err := s.users.UpdateProfile(ctx, id, repository.ProfileChanges{Name: in.Name, Phone: in.Phone})
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}

// Delete removes an account with its owned packages. Admins cannot delete
// themselves.
func (s *UserService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := s.gate.Authorize(ctx, actor, policy.ActionDelete, policy.ResourceUser, id); err != nil {
		return err
	}
	if id == actor.ID {
		return ErrSelfDelete
	}

	res, err := s.users.Delete(ctx, id)
	if err != nil {
		return notFound("user", err)
	}
	for _, tn := range res.TrackingNumbers {
		s.tracking.Forget(ctx, tn)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":             id,
		"deleted_by":          actor.ID,
		"packages_deleted":    res.PackagesDeleted,
		"history_deleted":     res.HistoryDeleted,
		"packages_unassigned": res.PackagesUnassigned,
	}).Info("user deleted")
	return nil
}
