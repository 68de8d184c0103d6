package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// DefaultAccounts are the sample accounts created by the seed command.
var DefaultAccounts = []RegisterInput{
	{Email: "admin@cloudtrack.com", Password: "admin123", Name: "Amit Sharma", Role: "admin", Phone: strRef("+91 98765 43210")},
	{Email: "customer@example.com", Password: "password123", Name: "Priya Patel", Role: "customer", Phone: strRef("+91 98765 43211")},
	{Email: "delivery@cloudtrack.com", Password: "password123", Name: "Ravi Singh", Role: "delivery_staff", Phone: strRef("+91 98765 43212")},
}

// Seed registers each account that does not exist yet and returns how many
// were created. Existing emails are left untouched.
func (s *AuthService) Seed(ctx context.Context, accounts []RegisterInput) (int, error) {
	created := 0
	for _, acc := range accounts {
		_, _, err := s.Register(ctx, acc)
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrConflict):
			logrus.WithField("email", NormalizeEmail(acc.Email)).Info("seed account already exists, skipping")
		default:
			return created, err
		}
	}
	return created, nil
}

func strRef(s string) *string { return &s }
