package seed

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
)

const demoTrialDays = 15

type demoAccount struct {
	user     model.User
	password string
}

func demoAccounts(now time.Time) []demoAccount {
	trialEnds := now.AddDate(0, 0, demoTrialDays)
	return []demoAccount{
		{
			user: model.User{
				ID:    "1",
				Email: "admin@smartdalali.com",
				Name:  "Admin User",
				Role:  model.RoleSuperuser,
			},
			password: "admin123",
		},
		{
			user: model.User{
				ID:                 demoAgentID,
				Email:              "agent@smartdalali.com",
				Name:               demoAgentName,
				Role:               model.RoleAgent,
				Phone:              demoAgentPhone,
				TrialEndsAt:        &trialEnds,
				SubscriptionActive: true,
			},
			password: "agent123",
		},
		{
			user: model.User{
				ID:    "3",
				Email: "user@smartdalali.com",
				Name:  "Regular User",
				Role:  model.RoleUser,
			},
			password: "user123",
		},
	}
}

// Users returns the demo accounts with bcrypt-hashed passwords.
func Users(now time.Time) ([]model.User, error) {
	accounts := demoAccounts(now)
	out := make([]model.User, 0, len(accounts))
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u := a.user
		u.PasswordHash = string(hash)
		u.CreatedAt = now
		out = append(out, u)
	}
	return out, nil
}
