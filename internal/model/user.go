package model

import "time"

type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleAgent     Role = "agent"
	RoleUser      Role = "user"
)

type User struct {
	ID                 string     `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	Name               string     `db:"name" json:"name"`
	Role               Role       `db:"role" json:"role"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	AvatarURL          string     `db:"avatar_url" json:"avatarUrl,omitempty"`
	Phone              string     `db:"phone" json:"phone,omitempty"`
	TrialEndsAt        *time.Time `db:"trial_ends_at" json:"trialEndsAt,omitempty"`
	SubscriptionActive bool       `db:"subscription_active" json:"subscriptionActive"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
}
