package domain

import "time"

type UserRole string

const (
	UserRoleUser          UserRole = "user"
	UserRoleCampaignOwner UserRole = "campaign_owner"
	UserRoleAdmin         UserRole = "admin"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         UserRole
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
