package entity

import "time"

type Member struct {
	ID              int64
	Email           string
	FirstName       string
	LastName        string
	Role            Role
	EmailVerifiedAt time.Time
	CreatedAt       time.Time
}

type NewMember struct {
	ID              int64
	Email           string
	FirstName       string
	LastName        string
	PasswordHash    string
	Role            Role
	EmailVerifiedAt time.Time
}

// MemberCredential is what login needs to check a password.
type MemberCredential struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
}
