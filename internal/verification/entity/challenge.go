package entity

import "time"

const (
	// MaxAttempts is the number of wrong codes a challenge tolerates.
	MaxAttempts = 3
	// ExpiryMinutes is how long an issued code stays valid.
	ExpiryMinutes = 10
	// ResendAfterSeconds is the client-side cooldown advertised after issuing.
	ResendAfterSeconds = 30

	CodeMin = 100000
	CodeMax = 999999
)

// Challenge is the pending OTP record for one email address.
type Challenge struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"code_hash"`
	Salt      string    `json:"salt"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IssuedAt  time.Time `json:"issued_at"`
}

// Expired reports whether now is at or past ExpiresAt.
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Exhausted reports whether the attempt budget is used up.
func (c *Challenge) Exhausted() bool {
	return c.Attempts >= MaxAttempts
}

// RemainingAttempts never goes below zero.
func (c *Challenge) RemainingAttempts() int {
	return max(MaxAttempts-c.Attempts, 0)
}
