package usecase

import "time"

// Member is the public view of a member; the role is its string form.
type Member struct {
	ID              int64
	Email           string
	FirstName       string
	LastName        string
	Role            string
	EmailVerifiedAt time.Time
}
