package domain

import "time"

// User is the domain model for community members. Accounts are provisioned
// lazily on the first verified call carrying an unknown identity-provider
// subject; they are never deleted.
type User struct {
	ID        string
	SubjectID string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
