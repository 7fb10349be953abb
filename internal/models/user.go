package models

import "time"

// User represents a dashboard account.
//
// The subscription tier is encoded into Roles as a "ROLE_<TIER>" string,
// mirroring how the rest of the platform authorizes users.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Roles        []string  `json:"roles"`
	APIToken     string    `json:"apiToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
