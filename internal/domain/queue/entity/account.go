package entity

import (
	"strings"
	"time"
)

// Account is a registered identity on one platform, bound to a browser
// automation profile. (Platform, Name) is unique.
type Account struct {
	ID        string    `json:"id"`
	Platform  Platform  `json:"platform"`
	Name      string    `json:"name"`
	ProfileID string    `json:"profile_id"` // opaque browser profile reference
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the account before creation.
func (a *Account) Validate() error {
	if !a.Platform.IsValid() {
		return ErrInvalidPlatform
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAccountName
	}
	if strings.TrimSpace(a.ProfileID) == "" {
		return ErrEmptyProfileID
	}
	return nil
}
