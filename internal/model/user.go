package model

import "time"

// User stores the opaque caller identity supplied by the authentication
// boundary. ExternalID is whatever that boundary resolves a session to.
type User struct {
	ID         uint   `gorm:"primaryKey"`
	ExternalID string `gorm:"uniqueIndex"`
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
