package models

import "time"

// User represents a registered account. Password always holds the derived
// digest, never the plaintext, and is kept out of JSON responses.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password   string    `gorm:"size:256;not null" json:"-"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	DateJoined time.Time `gorm:"not null" json:"date_joined"`
}
