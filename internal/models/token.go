package models

import "time"

// RevokedToken marks a token id as unusable until its natural expiry
type RevokedToken struct {
	JTI       string
	ExpiresAt time.Time
}
