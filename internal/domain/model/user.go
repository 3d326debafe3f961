package model

import "time"

// User represents a registered shop customer.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Points       int64
	CreatedAt    time.Time
}
