package models

import "time"

// Role is the authorization role of a principal.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an authenticated principal. Email is the login name and is unique.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
}
