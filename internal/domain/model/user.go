package model

import (
	"time"

	"buildbid/internal/domain"
)

type UserRole string

const (
	UserRoleClient     UserRole = "client"
	UserRoleContractor UserRole = "contractor"
)

func ValidUserRole(r UserRole) bool {
	return r == UserRoleClient || r == UserRoleContractor
}

// User is a client or contractor profile. Rating and CompletedProjects are
// aggregates maintained from reviews and awarded jobs; they are display
// fields, not authoritative counters.
type User struct {
	ID                string
	Role              UserRole
	FullName          string
	Email             string
	Phone             string
	Location          string
	Category          string // contractor trade, empty for clients
	Bio               string
	Rating            float64
	ReviewCount       int
	CompletedProjects int
	DeviceToken       string // push target, empty when the device never registered
	RegisteredAt      time.Time
	LastActiveAt      time.Time
}

// NewUser constructs and validates a User.
func NewUser(id string, role UserRole, fullName, email string) (*User, error) {
	if id == "" || fullName == "" {
		return nil, domain.ErrInvalidInput
	}
	if !ValidUserRole(role) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	return &User{ID: id, Role: role, FullName: fullName, Email: email, RegisteredAt: now, LastActiveAt: now}, nil
}
