package models

import (
	"encoding/json"
	"time"
)

// Staff user roles stored on users.role.
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleStaff    = "STAFF"
	RoleTrainer  = "TRAINER"
	RoleCustomer = "CUSTOMER"
)

// User represents a staff account.
type User struct {
	UserID            int64        `json:"userId"`
	Username          string       `json:"username" binding:"required"`
	Email             *string      `json:"email,omitempty"`
	PasswordHash      string       `json:"-"`
	FullName          *string      `json:"fullName,omitempty"`
	Role              string       `json:"role"`
	IsEnabled         bool         `json:"isEnabled"`
	ProfilePictureURL *string      `json:"profilePictureUrl,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
	Profile           *UserProfile `json:"profile,omitempty"`
}

// UserProfile holds personnel details, one-to-one with User.
// WorkDays, Loans, Incentives and Debts are stored as JSONB blobs.
type UserProfile struct {
	ProfileID   int64           `json:"profileId"`
	UserID      int64           `json:"userId"`
	PhoneNumber *string         `json:"phoneNumber,omitempty"`
	Address     *string         `json:"address,omitempty"`
	Salary      *float64        `json:"salary,omitempty"`
	ContractURL *string         `json:"contractUrl,omitempty"`
	CvURL       *string         `json:"cvUrl,omitempty"`
	WorkDays    json.RawMessage `json:"workDays,omitempty"`
	Loans       json.RawMessage `json:"loans,omitempty"`
	Incentives  json.RawMessage `json:"incentives,omitempty"`
	Debts       json.RawMessage `json:"debts,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Session is a server-side record of an issued access token.
// The token column holds the JWT's ID (jti); logout deletes the row.
type Session struct {
	SessionID int64     `json:"sessionId"`
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
