package models

import "time"

// Membership status values stored on customers.membership_status.
const (
	MembershipActive    = "ACTIVE"
	MembershipExpired   = "EXPIRED"
	MembershipSuspended = "SUSPENDED"
	MembershipCancelled = "CANCELLED"
)

// Customer represents a gym member.
type Customer struct {
	CustomerID          int64      `json:"customerId"`
	UUID                string     `json:"uuid"`
	FullName            string     `json:"fullName" binding:"required"`
	Email               *string    `json:"email,omitempty"`
	PhoneNumber         string     `json:"phoneNumber" binding:"required"`
	Address             *string    `json:"address,omitempty"`
	DateOfBirth         *time.Time `json:"dateOfBirth,omitempty"`
	Gender              *string    `json:"gender,omitempty"`
	MembershipType      *string    `json:"membershipType,omitempty"`
	MembershipStatus    string     `json:"membershipStatus"`
	MembershipStartDate *time.Time `json:"membershipStartDate,omitempty"`
	MembershipEndDate   *time.Time `json:"membershipEndDate,omitempty"`
	ProfilePictureURL   *string    `json:"profilePictureUrl,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}
