package entities

import (
	"github.com/google/uuid"
)

const (
	RoleDonor    = "donor"
	RoleReceiver = "receiver"
)

// User is owned by the account service; donations only read identity,
// display fields and the donor's e-mail.
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name             string    `json:"name"`
	Email            string    `gorm:"uniqueIndex" json:"email"`
	Role             string    `json:"role"` // donor, receiver
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	OrganizationType string    `json:"organization_type,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`

	Timestamp
}
