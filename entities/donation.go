package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DonationStatusPending   = "pending"
	DonationStatusAccepted  = "accepted"
	DonationStatusCompleted = "completed"
	DonationStatusExpired   = "expired"
)

type Donation struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_donations_donor_status,priority:1" json:"donor_id" validate:"required"`
	ReceiverID      *uuid.UUID `gorm:"type:uuid;index" json:"receiver_id,omitempty"`
	FoodType        string     `gorm:"not null" json:"food_type" validate:"required"`
	Quantity        string     `gorm:"not null" json:"quantity" validate:"required"`
	ExpiryDate      time.Time  `gorm:"not null;index" json:"expiry_date" validate:"required"`
	PickupLocation  string     `gorm:"not null" json:"pickup_location" validate:"required"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	AdditionalNotes string     `json:"additional_notes,omitempty"`
	Status          string     `gorm:"not null;default:pending;index:idx_donations_donor_status,priority:2" json:"status"` // pending, accepted, completed, expired
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	Timestamp
}

func (d *Donation) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

func (d *Donation) IsPastExpiry(now time.Time) bool {
	return d.ExpiryDate.Before(now)
}

// Expire moves a pending donation past its deadline to expired and reports
// whether the status changed. Any other status is left alone.
func (d *Donation) Expire(now time.Time) bool {
	if d.Status != DonationStatusPending || !d.IsPastExpiry(now) {
		return false
	}
	d.Status = DonationStatusExpired
	return true
}

// BeforeSave keeps overdue pending rows from ever being written as pending.
func (d *Donation) BeforeSave(tx *gorm.DB) error {
	d.Expire(time.Now())
	return nil
}

// Clone returns a deep copy so callers never share pointers with a store.
func (d *Donation) Clone() *Donation {
	if d == nil {
		return nil
	}
	c := *d
	if d.ReceiverID != nil {
		id := *d.ReceiverID
		c.ReceiverID = &id
	}
	if d.Latitude != nil {
		lat := *d.Latitude
		c.Latitude = &lat
	}
	if d.Longitude != nil {
		lng := *d.Longitude
		c.Longitude = &lng
	}
	if d.CompletedAt != nil {
		at := *d.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}
