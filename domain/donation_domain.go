package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateDonation     = "donation created successfully"
	MessageSuccessGetDonations       = "donations retrieved successfully"
	MessageSuccessGetNearbyDonations = "nearby donations retrieved successfully"
	MessageSuccessAcceptDonation     = "donation accepted successfully"
	MessageSuccessCompleteDonation   = "donation completed successfully"
	MessageNoNearbyDonations         = "no donations found within the search radius"

	MessageFailedCreateDonation     = "failed to create donation"
	MessageFailedGetDonations       = "failed to retrieve donations"
	MessageFailedGetNearbyDonations = "failed to retrieve nearby donations"
	MessageFailedAcceptDonation     = "failed to accept donation"
	MessageFailedCompleteDonation   = "failed to complete donation"

	ErrDonationNotFound           = errors.New("donation not found")
	ErrDonationInvalidState       = errors.New("donation is no longer available")
	ErrDonationExpired            = errors.New("donation has expired")
	ErrUnauthorizedDonationAccess = errors.New("unauthorized access to donation")
	ErrInvalidCoordinates         = errors.New("latitude and longitude are required")
	ErrInvalidDistance            = errors.New("max distance must be a positive number of kilometers")
)

type (
	CreateDonationRequest struct {
		FoodType        string    `json:"food_type" validate:"required"`
		Quantity        string    `json:"quantity" validate:"required"`
		ExpiryDate      time.Time `json:"expiry_date" validate:"required"`
		PickupLocation  string    `json:"pickup_location" validate:"required"`
		Latitude        *float64  `json:"latitude" validate:"omitempty,latitude"`
		Longitude       *float64  `json:"longitude" validate:"omitempty,longitude"`
		AdditionalNotes string    `json:"additional_notes" validate:"omitempty,max=1000"`
	}

	// FindNearbyRequest uses pointers so a zero coordinate stays distinct from
	// a missing one.
	FindNearbyRequest struct {
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		MaxDistance *float64 `json:"max_distance"`
	}

	DonorSummary struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		OrganizationType string `json:"organization_type,omitempty"`
	}

	Donation struct {
		ID              string        `json:"id"`
		DonorID         string        `json:"donor_id"`
		Donor           *DonorSummary `json:"donor,omitempty"`
		ReceiverID      *string       `json:"receiver_id,omitempty"`
		FoodType        string        `json:"food_type"`
		Quantity        string        `json:"quantity"`
		ExpiryDate      time.Time     `json:"expiry_date"`
		PickupLocation  string        `json:"pickup_location"`
		Latitude        *float64      `json:"latitude,omitempty"`
		Longitude       *float64      `json:"longitude,omitempty"`
		AdditionalNotes string        `json:"additional_notes,omitempty"`
		Status          string        `json:"status"`
		Distance        *float64      `json:"distance,omitempty"` // km, set on proximity results
		CreatedAt       time.Time     `json:"created_at"`
		UpdatedAt       time.Time     `json:"updated_at"`
		CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	}
)
