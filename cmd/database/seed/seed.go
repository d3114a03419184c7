package seed

import (
	"context"
	"time"

	"mealbridge/entities"
	"mealbridge/pkg/donation"
	"mealbridge/pkg/user"

	"github.com/gofiber/fiber/v2/log"
)

type Result struct {
	Donor       *entities.User
	Receiver    *entities.User
	DonationIDs []string
}

func float64Ptr(v float64) *float64 { return &v }

// Seed creates one donor, one receiver and two pending donations around
// Pune city centre.
func Seed(ctx context.Context, users user.UserRepository, donations donation.DonationRepository) (*Result, error) {
	donor := &entities.User{
		Name:             "Test Restaurant",
		Email:            "restaurant@example.com",
		Role:             entities.RoleDonor,
		Phone:            "1234567890",
		Address:          "Shivajinagar, Pune",
		OrganizationType: "restaurant",
		Latitude:         float64Ptr(18.5204),
		Longitude:        float64Ptr(73.8567),
	}
	if err := users.CreateUser(ctx, donor); err != nil {
		log.Errorw("failed to seed donor", "error", err)
		return nil, err
	}

	receiver := &entities.User{
		Name:             "Test NGO",
		Email:            "ngo@example.com",
		Role:             entities.RoleReceiver,
		Phone:            "0987654321",
		Address:          "Deccan Gymkhana, Pune",
		OrganizationType: "ngo",
		Latitude:         float64Ptr(18.5167),
		Longitude:        float64Ptr(73.8407),
	}
	if err := users.CreateUser(ctx, receiver); err != nil {
		log.Errorw("failed to seed receiver", "error", err)
		return nil, err
	}

	result := &Result{Donor: donor, Receiver: receiver}
	samples := []entities.Donation{
		{
			FoodType:        "Cooked Food",
			Quantity:        "10 kg",
			PickupLocation:  "Shivajinagar, Pune",
			Latitude:        float64Ptr(18.5304),
			Longitude:       float64Ptr(73.8567),
			AdditionalNotes: "Fresh vegetable biryani",
			ExpiryDate:      time.Now().Add(24 * time.Hour),
		},
		{
			FoodType:        "Raw Vegetables",
			Quantity:        "5 kg",
			PickupLocation:  "FC Road, Pune",
			Latitude:        float64Ptr(18.5250),
			Longitude:       float64Ptr(73.8411),
			AdditionalNotes: "Assorted vegetables",
			ExpiryDate:      time.Now().Add(48 * time.Hour),
		},
	}
	for i := range samples {
		d := samples[i]
		d.DonorID = donor.ID
		id, err := donations.Create(ctx, &d)
		if err != nil {
			log.Errorw("failed to seed donation", "food_type", d.FoodType, "error", err)
			return nil, err
		}
		result.DonationIDs = append(result.DonationIDs, id.String())
	}

	log.Infow("seed complete", "donor_id", donor.ID.String(), "receiver_id", receiver.ID.String(), "donations", len(result.DonationIDs))
	return result, nil
}
