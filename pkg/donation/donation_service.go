package donation

import (
	"context"
	"errors"

	"mealbridge/domain"
	"mealbridge/entities"
	"mealbridge/internal/utils"
	"mealbridge/pkg/geocoding"
	"mealbridge/pkg/metrics"
	"mealbridge/pkg/notification"
	"mealbridge/pkg/user"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type (
	DonationService interface {
		CreateDonation(ctx context.Context, req domain.CreateDonationRequest, donorID string) (*domain.Donation, error)
		GetDonorDonations(ctx context.Context, donorID string) ([]*domain.Donation, error)
		GetAcceptedDonations(ctx context.Context, receiverID string) ([]*domain.Donation, error)
		GetDonationByID(ctx context.Context, id string, userID string) (*domain.Donation, error)
		FindNearbyDonations(ctx context.Context, req domain.FindNearbyRequest) ([]*domain.Donation, error)
		AcceptDonation(ctx context.Context, id string, receiverID string) (*domain.Donation, error)
		CompleteDonation(ctx context.Context, id string, userID string) (*domain.Donation, error)
		ExpireOverdueDonations(ctx context.Context) (int64, error)
	}

	donationService struct {
		donationRepository DonationRepository
		userRepository     user.UserRepository
		lifecycle          *LifecycleEngine
		matcher            *ProximityMatcher
		geocoder           geocoding.Geocoder
		notifier           notification.Notifier
		metrics            *metrics.Metrics
	}
)

// NewDonationService wires the store, lifecycle engine and matcher together.
// geocoder, notifier and m may be nil.
func NewDonationService(
	donationRepository DonationRepository,
	userRepository user.UserRepository,
	geocoder geocoding.Geocoder,
	notifier notification.Notifier,
	m *metrics.Metrics,
) DonationService {
	return &donationService{
		donationRepository: donationRepository,
		userRepository:     userRepository,
		lifecycle:          NewLifecycleEngine(donationRepository, m),
		matcher:            NewProximityMatcher(donationRepository),
		geocoder:           geocoder,
		notifier:           notifier,
		metrics:            m,
	}
}

func (s *donationService) CreateDonation(ctx context.Context, req domain.CreateDonationRequest, donorID string) (*domain.Donation, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return nil, utils.ToValidationError(err)
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, utils.ToValidationError(domain.ErrInvalidCoordinates)
	}

	donorUUID, err := uuid.Parse(donorID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation := &entities.Donation{
		DonorID:         donorUUID,
		FoodType:        req.FoodType,
		Quantity:        req.Quantity,
		ExpiryDate:      req.ExpiryDate,
		PickupLocation:  req.PickupLocation,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		AdditionalNotes: req.AdditionalNotes,
	}

	if !donation.HasCoordinates() && s.geocoder != nil {
		loc, err := s.geocoder.Geocode(ctx, req.PickupLocation)
		if err != nil {
			// Kept without coordinates; proximity search will skip it.
			log.Warnw("geocoding pickup location failed", "op", "create", "donor_id", donorID, "error", err)
		} else {
			donation.Latitude = &loc.Latitude
			donation.Longitude = &loc.Longitude
		}
	}

	if _, err := s.donationRepository.Create(ctx, donation); err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			log.Errorw("failed to create donation", "op", "create", "donor_id", donorID, "error", err)
		}
		return nil, err
	}
	s.metrics.IncrementDonationsCreated()
	if donation.Status == entities.DonationStatusExpired {
		s.metrics.IncrementDonationsExpired()
	}

	return s.toDomain(ctx, donation, nil)
}

func (s *donationService) GetDonorDonations(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	donations, err := s.donationRepository.FindByDonor(ctx, donorID)
	if err != nil {
		log.Errorw("failed to list donor donations", "op", "find_by_donor", "donor_id", donorID, "error", err)
		return nil, err
	}
	if err := s.lifecycle.RefreshAll(ctx, donations); err != nil {
		log.Errorw("failed to expire donor donations", "op", "find_by_donor", "donor_id", donorID, "error", err)
		return nil, err
	}
	return s.toDomainList(ctx, donations, nil)
}

func (s *donationService) GetAcceptedDonations(ctx context.Context, receiverID string) ([]*domain.Donation, error) {
	donations, err := s.donationRepository.FindByReceiverAndStatus(ctx, receiverID, entities.DonationStatusAccepted)
	if err != nil {
		log.Errorw("failed to list accepted donations", "op", "find_by_receiver", "receiver_id", receiverID, "error", err)
		return nil, err
	}
	return s.toDomainList(ctx, donations, nil)
}

func (s *donationService) GetDonationByID(ctx context.Context, id string, userID string) (*domain.Donation, error) {
	donation, err := s.lifecycle.Get(ctx, id)
	if err != nil {
		s.logUnexpected(err, "get", id)
		return nil, err
	}

	isReceiver := donation.ReceiverID != nil && donation.ReceiverID.String() == userID
	if donation.DonorID.String() != userID && !isReceiver {
		return nil, domain.ErrUnauthorizedDonationAccess
	}
	return s.toDomain(ctx, donation, nil)
}

func (s *donationService) FindNearbyDonations(ctx context.Context, req domain.FindNearbyRequest) ([]*domain.Donation, error) {
	matches, err := s.matcher.FindNearby(ctx, req.Latitude, req.Longitude, req.MaxDistance)
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			log.Errorw("failed to find nearby donations", "op", "find_nearby", "error", err)
		}
		return nil, err
	}
	s.metrics.ObserveNearbyResults(len(matches))

	donations := make([]*entities.Donation, 0, len(matches))
	distances := make(map[uuid.UUID]float64, len(matches))
	for _, m := range matches {
		donations = append(donations, m.Donation)
		distances[m.Donation.ID] = m.DistanceKm
	}
	return s.toDomainList(ctx, donations, distances)
}

func (s *donationService) AcceptDonation(ctx context.Context, id string, receiverID string) (*domain.Donation, error) {
	receiverUUID, err := uuid.Parse(receiverID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.lifecycle.Accept(ctx, id, receiverUUID)
	if err != nil {
		s.metrics.ObserveAccept(acceptResult(err))
		s.logUnexpected(err, "accept", id)
		return nil, err
	}
	s.metrics.ObserveAccept(metrics.AcceptResultAccepted)

	s.notifyAccepted(ctx, donation, receiverID)
	return s.toDomain(ctx, donation, nil)
}

func (s *donationService) CompleteDonation(ctx context.Context, id string, userID string) (*domain.Donation, error) {
	actorUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.lifecycle.Complete(ctx, id, actorUUID)
	if err != nil {
		s.logUnexpected(err, "complete", id)
		return nil, err
	}
	return s.toDomain(ctx, donation, nil)
}

func (s *donationService) ExpireOverdueDonations(ctx context.Context) (int64, error) {
	n, err := s.lifecycle.SweepExpired(ctx)
	if err != nil {
		log.Errorw("failed to expire overdue donations", "op", "sweep_expired", "error", err)
		return 0, err
	}
	if n > 0 {
		log.Infow("expired overdue donations", "op", "sweep_expired", "count", n)
	}
	return n, nil
}

// notifyAccepted is best effort; the accept has already been committed.
func (s *donationService) notifyAccepted(ctx context.Context, donation *entities.Donation, receiverID string) {
	if s.notifier == nil {
		return
	}

	var donor, receiver *entities.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		donor, err = s.userRepository.GetUserByID(gctx, donation.DonorID.String())
		return err
	})
	g.Go(func() error {
		// The mail falls back to a generic receiver name.
		var err error
		receiver, err = s.userRepository.GetUserByID(gctx, receiverID)
		if err != nil {
			log.Warnw("receiver lookup failed, using generic name", "op", "accept", "receiver_id", receiverID, "error", err)
			receiver = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warnw("skipping accept notification", "op", "accept", "donation_id", donation.ID.String(), "error", err)
		return
	}

	if err := s.notifier.DonationAccepted(ctx, donor, receiver, donation); err != nil {
		log.Warnw("failed to send accept notification", "op", "accept", "donation_id", donation.ID.String(), "error", err)
	}
}

func (s *donationService) logUnexpected(err error, op string, donationID string) {
	if IsLifecycleError(err) {
		return
	}
	log.Errorw("donation operation failed", "op", op, "donation_id", donationID, "error", err)
}

func acceptResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrDonationNotFound):
		return metrics.AcceptResultNotFound
	case errors.Is(err, domain.ErrDonationExpired):
		return metrics.AcceptResultExpired
	case errors.Is(err, domain.ErrDonationInvalidState):
		return metrics.AcceptResultInvalidState
	default:
		return metrics.AcceptResultError
	}
}

func (s *donationService) toDomain(ctx context.Context, donation *entities.Donation, distances map[uuid.UUID]float64) (*domain.Donation, error) {
	result, err := s.toDomainList(ctx, []*entities.Donation{donation}, distances)
	if err != nil {
		return nil, err
	}
	return result[0], nil
}

func (s *donationService) toDomainList(ctx context.Context, donations []*entities.Donation, distances map[uuid.UUID]float64) ([]*domain.Donation, error) {
	donorIDs := make([]uuid.UUID, 0, len(donations))
	seen := make(map[uuid.UUID]bool, len(donations))
	for _, d := range donations {
		if !seen[d.DonorID] {
			seen[d.DonorID] = true
			donorIDs = append(donorIDs, d.DonorID)
		}
	}

	donors, err := s.userRepository.GetUsersByIDs(ctx, donorIDs)
	if err != nil {
		log.Errorw("failed to load donor profiles", "op", "load_donors", "error", err)
		return nil, err
	}

	result := make([]*domain.Donation, 0, len(donations))
	for _, d := range donations {
		item := &domain.Donation{
			ID:              d.ID.String(),
			DonorID:         d.DonorID.String(),
			FoodType:        d.FoodType,
			Quantity:        d.Quantity,
			ExpiryDate:      d.ExpiryDate,
			PickupLocation:  d.PickupLocation,
			Latitude:        d.Latitude,
			Longitude:       d.Longitude,
			AdditionalNotes: d.AdditionalNotes,
			Status:          d.Status,
			CreatedAt:       d.CreatedAt,
			UpdatedAt:       d.UpdatedAt,
			CompletedAt:     d.CompletedAt,
		}
		if d.ReceiverID != nil {
			receiverID := d.ReceiverID.String()
			item.ReceiverID = &receiverID
		}
		if donor, ok := donors[d.DonorID]; ok {
			item.Donor = &domain.DonorSummary{
				ID:               donor.ID.String(),
				Name:             donor.Name,
				OrganizationType: donor.OrganizationType,
			}
		}
		if distance, ok := distances[d.ID]; ok {
			item.Distance = &distance
		}
		result = append(result, item)
	}
	return result, nil
}
