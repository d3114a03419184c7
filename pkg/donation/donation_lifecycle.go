package donation

import (
	"context"
	"errors"
	"time"

	"mealbridge/domain"
	"mealbridge/entities"
	"mealbridge/pkg/metrics"

	"github.com/google/uuid"
)

// LifecycleEngine owns every status change of a donation:
//
//	pending  -> accepted   (Accept, sets the receiver)
//	pending  -> expired    (Refresh / Accept once the deadline has passed)
//	accepted -> completed  (Complete)
//
// Each change is a compare-and-set against the stored status, so a caller
// acting on a stale copy loses instead of overwriting.
type LifecycleEngine struct {
	repo    DonationRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewLifecycleEngine(repo DonationRepository, m *metrics.Metrics) *LifecycleEngine {
	return &LifecycleEngine{
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

// Get loads a donation and applies lazy expiry before returning it.
func (e *LifecycleEngine) Get(ctx context.Context, id string) (*entities.Donation, error) {
	donation, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := e.Refresh(ctx, donation); err != nil {
		return nil, err
	}
	return donation, nil
}

// Refresh expires donation in place and in the store when it is pending and
// past its deadline. Calling it on anything else is a no-op.
func (e *LifecycleEngine) Refresh(ctx context.Context, donation *entities.Donation) error {
	now := e.now()
	if donation.Status != entities.DonationStatusPending || !donation.IsPastExpiry(now) {
		return nil
	}

	swapped, err := e.expire(ctx, donation.ID.String(), now)
	if err != nil {
		return err
	}
	if swapped {
		donation.Status = entities.DonationStatusExpired
		donation.UpdatedAt = now
		return nil
	}

	// Someone else moved it first; report what is stored now.
	current, err := e.repo.GetByID(ctx, donation.ID.String())
	if err != nil {
		return err
	}
	*donation = *current
	return nil
}

// RefreshAll applies Refresh to every donation in the slice.
func (e *LifecycleEngine) RefreshAll(ctx context.Context, donations []*entities.Donation) error {
	for _, d := range donations {
		if err := e.Refresh(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// SweepExpired expires every overdue pending donation in one write.
func (e *LifecycleEngine) SweepExpired(ctx context.Context) (int64, error) {
	n, err := e.repo.ExpireOverdue(ctx, e.now())
	if err != nil {
		return 0, err
	}
	e.metrics.AddDonationsExpired(n)
	return n, nil
}

// Accept hands a pending donation to receiverID. Exactly one of several
// concurrent callers wins; the others get domain.ErrDonationInvalidState.
func (e *LifecycleEngine) Accept(ctx context.Context, id string, receiverID uuid.UUID) (*entities.Donation, error) {
	donation, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := e.now()
	if err := e.checkAcceptable(ctx, donation, now); err != nil {
		return nil, err
	}

	swapped, err := e.repo.CompareAndSetStatus(ctx, id,
		entities.DonationStatusPending, entities.DonationStatusAccepted, &receiverID, now)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// Lost the race, or the deadline passed between read and write.
		current, err := e.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := e.checkAcceptable(ctx, current, now); err != nil {
			return nil, err
		}
		return nil, domain.ErrDonationInvalidState
	}

	return e.repo.GetByID(ctx, id)
}

// checkAcceptable returns nil only for a pending donation inside its
// deadline. A pending donation found overdue is expired as a side effect.
func (e *LifecycleEngine) checkAcceptable(ctx context.Context, donation *entities.Donation, now time.Time) error {
	switch donation.Status {
	case entities.DonationStatusPending:
	case entities.DonationStatusExpired:
		return domain.ErrDonationExpired
	default:
		return domain.ErrDonationInvalidState
	}

	if !donation.IsPastExpiry(now) {
		return nil
	}
	if _, err := e.expire(ctx, donation.ID.String(), now); err != nil {
		return err
	}
	return domain.ErrDonationExpired
}

// Complete closes an accepted donation. Only its donor or receiver may do so.
func (e *LifecycleEngine) Complete(ctx context.Context, id string, actorID uuid.UUID) (*entities.Donation, error) {
	donation, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	isReceiver := donation.ReceiverID != nil && *donation.ReceiverID == actorID
	if donation.DonorID != actorID && !isReceiver {
		return nil, domain.ErrUnauthorizedDonationAccess
	}
	if donation.Status != entities.DonationStatusAccepted {
		return nil, domain.ErrDonationInvalidState
	}

	swapped, err := e.repo.CompareAndSetStatus(ctx, id,
		entities.DonationStatusAccepted, entities.DonationStatusCompleted, nil, e.now())
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, domain.ErrDonationInvalidState
	}
	return e.repo.GetByID(ctx, id)
}

func (e *LifecycleEngine) expire(ctx context.Context, id string, now time.Time) (bool, error) {
	swapped, err := e.repo.CompareAndSetStatus(ctx, id,
		entities.DonationStatusPending, entities.DonationStatusExpired, nil, now)
	if err != nil {
		return false, err
	}
	if swapped {
		e.metrics.IncrementDonationsExpired()
	}
	return swapped, nil
}

// IsLifecycleError reports whether err is one of the typed outcomes of a
// lifecycle operation rather than an infrastructure failure.
func IsLifecycleError(err error) bool {
	return errors.Is(err, domain.ErrDonationNotFound) ||
		errors.Is(err, domain.ErrDonationInvalidState) ||
		errors.Is(err, domain.ErrDonationExpired) ||
		errors.Is(err, domain.ErrUnauthorizedDonationAccess) ||
		errors.Is(err, domain.ErrValidation)
}
