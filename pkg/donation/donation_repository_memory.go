package donation

import (
	"context"
	"sort"
	"sync"
	"time"

	"mealbridge/domain"
	"mealbridge/entities"

	"github.com/google/uuid"
)

// InMemoryDonationRepository backs development mode and tests. Records are
// cloned on the way in and out.
type InMemoryDonationRepository struct {
	mu        sync.RWMutex
	donations map[uuid.UUID]*entities.Donation
	now       func() time.Time
}

func NewInMemoryDonationRepository() *InMemoryDonationRepository {
	return &InMemoryDonationRepository{
		donations: make(map[uuid.UUID]*entities.Donation),
		now:       time.Now,
	}
}

func (r *InMemoryDonationRepository) Create(_ context.Context, donation *entities.Donation) (uuid.UUID, error) {
	if err := prepareCreate(donation); err != nil {
		return uuid.Nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	donation.CreatedAt = now
	donation.UpdatedAt = now
	donation.Expire(now)
	r.donations[donation.ID] = donation.Clone()
	return donation.ID, nil
}

func (r *InMemoryDonationRepository) GetByID(_ context.Context, id string) (*entities.Donation, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrDonationNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	donation, ok := r.donations[key]
	if !ok {
		return nil, domain.ErrDonationNotFound
	}
	return donation.Clone(), nil
}

func (r *InMemoryDonationRepository) FindByDonor(_ context.Context, donorID string) ([]*entities.Donation, error) {
	return r.filter(func(d *entities.Donation) bool {
		return d.DonorID.String() == donorID
	}), nil
}

func (r *InMemoryDonationRepository) FindByReceiverAndStatus(_ context.Context, receiverID string, status string) ([]*entities.Donation, error) {
	return r.filter(func(d *entities.Donation) bool {
		return d.ReceiverID != nil && d.ReceiverID.String() == receiverID && d.Status == status
	}), nil
}

func (r *InMemoryDonationRepository) FindPendingWithCoordinates(_ context.Context, now time.Time) ([]*entities.Donation, error) {
	return r.filter(func(d *entities.Donation) bool {
		return d.Status == entities.DonationStatusPending && !d.IsPastExpiry(now) && d.HasCoordinates()
	}), nil
}

func (r *InMemoryDonationRepository) Save(_ context.Context, donation *entities.Donation) error {
	if donation == nil {
		return domain.ErrDonationNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.donations[donation.ID]; !ok {
		return domain.ErrDonationNotFound
	}
	now := r.now()
	donation.Expire(now)
	donation.UpdatedAt = now
	r.donations[donation.ID] = donation.Clone()
	return nil
}

func (r *InMemoryDonationRepository) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, d := range r.donations {
		if d.Expire(now) {
			d.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *InMemoryDonationRepository) CompareAndSetStatus(_ context.Context, id string, from, to string, receiverID *uuid.UUID, now time.Time) (bool, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return false, domain.ErrDonationNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	donation, ok := r.donations[key]
	if !ok || donation.Status != from {
		return false, nil
	}
	if to == entities.DonationStatusAccepted && donation.IsPastExpiry(now) {
		return false, nil
	}

	donation.Status = to
	donation.UpdatedAt = now
	if receiverID != nil {
		rid := *receiverID
		donation.ReceiverID = &rid
	}
	if to == entities.DonationStatusCompleted {
		at := now
		donation.CompletedAt = &at
	}
	return true, nil
}

// filter returns clones of matching records, newest first.
func (r *InMemoryDonationRepository) filter(match func(d *entities.Donation) bool) []*entities.Donation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Donation, 0)
	for _, d := range r.donations {
		if match(d) {
			result = append(result, d.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}
