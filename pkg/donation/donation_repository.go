package donation

import (
	"context"
	"errors"
	"time"

	"mealbridge/domain"
	"mealbridge/entities"
	"mealbridge/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DonationRepository interface {
		// Create assigns id, created_at and status=pending. Required fields are
		// checked before anything is written.
		Create(ctx context.Context, donation *entities.Donation) (uuid.UUID, error)
		GetByID(ctx context.Context, id string) (*entities.Donation, error)
		FindByDonor(ctx context.Context, donorID string) ([]*entities.Donation, error)
		FindByReceiverAndStatus(ctx context.Context, receiverID string, status string) ([]*entities.Donation, error)
		// FindPendingWithCoordinates returns the proximity candidate set:
		// pending, deadline not before now, with both coordinates present.
		FindPendingWithCoordinates(ctx context.Context, now time.Time) ([]*entities.Donation, error)
		// Save persists a mutated record that already exists. Overdue pending
		// records are written as expired.
		Save(ctx context.Context, donation *entities.Donation) error
		// ExpireOverdue flips every pending record whose deadline is before
		// now to expired and returns how many changed.
		ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
		// CompareAndSetStatus moves id from one status to another only if the
		// stored status still equals from. Moving to accepted also requires the
		// deadline not to be before now and sets the receiver in the same write.
		CompareAndSetStatus(ctx context.Context, id string, from, to string, receiverID *uuid.UUID, now time.Time) (bool, error)
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func prepareCreate(donation *entities.Donation) error {
	if donation == nil {
		return domain.ErrValidation
	}
	if err := utils.Validate.Struct(donation); err != nil {
		return utils.ToValidationError(err)
	}
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	donation.Status = entities.DonationStatusPending
	donation.ReceiverID = nil
	donation.CompletedAt = nil
	return nil
}

func (r *donationRepository) Create(ctx context.Context, donation *entities.Donation) (uuid.UUID, error) {
	if err := prepareCreate(donation); err != nil {
		return uuid.Nil, err
	}
	if err := r.db.WithContext(ctx).Create(donation).Error; err != nil {
		return uuid.Nil, err
	}
	return donation.ID, nil
}

func (r *donationRepository) GetByID(ctx context.Context, id string) (*entities.Donation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrDonationNotFound
	}

	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) FindByDonor(ctx context.Context, donorID string) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) FindByReceiverAndStatus(ctx context.Context, receiverID string, status string) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, status).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) FindPendingWithCoordinates(ctx context.Context, now time.Time) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expiry_date >= ?", entities.DonationStatusPending, now).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// Save never inserts: an unknown id is reported as not found, matching the
// in-memory store.
func (r *donationRepository) Save(ctx context.Context, donation *entities.Donation) error {
	if donation == nil || donation.ID == uuid.Nil {
		return domain.ErrDonationNotFound
	}

	result := r.db.WithContext(ctx).
		Model(donation).
		Where("id = ?", donation.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(donation)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDonationNotFound
	}
	return nil
}

func (r *donationRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("status = ? AND expiry_date < ?", entities.DonationStatusPending, now).
		Updates(map[string]interface{}{
			"status":     entities.DonationStatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *donationRepository) CompareAndSetStatus(ctx context.Context, id string, from, to string, receiverID *uuid.UUID, now time.Time) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, domain.ErrDonationNotFound
	}

	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	if receiverID != nil {
		updates["receiver_id"] = *receiverID
	}
	if to == entities.DonationStatusCompleted {
		updates["completed_at"] = now
	}

	query := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ? AND status = ?", id, from)
	if to == entities.DonationStatusAccepted {
		query = query.Where("expiry_date >= ?", now)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
