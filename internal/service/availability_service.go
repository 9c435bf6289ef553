package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
)

type availabilityReader interface {
	ListAvailableRooms(ctx context.Context, window models.TimeWindow, minCapacity *int) ([]models.Room, error)
}

// AvailabilityService finds rooms free for a window. The contract is
// "definitely free as of this read": no reservation is held, so a later
// Create can still lose to a concurrent booking.
type AvailabilityService struct {
	repo   availabilityReader
	logger *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(repo availabilityReader, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, logger: logger}
}

// FindAvailableRooms returns rooms with zero reservations overlapping the
// window, optionally restricted to a minimum capacity.
func (s *AvailabilityService) FindAvailableRooms(ctx context.Context, window models.TimeWindow, minCapacity *int) ([]models.Room, error) {
	if err := window.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time window")
	}
	if minCapacity != nil && *minCapacity < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "minimum capacity must not be negative")
	}

	rooms, err := s.repo.ListAvailableRooms(ctx, window, minCapacity)
	if err != nil {
		return nil, wrapStoreError(err, "failed to find available rooms")
	}
	return rooms, nil
}
