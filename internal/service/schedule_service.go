package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
)

type scheduleReader interface {
	ListByInstructorRange(ctx context.Context, instructorID, dateFrom, dateTo string) ([]models.Reservation, error)
	ListByRoomRange(ctx context.Context, building, roomNumber, dateFrom, dateTo string) ([]models.Reservation, error)
}

// ScheduleService serves read-only schedule views over a date range,
// ordered by date then start time.
type ScheduleService struct {
	repo   scheduleReader
	logger *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleReader, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, logger: logger}
}

// InstructorSchedule returns an instructor's reservations within
// [dateFrom, dateTo]. An inverted range yields an empty schedule, not an
// error.
func (s *ScheduleService) InstructorSchedule(ctx context.Context, instructorID, dateFrom, dateTo string) ([]models.Reservation, error) {
	if instructorID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instructor id is required")
	}
	empty, err := validateDateRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.Reservation{}, nil
	}

	schedule, err := s.repo.ListByInstructorRange(ctx, instructorID, dateFrom, dateTo)
	if err != nil {
		return nil, wrapStoreError(err, "failed to load instructor schedule")
	}
	return schedule, nil
}

// RoomSchedule returns a room's reservations within [dateFrom, dateTo].
func (s *ScheduleService) RoomSchedule(ctx context.Context, building, roomNumber, dateFrom, dateTo string) ([]models.Reservation, error) {
	if building == "" || roomNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "building and room number are required")
	}
	empty, err := validateDateRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.Reservation{}, nil
	}

	schedule, err := s.repo.ListByRoomRange(ctx, building, roomNumber, dateFrom, dateTo)
	if err != nil {
		return nil, wrapStoreError(err, "failed to load room schedule")
	}
	return schedule, nil
}

// validateDateRange parses both bounds and reports whether the range is
// empty (from after to).
func validateDateRange(dateFrom, dateTo string) (bool, error) {
	from, err := time.Parse(models.DateLayout, dateFrom)
	if err != nil {
		return false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid from date %q", dateFrom))
	}
	to, err := time.Parse(models.DateLayout, dateTo)
	if err != nil {
		return false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid to date %q", dateTo))
	}
	return from.After(to), nil
}
