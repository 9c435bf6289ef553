package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
)

type conflictReader interface {
	ListForRoomDate(ctx context.Context, building, roomNumber, date, excludeID string) ([]models.Reservation, error)
	ListForInstructorDate(ctx context.Context, instructorID, date, excludeID string) ([]models.Reservation, error)
}

// ConflictService answers "would this window collide" questions without
// taking any locks, so a UI can preview conflicts before submitting. The
// authoritative check happens again inside the write transaction; a clean
// preview is not a booking guarantee.
type ConflictService struct {
	repo   conflictReader
	logger *zap.Logger
}

// NewConflictService instantiates ConflictService.
func NewConflictService(repo conflictReader, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{repo: repo, logger: logger}
}

// RoomConflicts returns existing reservations for the room whose windows
// overlap the candidate window. An empty slice means no conflict.
func (s *ConflictService) RoomConflicts(ctx context.Context, building, roomNumber string, window models.TimeWindow, excludeID string) ([]models.Reservation, error) {
	if building == "" || roomNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "building and room number are required")
	}
	if err := window.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time window")
	}

	rows, err := s.repo.ListForRoomDate(ctx, building, roomNumber, window.Date, excludeID)
	if err != nil {
		return nil, wrapStoreError(err, "failed to check room conflicts")
	}
	return filterOverlaps(window, rows), nil
}

// InstructorConflicts is the instructor-keyed variant of RoomConflicts.
func (s *ConflictService) InstructorConflicts(ctx context.Context, instructorID string, window models.TimeWindow, excludeID string) ([]models.Reservation, error) {
	if instructorID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instructor id is required")
	}
	if err := window.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time window")
	}

	rows, err := s.repo.ListForInstructorDate(ctx, instructorID, window.Date, excludeID)
	if err != nil {
		return nil, wrapStoreError(err, "failed to check instructor conflicts")
	}
	return filterOverlaps(window, rows), nil
}

func filterOverlaps(window models.TimeWindow, rows []models.Reservation) []models.Reservation {
	conflicts := make([]models.Reservation, 0)
	for _, row := range rows {
		if models.Overlaps(window, row.Window()) {
			conflicts = append(conflicts, row)
		}
	}
	return conflicts
}

func wrapStoreError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
