package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
)

type reservationRepository interface {
	List(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.ReservationDetail, error)
	CreateExclusive(ctx context.Context, res *models.Reservation) ([]models.Reservation, error)
	UpdateExclusive(ctx context.Context, res *models.Reservation) ([]models.Reservation, error)
	Delete(ctx context.Context, id string) error
}

// CreateReservationRequest describes the payload for booking a room.
type CreateReservationRequest struct {
	Building     string `json:"building" validate:"required,len=1"`
	RoomNumber   string `json:"room_number" validate:"required"`
	CourseID     string `json:"course_id" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
	ActivityType string `json:"activity_type" validate:"required"`
	InstructorID string `json:"instructor_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
}

// UpdateReservationRequest rewrites an existing booking in full.
type UpdateReservationRequest struct {
	Building     string `json:"building" validate:"required,len=1"`
	RoomNumber   string `json:"room_number" validate:"required"`
	CourseID     string `json:"course_id" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
	ActivityType string `json:"activity_type" validate:"required"`
	InstructorID string `json:"instructor_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
}

// ReservationService is the single write entry point for bookings. It owns
// validation, hour derivation and the create-then-verify-or-reject protocol;
// the actual atomicity lives in the repository's exclusive operations.
type ReservationService struct {
	repo         reservationRepository
	validator    *validator.Validate
	logger       *zap.Logger
	metrics      *MetricsService
	maxRetries   int
	retryBackoff time.Duration
}

// NewReservationService instantiates ReservationService.
func NewReservationService(repo reservationRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, maxRetries int, retryBackoff time.Duration) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ReservationService{
		repo:         repo,
		validator:    validate,
		logger:       logger,
		metrics:      metrics,
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
	}
}

// List returns reservations with pagination metadata.
func (s *ReservationService) List(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, *models.Pagination, error) {
	reservations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, s.storeError(err, "failed to list reservations")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return reservations, pagination, nil
}

// GetByID loads one reservation.
func (s *ReservationService) GetByID(ctx context.Context, id string) (*models.ReservationDetail, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, s.storeError(err, "failed to load reservation")
	}
	return res, nil
}

// Create books a room after the atomic conflict re-check. On conflict the
// returned error carries the offending reservations; nothing is written.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error) {
	res, err := s.buildReservation("", req)
	if err != nil {
		return nil, err
	}

	var conflicts []models.Reservation
	err = s.withRetry(ctx, func() error {
		var opErr error
		conflicts, opErr = s.repo.CreateExclusive(ctx, res)
		return opErr
	})
	if err != nil {
		return nil, s.storeError(err, "failed to create reservation")
	}
	if len(conflicts) > 0 {
		return nil, s.conflictError(*res, conflicts)
	}

	if s.metrics != nil {
		s.metrics.RecordBooking("create")
	}
	return res, nil
}

// Update rewrites a booking with the reservation itself excluded from the
// conflict check, so keeping the same slot never conflicts with itself. The
// stored row is untouched when a conflict is reported.
func (s *ReservationService) Update(ctx context.Context, id string, req UpdateReservationRequest) (*models.Reservation, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reservation id is required")
	}
	res, err := s.buildReservation(id, CreateReservationRequest(req))
	if err != nil {
		return nil, err
	}

	var conflicts []models.Reservation
	err = s.withRetry(ctx, func() error {
		var opErr error
		conflicts, opErr = s.repo.UpdateExclusive(ctx, res)
		return opErr
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, s.storeError(err, "failed to update reservation")
	}
	if len(conflicts) > 0 {
		return nil, s.conflictError(*res, conflicts)
	}

	if s.metrics != nil {
		s.metrics.RecordBooking("update")
	}
	return res, nil
}

// Delete removes a booking. Deletion blocked by dependent records surfaces
// as a REFERENCED error rather than a silent failure.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "reservation id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return s.storeError(err, "failed to delete reservation")
	}
	if s.metrics != nil {
		s.metrics.RecordBooking("delete")
	}
	return nil
}

// buildReservation validates the payload and derives the stored hours from
// the window span, so the redundant column can never drift from the clock
// times.
func (s *ReservationService) buildReservation(id string, req CreateReservationRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	activity := models.ActivityType(strings.ToUpper(req.ActivityType))
	if !activity.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown activity type %q", req.ActivityType))
	}

	window, err := models.NewTimeWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation window")
	}

	return &models.Reservation{
		ID:           id,
		Building:     strings.ToUpper(req.Building),
		RoomNumber:   req.RoomNumber,
		CourseID:     req.CourseID,
		DepartmentID: req.DepartmentID,
		ActivityType: activity,
		InstructorID: req.InstructorID,
		Date:         window.Date,
		StartTime:    window.StartTime,
		EndTime:      window.EndTime,
		Hours:        window.Hours(),
	}, nil
}

// withRetry reruns the whole exclusive operation on transient store
// failures. Each rerun redoes the conflict check from scratch; the insert
// half is never retried on its own.
func (s *ReservationService) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return appErrors.Wrap(ctx.Err(), appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "booking cancelled before retry")
			case <-time.After(s.retryBackoff):
			}
			s.logger.Warn("retrying booking operation", zap.Int("attempt", attempt), zap.Error(err))
		}
		err = op()
		if err == nil || !appErrors.IsRetryable(err) {
			return err
		}
	}
	return err
}

func (s *ReservationService) conflictError(res models.Reservation, conflicts []models.Reservation) error {
	dimension := conflictDimension(res, conflicts)
	if s.metrics != nil {
		s.metrics.RecordBookingConflict(dimension)
	}
	domainErr := &models.ReservationConflictError{
		Dimension: dimension,
		Message:   fmt.Sprintf("booking overlaps %d existing reservation(s)", len(conflicts)),
		Conflicts: conflicts,
	}
	return appErrors.Wrap(domainErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, domainErr.Message)
}

func conflictDimension(res models.Reservation, conflicts []models.Reservation) string {
	var room, instructor bool
	for _, c := range conflicts {
		if c.Building == res.Building && c.RoomNumber == res.RoomNumber {
			room = true
		}
		if c.InstructorID == res.InstructorID {
			instructor = true
		}
	}
	switch {
	case room && instructor:
		return models.ConflictDimensionBoth
	case instructor:
		return models.ConflictDimensionInstructor
	default:
		return models.ConflictDimensionRoom
	}
}

func (s *ReservationService) storeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
