package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
)

type workloadReader interface {
	InstructorWorkload(ctx context.Context, instructorID string) (*models.InstructorWorkload, error)
}

// WorkloadService summarises an instructor's bookings: reservation count,
// summed hours and distinct course count, over everything ever recorded.
type WorkloadService struct {
	repo   workloadReader
	logger *zap.Logger
}

// NewWorkloadService instantiates WorkloadService.
func NewWorkloadService(repo workloadReader, logger *zap.Logger) *WorkloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadService{repo: repo, logger: logger}
}

// InstructorWorkload aggregates the instructor's recorded bookings. An
// instructor with no bookings yields a zeroed summary, not an error.
func (s *WorkloadService) InstructorWorkload(ctx context.Context, instructorID string) (*models.InstructorWorkload, error) {
	if instructorID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instructor id is required")
	}

	workload, err := s.repo.InstructorWorkload(ctx, instructorID)
	if err != nil {
		return nil, wrapStoreError(err, "failed to aggregate instructor workload")
	}
	return workload, nil
}
