package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
)

type mockWorkloadReader struct {
	workload *models.InstructorWorkload
	err      error
}

func (m *mockWorkloadReader) InstructorWorkload(ctx context.Context, instructorID string) (*models.InstructorWorkload, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.workload, nil
}

func TestWorkloadServiceInstructorWorkload(t *testing.T) {
	repo := &mockWorkloadReader{
		workload: &models.InstructorWorkload{InstructorID: "inst-1", TotalReservations: 8, TotalHours: 16.5, DistinctCourses: 3},
	}
	service := NewWorkloadService(repo, zap.NewNop())

	workload, err := service.InstructorWorkload(context.Background(), "inst-1")
	require.NoError(t, err)
	assert.Equal(t, 8, workload.TotalReservations)
	assert.InDelta(t, 16.5, workload.TotalHours, 1e-9)
	assert.Equal(t, 3, workload.DistinctCourses)
}

func TestWorkloadServiceZeroBookings(t *testing.T) {
	repo := &mockWorkloadReader{workload: &models.InstructorWorkload{InstructorID: "inst-2"}}
	service := NewWorkloadService(repo, zap.NewNop())

	workload, err := service.InstructorWorkload(context.Background(), "inst-2")
	require.NoError(t, err)
	assert.Zero(t, workload.TotalReservations)
	assert.Zero(t, workload.TotalHours)
}

func TestWorkloadServiceRequiresID(t *testing.T) {
	service := NewWorkloadService(&mockWorkloadReader{}, zap.NewNop())

	_, err := service.InstructorWorkload(context.Background(), "")
	require.Error(t, err)
}
