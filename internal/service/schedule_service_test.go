package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
)

type mockScheduleReader struct {
	instructorRows []models.Reservation
	roomRows       []models.Reservation
	err            error
	calls          int
}

func (m *mockScheduleReader) ListByInstructorRange(ctx context.Context, instructorID, dateFrom, dateTo string) ([]models.Reservation, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.instructorRows, nil
}

func (m *mockScheduleReader) ListByRoomRange(ctx context.Context, building, roomNumber, dateFrom, dateTo string) ([]models.Reservation, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.roomRows, nil
}

func TestScheduleServiceInstructorSchedule(t *testing.T) {
	repo := &mockScheduleReader{
		instructorRows: []models.Reservation{
			{ID: "r1", Date: "2026-03-02", StartTime: "09:00:00", EndTime: "10:00:00"},
			{ID: "r2", Date: "2026-03-03", StartTime: "08:00:00", EndTime: "09:00:00"},
		},
	}
	service := NewScheduleService(repo, zap.NewNop())

	schedule, err := service.InstructorSchedule(context.Background(), "inst-1", "2026-03-01", "2026-03-07")
	require.NoError(t, err)
	assert.Len(t, schedule, 2)
}

func TestScheduleServiceInvertedRangeIsEmpty(t *testing.T) {
	repo := &mockScheduleReader{}
	service := NewScheduleService(repo, zap.NewNop())

	schedule, err := service.InstructorSchedule(context.Background(), "inst-1", "2026-03-07", "2026-03-01")
	require.NoError(t, err)
	assert.NotNil(t, schedule)
	assert.Empty(t, schedule)
	assert.Zero(t, repo.calls, "empty range must not hit the store")
}

func TestScheduleServiceValidation(t *testing.T) {
	service := NewScheduleService(&mockScheduleReader{}, zap.NewNop())

	_, err := service.InstructorSchedule(context.Background(), "", "2026-03-01", "2026-03-07")
	require.Error(t, err)

	_, err = service.InstructorSchedule(context.Background(), "inst-1", "bad", "2026-03-07")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = service.RoomSchedule(context.Background(), "A", "", "2026-03-01", "2026-03-07")
	require.Error(t, err)
}

func TestScheduleServiceRoomSchedule(t *testing.T) {
	repo := &mockScheduleReader{
		roomRows: []models.Reservation{{ID: "r1", Date: "2026-03-02", StartTime: "09:00:00", EndTime: "10:00:00"}},
	}
	service := NewScheduleService(repo, zap.NewNop())

	schedule, err := service.RoomSchedule(context.Background(), "A", "101", "2026-03-01", "2026-03-07")
	require.NoError(t, err)
	assert.Len(t, schedule, 1)
}
