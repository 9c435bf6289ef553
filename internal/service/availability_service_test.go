package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
)

type mockAvailabilityReader struct {
	rooms           []models.Room
	err             error
	lastMinCapacity *int
}

func (m *mockAvailabilityReader) ListAvailableRooms(ctx context.Context, window models.TimeWindow, minCapacity *int) ([]models.Room, error) {
	m.lastMinCapacity = minCapacity
	if m.err != nil {
		return nil, m.err
	}
	return m.rooms, nil
}

func TestAvailabilityServiceFindAvailableRooms(t *testing.T) {
	repo := &mockAvailabilityReader{
		rooms: []models.Room{{Building: "A", RoomNumber: "101", Capacity: 40}},
	}
	service := NewAvailabilityService(repo, zap.NewNop())

	window := models.TimeWindow{Date: "2026-03-02", StartTime: "09:00:00", EndTime: "11:00:00"}
	capacity := 30
	rooms, err := service.FindAvailableRooms(context.Background(), window, &capacity)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	require.NotNil(t, repo.lastMinCapacity)
	assert.Equal(t, 30, *repo.lastMinCapacity)
}

func TestAvailabilityServiceValidation(t *testing.T) {
	service := NewAvailabilityService(&mockAvailabilityReader{}, zap.NewNop())

	bad := models.TimeWindow{Date: "2026-03-02", StartTime: "11:00:00", EndTime: "09:00:00"}
	_, err := service.FindAvailableRooms(context.Background(), bad, nil)
	require.Error(t, err)

	window := models.TimeWindow{Date: "2026-03-02", StartTime: "09:00:00", EndTime: "11:00:00"}
	negative := -1
	_, err = service.FindAvailableRooms(context.Background(), window, &negative)
	require.Error(t, err)
}
