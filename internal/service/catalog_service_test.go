package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
)

type mockRoomCatalog struct {
	rooms []models.Room
	calls int
}

func (m *mockRoomCatalog) List(ctx context.Context) ([]models.Room, error) {
	m.calls++
	return m.rooms, nil
}

type mockInstructorCatalog struct{ instructors []models.Instructor }

func (m *mockInstructorCatalog) List(ctx context.Context) ([]models.Instructor, error) {
	return m.instructors, nil
}

type mockCourseCatalog struct{ courses []models.Course }

func (m *mockCourseCatalog) List(ctx context.Context) ([]models.Course, error) {
	return m.courses, nil
}

type memoryCache struct {
	entries map[string][]byte
	sets    int
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.entries == nil {
		c.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	c.sets++
	return nil
}

func TestCatalogServiceRoomsCachesPayload(t *testing.T) {
	rooms := &mockRoomCatalog{rooms: []models.Room{{Building: "A", RoomNumber: "101", Capacity: 40}}}
	cache := &memoryCache{}
	service := NewCatalogService(rooms, &mockInstructorCatalog{}, &mockCourseCatalog{}, cache, time.Minute, zap.NewNop(), nil)

	first, err := service.Rooms(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, rooms.calls)
	assert.Equal(t, 1, cache.sets)

	second, err := service.Rooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, rooms.calls, "second read must come from the cache")
}

func TestCatalogServiceWorksWithoutCache(t *testing.T) {
	rooms := &mockRoomCatalog{rooms: []models.Room{{Building: "A", RoomNumber: "101"}}}
	service := NewCatalogService(rooms, &mockInstructorCatalog{}, &mockCourseCatalog{}, nil, 0, zap.NewNop(), nil)

	_, err := service.Rooms(context.Background())
	require.NoError(t, err)
	_, err = service.Rooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rooms.calls)
}

func TestCatalogServiceInstructorsAndCourses(t *testing.T) {
	service := NewCatalogService(
		&mockRoomCatalog{},
		&mockInstructorCatalog{instructors: []models.Instructor{{ID: "inst-1", Name: "Dr. Ada"}}},
		&mockCourseCatalog{courses: []models.Course{{ID: "CSE101", Name: "Intro", DepartmentID: "CSE"}}},
		nil, 0, zap.NewNop(), nil,
	)

	instructors, err := service.Instructors(context.Background())
	require.NoError(t, err)
	require.Len(t, instructors, 1)
	assert.Equal(t, "Dr. Ada", instructors[0].Name)

	courses, err := service.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CSE101", courses[0].ID)
}
