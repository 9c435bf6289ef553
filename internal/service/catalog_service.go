package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
)

type roomCatalog interface {
	List(ctx context.Context) ([]models.Room, error)
}

type instructorCatalog interface {
	List(ctx context.Context) ([]models.Instructor, error)
}

type courseCatalog interface {
	List(ctx context.Context) ([]models.Course, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Cache keys for catalog payloads.
const (
	cacheKeyRooms       = "catalog:rooms"
	cacheKeyInstructors = "catalog:instructors"
	cacheKeyCourses     = "catalog:courses"
)

// CatalogService serves the read-only collaborator catalogs backing the
// booking forms. Catalog payloads may be cached; reservations never are.
type CatalogService struct {
	rooms       roomCatalog
	instructors instructorCatalog
	courses     courseCatalog
	cache       catalogCache
	cacheTTL    time.Duration
	logger      *zap.Logger
	metrics     *MetricsService
}

// NewCatalogService instantiates CatalogService. Passing a nil cache
// disables caching entirely.
func NewCatalogService(rooms roomCatalog, instructors instructorCatalog, courses courseCatalog, cache catalogCache, cacheTTL time.Duration, logger *zap.Logger, metrics *MetricsService) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		rooms:       rooms,
		instructors: instructors,
		courses:     courses,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
		metrics:     metrics,
	}
}

// Rooms lists the room catalog.
func (s *CatalogService) Rooms(ctx context.Context) ([]models.Room, error) {
	var cached []models.Room
	if s.cacheLookup(ctx, cacheKeyRooms, &cached) {
		return cached, nil
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, wrapStoreError(err, "failed to list rooms")
	}
	s.cacheStore(ctx, cacheKeyRooms, rooms)
	return rooms, nil
}

// Instructors lists the instructor catalog.
func (s *CatalogService) Instructors(ctx context.Context) ([]models.Instructor, error) {
	var cached []models.Instructor
	if s.cacheLookup(ctx, cacheKeyInstructors, &cached) {
		return cached, nil
	}

	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, wrapStoreError(err, "failed to list instructors")
	}
	s.cacheStore(ctx, cacheKeyInstructors, instructors)
	return instructors, nil
}

// Courses lists the course catalog.
func (s *CatalogService) Courses(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if s.cacheLookup(ctx, cacheKeyCourses, &cached) {
		return cached, nil
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, wrapStoreError(err, "failed to list courses")
	}
	s.cacheStore(ctx, cacheKeyCourses, courses)
	return courses, nil
}

func (s *CatalogService) cacheLookup(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	start := time.Now()
	err := s.cache.Get(ctx, key, dest)
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	}
	return err == nil
}

func (s *CatalogService) cacheStore(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache catalog payload", zap.String("key", key), zap.Error(err))
	}
}
