package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uni-adm/reservation-api/internal/models"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
)

type mockReservationRepo struct {
	listResult []models.ReservationDetail
	listTotal  int
	listErr    error

	findResult *models.ReservationDetail
	findErr    error

	createConflicts []models.Reservation
	createErrs      []error
	createCalls     int
	created         []*models.Reservation

	updateConflicts []models.Reservation
	updateErr       error

	deleteErr error
	deleted   []string
}

func (m *mockReservationRepo) List(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockReservationRepo) FindByID(ctx context.Context, id string) (*models.ReservationDetail, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.findResult, nil
}

func (m *mockReservationRepo) CreateExclusive(ctx context.Context, res *models.Reservation) ([]models.Reservation, error) {
	m.createCalls++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if len(m.createConflicts) > 0 {
		return m.createConflicts, nil
	}
	if res.ID == "" {
		res.ID = "generated"
	}
	cp := *res
	m.created = append(m.created, &cp)
	return nil, nil
}

func (m *mockReservationRepo) UpdateExclusive(ctx context.Context, res *models.Reservation) ([]models.Reservation, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if len(m.updateConflicts) > 0 {
		return m.updateConflicts, nil
	}
	return nil, nil
}

func (m *mockReservationRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func validCreateRequest() CreateReservationRequest {
	return CreateReservationRequest{
		Building:     "a",
		RoomNumber:   "101",
		CourseID:     "CSE101",
		DepartmentID: "CSE",
		ActivityType: "lecture",
		InstructorID: "inst-1",
		Date:         "2026-03-02",
		StartTime:    "09:00",
		EndTime:      "11:00",
	}
}

func newReservationService(repo *mockReservationRepo) *ReservationService {
	return NewReservationService(repo, validator.New(), zap.NewNop(), nil, 2, time.Millisecond)
}

func TestReservationServiceCreate(t *testing.T) {
	repo := &mockReservationRepo{}
	service := newReservationService(repo)

	res, err := service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "A", res.Building)
	assert.Equal(t, models.ActivityLecture, res.ActivityType)
	assert.Equal(t, "09:00:00", res.StartTime)
	assert.Equal(t, "11:00:00", res.EndTime)
	assert.InDelta(t, 2.0, res.Hours, 1e-9)
	assert.NotEmpty(t, res.ID)
	require.Len(t, repo.created, 1)
}

func TestReservationServiceCreateConflict(t *testing.T) {
	repo := &mockReservationRepo{
		createConflicts: []models.Reservation{
			{ID: "r1", Building: "A", RoomNumber: "101", InstructorID: "inst-2", Date: "2026-03-02", StartTime: "10:00:00", EndTime: "12:00:00"},
		},
	}
	service := newReservationService(repo)

	_, err := service.Create(context.Background(), validCreateRequest())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	var conflictErr *models.ReservationConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, models.ConflictDimensionRoom, conflictErr.Dimension)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, "r1", conflictErr.Conflicts[0].ID)
	assert.Empty(t, repo.created, "nothing may be written on conflict")
}

func TestReservationServiceCreateConflictDimensions(t *testing.T) {
	cases := []struct {
		name      string
		conflicts []models.Reservation
		want      string
	}{
		{
			"instructor only",
			[]models.Reservation{{ID: "r1", Building: "B", RoomNumber: "999", InstructorID: "inst-1"}},
			models.ConflictDimensionInstructor,
		},
		{
			"room and instructor",
			[]models.Reservation{
				{ID: "r1", Building: "A", RoomNumber: "101", InstructorID: "inst-9"},
				{ID: "r2", Building: "C", RoomNumber: "300", InstructorID: "inst-1"},
			},
			models.ConflictDimensionBoth,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockReservationRepo{createConflicts: tc.conflicts}
			service := newReservationService(repo)

			_, err := service.Create(context.Background(), validCreateRequest())
			var conflictErr *models.ReservationConflictError
			require.True(t, errors.As(err, &conflictErr))
			assert.Equal(t, tc.want, conflictErr.Dimension)
		})
	}
}

func TestReservationServiceCreateValidation(t *testing.T) {
	service := newReservationService(&mockReservationRepo{})

	cases := []struct {
		name   string
		mutate func(*CreateReservationRequest)
	}{
		{"missing room", func(r *CreateReservationRequest) { r.RoomNumber = "" }},
		{"long building", func(r *CreateReservationRequest) { r.Building = "AB" }},
		{"unknown activity", func(r *CreateReservationRequest) { r.ActivityType = "SEMINAR" }},
		{"reversed window", func(r *CreateReservationRequest) { r.StartTime, r.EndTime = r.EndTime, r.StartTime }},
		{"zero-length window", func(r *CreateReservationRequest) { r.EndTime = r.StartTime }},
		{"bad date", func(r *CreateReservationRequest) { r.Date = "03/02/2026" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			_, err := service.Create(context.Background(), req)
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
		})
	}
}

func TestReservationServiceCreateRetriesTransientFailure(t *testing.T) {
	transient := appErrors.Clone(appErrors.ErrStoreUnavailable, "serialization failure")
	repo := &mockReservationRepo{createErrs: []error{transient, nil}}
	service := newReservationService(repo)

	res, err := service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, 2, repo.createCalls)
}

func TestReservationServiceCreateRetriesExhausted(t *testing.T) {
	transient := appErrors.Clone(appErrors.ErrStoreUnavailable, "serialization failure")
	repo := &mockReservationRepo{createErrs: []error{transient, transient, transient, transient}}
	service := newReservationService(repo)

	_, err := service.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, appErr.Code)
	assert.Equal(t, 3, repo.createCalls, "initial attempt plus two retries")
}

func TestReservationServiceUpdateNotFound(t *testing.T) {
	repo := &mockReservationRepo{updateErr: sql.ErrNoRows}
	service := newReservationService(repo)

	_, err := service.Update(context.Background(), "missing", UpdateReservationRequest(validCreateRequest()))
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestReservationServiceUpdateRequiresID(t *testing.T) {
	service := newReservationService(&mockReservationRepo{})

	_, err := service.Update(context.Background(), "", UpdateReservationRequest(validCreateRequest()))
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestReservationServiceDelete(t *testing.T) {
	repo := &mockReservationRepo{}
	service := newReservationService(repo)

	require.NoError(t, service.Delete(context.Background(), "r1"))
	assert.Equal(t, []string{"r1"}, repo.deleted)
}

func TestReservationServiceDeleteNotFound(t *testing.T) {
	repo := &mockReservationRepo{deleteErr: sql.ErrNoRows}
	service := newReservationService(repo)

	err := service.Delete(context.Background(), "missing")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestReservationServiceGetByIDNotFound(t *testing.T) {
	repo := &mockReservationRepo{findErr: sql.ErrNoRows}
	service := newReservationService(repo)

	_, err := service.GetByID(context.Background(), "missing")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestReservationServiceListPagination(t *testing.T) {
	repo := &mockReservationRepo{
		listResult: []models.ReservationDetail{{Reservation: models.Reservation{ID: "r1"}}},
		listTotal:  41,
	}
	service := newReservationService(repo)

	list, pagination, err := service.List(context.Background(), models.ReservationFilter{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 10, pagination.PageSize)
	assert.Equal(t, 41, pagination.TotalCount)
}
