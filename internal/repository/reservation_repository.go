package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/uni-adm/reservation-api/internal/models"
	appErrors "github.com/uni-adm/reservation-api/pkg/errors"
)

// Postgres error codes the booking protocol has to distinguish.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqExclusionViolation   = "23P01"
	pqForeignKeyViolation  = "23503"
)

const reservationColumns = `id, building, room_no, course_id, department_id, activity_type, instructor_id, to_char(reserv_date, 'YYYY-MM-DD') AS reserv_date, to_char(start_time, 'HH24:MI:SS') AS start_time, to_char(end_time, 'HH24:MI:SS') AS end_time, hours, created_at, updated_at`

const reservationDetailColumns = `r.id, r.building, r.room_no, r.course_id, r.department_id, r.activity_type, r.instructor_id, to_char(r.reserv_date, 'YYYY-MM-DD') AS reserv_date, to_char(r.start_time, 'HH24:MI:SS') AS start_time, to_char(r.end_time, 'HH24:MI:SS') AS end_time, r.hours, r.created_at, r.updated_at, c.name AS course_name, i.name AS instructor_name`

// ReservationRepository provides persistence for reservations. All writes go
// through the exclusive transactional protocol; callers never get a bare
// insert that skips the overlap re-check.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// List returns reservations with optional filtering, sorting and pagination,
// joined against the course and instructor catalogs for display names.
func (r *ReservationRepository) List(ctx context.Context, filter models.ReservationFilter) ([]models.ReservationDetail, int, error) {
	base := "FROM reservations r JOIN courses c ON r.course_id = c.course_id JOIN instructors i ON r.instructor_id = i.instructor_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Building != "" {
		conditions = append(conditions, fmt.Sprintf("r.building = $%d", len(args)+1))
		args = append(args, filter.Building)
	}
	if filter.RoomNumber != "" {
		conditions = append(conditions, fmt.Sprintf("r.room_no = $%d", len(args)+1))
		args = append(args, filter.RoomNumber)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("r.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("r.instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.ActivityType != "" {
		conditions = append(conditions, fmt.Sprintf("r.activity_type = $%d", len(args)+1))
		args = append(args, filter.ActivityType)
	}
	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("r.reserv_date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"reserv_date":     "r.reserv_date",
		"start_time":      "r.start_time",
		"building":        "r.building",
		"course_name":     "c.name",
		"instructor_name": "i.name",
	}
	sortColumn, ok := allowedSorts[sortBy]
	if !ok {
		sortColumn = "r.reserv_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, r.start_time ASC LIMIT %d OFFSET %d", reservationDetailColumns, base, sortColumn, order, size, offset)
	var reservations []models.ReservationDetail
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, 0, translateStoreError("list reservations", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, translateStoreError("count reservations", err)
	}

	return reservations, total, nil
}

// FindByID loads a reservation with joined display names.
func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*models.ReservationDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations r JOIN courses c ON r.course_id = c.course_id JOIN instructors i ON r.instructor_id = i.instructor_id WHERE r.id = $1", reservationDetailColumns)
	var res models.ReservationDetail
	if err := r.db.GetContext(ctx, &res, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, translateStoreError("find reservation", err)
	}
	return &res, nil
}

// ListForRoomDate returns all reservations for one room on one date,
// optionally excluding a reservation id. Overlap filtering is applied by the
// caller.
func (r *ReservationRepository) ListForRoomDate(ctx context.Context, building, roomNumber, date, excludeID string) ([]models.Reservation, error) {
	return listForRoomDate(ctx, r.db, building, roomNumber, date, excludeID)
}

// ListForInstructorDate is the instructor-keyed variant of ListForRoomDate.
func (r *ReservationRepository) ListForInstructorDate(ctx context.Context, instructorID, date, excludeID string) ([]models.Reservation, error) {
	return listForInstructorDate(ctx, r.db, instructorID, date, excludeID)
}

func listForRoomDate(ctx context.Context, q sqlx.QueryerContext, building, roomNumber, date, excludeID string) ([]models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE building = $1 AND room_no = $2 AND reserv_date = $3", reservationColumns)
	args := []interface{}{building, roomNumber, date}
	if excludeID != "" {
		query += fmt.Sprintf(" AND id != $%d", len(args)+1)
		args = append(args, excludeID)
	}
	query += " ORDER BY start_time ASC"

	var reservations []models.Reservation
	if err := sqlx.SelectContext(ctx, q, &reservations, query, args...); err != nil {
		return nil, translateStoreError("list room reservations", err)
	}
	return reservations, nil
}

func listForInstructorDate(ctx context.Context, q sqlx.QueryerContext, instructorID, date, excludeID string) ([]models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE instructor_id = $1 AND reserv_date = $2", reservationColumns)
	args := []interface{}{instructorID, date}
	if excludeID != "" {
		query += fmt.Sprintf(" AND id != $%d", len(args)+1)
		args = append(args, excludeID)
	}
	query += " ORDER BY start_time ASC"

	var reservations []models.Reservation
	if err := sqlx.SelectContext(ctx, q, &reservations, query, args...); err != nil {
		return nil, translateStoreError("list instructor reservations", err)
	}
	return reservations, nil
}

// CreateExclusive inserts a reservation after re-checking room and
// instructor overlaps inside one serializable transaction guarded by
// advisory locks. A non-empty return slice means the insert was rejected and
// nothing was written.
func (r *ReservationRepository) CreateExclusive(ctx context.Context, res *models.Reservation) ([]models.Reservation, error) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, translateStoreError("begin create reservation", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := acquireBookingLocks(ctx, tx, res); err != nil {
		return nil, translateStoreError("lock booking resources", err)
	}

	conflicts, err := findOverlapsTx(ctx, tx, res, "")
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	const query = `INSERT INTO reservations (id, building, room_no, course_id, department_id, activity_type, instructor_id, reserv_date, start_time, end_time, hours, created_at, updated_at) VALUES (:id, :building, :room_no, :course_id, :department_id, :activity_type, :instructor_id, :reserv_date, :start_time, :end_time, :hours, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, res); err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown course, instructor or room")
		}
		return nil, translateStoreError("insert reservation", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, translateStoreError("commit create reservation", err)
	}
	return nil, nil
}

// UpdateExclusive rewrites a reservation under the same protocol as
// CreateExclusive, excluding the reservation itself from the overlap check.
// On conflict the stored row is left untouched. Returns sql.ErrNoRows when
// the id does not exist.
func (r *ReservationRepository) UpdateExclusive(ctx context.Context, res *models.Reservation) ([]models.Reservation, error) {
	res.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, translateStoreError("begin update reservation", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	if err := tx.GetContext(ctx, &existingID, `SELECT id FROM reservations WHERE id = $1 FOR UPDATE`, res.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, translateStoreError("load reservation for update", err)
	}

	if err := acquireBookingLocks(ctx, tx, res); err != nil {
		return nil, translateStoreError("lock booking resources", err)
	}

	conflicts, err := findOverlapsTx(ctx, tx, res, res.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	const query = `UPDATE reservations SET building = :building, room_no = :room_no, course_id = :course_id, department_id = :department_id, activity_type = :activity_type, instructor_id = :instructor_id, reserv_date = :reserv_date, start_time = :start_time, end_time = :end_time, hours = :hours, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, res); err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown course, instructor or room")
		}
		return nil, translateStoreError("update reservation", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, translateStoreError("commit update reservation", err)
	}
	return nil, nil
}

// Delete removes a reservation. Returns sql.ErrNoRows for a missing id and a
// REFERENCED error when other records still depend on the row.
func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return appErrors.Wrap(err, appErrors.ErrReferenced.Code, appErrors.ErrReferenced.Status, "reservation is referenced by other records")
		}
		return translateStoreError("delete reservation", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return translateStoreError("delete reservation", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListAvailableRooms returns catalog rooms with no reservation overlapping
// the window, optionally restricted to a minimum capacity. The anti-join
// mirrors the overlap predicate used everywhere else.
func (r *ReservationRepository) ListAvailableRooms(ctx context.Context, window models.TimeWindow, minCapacity *int) ([]models.Room, error) {
	query := `SELECT r.building, r.room_no, r.capacity FROM rooms r WHERE NOT EXISTS (SELECT 1 FROM reservations res WHERE res.building = r.building AND res.room_no = r.room_no AND res.reserv_date = $1 AND res.start_time < $2 AND res.end_time > $3)`
	args := []interface{}{window.Date, window.EndTime, window.StartTime}
	if minCapacity != nil {
		query += fmt.Sprintf(" AND r.capacity >= $%d", len(args)+1)
		args = append(args, *minCapacity)
	}
	query += " ORDER BY r.building ASC, r.room_no ASC"

	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, translateStoreError("list available rooms", err)
	}
	return rooms, nil
}

// ListByInstructorRange returns an instructor's reservations within a date
// range ordered by date then start time.
func (r *ReservationRepository) ListByInstructorRange(ctx context.Context, instructorID, dateFrom, dateTo string) ([]models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE instructor_id = $1 AND reserv_date >= $2 AND reserv_date <= $3 ORDER BY reserv_date ASC, start_time ASC", reservationColumns)
	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, instructorID, dateFrom, dateTo); err != nil {
		return nil, translateStoreError("list instructor schedule", err)
	}
	return reservations, nil
}

// ListByRoomRange returns a room's reservations within a date range ordered
// by date then start time.
func (r *ReservationRepository) ListByRoomRange(ctx context.Context, building, roomNumber, dateFrom, dateTo string) ([]models.Reservation, error) {
	query := fmt.Sprintf("SELECT %s FROM reservations WHERE building = $1 AND room_no = $2 AND reserv_date >= $3 AND reserv_date <= $4 ORDER BY reserv_date ASC, start_time ASC", reservationColumns)
	var reservations []models.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, building, roomNumber, dateFrom, dateTo); err != nil {
		return nil, translateStoreError("list room schedule", err)
	}
	return reservations, nil
}

// InstructorWorkload aggregates count, hours and distinct courses over all
// bookings ever recorded for the instructor.
func (r *ReservationRepository) InstructorWorkload(ctx context.Context, instructorID string) (*models.InstructorWorkload, error) {
	const query = `SELECT COUNT(*) AS total_reservations, COALESCE(SUM(hours), 0) AS total_hours, COUNT(DISTINCT course_id) AS distinct_courses FROM reservations WHERE instructor_id = $1`
	var workload models.InstructorWorkload
	if err := r.db.GetContext(ctx, &workload, query, instructorID); err != nil {
		return nil, translateStoreError("aggregate instructor workload", err)
	}
	workload.InstructorID = instructorID
	return &workload, nil
}

// findOverlapsTx re-fetches same-resource rows for the booking date inside
// the transaction and filters them with the shared overlap predicate.
func findOverlapsTx(ctx context.Context, tx *sqlx.Tx, res *models.Reservation, excludeID string) ([]models.Reservation, error) {
	window := res.Window()

	roomRows, err := listForRoomDate(ctx, tx, res.Building, res.RoomNumber, res.Date, excludeID)
	if err != nil {
		return nil, err
	}
	instructorRows, err := listForInstructorDate(ctx, tx, res.InstructorID, res.Date, excludeID)
	if err != nil {
		return nil, err
	}

	var conflicts []models.Reservation
	seen := make(map[string]struct{})
	for _, row := range append(roomRows, instructorRows...) {
		if _, dup := seen[row.ID]; dup {
			continue
		}
		if models.Overlaps(window, row.Window()) {
			seen[row.ID] = struct{}{}
			conflicts = append(conflicts, row)
		}
	}
	return conflicts, nil
}

// acquireBookingLocks takes per-resource advisory locks scoped to the
// transaction. Keys are taken in ascending order so two bookings touching
// the same resources cannot deadlock.
func acquireBookingLocks(ctx context.Context, tx *sqlx.Tx, res *models.Reservation) error {
	keys := []int64{
		bookingLockKey(fmt.Sprintf("room:%s:%s:%s", res.Building, res.RoomNumber, res.Date)),
		bookingLockKey(fmt.Sprintf("instructor:%s:%s", res.InstructorID, res.Date)),
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, key); err != nil {
			return err
		}
	}
	return nil
}

func bookingLockKey(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}

// translateStoreError maps driver failures onto the typed error surface.
// Serialization failures and deadlocks are retryable as whole operations;
// exclusion violations are the schema-level backstop against writers that
// bypass the advisory locks.
func translateStoreError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqSerializationFailure, pqDeadlockDetected:
			return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "transaction aborted, retry the operation")
		case pqExclusionViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "booking overlaps an existing reservation")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
