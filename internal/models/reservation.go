package models

import "time"

// ActivityType enumerates the activity kinds a course can offer.
type ActivityType string

const (
	ActivityLecture   ActivityType = "LECTURE"
	ActivityTutorial  ActivityType = "TUTORIAL"
	ActivityPractical ActivityType = "PRACTICAL"
)

// Valid reports whether the value is a known activity type.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityLecture, ActivityTutorial, ActivityPractical:
		return true
	}
	return false
}

// Reservation books one room for one instructor and course activity on one
// date/time window. Hours is derived from the window span and stored
// redundantly for reporting.
type Reservation struct {
	ID           string       `db:"id" json:"id"`
	Building     string       `db:"building" json:"building"`
	RoomNumber   string       `db:"room_no" json:"room_number"`
	CourseID     string       `db:"course_id" json:"course_id"`
	DepartmentID string       `db:"department_id" json:"department_id"`
	ActivityType ActivityType `db:"activity_type" json:"activity_type"`
	InstructorID string       `db:"instructor_id" json:"instructor_id"`
	Date         string       `db:"reserv_date" json:"date"`
	StartTime    string       `db:"start_time" json:"start_time"`
	EndTime      string       `db:"end_time" json:"end_time"`
	Hours        float64      `db:"hours" json:"hours"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// Window returns the reservation's time window.
func (r Reservation) Window() TimeWindow {
	return TimeWindow{Date: r.Date, StartTime: r.StartTime, EndTime: r.EndTime}
}

// ReservationDetail joins catalog display names onto a reservation for
// listing screens.
type ReservationDetail struct {
	Reservation
	CourseName     string `db:"course_name" json:"course_name"`
	InstructorName string `db:"instructor_name" json:"instructor_name"`
}

// ReservationFilter describes query params for listing reservations.
type ReservationFilter struct {
	Building     string
	RoomNumber   string
	CourseID     string
	InstructorID string
	ActivityType string
	Date         string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// Conflict dimensions reported by the conflict checker.
const (
	ConflictDimensionRoom       = "ROOM"
	ConflictDimensionInstructor = "INSTRUCTOR"
	ConflictDimensionBoth       = "ROOM_AND_INSTRUCTOR"
)

// ReservationConflictError is returned when a candidate booking overlaps
// existing reservations for the same room or instructor. It carries the
// offending reservations so callers can present them.
type ReservationConflictError struct {
	Dimension string        `json:"dimension"`
	Message   string        `json:"message"`
	Conflicts []Reservation `json:"conflicts"`
}

// Error implements the error interface.
func (e *ReservationConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// InstructorWorkload summarises all bookings ever recorded for an
// instructor.
type InstructorWorkload struct {
	InstructorID      string  `db:"instructor_id" json:"instructor_id"`
	TotalReservations int     `db:"total_reservations" json:"total_reservations"`
	TotalHours        float64 `db:"total_hours" json:"total_hours"`
	DistinctCourses   int     `db:"distinct_courses" json:"distinct_courses"`
}
