package models

// Room is a bookable room from the read-only facilities catalog.
type Room struct {
	Building   string `db:"building" json:"building"`
	RoomNumber string `db:"room_no" json:"room_number"`
	Capacity   int    `db:"capacity" json:"capacity"`
}

// Instructor is an entry from the read-only instructor catalog.
type Instructor struct {
	ID   string `db:"instructor_id" json:"instructor_id"`
	Name string `db:"name" json:"name"`
}

// Course is an entry from the read-only course catalog.
type Course struct {
	ID           string `db:"course_id" json:"course_id"`
	Name         string `db:"name" json:"name"`
	DepartmentID string `db:"department_id" json:"department_id"`
}
