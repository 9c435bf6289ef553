package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/uni-adm/reservation-api/internal/models"
)

// RoomRepository reads the room catalog. The catalog is owned by the
// facilities CRUD elsewhere; this subsystem only lists it.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns all rooms ordered by building and number.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT building, room_no, capacity FROM rooms ORDER BY building ASC, room_no ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, translateStoreError("list rooms", err)
	}
	return rooms, nil
}
