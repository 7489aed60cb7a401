package repositories

import (
	"database/sql"

	intconfig "travelplan/internal/config"
	"travelplan/internal/domain/models"
)

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r TripRepository) GetByID(id int64) (models.Trip, error) {
	var t models.Trip
	err := r.db().QueryRow(`
		SELECT id, title, DATE_FORMAT(start_date,'%Y-%m-%d'), DATE_FORMAT(end_date,'%Y-%m-%d'), owner_id
		FROM trips
		WHERE id=?
	`, id).Scan(&t.ID, &t.Title, &t.StartDate, &t.EndDate, &t.OwnerID)
	return t, err
}

// ListForUser returns trips the user owns or is a member of, newest start date first.
func (r TripRepository) ListForUser(userID int64) ([]models.Trip, error) {
	rows, err := r.db().Query(`
		SELECT DISTINCT t.id, t.title, DATE_FORMAT(t.start_date,'%Y-%m-%d'), DATE_FORMAT(t.end_date,'%Y-%m-%d'), t.owner_id
		FROM trips t
		LEFT JOIN trip_members m ON m.trip_id = t.id
		WHERE t.owner_id = ? OR m.user_id = ?
		ORDER BY t.start_date DESC, t.id DESC
	`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.ID, &t.Title, &t.StartDate, &t.EndDate, &t.OwnerID); err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListMembers returns the users attached to the trip via trip_members.
func (r TripRepository) ListMembers(tripID int64) ([]models.User, error) {
	rows, err := r.db().Query(`
		SELECT u.id, u.username
		FROM trip_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.trip_id = ?
		ORDER BY u.id ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r TripRepository) IsMember(tripID, userID int64) (bool, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM trip_members WHERE trip_id=? AND user_id=?
	`, tripID, userID).Scan(&n)
	return n > 0, err
}

// Create inserts the trip row and its member edges in one transaction.
func (r TripRepository) Create(t models.Trip, memberIDs []int64) (int64, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.Exec(`
		INSERT INTO trips (title, start_date, end_date, owner_id)
		VALUES (?, ?, ?, ?)
	`, t.Title, t.StartDate, t.EndDate, t.OwnerID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, uid := range memberIDs {
		if _, err := tx.Exec(`INSERT IGNORE INTO trip_members (trip_id, user_id) VALUES (?, ?)`, id, uid); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

// UpdateWithMembers updates trip fields and applies the membership diff
// atomically. Additions and removals must be computed by the caller before
// this runs; either all of it lands or none of it does.
func (r TripRepository) UpdateWithMembers(t models.Trip, addIDs, removeIDs []int64) error {
	tx, err := r.db().Begin()
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(`
		UPDATE trips SET title=?, start_date=?, end_date=? WHERE id=?
	`, t.Title, t.StartDate, t.EndDate, t.ID); err != nil {
		return err
	}

	for _, uid := range addIDs {
		if _, err := tx.Exec(`INSERT IGNORE INTO trip_members (trip_id, user_id) VALUES (?, ?)`, t.ID, uid); err != nil {
			return err
		}
	}
	for _, uid := range removeIDs {
		if _, err := tx.Exec(`DELETE FROM trip_members WHERE trip_id=? AND user_id=?`, t.ID, uid); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r TripRepository) RemoveMember(tripID, userID int64) error {
	_, err := r.db().Exec(`DELETE FROM trip_members WHERE trip_id=? AND user_id=?`, tripID, userID)
	return err
}

// DeleteCascade removes the trip and everything hanging off it in one
// transaction. Children are deleted explicitly instead of leaning on FK
// cascade so the schema stays portable.
func (r TripRepository) DeleteCascade(tripID int64) error {
	tx, err := r.db().Begin()
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stmts := []string{
		`DELETE fp FROM flight_participants fp JOIN flights f ON f.id = fp.flight_id WHERE f.trip_id=?`,
		`DELETE FROM flights WHERE trip_id=?`,
		`DELETE ip FROM itinerary_participants ip JOIN itinerary_items i ON i.id = ip.item_id WHERE i.trip_id=?`,
		`DELETE FROM itinerary_items WHERE trip_id=?`,
		`DELETE FROM expenses WHERE trip_id=?`,
		`DELETE FROM trip_members WHERE trip_id=?`,
		`DELETE FROM trips WHERE id=?`,
	}
	for _, q := range stmts {
		if _, err := tx.Exec(q, tripID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
