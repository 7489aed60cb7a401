package repositories

import (
	"database/sql"

	intconfig "travelplan/internal/config"
	"travelplan/internal/domain/models"
)

type ItineraryRepository struct {
	DB *sql.DB
}

func (r ItineraryRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ItineraryRepository) GetByID(id int64) (models.ItineraryItem, error) {
	var it models.ItineraryItem
	err := r.db().QueryRow(`
		SELECT id, trip_id, DATE_FORMAT(item_date,'%Y-%m-%d'), item_time, location, COALESCE(note,'')
		FROM itinerary_items
		WHERE id=?
	`, id).Scan(&it.ID, &it.TripID, &it.Date, &it.Time, &it.Location, &it.Note)
	return it, err
}

// ListByTripDate returns the trip's items for one day ordered by time.
// An empty date returns the whole trip.
func (r ItineraryRepository) ListByTripDate(tripID int64, date string) ([]models.ItineraryItem, error) {
	query := `
		SELECT id, trip_id, DATE_FORMAT(item_date,'%Y-%m-%d'), item_time, location, COALESCE(note,'')
		FROM itinerary_items
		WHERE trip_id=?`
	args := []any{tripID}
	if date != "" {
		query += ` AND item_date=?`
		args = append(args, date)
	}
	query += ` ORDER BY item_date ASC, item_time ASC, id ASC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ItineraryItem{}
	for rows.Next() {
		var it models.ItineraryItem
		if err := rows.Scan(&it.ID, &it.TripID, &it.Date, &it.Time, &it.Location, &it.Note); err != nil {
			return out, err
		}
		it.Participants = []string{}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	if err := r.attachParticipants(tripID, out); err != nil {
		return out, err
	}
	return out, nil
}

func (r ItineraryRepository) attachParticipants(tripID int64, items []models.ItineraryItem) error {
	if len(items) == 0 {
		return nil
	}
	rows, err := r.db().Query(`
		SELECT ip.item_id, u.username
		FROM itinerary_participants ip
		JOIN itinerary_items i ON i.id = ip.item_id
		JOIN users u ON u.id = ip.user_id
		WHERE i.trip_id=?
		ORDER BY u.id ASC
	`, tripID)
	if err != nil {
		return err
	}
	defer rows.Close()

	byItem := map[int64][]string{}
	for rows.Next() {
		var iid int64
		var name string
		if err := rows.Scan(&iid, &name); err != nil {
			return err
		}
		byItem[iid] = append(byItem[iid], name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		if names, ok := byItem[items[i].ID]; ok {
			items[i].Participants = names
		}
	}
	return nil
}

func (r ItineraryRepository) Insert(it models.ItineraryItem, participantIDs []int64) (int64, error) {
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
		INSERT INTO itinerary_items (trip_id, item_date, item_time, location, note)
		VALUES (?, ?, ?, ?, NULLIF(?,''))
	`, it.TripID, it.Date, it.Time, it.Location, it.Note)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, uid := range participantIDs {
		if _, err := tx.Exec(`INSERT IGNORE INTO itinerary_participants (item_id, user_id) VALUES (?, ?)`, id, uid); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

func (r ItineraryRepository) Update(it models.ItineraryItem, participantIDs []int64) error {
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
		UPDATE itinerary_items
		SET item_date=?, item_time=?, location=?, note=NULLIF(?,'')
		WHERE id=?
	`, it.Date, it.Time, it.Location, it.Note, it.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM itinerary_participants WHERE item_id=?`, it.ID); err != nil {
		return err
	}
	for _, uid := range participantIDs {
		if _, err := tx.Exec(`INSERT IGNORE INTO itinerary_participants (item_id, user_id) VALUES (?, ?)`, it.ID, uid); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r ItineraryRepository) Delete(id int64) error {
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

	if _, err := tx.Exec(`DELETE FROM itinerary_participants WHERE item_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM itinerary_items WHERE id=?`, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
