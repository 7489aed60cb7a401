package repositories

import (
	"database/sql"

	intconfig "travelplan/internal/config"
	"travelplan/internal/domain/models"
)

type FlightRepository struct {
	DB *sql.DB
}

func (r FlightRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r FlightRepository) GetByID(id int64) (models.Flight, error) {
	var f models.Flight
	err := r.db().QueryRow(`
		SELECT id, trip_id, type, DATE_FORMAT(flight_date,'%Y-%m-%d'),
		       COALESCE(departure_time,''), COALESCE(arrival_time,''),
		       COALESCE(departure,''), COALESCE(arrival,''),
		       COALESCE(airline,''), COALESCE(number,'')
		FROM flights
		WHERE id=?
	`, id).Scan(&f.ID, &f.TripID, &f.Type, &f.Date,
		&f.DepartureTime, &f.ArrivalTime, &f.Departure, &f.Arrival, &f.Airline, &f.Number)
	return f, err
}

func (r FlightRepository) ListByTrip(tripID int64) ([]models.Flight, error) {
	rows, err := r.db().Query(`
		SELECT id, trip_id, type, DATE_FORMAT(flight_date,'%Y-%m-%d'),
		       COALESCE(departure_time,''), COALESCE(arrival_time,''),
		       COALESCE(departure,''), COALESCE(arrival,''),
		       COALESCE(airline,''), COALESCE(number,'')
		FROM flights
		WHERE trip_id=?
		ORDER BY flight_date ASC, departure_time ASC, id ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Flight{}
	for rows.Next() {
		var f models.Flight
		if err := rows.Scan(&f.ID, &f.TripID, &f.Type, &f.Date,
			&f.DepartureTime, &f.ArrivalTime, &f.Departure, &f.Arrival, &f.Airline, &f.Number); err != nil {
			return out, err
		}
		f.Participants = []string{}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	if err := r.attachParticipants(tripID, out); err != nil {
		return out, err
	}
	return out, nil
}

func (r FlightRepository) attachParticipants(tripID int64, flights []models.Flight) error {
	if len(flights) == 0 {
		return nil
	}
	rows, err := r.db().Query(`
		SELECT fp.flight_id, u.username
		FROM flight_participants fp
		JOIN flights f ON f.id = fp.flight_id
		JOIN users u ON u.id = fp.user_id
		WHERE f.trip_id=?
		ORDER BY u.id ASC
	`, tripID)
	if err != nil {
		return err
	}
	defer rows.Close()

	byFlight := map[int64][]string{}
	for rows.Next() {
		var fid int64
		var name string
		if err := rows.Scan(&fid, &name); err != nil {
			return err
		}
		byFlight[fid] = append(byFlight[fid], name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range flights {
		if names, ok := byFlight[flights[i].ID]; ok {
			flights[i].Participants = names
		}
	}
	return nil
}

// ListParticipants returns the usernames attached to one flight.
func (r FlightRepository) ListParticipants(flightID int64) ([]string, error) {
	rows, err := r.db().Query(`
		SELECT u.username
		FROM flight_participants fp
		JOIN users u ON u.id = fp.user_id
		WHERE fp.flight_id=?
		ORDER BY u.id ASC
	`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return out, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Insert adds the flight and its participant edges in one transaction.
func (r FlightRepository) Insert(f models.Flight, participantIDs []int64) (int64, error) {
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
		INSERT INTO flights (trip_id, type, flight_date, departure_time, arrival_time, departure, arrival, airline, number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.TripID, f.Type, f.Date, f.DepartureTime, f.ArrivalTime, f.Departure, f.Arrival, f.Airline, f.Number)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, uid := range participantIDs {
		if _, err := tx.Exec(`INSERT IGNORE INTO flight_participants (flight_id, user_id) VALUES (?, ?)`, id, uid); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

// Update overwrites mutable fields and replaces the participant edges.
func (r FlightRepository) Update(f models.Flight, participantIDs []int64) error {
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
		UPDATE flights
		SET flight_date=?, airline=?, departure=?, arrival=?, departure_time=?, arrival_time=?, number=?, type=?
		WHERE id=?
	`, f.Date, f.Airline, f.Departure, f.Arrival, f.DepartureTime, f.ArrivalTime, f.Number, f.Type, f.ID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM flight_participants WHERE flight_id=?`, f.ID); err != nil {
		return err
	}
	for _, uid := range participantIDs {
		if _, err := tx.Exec(`INSERT IGNORE INTO flight_participants (flight_id, user_id) VALUES (?, ?)`, f.ID, uid); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (r FlightRepository) Delete(id int64) error {
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

	if _, err := tx.Exec(`DELETE FROM flight_participants WHERE flight_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM flights WHERE id=?`, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
