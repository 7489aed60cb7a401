package repositories

import (
	"database/sql"

	intconfig "travelplan/internal/config"
	"travelplan/internal/domain/models"
)

type ExpenseRepository struct {
	DB *sql.DB
}

func (r ExpenseRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ExpenseRepository) GetByID(id int64) (models.Expense, error) {
	var e models.Expense
	err := r.db().QueryRow(`
		SELECT id, trip_id, item_name, amount, payer_name
		FROM expenses
		WHERE id=?
	`, id).Scan(&e.ID, &e.TripID, &e.ItemName, &e.Amount, &e.PayerName)
	return e, err
}

func (r ExpenseRepository) ListByTrip(tripID int64) ([]models.Expense, error) {
	rows, err := r.db().Query(`
		SELECT id, trip_id, item_name, amount, payer_name
		FROM expenses
		WHERE trip_id=?
		ORDER BY id ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.TripID, &e.ItemName, &e.Amount, &e.PayerName); err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r ExpenseRepository) Insert(e models.Expense) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO expenses (trip_id, item_name, amount, payer_name)
		VALUES (?, ?, ?, ?)
	`, e.TripID, e.ItemName, e.Amount, e.PayerName)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ExpenseRepository) Update(e models.Expense) error {
	_, err := r.db().Exec(`
		UPDATE expenses SET item_name=?, amount=?, payer_name=? WHERE id=?
	`, e.ItemName, e.Amount, e.PayerName, e.ID)
	return err
}

func (r ExpenseRepository) Delete(id int64) error {
	_, err := r.db().Exec(`DELETE FROM expenses WHERE id=?`, id)
	return err
}
