package repositories

import (
	"database/sql"
	"strings"

	intconfig "travelplan/internal/config"
	"travelplan/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepository) GetByID(id int64) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, username, COALESCE(password_hash,''), COALESCE(google_id,'')
		FROM users
		WHERE id=?
	`, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.GoogleID)
	return u, err
}

func (r UserRepository) GetByUsername(username string) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, username, COALESCE(password_hash,''), COALESCE(google_id,'')
		FROM users
		WHERE username=?
	`, strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.GoogleID)
	return u, err
}

func (r UserRepository) GetByGoogleID(sub string) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, username, COALESCE(password_hash,''), COALESCE(google_id,'')
		FROM users
		WHERE google_id=?
	`, sub).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.GoogleID)
	return u, err
}

func (r UserRepository) Create(u models.User) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (username, password_hash, google_id)
		VALUES (?, ?, NULLIF(?,''))
	`, strings.TrimSpace(u.Username), u.PasswordHash, u.GoogleID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r UserRepository) ListUsernames() ([]string, error) {
	rows, err := r.db().Query(`SELECT username FROM users ORDER BY username ASC`)
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

// ResolveUsernames returns the users whose username appears in names.
// Names with no matching row are simply absent from the result.
func (r UserRepository) ResolveUsernames(names []string) ([]models.User, error) {
	if len(names) == 0 {
		return []models.User{}, nil
	}

	ph := make([]string, len(names))
	args := make([]any, len(names))
	for i, n := range names {
		ph[i] = "?"
		args[i] = strings.TrimSpace(n)
	}

	rows, err := r.db().Query(`
		SELECT id, username, COALESCE(password_hash,''), COALESCE(google_id,'')
		FROM users
		WHERE username IN (`+strings.Join(ph, ",")+`)
		ORDER BY id ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.GoogleID); err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
