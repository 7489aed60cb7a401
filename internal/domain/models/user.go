package models

// User is an account row. PasswordHash is empty for Google-only accounts.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	GoogleID     string `json:"-"`
}
