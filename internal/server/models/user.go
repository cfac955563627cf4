package models

// User is a credential record keyed by email.
type User struct {
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}
