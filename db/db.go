package db

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// Database is the user registry: the durable mapping from the immutable
// platform user id to the display name offers are keyed by. Offers and
// warnings live in the JSON documents, not here.
type Database struct {
	db *sql.DB
}

// NewDatabase initializes the database connection and schema
func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			username TEXT,
			created_at TIMESTAMP
		);
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}

	return &Database{db: db}, nil
}

// RegisterUser registers a user, updating the stored display name if it
// has changed since last seen
func (d *Database) RegisterUser(userID int64, username string) error {
	_, err := d.db.Exec(
		"INSERT INTO users (user_id, username, created_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(user_id) DO UPDATE SET username = excluded.username",
		userID, username, time.Now(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to register user")
	}
	return nil
}

// UserExists checks if a user is registered
func (d *Database) UserExists(userID int64) (bool, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM users WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "failed to check user existence")
	}
	return count > 0, nil
}

// Username returns the last seen display name for a user id
func (d *Database) Username(userID int64) (string, error) {
	var name string
	err := d.db.QueryRow("SELECT username FROM users WHERE user_id = ?", userID).Scan(&name)
	if err != nil {
		return "", errors.Wrap(err, "failed to look up username")
	}
	return name, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}
