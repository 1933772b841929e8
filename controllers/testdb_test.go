package controllers

import (
	"database/sql"
	"testing"
	"time"

	"flood-alert-backend/auth"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// Timestamp columns are declared TEXT so the sqlite driver hands them back as
// strings, matching how the MySQL rows scan in production.
var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		is_volunteer BOOLEAN NOT NULL DEFAULT 0,
		role TEXT NOT NULL DEFAULT 'user',
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE ngos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		contact_phone TEXT,
		aid_types TEXT
	)`,
	`CREATE TABLE campaigns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		target_amount REAL NOT NULL,
		raised_amount REAL NOT NULL DEFAULT 0,
		ngo_id INTEGER NOT NULL
	)`,
	`CREATE TABLE flood_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT,
		location TEXT,
		latitude REAL,
		longitude REAL,
		image_url TEXT,
		severity TEXT,
		timestamp TEXT DEFAULT CURRENT_TIMESTAMP,
		user_id INTEGER NOT NULL
	)`,
	`CREATE TABLE water_stations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station_name TEXT NOT NULL,
		river_name TEXT,
		water_level REAL NOT NULL DEFAULT 0,
		danger_level REAL NOT NULL DEFAULT 0,
		last_updated TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE volunteer_tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT,
		status TEXT NOT NULL DEFAULT 'Pending',
		assigned_to TEXT,
		latitude REAL,
		longitude REAL,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single in-memory connection; a second one would see an empty database.
	db.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuth() *auth.Service {
	return auth.NewService(testSecret, 30*time.Minute)
}

// createUser inserts a user row directly and returns its id and a valid token.
func createUser(t *testing.T, db *sql.DB, svc *auth.Service, email, role string, isVolunteer bool) (int, string) {
	t.Helper()

	hash, err := svc.HashPassword("password123")
	require.NoError(t, err)

	result, err := db.Exec(
		"INSERT INTO users (full_name, email, hashed_password, is_volunteer, role) VALUES (?, ?, ?, ?, ?)",
		"Test User", email, hash, isVolunteer, role)
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)

	token, err := svc.GenerateToken(email)
	require.NoError(t, err)

	return int(id), token
}
