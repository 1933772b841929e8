package driver

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

func ConnectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		hashed_password VARCHAR(255) NOT NULL,
		is_volunteer BOOLEAN NOT NULL DEFAULT FALSE,
		role VARCHAR(32) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS ngos (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		contact_phone VARCHAR(32),
		aid_types VARCHAR(255)
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		target_amount DOUBLE NOT NULL,
		raised_amount DOUBLE NOT NULL DEFAULT 0,
		ngo_id INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS flood_reports (
		id INT AUTO_INCREMENT PRIMARY KEY,
		description TEXT,
		location VARCHAR(255),
		latitude DOUBLE,
		longitude DOUBLE,
		image_url VARCHAR(512),
		severity VARCHAR(64),
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		user_id INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS water_stations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		station_name VARCHAR(255) NOT NULL,
		river_name VARCHAR(255),
		water_level DOUBLE NOT NULL DEFAULT 0,
		danger_level DOUBLE NOT NULL DEFAULT 0,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_station_name (station_name)
	)`,
	`CREATE TABLE IF NOT EXISTS volunteer_tasks (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		priority VARCHAR(64),
		status VARCHAR(64) NOT NULL DEFAULT 'Pending',
		assigned_to VARCHAR(255),
		latitude DOUBLE,
		longitude DOUBLE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_assigned_to (assigned_to)
	)`,
}

// Migrate creates the tables on startup if they do not exist yet.
func Migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
