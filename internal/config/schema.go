package config

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaDDL is ordered: referenced tables first.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS agencies (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	slug VARCHAR(100) NOT NULL,
	contact_phone VARCHAR(100) NOT NULL DEFAULT '',
	contact_email VARCHAR(255) NOT NULL DEFAULT '',
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_agency_slug (slug)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	agency_id BIGINT NULL,
	full_name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(100) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(50) NOT NULL DEFAULT 'agency_employee',
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_user_email (email),
	KEY idx_user_agency (agency_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS agency_employee_invitations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	agency_id BIGINT NOT NULL,
	email VARCHAR(255) NOT NULL,
	role VARCHAR(50) NOT NULL DEFAULT 'agency_employee',
	token VARCHAR(64) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	invited_by BIGINT NOT NULL DEFAULT 0,
	expires_at DATETIME NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_invitation_token (token),
	KEY idx_invitation_agency (agency_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS buses (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	agency_id BIGINT NOT NULL,
	license_plate VARCHAR(50) NOT NULL,
	total_seats INT NOT NULL,
	is_vip TINYINT(1) NOT NULL DEFAULT 0,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_bus_plate (license_plate),
	KEY idx_bus_agency (agency_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS trips (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	agency_id BIGINT NOT NULL,
	bus_id BIGINT NOT NULL,
	driver_id BIGINT NULL,
	departure_city VARCHAR(255) NOT NULL,
	arrival_city VARCHAR(255) NOT NULL,
	departure_at DATETIME NOT NULL,
	arrival_at DATETIME NULL,
	price_fcfa BIGINT NOT NULL DEFAULT 0,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_trip_agency (agency_id),
	KEY idx_trip_bus (bus_id),
	KEY idx_trip_active (is_active)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	// active_seat collapses to NULL for cancelled bookings so the unique key
	// only constrains active ones: at most one active booking per (trip, seat).
	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	seat_number VARCHAR(10) NOT NULL,
	passenger_name VARCHAR(255) NOT NULL,
	passenger_phone VARCHAR(100) NOT NULL DEFAULT '',
	booking_status VARCHAR(20) NOT NULL DEFAULT 'pending',
	payment_status VARCHAR(20) NOT NULL DEFAULT 'unpaid',
	price_fcfa BIGINT NOT NULL DEFAULT 0,
	reference VARCHAR(30) NOT NULL,
	active_seat VARCHAR(10) GENERATED ALWAYS AS (
		CASE WHEN booking_status IN ('confirmed','pending') THEN seat_number ELSE NULL END
	) STORED,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_booking_reference (reference),
	UNIQUE KEY uniq_trip_active_seat (trip_id, active_seat),
	KEY idx_booking_trip (trip_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS seat_maps (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	seat_number VARCHAR(10) NOT NULL,
	position_row INT NOT NULL,
	position_column INT NOT NULL,
	seat_type VARCHAR(20) NOT NULL DEFAULT 'standard',
	is_available TINYINT(1) NOT NULL DEFAULT 1,
	price_modifier_fcfa BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_trip_seat (trip_id, seat_number),
	KEY idx_seatmap_trip (trip_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}

// EnsureSchema creates missing tables. Safe to re-run on every boot.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db not initialized")
	}
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
