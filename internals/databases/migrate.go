package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	masjidModel "masjidfinder_backend/internals/features/masjids/masjids/model"
	requestModel "masjidfinder_backend/internals/features/requests/model"
	authModel "masjidfinder_backend/internals/features/users/auth/model"
	userModel "masjidfinder_backend/internals/features/users/user/model"
)

// constraint & index yang tidak bisa diekspresikan lewat tag GORM
var ddl = []string{
	// users
	`DO $$ BEGIN
		ALTER TABLE users ADD CONSTRAINT chk_users_role CHECK (role IN ('main_admin','admin','user'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_single_main_admin ON users ((role)) WHERE role = 'main_admin'`,

	// masjids
	`DO $$ BEGIN
		ALTER TABLE masjids ADD CONSTRAINT chk_masjids_coordinates
			CHECK (masjid_longitude BETWEEN -180 AND 180 AND masjid_latitude BETWEEN -90 AND 90);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE INDEX IF NOT EXISTS idx_masjids_geography ON masjids
		USING GIST ((ST_SetSRID(ST_MakePoint(masjid_longitude, masjid_latitude), 4326)::geography))`,
	`CREATE INDEX IF NOT EXISTS idx_masjids_created_at ON masjids (masjid_created_at DESC)`,

	// requests
	`DO $$ BEGIN
		ALTER TABLE requests ADD CONSTRAINT chk_requests_type
			CHECK (request_type IN ('admin_access','add_masjid','edit_masjid','delete_masjid'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE requests ADD CONSTRAINT chk_requests_status
			CHECK (request_status IN ('pending','approved','rejected'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE requests ADD CONSTRAINT chk_requests_processed
			CHECK ((request_status = 'pending') = (request_processed_by IS NULL));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_requests_pending_admin_access
		ON requests (request_requested_by)
		WHERE request_type = 'admin_access' AND request_status = 'pending'`,
}

// Migrate: extension -> AutoMigrate -> DDL tambahan. Idempotent.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS postgis`).Error; err != nil {
		return fmt.Errorf("enable postgis: %w", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&masjidModel.MasjidModel{},
		&requestModel.RequestModel{},
		&authModel.TokenBlacklist{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate ddl: %w", err)
		}
	}
	log.Println("✅ Migrasi selesai.")
	return nil
}
