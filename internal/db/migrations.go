package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		full_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		role VARCHAR(16) NOT NULL DEFAULT 'citizen',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_users_role_active ON users (role, is_active);`,
	`CREATE TABLE IF NOT EXISTS appeals (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		violation_id VARCHAR(20) NOT NULL,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		appeal_reason VARCHAR(32) NOT NULL,
		description TEXT NOT NULL,
		evidence TEXT NOT NULL,
		evidence_type VARCHAR(32),
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		admin_notes TEXT,
		reviewed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		reviewed_at TIMESTAMPTZ,
		violation_date TIMESTAMPTZ NOT NULL,
		appeal_deadline TIMESTAMPTZ NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_appeals_status CHECK (status IN ('pending', 'under-review', 'approved', 'rejected')),
		CONSTRAINT chk_appeals_reason CHECK (appeal_reason IN ('road-obstruction', 'medical-emergency', 'traffic-diversion', 'environmental-weather', 'incorrect-detection', 'other')),
		CONSTRAINT chk_appeals_evidence CHECK (evidence <> '')
	);`,
	`CREATE INDEX IF NOT EXISTS idx_appeals_violation_id ON appeals (violation_id);`,
	`CREATE INDEX IF NOT EXISTS idx_appeals_status_created_at ON appeals (status, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_appeals_user_status ON appeals (user_id, status);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_appeal_per_violation_user
		ON appeals (violation_id, user_id)
		WHERE status IN ('pending', 'under-review');`,
	`CREATE TABLE IF NOT EXISTS appeal_status_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		appeal_id UUID NOT NULL REFERENCES appeals(id) ON DELETE CASCADE,
		status VARCHAR(16) NOT NULL,
		changed_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		changed_at TIMESTAMPTZ NOT NULL,
		notes TEXT,
		reason TEXT
	);`,
	`CREATE INDEX IF NOT EXISTS idx_appeal_status_history_appeal_id ON appeal_status_history (appeal_id, changed_at);`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		action VARCHAR(32) NOT NULL,
		user_id UUID NOT NULL,
		appeal_id UUID,
		performed_by UUID NOT NULL,
		details TEXT,
		ip_address VARCHAR(64),
		user_agent TEXT,
		timestamp TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_action_ts ON audit_logs (action, timestamp DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_appeal_ts ON audit_logs (appeal_id, timestamp DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_performed_by_ts ON audit_logs (performed_by, timestamp DESC);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		appeal_id UUID NOT NULL REFERENCES appeals(id) ON DELETE CASCADE,
		type VARCHAR(32) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		status VARCHAR(8) NOT NULL DEFAULT 'unread',
		read_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_status_created ON notifications (user_id, status, created_at DESC);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_appeals_updated_at') THEN
			CREATE TRIGGER trg_appeals_updated_at
				BEFORE UPDATE ON appeals
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
