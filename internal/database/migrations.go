package database

import (
	"database/sql"
	"fmt"
)

func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'client',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`,
		`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);`,
		`CREATE OR REPLACE FUNCTION update_updated_at_column()
		RETURNS TRIGGER AS $$
		BEGIN
			NEW.updated_at = CURRENT_TIMESTAMP;
			RETURN NEW;
		END;
		$$ language 'plpgsql';`,
		`DROP TRIGGER IF EXISTS update_users_updated_at ON users;`,
		`CREATE TRIGGER update_users_updated_at
		BEFORE UPDATE ON users
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
		`CREATE TABLE IF NOT EXISTS coupon_codes (
			id SERIAL PRIMARY KEY,
			code VARCHAR(50) UNIQUE NOT NULL,
			description VARCHAR(500) NOT NULL,
			coupon_type VARCHAR(20) NOT NULL,
			coupon_value DOUBLE PRECISION NOT NULL,
			min_order_amount BIGINT NOT NULL DEFAULT 0,
			usage_type VARCHAR(20) NOT NULL,
			max_uses INTEGER,
			used_count INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT true,
			start_date TIMESTAMP WITH TIME ZONE NOT NULL,
			end_date TIMESTAMP WITH TIME ZONE,
			created_by INTEGER REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_coupon_codes_code ON coupon_codes(code);`,
		`CREATE INDEX IF NOT EXISTS idx_coupon_codes_active ON coupon_codes(active);`,
		`DROP TRIGGER IF EXISTS update_coupon_codes_updated_at ON coupon_codes;`,
		`CREATE TRIGGER update_coupon_codes_updated_at
		BEFORE UPDATE ON coupon_codes
		FOR EACH ROW
		EXECUTE FUNCTION update_updated_at_column();`,
		`CREATE TABLE IF NOT EXISTS coupon_code_usage (
			id SERIAL PRIMARY KEY,
			coupon_code_id INTEGER NOT NULL REFERENCES coupon_codes(id) ON DELETE CASCADE,
			user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			session_id VARCHAR(128) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_coupon_code_usage_code_id ON coupon_code_usage(coupon_code_id);`,
		`CREATE INDEX IF NOT EXISTS idx_coupon_code_usage_user_id ON coupon_code_usage(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_coupon_code_usage_session_id ON coupon_code_usage(session_id);`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}

	return nil
}
