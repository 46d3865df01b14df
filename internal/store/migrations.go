package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Measurements table - one row per recorded wound measurement
		`CREATE TABLE IF NOT EXISTS measurements (
			id TEXT PRIMARY KEY,
			day INTEGER NOT NULL,
			area_mm2 INTEGER NOT NULL,
			temperature REAL NOT NULL DEFAULT 0,
			humidity REAL NOT NULL DEFAULT 0,
			ph REAL NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Log entries table - free-text wound care journal
		`CREATE TABLE IF NOT EXISTS log_entries (
			id TEXT PRIMARY KEY,
			day INTEGER NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_measurements_day ON measurements(day)`,
		`CREATE INDEX IF NOT EXISTS idx_log_entries_day ON log_entries(day)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
