package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Samples table - labeled feature vectors recorded for training
		`CREATE TABLE IF NOT EXISTS samples (
			id TEXT PRIMARY KEY,
			letter TEXT NOT NULL CHECK(length(letter) = 1),
			features TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Letter events table - history of confirmed letters
		`CREATE TABLE IF NOT EXISTS letter_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			letter TEXT NOT NULL CHECK(length(letter) = 1),
			confirmed_at DATETIME NOT NULL
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_samples_letter ON samples(letter)`,
		`CREATE INDEX IF NOT EXISTS idx_letter_events_confirmed_at ON letter_events(confirmed_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
