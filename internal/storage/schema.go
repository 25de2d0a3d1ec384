// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines the bp_records table and its recorded_at index.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bp_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		systolic INTEGER NOT NULL,
		diastolic INTEGER NOT NULL,
		heart_rate INTEGER NOT NULL,
		recorded_at DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_bp_records_recorded_at ON bp_records(recorded_at DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
