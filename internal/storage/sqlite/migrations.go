package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database. These run
// on startup to ensure the table exists.
const schema = `
CREATE TABLE IF NOT EXISTS state (
    key TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
