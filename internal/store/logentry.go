package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// LogEntry represents one free-text wound care journal entry.
type LogEntry struct {
	ID        string
	Day       int
	Text      string
	CreatedAt time.Time
}

// LogEntryRepository provides CRUD operations for log entries.
type LogEntryRepository struct {
	db *sql.DB
}

// LogEntries returns the log entry repository for this store.
func (s *Store) LogEntries() *LogEntryRepository {
	return &LogEntryRepository{db: s.db}
}

// Create inserts a new log entry into the database. An ID is assigned when
// the caller left it empty.
func (r *LogEntryRepository) Create(e *LogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO log_entries (id, day, text, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Day, e.Text, e.CreatedAt,
	)
	return err
}

// GetByID retrieves a log entry by its ID.
func (r *LogEntryRepository) GetByID(id string) (*LogEntry, error) {
	e := &LogEntry{}

	err := r.db.QueryRow(
		`SELECT id, day, text, created_at FROM log_entries WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Day, &e.Text, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return e, nil
}

// List retrieves all log entries ordered by day, oldest first.
func (r *LogEntryRepository) List() ([]*LogEntry, error) {
	rows, err := r.db.Query(
		`SELECT id, day, text, created_at FROM log_entries ORDER BY day ASC, created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*LogEntry
	for rows.Next() {
		e := &LogEntry{}

		err := rows.Scan(&e.ID, &e.Day, &e.Text, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Delete removes a log entry from the database by its ID.
func (r *LogEntryRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM log_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
