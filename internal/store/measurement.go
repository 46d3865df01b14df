package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Measurement represents one recorded wound measurement together with the
// environment readings captured alongside it.
type Measurement struct {
	ID          string
	Day         int
	AreaMM2     int
	Temperature float64
	Humidity    float64
	PH          float64
	ImageURL    string
	Notes       string
	CreatedAt   time.Time
}

// MeasurementRepository provides CRUD operations for measurements.
type MeasurementRepository struct {
	db *sql.DB
}

// Measurements returns the measurement repository for this store.
func (s *Store) Measurements() *MeasurementRepository {
	return &MeasurementRepository{db: s.db}
}

// Create inserts a new measurement into the database. An ID is assigned
// when the caller left it empty.
func (r *MeasurementRepository) Create(m *Measurement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO measurements (id, day, area_mm2, temperature, humidity, ph, image_url, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Day, m.AreaMM2, m.Temperature, m.Humidity, m.PH, m.ImageURL, m.Notes, m.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a measurement by its ID.
func (r *MeasurementRepository) GetByID(id string) (*Measurement, error) {
	m := &Measurement{}

	err := r.db.QueryRow(
		`SELECT id, day, area_mm2, temperature, humidity, ph, image_url, notes, created_at
		 FROM measurements WHERE id = ?`,
		id,
	).Scan(&m.ID, &m.Day, &m.AreaMM2, &m.Temperature, &m.Humidity, &m.PH, &m.ImageURL, &m.Notes, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return m, nil
}

// List retrieves all measurements ordered by day, oldest first.
func (r *MeasurementRepository) List() ([]*Measurement, error) {
	rows, err := r.db.Query(
		`SELECT id, day, area_mm2, temperature, humidity, ph, image_url, notes, created_at
		 FROM measurements ORDER BY day ASC, created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var measurements []*Measurement
	for rows.Next() {
		m := &Measurement{}

		err := rows.Scan(&m.ID, &m.Day, &m.AreaMM2, &m.Temperature, &m.Humidity, &m.PH, &m.ImageURL, &m.Notes, &m.CreatedAt)
		if err != nil {
			return nil, err
		}

		measurements = append(measurements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return measurements, nil
}

// Latest retrieves the most recent measurement.
func (r *MeasurementRepository) Latest() (*Measurement, error) {
	m := &Measurement{}

	err := r.db.QueryRow(
		`SELECT id, day, area_mm2, temperature, humidity, ph, image_url, notes, created_at
		 FROM measurements ORDER BY day DESC, created_at DESC LIMIT 1`,
	).Scan(&m.ID, &m.Day, &m.AreaMM2, &m.Temperature, &m.Humidity, &m.PH, &m.ImageURL, &m.Notes, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return m, nil
}

// Update updates an existing measurement in the database.
func (r *MeasurementRepository) Update(m *Measurement) error {
	result, err := r.db.Exec(
		`UPDATE measurements SET day = ?, area_mm2 = ?, temperature = ?, humidity = ?, ph = ?, image_url = ?, notes = ?
		 WHERE id = ?`,
		m.Day, m.AreaMM2, m.Temperature, m.Humidity, m.PH, m.ImageURL, m.Notes, m.ID,
	)
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

// Delete removes a measurement from the database by its ID.
func (r *MeasurementRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM measurements WHERE id = ?`, id)
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
