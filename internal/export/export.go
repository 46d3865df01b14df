// Package export serializes measurement history to a versioned JSON
// document and restores it, so users can move their data between devices
// or keep offline backups.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ayusman/woundguard/internal/store"
)

// Version is the current document format version.
const Version = 1

// ErrVersion is returned when a document's format version is unsupported.
var ErrVersion = errors.New("unsupported export version")

// Document is the on-disk export format.
type Document struct {
	Version      int           `json:"version"`
	ExportedAt   time.Time     `json:"exportedAt"`
	Measurements []Measurement `json:"measurements"`
	LogEntries   []LogEntry    `json:"logEntries"`
}

// Measurement mirrors store.Measurement with stable JSON field names.
type Measurement struct {
	ID          string    `json:"id"`
	Day         int       `json:"day"`
	AreaMM2     int       `json:"areaMm2"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	PH          float64   `json:"ph"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LogEntry mirrors store.LogEntry with stable JSON field names.
type LogEntry struct {
	ID        string    `json:"id"`
	Day       int       `json:"day"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot reads the full history out of the store.
func Snapshot(s *store.Store) (*Document, error) {
	measurements, err := s.Measurements().List()
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	entries, err := s.LogEntries().List()
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}

	doc := &Document{
		Version:      Version,
		ExportedAt:   time.Now().UTC(),
		Measurements: make([]Measurement, 0, len(measurements)),
		LogEntries:   make([]LogEntry, 0, len(entries)),
	}
	for _, m := range measurements {
		doc.Measurements = append(doc.Measurements, Measurement{
			ID:          m.ID,
			Day:         m.Day,
			AreaMM2:     m.AreaMM2,
			Temperature: m.Temperature,
			Humidity:    m.Humidity,
			PH:          m.PH,
			ImageURL:    m.ImageURL,
			Notes:       m.Notes,
			CreatedAt:   m.CreatedAt,
		})
	}
	for _, e := range entries {
		doc.LogEntries = append(doc.LogEntries, LogEntry{
			ID:        e.ID,
			Day:       e.Day,
			Text:      e.Text,
			CreatedAt: e.CreatedAt,
		})
	}
	return doc, nil
}

// Write encodes the document as indented JSON.
func Write(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Read decodes and validates a document.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse export document: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}
	return &doc, nil
}

// Stats summarizes a restore.
type Stats struct {
	MeasurementsImported int `json:"measurementsImported"`
	MeasurementsSkipped  int `json:"measurementsSkipped"`
	LogEntriesImported   int `json:"logEntriesImported"`
	LogEntriesSkipped    int `json:"logEntriesSkipped"`
}

// Restore merges a document into the store. Rows whose ID already exists
// are skipped, so importing the same backup twice is harmless.
func Restore(s *store.Store, doc *Document) (Stats, error) {
	var stats Stats

	measurements := s.Measurements()
	for _, m := range doc.Measurements {
		if m.ID != "" {
			if _, err := measurements.GetByID(m.ID); err == nil {
				stats.MeasurementsSkipped++
				continue
			} else if !errors.Is(err, store.ErrNotFound) {
				return stats, err
			}
		}
		err := measurements.Create(&store.Measurement{
			ID:          m.ID,
			Day:         m.Day,
			AreaMM2:     m.AreaMM2,
			Temperature: m.Temperature,
			Humidity:    m.Humidity,
			PH:          m.PH,
			ImageURL:    m.ImageURL,
			Notes:       m.Notes,
		})
		if err != nil {
			return stats, fmt.Errorf("import measurement %s: %w", m.ID, err)
		}
		stats.MeasurementsImported++
	}

	entries := s.LogEntries()
	for _, e := range doc.LogEntries {
		if e.ID != "" {
			if _, err := entries.GetByID(e.ID); err == nil {
				stats.LogEntriesSkipped++
				continue
			} else if !errors.Is(err, store.ErrNotFound) {
				return stats, err
			}
		}
		err := entries.Create(&store.LogEntry{
			ID:   e.ID,
			Day:  e.Day,
			Text: e.Text,
		})
		if err != nil {
			return stats, fmt.Errorf("import log entry %s: %w", e.ID, err)
		}
		stats.LogEntriesImported++
	}

	return stats, nil
}
