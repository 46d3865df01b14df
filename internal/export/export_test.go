package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/woundguard/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "woundguard-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := newTestStore(t)
	src.Measurements().Create(&store.Measurement{Day: 1, AreaMM2: 500, PH: 5.1})
	src.Measurements().Create(&store.Measurement{Day: 4, AreaMM2: 320, Notes: "improving"})
	src.LogEntries().Create(&store.LogEntry{Day: 2, Text: "changed dressing"})

	doc, err := Snapshot(src)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if doc.Version != Version {
		t.Errorf("version = %d, want %d", doc.Version, Version)
	}
	if len(doc.Measurements) != 2 || len(doc.LogEntries) != 1 {
		t.Fatalf("doc = %d measurements, %d entries", len(doc.Measurements), len(doc.LogEntries))
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		t.Fatalf("write: %v", err)
	}

	parsed, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	dst := newTestStore(t)
	stats, err := Restore(dst, parsed)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if stats.MeasurementsImported != 2 || stats.LogEntriesImported != 1 {
		t.Errorf("stats = %+v", stats)
	}

	restored, err := dst.Measurements().List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("restored %d measurements, want 2", len(restored))
	}
	if restored[0].Day != 1 || restored[0].AreaMM2 != 500 || restored[0].PH != 5.1 {
		t.Errorf("restored[0] = %+v", restored[0])
	}
	if restored[1].Notes != "improving" {
		t.Errorf("restored[1] = %+v", restored[1])
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	src := newTestStore(t)
	src.Measurements().Create(&store.Measurement{Day: 1, AreaMM2: 500})
	src.LogEntries().Create(&store.LogEntry{Day: 1, Text: "note"})

	doc, err := Snapshot(src)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	dst := newTestStore(t)
	if _, err := Restore(dst, doc); err != nil {
		t.Fatalf("first restore: %v", err)
	}
	stats, err := Restore(dst, doc)
	if err != nil {
		t.Fatalf("second restore: %v", err)
	}
	if stats.MeasurementsImported != 0 || stats.MeasurementsSkipped != 1 {
		t.Errorf("second restore stats = %+v, want all skipped", stats)
	}
	if stats.LogEntriesImported != 0 || stats.LogEntriesSkipped != 1 {
		t.Errorf("second restore stats = %+v, want all skipped", stats)
	}

	list, _ := dst.Measurements().List()
	if len(list) != 1 {
		t.Errorf("got %d measurements after double restore, want 1", len(list))
	}
}

func TestReadRejectsUnknownVersion(t *testing.T) {
	_, err := Read(strings.NewReader(`{"version": 99}`))
	if !errors.Is(err, ErrVersion) {
		t.Fatalf("err = %v, want ErrVersion", err)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read(strings.NewReader("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
