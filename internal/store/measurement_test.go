package store

import (
	"errors"
	"testing"
)

func TestMeasurementRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Measurements()

	m := &Measurement{
		Day:         3,
		AreaMM2:     412,
		Temperature: 36.5,
		Humidity:    75,
		PH:          5.2,
		ImageURL:    "data:image/png;base64,xyz",
		Notes:       "dressing changed",
	}
	if err := repo.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == "" {
		t.Fatal("create should assign an ID")
	}
	if m.CreatedAt.IsZero() {
		t.Fatal("create should set CreatedAt")
	}

	got, err := repo.GetByID(m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Day != 3 || got.AreaMM2 != 412 || got.PH != 5.2 || got.Notes != "dressing changed" {
		t.Errorf("got %+v", got)
	}
}

func TestMeasurementRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Measurements().GetByID("no-such-id")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMeasurementRepository_ListOrderedByDay(t *testing.T) {
	s := newTestStore(t)
	repo := s.Measurements()

	for _, day := range []int{5, 1, 3} {
		if err := repo.Create(&Measurement{Day: day, AreaMM2: day * 100}); err != nil {
			t.Fatalf("create day %d: %v", day, err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d measurements, want 3", len(list))
	}
	for i, want := range []int{1, 3, 5} {
		if list[i].Day != want {
			t.Errorf("list[%d].Day = %d, want %d", i, list[i].Day, want)
		}
	}
}

func TestMeasurementRepository_Latest(t *testing.T) {
	s := newTestStore(t)
	repo := s.Measurements()

	if _, err := repo.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatal("latest on empty store should return ErrNotFound")
	}

	repo.Create(&Measurement{Day: 1, AreaMM2: 500})
	repo.Create(&Measurement{Day: 7, AreaMM2: 220})
	repo.Create(&Measurement{Day: 4, AreaMM2: 340})

	latest, err := repo.Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Day != 7 || latest.AreaMM2 != 220 {
		t.Errorf("latest = %+v, want day 7", latest)
	}
}

func TestMeasurementRepository_Update(t *testing.T) {
	s := newTestStore(t)
	repo := s.Measurements()

	m := &Measurement{Day: 2, AreaMM2: 300}
	if err := repo.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}

	m.AreaMM2 = 250
	m.Notes = "improving"
	if err := repo.Update(m); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AreaMM2 != 250 || got.Notes != "improving" {
		t.Errorf("got %+v", got)
	}

	// Updating a missing row reports ErrNotFound
	missing := &Measurement{ID: "no-such-id", Day: 1}
	if err := repo.Update(missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: err = %v, want ErrNotFound", err)
	}
}

func TestMeasurementRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Measurements()

	m := &Measurement{Day: 1, AreaMM2: 100}
	if err := repo.Create(m); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Delete(m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(m.ID); !errors.Is(err, ErrNotFound) {
		t.Error("measurement should be gone after delete")
	}
	if err := repo.Delete(m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestLogEntryRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.LogEntries()

	e := &LogEntry{Day: 2, Text: "mild redness around the edge"}
	if err := repo.Create(e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == "" {
		t.Fatal("create should assign an ID")
	}

	got, err := repo.GetByID(e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != e.Text || got.Day != 2 {
		t.Errorf("got %+v", got)
	}

	repo.Create(&LogEntry{Day: 1, Text: "first dressing"})
	list, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Day != 1 {
		t.Errorf("list = %+v, want day-ordered entries", list)
	}

	if err := repo.Delete(e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestSettingsRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("sensitivity"); !errors.Is(err, ErrNotFound) {
		t.Fatal("missing key should return ErrNotFound")
	}

	if err := repo.Set("sensitivity", "high"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set("sensitivity", "medium"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, err := repo.Get("sensitivity")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "medium" {
		t.Errorf("value = %q, want %q", value, "medium")
	}

	repo.Set("assumedImageSize", "2500")
	all, err := repo.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 || all["assumedImageSize"] != "2500" {
		t.Errorf("all = %v", all)
	}
}
