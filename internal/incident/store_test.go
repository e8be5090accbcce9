package incident

import (
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, Record{
		Type:        "injury",
		Description: "Cut hand on trim press",
		Fields:      map[string]string{"location": "Building 2", "injury_severity": "first_aid"},
		ReportedBy:  "u1",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("Save did not assign an id")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("Save did not assign a timestamp")
	}

	got, err := s.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for a saved record")
	}
	if got.Type != "injury" || got.Description != "Cut hand on trim press" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.Fields["location"] != "Building 2" {
		t.Errorf("fields mismatch: %v", got.Fields)
	}
	if got.RootCauseWhys != nil {
		t.Errorf("fresh record has root cause chain: %v", got.RootCauseWhys)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get(unknown) = %+v, want nil", got)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.Save(ctx, Record{
			Type:      "near_miss",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List returned %d records, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Errorf("records out of order at %d", i)
		}
	}
}

func TestAttachRootCause(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, Record{Type: "vehicle"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	whys := []string{"brakes worn", "missed inspection", "no PM schedule"}
	got, err := s.AttachRootCause(ctx, saved.ID, whys)
	if err != nil {
		t.Fatalf("AttachRootCause: %v", err)
	}
	if got == nil {
		t.Fatal("AttachRootCause returned nil for a known id")
	}
	if len(got.RootCauseWhys) != 3 || got.RootCauseWhys[0] != "brakes worn" {
		t.Errorf("root cause chain = %v", got.RootCauseWhys)
	}

	missing, err := s.AttachRootCause(ctx, "no-such-id", whys)
	if err != nil {
		t.Fatalf("AttachRootCause(unknown): %v", err)
	}
	if missing != nil {
		t.Errorf("AttachRootCause(unknown) = %+v, want nil", missing)
	}
}

func TestCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if n, _ := s.Count(ctx); n != 0 {
		t.Fatalf("empty store Count = %d", n)
	}
	s.Save(ctx, Record{Type: "other"})
	s.Save(ctx, Record{Type: "other"})
	if n, _ := s.Count(ctx); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}
