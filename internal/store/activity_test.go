// ABOUTME: Tests for the activity log
// ABOUTME: Covers append defaults, ordering, limits, and detail round-trip

package store

import (
	"context"
	"testing"
	"time"
)

func TestAppendActivity_GeneratesIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	e := &ActivityEntry{
		Actor:      "alice",
		Action:     ActionCreateAnimal,
		TargetType: "animal",
		TargetID:   "1",
	}
	if err := s.AppendActivity(context.Background(), e); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if e.ID == "" {
		t.Error("expected generated id")
	}
	if e.Timestamp.IsZero() {
		t.Error("expected generated timestamp")
	}
}

func TestListActivity_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		e := &ActivityEntry{
			Actor:      "alice",
			Action:     ActionUpdateAnimal,
			TargetType: "animal",
			TargetID:   "1",
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AppendActivity(ctx, e); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	entries, err := s.ListActivity(ctx, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[0].Timestamp.After(entries[1].Timestamp) || !entries[1].Timestamp.After(entries[2].Timestamp) {
		t.Errorf("entries not newest first: %v %v %v",
			entries[0].Timestamp, entries[1].Timestamp, entries[2].Timestamp)
	}
}

func TestListActivity_Limit(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := &ActivityEntry{
			Action:     ActionDeleteRequest,
			TargetType: "request",
			TargetID:   "9",
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}
		if err := s.AppendActivity(ctx, e); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	entries, err := s.ListActivity(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestActivityDetail_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	e := &ActivityEntry{
		Actor:      "bob",
		Action:     ActionUpdateRequest,
		TargetType: "request",
		TargetID:   "3",
		Detail:     map[string]any{"status": "approved"},
	}
	if err := s.AppendActivity(ctx, e); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	entries, err := s.ListActivity(ctx, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Detail["status"] != "approved" {
		t.Errorf("detail not preserved: %+v", entries[0].Detail)
	}
}
