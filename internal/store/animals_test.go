// ABOUTME: Tests for animal CRUD
// ABOUTME: Covers auto-id assignment, conflict, found/not-found contracts

package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func testAnimal() *Animal {
	month := 4
	year := 2021
	img := "images/rex.jpg"
	return &Animal{
		Name:               "Rex",
		Specie:             "Dog",
		Breed:              "Beagle",
		Sex:                "Male",
		BirthMonth:         &month,
		BirthYear:          &year,
		Neutered:           true,
		AdmissionTimestamp: time.Now().UTC().Unix(),
		Status:             StatusAvailable,
		ImagePath:          &img,
		Appearance:         "tricolor, short coat",
		Bio:                "friendly",
	}
}

func TestInsertAnimal_AutoID(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	id1, err := s.InsertAnimal(ctx, testAnimal())
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	id2, err := s.InsertAnimal(ctx, testAnimal())
	if err != nil {
		t.Fatalf("second insert failed: %v", err)
	}

	if id1 != "1" || id2 != "2" {
		t.Errorf("expected sequential ids \"1\", \"2\", got %q, %q", id1, id2)
	}
}

func TestInsertAnimal_BlankIDScansMax(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	a := testAnimal()
	a.ID = "41"
	if _, err := s.InsertAnimal(ctx, a); err != nil {
		t.Fatalf("insert with explicit id failed: %v", err)
	}

	id, err := s.InsertAnimal(ctx, testAnimal())
	if err != nil {
		t.Fatalf("insert with blank id failed: %v", err)
	}
	if id != "42" {
		t.Errorf("expected id \"42\", got %q", id)
	}
}

func TestInsertAnimal_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	a := testAnimal()
	a.ID = "7"
	if _, err := s.InsertAnimal(ctx, a); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	b := testAnimal()
	b.ID = "7"
	_, err := s.InsertAnimal(ctx, b)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestGetAnimal_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	want := testAnimal()
	id, err := s.InsertAnimal(ctx, want)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	want.ID = id

	got, err := s.GetAnimal(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected animal, got nil")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestGetAnimal_NotFound(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	got, err := s.GetAnimal(context.Background(), "999")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing animal, got %+v", got)
	}
}

func TestGetAnimal_NullableFields(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	a := testAnimal()
	a.BirthMonth = nil
	a.BirthYear = nil
	a.ImagePath = nil

	id, err := s.InsertAnimal(ctx, a)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := s.GetAnimal(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.BirthMonth != nil || got.BirthYear != nil || got.ImagePath != nil {
		t.Errorf("expected nil optional fields, got %+v", got)
	}
}

func TestUpdateAnimal(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	a := testAnimal()
	id, err := s.InsertAnimal(ctx, a)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	a.ID = id

	before, err := s.GetAnimal(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	// Change only the status; everything else must stay identical
	a.Status = StatusAdopted
	found, err := s.UpdateAnimal(ctx, a)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !found {
		t.Fatal("expected update to find the animal")
	}

	after, err := s.GetAnimal(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if after.Status != StatusAdopted {
		t.Errorf("status not updated: got %s", after.Status)
	}

	before.Status = StatusAdopted
	if !reflect.DeepEqual(after, before) {
		t.Errorf("update touched unrelated fields:\n got %+v\nwant %+v", after, before)
	}
}

func TestUpdateAnimal_NotFound(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	a := testAnimal()
	a.ID = "123"
	found, err := s.UpdateAnimal(ctx, a)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if found {
		t.Error("expected false for missing animal")
	}
}

func TestDeleteAnimal(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	a := testAnimal()
	id, err := s.InsertAnimal(ctx, a)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	a.ID = id

	found, err := s.DeleteAnimal(ctx, id)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !found {
		t.Fatal("expected delete to find the animal")
	}

	// Update after delete reports not-found, not an error
	found, err = s.UpdateAnimal(ctx, a)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if found {
		t.Error("expected update after delete to return false")
	}

	found, err = s.DeleteAnimal(ctx, id)
	if err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if found {
		t.Error("expected second delete to return false")
	}
}

func TestAnimalStatus_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	for _, status := range ValidAnimalStatuses {
		a := testAnimal()
		a.Status = status
		id, err := s.InsertAnimal(ctx, a)
		if err != nil {
			t.Fatalf("insert with status %s failed: %v", status, err)
		}
		got, err := s.GetAnimal(ctx, id)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Status != status {
			t.Errorf("status round trip: got %s, want %s", got.Status, status)
		}
	}
}

func TestAnimalStatus_RejectsUnknown(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := context.Background()

	id, err := s.InsertAnimal(ctx, testAnimal())
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	// Corrupt the stored status behind the store's back
	if _, err := s.db.Exec(`UPDATE animals SET status = 'hibernating' WHERE id = ?`, id); err != nil {
		t.Fatalf("corrupting status failed: %v", err)
	}

	if _, err := s.GetAnimal(ctx, id); err == nil {
		t.Error("expected decode error for unknown status, got nil")
	}
	if _, err := s.ListAnimalSummaries(ctx, nil); err == nil {
		t.Error("expected decode error in listing for unknown status, got nil")
	}
}

func TestParseAnimalStatus(t *testing.T) {
	if _, err := ParseAnimalStatus("passed-away"); err != nil {
		t.Errorf("expected passed-away to parse: %v", err)
	}
	if _, err := ParseAnimalStatus("PassedAway"); err == nil {
		t.Error("expected non-kebab-case value to fail")
	}
	if _, err := ParseAnimalStatus(""); err == nil {
		t.Error("expected empty value to fail")
	}
}
