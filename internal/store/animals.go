// ABOUTME: Animal CRUD operations against the animals table
// ABOUTME: Insert auto-assigns max(numeric id)+1 when the caller id is blank

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// InsertAnimal inserts a new animal and returns the id actually used.
// A blank id is replaced with max(numeric id)+1 as a string. A duplicate id
// fails with ErrConflict. Exactly one row must be affected; any other count
// is an ErrInvariant.
func (s *SQLiteStore) InsertAnimal(ctx context.Context, animal *Animal) (string, error) {
	id := animal.ID
	if strings.TrimSpace(id) == "" {
		var err error
		id, err = s.nextID(ctx, "animals")
		if err != nil {
			return "", fmt.Errorf("assigning animal id: %w", err)
		}
	}

	query := `
		INSERT INTO animals (id, name, specie, breed, sex, birth_month, birth_year,
			neutered, admission_timestamp, status, image_path, appearance, bio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		id,
		animal.Name,
		animal.Specie,
		animal.Breed,
		animal.Sex,
		nullInt(animal.BirthMonth),
		nullInt(animal.BirthYear),
		animal.Neutered,
		animal.AdmissionTimestamp,
		string(animal.Status),
		nullStr(animal.ImagePath),
		animal.Appearance,
		animal.Bio,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return "", fmt.Errorf("animal id %s already exists: %w", id, ErrConflict)
		}
		return "", fmt.Errorf("inserting animal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return "", fmt.Errorf("inserting animal affected %d rows: %w", rowsAffected, ErrInvariant)
	}

	s.logger.Info("inserted animal", "id", id, "name", animal.Name)
	return id, nil
}

// GetAnimal retrieves a full animal record by id. Returns (nil, nil) when
// no animal exists with that id.
func (s *SQLiteStore) GetAnimal(ctx context.Context, id string) (*Animal, error) {
	query := `
		SELECT id, name, specie, breed, sex, birth_month, birth_year,
			neutered, admission_timestamp, status, image_path, appearance, bio
		FROM animals
		WHERE id = ?
	`

	var a Animal
	var birthMonth, birthYear sql.NullInt64
	var statusStr string
	var imagePath sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.Specie,
		&a.Breed,
		&a.Sex,
		&birthMonth,
		&birthYear,
		&a.Neutered,
		&a.AdmissionTimestamp,
		&statusStr,
		&imagePath,
		&a.Appearance,
		&a.Bio,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying animal: %w", err)
	}

	a.Status, err = ParseAnimalStatus(statusStr)
	if err != nil {
		return nil, fmt.Errorf("decoding animal %s: %w", id, err)
	}
	if birthMonth.Valid {
		m := int(birthMonth.Int64)
		a.BirthMonth = &m
	}
	if birthYear.Valid {
		y := int(birthYear.Int64)
		a.BirthYear = &y
	}
	if imagePath.Valid {
		a.ImagePath = &imagePath.String
	}

	return &a, nil
}

// UpdateAnimal overwrites every field of an existing animal, matched by id.
// Returns false (not an error) when no animal has that id.
func (s *SQLiteStore) UpdateAnimal(ctx context.Context, animal *Animal) (bool, error) {
	query := `
		UPDATE animals
		SET name = ?, specie = ?, breed = ?, sex = ?, birth_month = ?, birth_year = ?,
			neutered = ?, admission_timestamp = ?, status = ?, image_path = ?,
			appearance = ?, bio = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		animal.Name,
		animal.Specie,
		animal.Breed,
		animal.Sex,
		nullInt(animal.BirthMonth),
		nullInt(animal.BirthYear),
		animal.Neutered,
		animal.AdmissionTimestamp,
		string(animal.Status),
		nullStr(animal.ImagePath),
		animal.Appearance,
		animal.Bio,
		animal.ID,
	)
	if err != nil {
		return false, fmt.Errorf("updating animal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	switch rowsAffected {
	case 1:
		s.logger.Info("updated animal", "id", animal.ID)
		return true, nil
	case 0:
		s.logger.Warn("no animal to update", "id", animal.ID)
		return false, nil
	default:
		return false, fmt.Errorf("updating animal affected %d rows: %w", rowsAffected, ErrInvariant)
	}
}

// DeleteAnimal removes an animal by id. Returns false when no animal has
// that id. Adoption requests referencing the animal are deliberately left
// in place; adoption history survives the animal record.
func (s *SQLiteStore) DeleteAnimal(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM animals WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting animal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	switch rowsAffected {
	case 1:
		s.logger.Info("deleted animal", "id", id)
		return true, nil
	case 0:
		s.logger.Warn("no animal to delete", "id", id)
		return false, nil
	default:
		return false, fmt.Errorf("deleting animal affected %d rows: %w", rowsAffected, ErrInvariant)
	}
}

// ListAnimalSummaries returns summaries for all animals matching the given
// filters. Filters combine with AND; a nil or empty slice lists everything.
func (s *SQLiteStore) ListAnimalSummaries(ctx context.Context, filters []Filter) ([]*AnimalSummary, error) {
	query := `SELECT id, name, specie, breed, sex, admission_timestamp, status, image_path FROM animals`

	where, args := CompileFilters(filters, nowUTC())
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY CAST(id AS INTEGER)"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying animals: %w", err)
	}
	defer rows.Close()

	var summaries []*AnimalSummary
	for rows.Next() {
		var sum AnimalSummary
		var statusStr string
		var imagePath sql.NullString

		if err := rows.Scan(
			&sum.ID,
			&sum.Name,
			&sum.Specie,
			&sum.Breed,
			&sum.Sex,
			&sum.AdmissionTimestamp,
			&statusStr,
			&imagePath,
		); err != nil {
			return nil, fmt.Errorf("scanning animal row: %w", err)
		}

		sum.Status, err = ParseAnimalStatus(statusStr)
		if err != nil {
			return nil, fmt.Errorf("decoding animal %s: %w", sum.ID, err)
		}
		if imagePath.Valid {
			sum.ImagePath = &imagePath.String
		}

		summaries = append(summaries, &sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating animal rows: %w", err)
	}

	s.logger.Debug("listed animals", "count", len(summaries))
	return summaries, nil
}

// nullInt returns nil for nil pointers, otherwise the dereferenced value
func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// nullStr returns nil for nil pointers, otherwise the dereferenced value
func nullStr(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
