// ABOUTME: Adoption request CRUD and listing operations
// ABOUTME: animal_id is enforced by a schema trigger, not app-level checks

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const requestColumns = `id, animal_id, username, name, email, tel_number, address,
	occupation, annual_income, num_people, num_children,
	request_timestamp, adoption_timestamp, status, country`

// InsertAdoptionRequest inserts a new adoption request and returns the id
// actually used. A blank id is replaced with max(numeric id)+1. Fails with
// ErrConflict when the id already exists or animal_id references no animal.
func (s *SQLiteStore) InsertAdoptionRequest(ctx context.Context, req *AdoptionRequest) (string, error) {
	id := req.ID
	if strings.TrimSpace(id) == "" {
		var err error
		id, err = s.nextID(ctx, "adoption_requests")
		if err != nil {
			return "", fmt.Errorf("assigning request id: %w", err)
		}
	}

	query := `
		INSERT INTO adoption_requests (` + requestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		id,
		req.AnimalID,
		req.Username,
		req.Name,
		req.Email,
		req.TelNumber,
		req.Address,
		req.Occupation,
		req.AnnualIncome,
		req.NumPeople,
		req.NumChildren,
		req.RequestTimestamp,
		req.AdoptionTimestamp,
		string(req.Status),
		req.Country,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return "", fmt.Errorf("request id %s or animal %s: %w", id, req.AnimalID, ErrConflict)
		}
		return "", fmt.Errorf("inserting adoption request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return "", fmt.Errorf("inserting adoption request affected %d rows: %w", rowsAffected, ErrInvariant)
	}

	s.logger.Info("inserted adoption request", "id", id, "animal_id", req.AnimalID)
	return id, nil
}

// GetAdoptionRequest retrieves a full request record by id. Returns
// (nil, nil) when no request exists with that id.
func (s *SQLiteStore) GetAdoptionRequest(ctx context.Context, id string) (*AdoptionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM adoption_requests WHERE id = ?`

	req, err := scanRequest(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying adoption request: %w", err)
	}
	return req, nil
}

// UpdateAdoptionRequest overwrites every field of an existing request,
// matched by id. Returns false when no request has that id.
func (s *SQLiteStore) UpdateAdoptionRequest(ctx context.Context, req *AdoptionRequest) (bool, error) {
	query := `
		UPDATE adoption_requests
		SET animal_id = ?, username = ?, name = ?, email = ?, tel_number = ?,
			address = ?, occupation = ?, annual_income = ?, num_people = ?,
			num_children = ?, request_timestamp = ?, adoption_timestamp = ?,
			status = ?, country = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		req.AnimalID,
		req.Username,
		req.Name,
		req.Email,
		req.TelNumber,
		req.Address,
		req.Occupation,
		req.AnnualIncome,
		req.NumPeople,
		req.NumChildren,
		req.RequestTimestamp,
		req.AdoptionTimestamp,
		string(req.Status),
		req.Country,
		req.ID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return false, fmt.Errorf("request %s animal %s: %w", req.ID, req.AnimalID, ErrConflict)
		}
		return false, fmt.Errorf("updating adoption request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	switch rowsAffected {
	case 1:
		s.logger.Info("updated adoption request", "id", req.ID)
		return true, nil
	case 0:
		s.logger.Warn("no adoption request to update", "id", req.ID)
		return false, nil
	default:
		return false, fmt.Errorf("updating adoption request affected %d rows: %w", rowsAffected, ErrInvariant)
	}
}

// DeleteAdoptionRequest removes a request by id. Returns false when no
// request has that id.
func (s *SQLiteStore) DeleteAdoptionRequest(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM adoption_requests WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting adoption request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	switch rowsAffected {
	case 1:
		s.logger.Info("deleted adoption request", "id", id)
		return true, nil
	case 0:
		s.logger.Warn("no adoption request to delete", "id", id)
		return false, nil
	default:
		return false, fmt.Errorf("deleting adoption request affected %d rows: %w", rowsAffected, ErrInvariant)
	}
}

// ListRequestSummaries returns summaries for all adoption requests,
// oldest first.
func (s *SQLiteStore) ListRequestSummaries(ctx context.Context) ([]*AdoptionRequestSummary, error) {
	query := `
		SELECT id, animal_id, name, email, request_timestamp, status
		FROM adoption_requests
		ORDER BY request_timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying request summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*AdoptionRequestSummary
	for rows.Next() {
		var sum AdoptionRequestSummary
		var statusStr string
		if err := rows.Scan(&sum.ID, &sum.AnimalID, &sum.Name, &sum.Email, &sum.RequestTimestamp, &statusStr); err != nil {
			return nil, fmt.Errorf("scanning request summary: %w", err)
		}
		sum.Status, err = ParseRequestStatus(statusStr)
		if err != nil {
			return nil, fmt.Errorf("decoding request %s: %w", sum.ID, err)
		}
		summaries = append(summaries, &sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating request summaries: %w", err)
	}
	return summaries, nil
}

// ListRequestsByAnimal returns all adoption requests for one animal.
func (s *SQLiteStore) ListRequestsByAnimal(ctx context.Context, animalID string) ([]*AdoptionRequest, error) {
	return s.listRequests(ctx, "animal_id", animalID)
}

// ListRequestsByUsername returns all adoption requests made by one user.
func (s *SQLiteStore) ListRequestsByUsername(ctx context.Context, username string) ([]*AdoptionRequest, error) {
	return s.listRequests(ctx, "username", username)
}

// listRequests lists full request records matching one fixed column.
func (s *SQLiteStore) listRequests(ctx context.Context, column, value string) ([]*AdoptionRequest, error) {
	// column is one of two fixed literals, never caller-supplied
	query := `SELECT ` + requestColumns + ` FROM adoption_requests WHERE ` + column + ` = ? ORDER BY request_timestamp ASC`

	rows, err := s.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("querying requests by %s: %w", column, err)
	}
	defer rows.Close()

	var requests []*AdoptionRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning request row: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating request rows: %w", err)
	}

	s.logger.Debug("listed adoption requests", column, value, "count", len(requests))
	return requests, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*AdoptionRequest, error) {
	var req AdoptionRequest
	var statusStr string

	err := row.Scan(
		&req.ID,
		&req.AnimalID,
		&req.Username,
		&req.Name,
		&req.Email,
		&req.TelNumber,
		&req.Address,
		&req.Occupation,
		&req.AnnualIncome,
		&req.NumPeople,
		&req.NumChildren,
		&req.RequestTimestamp,
		&req.AdoptionTimestamp,
		&statusStr,
		&req.Country,
	)
	if err != nil {
		return nil, err
	}

	req.Status, err = ParseRequestStatus(statusStr)
	if err != nil {
		return nil, fmt.Errorf("decoding request %s: %w", req.ID, err)
	}
	return &req, nil
}
