// ABOUTME: Entity types, enums, and sentinel errors for shelter persistence
// ABOUTME: Enums round-trip as kebab-case strings and reject unknown values

package store

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when an insert violates a uniqueness or
// referential constraint (duplicate id, missing referenced animal).
var ErrConflict = errors.New("conflict")

// ErrInvalidInput is returned for bad caller-supplied data.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvariant is returned when an operation affects an unexpected number
// of rows or persisted state contradicts itself. Callers should treat it
// as fatal rather than retry.
var ErrInvariant = errors.New("invariant violation")

// AnimalStatus is the lifecycle status of an animal in the shelter.
type AnimalStatus string

const (
	StatusAvailable  AnimalStatus = "available"
	StatusRequested  AnimalStatus = "requested"
	StatusAdopted    AnimalStatus = "adopted"
	StatusPassedAway AnimalStatus = "passed-away"
)

// ValidAnimalStatuses lists all valid animal statuses.
var ValidAnimalStatuses = []AnimalStatus{
	StatusAvailable,
	StatusRequested,
	StatusAdopted,
	StatusPassedAway,
}

// ParseAnimalStatus decodes a stored status string. Unknown values are an
// error, never coerced to a default.
func ParseAnimalStatus(s string) (AnimalStatus, error) {
	for _, v := range ValidAnimalStatuses {
		if s == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown animal status %q", s)
}

// RequestStatus is the review status of an adoption request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestRejected RequestStatus = "rejected"
	RequestApproved RequestStatus = "approved"
)

// ValidRequestStatuses lists all valid adoption request statuses.
var ValidRequestStatuses = []RequestStatus{
	RequestPending,
	RequestRejected,
	RequestApproved,
}

// ParseRequestStatus decodes a stored request status string.
func ParseRequestStatus(s string) (RequestStatus, error) {
	for _, v := range ValidRequestStatuses {
		if s == string(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown request status %q", s)
}

// Animal is a full shelter record for one animal.
type Animal struct {
	ID                 string
	Name               string
	Specie             string
	Breed              string
	Sex                string
	BirthMonth         *int
	BirthYear          *int
	Neutered           bool
	AdmissionTimestamp int64 // epoch seconds, set at creation
	Status             AnimalStatus
	ImagePath          *string // owned by the file service, not validated here
	Appearance         string
	Bio                string
}

// AnimalSummary is the column subset used for list views.
type AnimalSummary struct {
	ID                 string
	Name               string
	Specie             string
	Breed              string
	Sex                string
	AdmissionTimestamp int64
	Status             AnimalStatus
	ImagePath          *string
}

// AdoptionRequest is a request by a user to adopt a specific animal.
// AdoptionTimestamp is 0 until the request is approved and the adoption
// completed; date filtering relies on that correlation.
type AdoptionRequest struct {
	ID                string
	AnimalID          string
	Username          string
	Name              string
	Email             string
	TelNumber         string
	Address           string
	Occupation        string
	AnnualIncome      string // free text, e.g. "30k-40k"
	NumPeople         int
	NumChildren       int
	RequestTimestamp  int64
	AdoptionTimestamp int64
	Status            RequestStatus
	Country           string
}

// AdoptionRequestSummary is the column subset used for list views.
type AdoptionRequestSummary struct {
	ID               string
	AnimalID         string
	Name             string
	Email            string
	RequestTimestamp int64
	Status           RequestStatus
}
