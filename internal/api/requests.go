// ABOUTME: Adoption request endpoints: CRUD plus by-animal/by-user listings

package api

import (
	"net/http"
	"time"

	"github.com/pawbase/shelterd/internal/store"
)

// requestJSON is the wire shape of a full adoption request.
type requestJSON struct {
	ID                string `json:"id"`
	AnimalID          string `json:"animal_id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	TelNumber         string `json:"tel_number"`
	Address           string `json:"address"`
	Occupation        string `json:"occupation"`
	AnnualIncome      string `json:"annual_income"`
	NumPeople         int    `json:"num_people"`
	NumChildren       int    `json:"num_children"`
	RequestTimestamp  int64  `json:"request_timestamp"`
	AdoptionTimestamp int64  `json:"adoption_timestamp"`
	Status            string `json:"status"`
	Country           string `json:"country"`
}

// requestSummaryJSON is the wire shape of a list row.
type requestSummaryJSON struct {
	ID               string `json:"id"`
	AnimalID         string `json:"animal_id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	RequestTimestamp int64  `json:"request_timestamp"`
	Status           string `json:"status"`
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.app.Store.ListRequestSummaries(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	out := make([]requestSummaryJSON, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, requestSummaryJSON{
			ID:               sum.ID,
			AnimalID:         sum.AnimalID,
			Name:             sum.Name,
			Email:            sum.Email,
			RequestTimestamp: sum.RequestTimestamp,
			Status:           string(sum.Status),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListRequestsByAnimal(w http.ResponseWriter, r *http.Request) {
	requests, err := s.app.Store.ListRequestsByAnimal(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeRequestList(w, requests)
}

func (s *Server) handleListRequestsByUsername(w http.ResponseWriter, r *http.Request) {
	requests, err := s.app.Store.ListRequestsByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeRequestList(w, requests)
}

func writeRequestList(w http.ResponseWriter, requests []*store.AdoptionRequest) {
	out := make([]requestJSON, 0, len(requests))
	for _, req := range requests {
		out = append(out, requestToJSON(req))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	req, err := s.app.Store.GetAdoptionRequest(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if req == nil {
		writeError(w, http.StatusNotFound, "adoption request not found: "+id)
		return
	}

	writeJSON(w, http.StatusOK, requestToJSON(req))
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var body requestJSON
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := requestFromJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RequestTimestamp == 0 {
		req.RequestTimestamp = time.Now().UTC().Unix()
	}

	id, err := s.app.CreateRequest(r.Context(), req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	var body requestJSON
	if !decodeBody(w, r, &body) {
		return
	}
	body.ID = r.PathValue("id")

	req, err := requestFromJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := s.app.UpdateRequest(r.Context(), req)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "adoption request not found: "+req.ID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := s.app.DeleteRequest(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "adoption request not found: "+id)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func requestToJSON(r *store.AdoptionRequest) requestJSON {
	return requestJSON{
		ID:                r.ID,
		AnimalID:          r.AnimalID,
		Username:          r.Username,
		Name:              r.Name,
		Email:             r.Email,
		TelNumber:         r.TelNumber,
		Address:           r.Address,
		Occupation:        r.Occupation,
		AnnualIncome:      r.AnnualIncome,
		NumPeople:         r.NumPeople,
		NumChildren:       r.NumChildren,
		RequestTimestamp:  r.RequestTimestamp,
		AdoptionTimestamp: r.AdoptionTimestamp,
		Status:            string(r.Status),
		Country:           r.Country,
	}
}

func requestFromJSON(j requestJSON) (*store.AdoptionRequest, error) {
	status, err := store.ParseRequestStatus(j.Status)
	if err != nil {
		return nil, err
	}
	return &store.AdoptionRequest{
		ID:                j.ID,
		AnimalID:          j.AnimalID,
		Username:          j.Username,
		Name:              j.Name,
		Email:             j.Email,
		TelNumber:         j.TelNumber,
		Address:           j.Address,
		Occupation:        j.Occupation,
		AnnualIncome:      j.AnnualIncome,
		NumPeople:         j.NumPeople,
		NumChildren:       j.NumChildren,
		RequestTimestamp:  j.RequestTimestamp,
		AdoptionTimestamp: j.AdoptionTimestamp,
		Status:            status,
		Country:           j.Country,
	}, nil
}
