// ABOUTME: Animal endpoints: CRUD plus filtered listing
// ABOUTME: The query body distinguishes absent criteria from empty sets

package api

import (
	"net/http"
	"time"

	"github.com/pawbase/shelterd/internal/store"
)

// animalJSON is the wire shape of a full animal record.
type animalJSON struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Specie             string  `json:"specie"`
	Breed              string  `json:"breed"`
	Sex                string  `json:"sex"`
	BirthMonth         *int    `json:"birth_month,omitempty"`
	BirthYear          *int    `json:"birth_year,omitempty"`
	Neutered           bool    `json:"neutered"`
	AdmissionTimestamp int64   `json:"admission_timestamp"`
	Status             string  `json:"status"`
	ImagePath          *string `json:"image_path,omitempty"`
	Appearance         string  `json:"appearance"`
	Bio                string  `json:"bio"`
}

// animalSummaryJSON is the wire shape of a list row.
type animalSummaryJSON struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Specie             string  `json:"specie"`
	Breed              string  `json:"breed"`
	Sex                string  `json:"sex"`
	AdmissionTimestamp int64   `json:"admission_timestamp"`
	Status             string  `json:"status"`
	ImagePath          *string `json:"image_path,omitempty"`
}

// queryAnimalsRequest carries optional filter criteria. A nil field is an
// absent criterion (no predicate); a present-but-empty set matches
// nothing. The date fields accept today/this_week/this_month/this_year/
// all_time, where all_time and unknown tokens mean "no filter".
type queryAnimalsRequest struct {
	Status        *[]string           `json:"status"`
	Sex           *[]string           `json:"sex"`
	SpeciesBreeds map[string][]string `json:"species_breeds"`
	AdmissionDate *string             `json:"admission_date"`
	AdoptionDate  *string             `json:"adoption_date"`
}

func (s *Server) handleListAnimals(w http.ResponseWriter, r *http.Request) {
	s.listAnimals(w, r, nil)
}

func (s *Server) handleQueryAnimals(w http.ResponseWriter, r *http.Request) {
	var req queryAnimalsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	filters, err := buildFilters(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.listAnimals(w, r, filters)
}

func (s *Server) listAnimals(w http.ResponseWriter, r *http.Request, filters []store.Filter) {
	summaries, err := s.app.Store.ListAnimalSummaries(r.Context(), filters)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	out := make([]animalSummaryJSON, 0, len(summaries))
	for _, sum := range summaries {
		out = append(out, animalSummaryJSON{
			ID:                 sum.ID,
			Name:               sum.Name,
			Specie:             sum.Specie,
			Breed:              sum.Breed,
			Sex:                sum.Sex,
			AdmissionTimestamp: sum.AdmissionTimestamp,
			Status:             string(sum.Status),
			ImagePath:          sum.ImagePath,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// buildFilters converts the wire criteria into typed filter values.
// Status strings are validated here; period tokens are not, because an
// unknown period means "no filter" by contract.
func buildFilters(req queryAnimalsRequest) ([]store.Filter, error) {
	var filters []store.Filter

	if req.Status != nil {
		statuses := make([]store.AnimalStatus, 0, len(*req.Status))
		for _, raw := range *req.Status {
			st, err := store.ParseAnimalStatus(raw)
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, st)
		}
		filters = append(filters, store.StatusFilter{Statuses: statuses})
	}

	if req.Sex != nil {
		filters = append(filters, store.SexFilter{Sexes: *req.Sex})
	}

	if req.SpeciesBreeds != nil {
		filters = append(filters, store.SpeciesBreedsFilter{Breeds: req.SpeciesBreeds})
	}

	if req.AdmissionDate != nil {
		filters = append(filters, store.AdmissionDateFilter{Period: store.Period(*req.AdmissionDate)})
	}

	if req.AdoptionDate != nil {
		filters = append(filters, store.AdoptionDateFilter{Period: store.Period(*req.AdoptionDate)})
	}

	return filters, nil
}

func (s *Server) handleGetAnimal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	animal, err := s.app.Store.GetAnimal(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if animal == nil {
		writeError(w, http.StatusNotFound, "animal not found: "+id)
		return
	}

	writeJSON(w, http.StatusOK, animalToJSON(animal))
}

func (s *Server) handleCreateAnimal(w http.ResponseWriter, r *http.Request) {
	var body animalJSON
	if !decodeBody(w, r, &body) {
		return
	}

	animal, err := animalFromJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if animal.AdmissionTimestamp == 0 {
		animal.AdmissionTimestamp = time.Now().UTC().Unix()
	}

	id, err := s.app.CreateAnimal(r.Context(), animal)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateAnimal(w http.ResponseWriter, r *http.Request) {
	var body animalJSON
	if !decodeBody(w, r, &body) {
		return
	}
	body.ID = r.PathValue("id")

	animal, err := animalFromJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	found, err := s.app.UpdateAnimal(r.Context(), animal)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "animal not found: "+animal.ID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (s *Server) handleDeleteAnimal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := s.app.DeleteAnimal(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "animal not found: "+id)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func animalToJSON(a *store.Animal) animalJSON {
	return animalJSON{
		ID:                 a.ID,
		Name:               a.Name,
		Specie:             a.Specie,
		Breed:              a.Breed,
		Sex:                a.Sex,
		BirthMonth:         a.BirthMonth,
		BirthYear:          a.BirthYear,
		Neutered:           a.Neutered,
		AdmissionTimestamp: a.AdmissionTimestamp,
		Status:             string(a.Status),
		ImagePath:          a.ImagePath,
		Appearance:         a.Appearance,
		Bio:                a.Bio,
	}
}

func animalFromJSON(j animalJSON) (*store.Animal, error) {
	status, err := store.ParseAnimalStatus(j.Status)
	if err != nil {
		return nil, err
	}
	return &store.Animal{
		ID:                 j.ID,
		Name:               j.Name,
		Specie:             j.Specie,
		Breed:              j.Breed,
		Sex:                j.Sex,
		BirthMonth:         j.BirthMonth,
		BirthYear:          j.BirthYear,
		Neutered:           j.Neutered,
		AdmissionTimestamp: j.AdmissionTimestamp,
		Status:             status,
		ImagePath:          j.ImagePath,
		Appearance:         j.Appearance,
		Bio:                j.Bio,
	}, nil
}
