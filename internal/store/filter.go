// ABOUTME: Filter compiler translating typed criteria into a WHERE fragment
// ABOUTME: Every value binds through positional parameters, never interpolation

package store

import (
	"sort"
	"strings"
	"time"
)

// Period is a named relative time window evaluated against the current
// UTC wall clock at query time.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodThisWeek  Period = "this_week"
	PeriodThisMonth Period = "this_month"
	PeriodThisYear  Period = "this_year"
	PeriodAllTime   Period = "all_time"
)

// Start returns the epoch-second start of the period relative to now.
// The second return is false for all_time and for unrecognized periods,
// which contribute no predicate at all.
func (p Period) Start(now time.Time) (int64, bool) {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch p {
	case PeriodToday:
		return midnight.Unix(), true
	case PeriodThisWeek:
		// ISO week, Monday first
		daysFromMonday := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -daysFromMonday).Unix(), true
	case PeriodThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Unix(), true
	case PeriodThisYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC).Unix(), true
	default:
		return 0, false
	}
}

// Filter is one criterion narrowing an animal listing. Filters combine
// with logical AND. A nil Filter in a slice is skipped, matching the
// "criterion present but unset" case.
type Filter interface {
	isFilter()
}

// StatusFilter matches animals whose status is in the set. An empty set
// matches nothing (not "no filter").
type StatusFilter struct {
	Statuses []AnimalStatus
}

// SexFilter matches animals whose sex is in the set. An empty set matches
// nothing.
type SexFilter struct {
	Sexes []string
}

// SpeciesBreedsFilter matches animals where (specie = S AND breed IN
// breeds(S)) for some species S with a non-empty breed set. An empty map,
// or one whose every breed set is empty, matches nothing.
type SpeciesBreedsFilter struct {
	Breeds map[string][]string
}

// AdmissionDateFilter matches animals admitted on or after the start of
// the period. PeriodAllTime (and any unknown period) is a no-op filter.
type AdmissionDateFilter struct {
	Period Period
}

// AdoptionDateFilter matches animals that have an approved adoption
// request whose adoption timestamp falls on or after the start of the
// period. Compiled as a correlated existence check so rows never
// duplicate. PeriodAllTime is a no-op filter.
type AdoptionDateFilter struct {
	Period Period
}

func (StatusFilter) isFilter()        {}
func (SexFilter) isFilter()           {}
func (SpeciesBreedsFilter) isFilter() {}
func (AdmissionDateFilter) isFilter() {}
func (AdoptionDateFilter) isFilter()  {}

// CompileFilters turns a set of filters into an AND-joined predicate and
// its positional arguments. The returned fragment is empty when nothing
// contributes a predicate. Column names are fixed; only values flow
// through parameters.
func CompileFilters(filters []Filter, now time.Time) (string, []any) {
	var clauses []string
	var args []any

	for _, f := range filters {
		if f == nil {
			continue
		}
		switch f := f.(type) {
		case StatusFilter:
			if len(f.Statuses) == 0 {
				clauses = append(clauses, "1=0")
				continue
			}
			clauses = append(clauses, "status IN ("+placeholders(len(f.Statuses))+")")
			for _, st := range f.Statuses {
				args = append(args, string(st))
			}

		case SexFilter:
			if len(f.Sexes) == 0 {
				clauses = append(clauses, "1=0")
				continue
			}
			clauses = append(clauses, "sex IN ("+placeholders(len(f.Sexes))+")")
			for _, sx := range f.Sexes {
				args = append(args, sx)
			}

		case SpeciesBreedsFilter:
			clause, clauseArgs := compileSpeciesBreeds(f.Breeds)
			clauses = append(clauses, clause)
			args = append(args, clauseArgs...)

		case AdmissionDateFilter:
			start, ok := f.Period.Start(now)
			if !ok {
				continue
			}
			clauses = append(clauses, "admission_timestamp >= ?")
			args = append(args, start)

		case AdoptionDateFilter:
			start, ok := f.Period.Start(now)
			if !ok {
				continue
			}
			clauses = append(clauses,
				"EXISTS (SELECT 1 FROM adoption_requests ar WHERE ar.animal_id = animals.id AND ar.status = 'approved' AND ar.adoption_timestamp >= ?)")
			args = append(args, start)
		}
	}

	return strings.Join(clauses, " AND "), args
}

// compileSpeciesBreeds builds the OR-joined per-species clause. Species
// are visited in sorted order so the emitted SQL is deterministic.
func compileSpeciesBreeds(breeds map[string][]string) (string, []any) {
	species := make([]string, 0, len(breeds))
	for s := range breeds {
		species = append(species, s)
	}
	sort.Strings(species)

	var speciesClauses []string
	var args []any
	for _, sp := range species {
		bs := breeds[sp]
		if len(bs) == 0 {
			continue
		}
		speciesClauses = append(speciesClauses, "(specie = ? AND breed IN ("+placeholders(len(bs))+"))")
		args = append(args, sp)
		for _, b := range bs {
			args = append(args, b)
		}
	}

	if len(speciesClauses) == 0 {
		return "1=0", nil
	}
	return "(" + strings.Join(speciesClauses, " OR ") + ")", args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
