package papertrading

import (
	"maps"

	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

// Selection is the session-scoped choice of days, per-day stock exclusions and per-day
// buy-price snapshot. A Selection is immutable: every operation returns a new value and
// leaves the receiver untouched, so a reader holding a Selection never observes a partial
// update.
type Selection struct {
	dates     DateSet
	excluded  ExclusionSet
	snapshots map[string]int
}

// NewSelection returns a selection with every given date selected, nothing excluded and no
// snapshot overrides.
func NewSelection(allDates []string) Selection {
	return Selection{
		dates:     NewDateSet(allDates...),
		excluded:  ExclusionSet{},
		snapshots: map[string]int{},
	}
}

// SelectionOf builds a selection from explicit parts, e.g. a client-held selection sent
// with a stateless request.
func SelectionOf(dates []string, excluded []model.StockKey, snapshots map[string]int) Selection {
	sel := Selection{
		dates:     NewDateSet(dates...),
		excluded:  NewExclusionSet(excluded...),
		snapshots: maps.Clone(snapshots),
	}
	if sel.snapshots == nil {
		sel.snapshots = map[string]int{}
	}
	return sel
}

// ToggleDate flips whether date is selected.
func (s Selection) ToggleDate(date string) Selection {
	dates := maps.Clone(s.dates)
	if dates == nil {
		dates = DateSet{}
	}
	if dates.Has(date) {
		delete(dates, date)
	} else {
		dates[date] = struct{}{}
	}
	s.dates = dates
	return s
}

// ToggleAllDates clears the selection when every known date is already selected and
// selects every known date otherwise.
func (s Selection) ToggleAllDates(allDates []string) Selection {
	allSelected := true
	for _, date := range allDates {
		if !s.dates.Has(date) {
			allSelected = false
			break
		}
	}

	if allSelected {
		s.dates = DateSet{}
	} else {
		s.dates = NewDateSet(allDates...)
	}
	return s
}

// ToggleStock flips whether code is excluded on date.
func (s Selection) ToggleStock(date, code string) Selection {
	key := model.StockKey{Date: date, Code: code}
	excluded := s.cloneExcluded()
	if _, ok := excluded[key]; ok {
		delete(excluded, key)
	} else {
		excluded[key] = struct{}{}
	}
	s.excluded = excluded
	return s
}

// ToggleAllStocks un-excludes every given code on date when all of them are already
// excluded, and excludes all of them otherwise. Exclusions on other dates are kept.
func (s Selection) ToggleAllStocks(date string, codes []string) Selection {
	if len(codes) == 0 {
		return s
	}

	allExcluded := true
	for _, code := range codes {
		if !s.excluded.Has(date, code) {
			allExcluded = false
			break
		}
	}

	excluded := s.cloneExcluded()
	for _, code := range codes {
		key := model.StockKey{Date: date, Code: code}
		if allExcluded {
			delete(excluded, key)
		} else {
			excluded[key] = struct{}{}
		}
	}
	s.excluded = excluded
	return s
}

// ResetExcluded removes every exclusion.
func (s Selection) ResetExcluded() Selection {
	s.excluded = ExclusionSet{}
	return s
}

// SelectSnapshot records index as the buy-price snapshot for date. The index is not
// checked against the day; Adjust falls back to the default for unusable indices.
func (s Selection) SelectSnapshot(date string, index int) Selection {
	snapshots := maps.Clone(s.snapshots)
	if snapshots == nil {
		snapshots = map[string]int{}
	}
	snapshots[date] = index
	s.snapshots = snapshots
	return s
}

// IsDateSelected reports whether date is included in aggregation.
func (s Selection) IsDateSelected(date string) bool {
	return s.dates.Has(date)
}

// IsStockExcluded reports whether code is excluded on date.
func (s Selection) IsStockExcluded(date, code string) bool {
	return s.excluded.Has(date, code)
}

// SnapshotIndex returns the chosen snapshot for date, 0 when none was chosen.
func (s Selection) SnapshotIndex(date string) int {
	return s.snapshots[date]
}

// SelectedDates returns the selected dates in ascending order.
func (s Selection) SelectedDates() []string {
	return s.dates.Sorted()
}

// Excluded returns every exclusion ordered by date, then code.
func (s Selection) Excluded() []model.StockKey {
	return s.excluded.Sorted()
}

// SnapshotIndexes returns a copy of the per-date snapshot overrides.
func (s Selection) SnapshotIndexes() map[string]int {
	snapshots := maps.Clone(s.snapshots)
	if snapshots == nil {
		snapshots = map[string]int{}
	}
	return snapshots
}

func (s Selection) cloneExcluded() ExclusionSet {
	excluded := maps.Clone(s.excluded)
	if excluded == nil {
		excluded = ExclusionSet{}
	}
	return excluded
}
