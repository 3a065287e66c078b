package papertrading

import (
	"cmp"
	"maps"
	"slices"

	"github.com/ndewijer/Paper-Trading-Backend/internal/model"
)

// DateSet is a set of trading-day keys.
type DateSet map[string]struct{}

// NewDateSet builds a set from dates; duplicates collapse.
func NewDateSet(dates ...string) DateSet {
	set := make(DateSet, len(dates))
	for _, date := range dates {
		set[date] = struct{}{}
	}
	return set
}

// Has reports whether date is in the set.
func (s DateSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

// Sorted returns the dates in ascending order.
func (s DateSet) Sorted() []string {
	dates := slices.AppendSeq(make([]string, 0, len(s)), maps.Keys(s))
	slices.Sort(dates)
	return dates
}

// ExclusionSet is a set of (date, code) pairs excluded from aggregation.
type ExclusionSet map[model.StockKey]struct{}

// NewExclusionSet builds a set from keys; duplicates collapse.
func NewExclusionSet(keys ...model.StockKey) ExclusionSet {
	set := make(ExclusionSet, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	return set
}

// Has reports whether the stock is excluded on that date.
func (s ExclusionSet) Has(date, code string) bool {
	_, ok := s[model.StockKey{Date: date, Code: code}]
	return ok
}

// Sorted returns the keys ordered by date, then code.
func (s ExclusionSet) Sorted() []model.StockKey {
	keys := slices.AppendSeq(make([]model.StockKey, 0, len(s)), maps.Keys(s))
	slices.SortFunc(keys, func(a, b model.StockKey) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Code, b.Code))
	})
	return keys
}
