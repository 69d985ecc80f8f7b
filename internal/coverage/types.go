package coverage

import (
	"sort"
	"strconv"
	"time"
)

// IntervalRecord is one row of the interval dataset
type IntervalRecord struct {
	ID        string
	ID2       string
	StartDay  string
	StartTime string
	EndDay    string
	EndTime   string
}

// GroupKey identifies one logical entity by its (id, id_2) pair
type GroupKey struct {
	ID  string
	ID2 string
}

// Less orders keys by ID then ID2, numerically when both sides are integers
func (k GroupKey) Less(other GroupKey) bool {
	if k.ID != other.ID {
		return lessID(k.ID, other.ID)
	}
	return lessID(k.ID2, other.ID2)
}

func lessID(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

// NormalizedInterval is a record whose timestamps parsed successfully
type NormalizedInterval struct {
	Key           GroupKey
	Start         time.Time
	End           time.Time
	DurationHours float64
	DurationDays  int
}

// Result is the coverage verdict for one group
type Result struct {
	CoversFullDay  bool `json:"covers_full_day"`
	CoversFullWeek bool `json:"covers_full_week"`
}

// Report summarizes one validation run
type Report struct {
	Results  map[GroupKey]Result
	Total    int // input records
	Dropped  int // records excluded for unparseable timestamps
	FullDay  int // groups covering a full day
	FullWeek int // groups covering a full week
}

// Groups returns the number of evaluated groups
func (r *Report) Groups() int {
	return len(r.Results)
}

// SortedKeys returns result keys in deterministic order
func (r *Report) SortedKeys() []GroupKey {
	return SortedKeys(r.Results)
}

// SortedKeys returns the keys of results ordered by GroupKey.Less
func SortedKeys(results map[GroupKey]Result) []GroupKey {
	keys := make([]GroupKey, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
