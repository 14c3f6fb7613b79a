package filter

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AllValue is the widget sentinel meaning "no restriction".
const AllValue = "All"

// Selection restricts a categorical column to a set of values. The zero value
// is unrestricted (All). A restricted selection with no values matches nothing.
type Selection struct {
	restricted bool
	values     map[string]struct{}
}

// All returns an unrestricted selection.
func All() Selection { return Selection{} }

// Only restricts to the given values. Only() matches nothing.
func Only(values ...string) Selection {
	s := Selection{restricted: true, values: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.values[v] = struct{}{}
	}
	return s
}

// SelectionFrom interprets a multi-select list: any "All" entry lifts the
// restriction, otherwise the list is taken literally (an empty list matches
// nothing).
func SelectionFrom(list []string) Selection {
	for _, v := range list {
		if v == AllValue {
			return All()
		}
	}
	return Only(list...)
}

// IsAll reports whether the selection is unrestricted.
func (s Selection) IsAll() bool { return !s.restricted }

// Contains reports whether v passes the selection.
func (s Selection) Contains(v string) bool {
	if !s.restricted {
		return true
	}
	_, ok := s.values[v]
	return ok
}

// Values returns the selected values sorted, or nil when unrestricted.
func (s Selection) Values() []string {
	if !s.restricted {
		return nil
	}
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Selection) String() string {
	if !s.restricted {
		return AllValue
	}
	if len(s.values) == 0 {
		return "(none)"
	}
	return strings.Join(s.Values(), ", ")
}

// AgeRange is an inclusive age interval. The zero value is unbounded.
type AgeRange struct {
	bounded  bool
	min, max int
}

// AnyAge returns an unbounded range.
func AnyAge() AgeRange { return AgeRange{} }

// Between returns the inclusive range [lo, hi]; reversed bounds are swapped.
func Between(lo, hi int) AgeRange {
	if lo > hi {
		lo, hi = hi, lo
	}
	return AgeRange{bounded: true, min: lo, max: hi}
}

// AtLeast returns [lo, +inf).
func AtLeast(lo int) AgeRange { return Between(lo, math.MaxInt) }

// AtMost returns (-inf, hi].
func AtMost(hi int) AgeRange { return Between(math.MinInt, hi) }

// IsAny reports whether the range is unbounded.
func (r AgeRange) IsAny() bool { return !r.bounded }

// Bounds returns the inclusive bounds; ok is false for an unbounded range.
func (r AgeRange) Bounds() (lo, hi int, ok bool) {
	return r.min, r.max, r.bounded
}

// Contains reports whether age lies within the range.
func (r AgeRange) Contains(age int) bool {
	return !r.bounded || (age >= r.min && age <= r.max)
}

func (r AgeRange) String() string {
	switch {
	case !r.bounded:
		return AllValue
	case r.min == math.MinInt:
		return fmt.Sprintf("<= %d", r.max)
	case r.max == math.MaxInt:
		return fmt.Sprintf(">= %d", r.min)
	default:
		return fmt.Sprintf("%d-%d", r.min, r.max)
	}
}

// Treatment is the treatment radio selection.
type Treatment string

const (
	TreatmentAll Treatment = AllValue
	TreatmentYes Treatment = "Yes"
	TreatmentNo  Treatment = "No"
)

// ParseTreatment normalises user input; anything unrecognised means All.
func ParseTreatment(s string) Treatment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return TreatmentYes
	case "no":
		return TreatmentNo
	default:
		return TreatmentAll
	}
}

// IsAll reports whether t places no restriction. The empty string counts as All.
func (t Treatment) IsAll() bool {
	return t != TreatmentYes && t != TreatmentNo
}

// Criteria is the set of user-selected filters. The zero value selects every row.
type Criteria struct {
	Genders   Selection
	Ages      AgeRange
	Countries Selection
	Treatment Treatment
}

// IsEmpty reports whether no criterion restricts anything.
func (c Criteria) IsEmpty() bool {
	return c.Genders.IsAll() && c.Ages.IsAny() && c.Countries.IsAll() && c.Treatment.IsAll()
}

// Describe renders the criteria for report headers.
func (c Criteria) Describe() string {
	t := c.Treatment
	if t.IsAll() {
		t = TreatmentAll
	}
	return fmt.Sprintf("gender=%s; age=%s; country=%s; treatment=%s", c.Genders, c.Ages, c.Countries, t)
}
