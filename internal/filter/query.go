package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names understood by ParseQuery.
const (
	ParamGender    = "gender"
	ParamCountry   = "country"
	ParamAgeMin    = "age_min"
	ParamAgeMax    = "age_max"
	ParamTreatment = "treatment"
)

// ParseQuery builds criteria from URL query values. gender and country may
// repeat; an absent parameter means All and a present but empty one matches
// nothing. Unparseable ages are ignored.
func ParseQuery(q url.Values) Criteria {
	var c Criteria
	if vals, ok := q[ParamGender]; ok {
		c.Genders = SelectionFrom(nonEmpty(vals))
	}
	if vals, ok := q[ParamCountry]; ok {
		c.Countries = SelectionFrom(nonEmpty(vals))
	}
	c.Ages = Ages(intParam(q, ParamAgeMin), intParam(q, ParamAgeMax))
	c.Treatment = ParseTreatment(q.Get(ParamTreatment))
	return c
}

// Ages builds a range from optional bounds.
func Ages(lo, hi *int) AgeRange {
	switch {
	case lo != nil && hi != nil:
		return Between(*lo, *hi)
	case lo != nil:
		return AtLeast(*lo)
	case hi != nil:
		return AtMost(*hi)
	default:
		return AnyAge()
	}
}

// Encode renders criteria as query values accepted by ParseQuery.
func (c Criteria) Encode() url.Values {
	q := url.Values{}
	if !c.Genders.IsAll() {
		q[ParamGender] = orBlank(c.Genders.Values())
	}
	if !c.Countries.IsAll() {
		q[ParamCountry] = orBlank(c.Countries.Values())
	}
	if lo, hi, ok := c.Ages.Bounds(); ok {
		if lo != math.MinInt {
			q.Set(ParamAgeMin, strconv.Itoa(lo))
		}
		if hi != math.MaxInt {
			q.Set(ParamAgeMax, strconv.Itoa(hi))
		}
	}
	if !c.Treatment.IsAll() {
		q.Set(ParamTreatment, string(c.Treatment))
	}
	return q
}

func orBlank(vals []string) []string {
	if len(vals) == 0 {
		return []string{""}
	}
	return vals
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func intParam(q url.Values, name string) *int {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
