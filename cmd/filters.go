package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/techpulse/internal/filter"
)

// Filter flags shared by every command that works on a filtered view.
var (
	fGenders   []string
	fCountries []string
	fAgeMin    int
	fAgeMax    int
	fTreatment string
)

func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVar(&fGenders, "gender", nil, "genders to keep (repeat or comma-separate; All = no restriction)")
	f.StringSliceVar(&fCountries, "country", nil, "countries to keep (repeat or comma-separate; All = no restriction)")
	f.IntVar(&fAgeMin, "age-min", 0, "minimum age (inclusive)")
	f.IntVar(&fAgeMax, "age-max", 0, "maximum age (inclusive)")
	f.StringVar(&fTreatment, "treatment", filter.AllValue, "treatment: All, Yes or No")
}

// criteriaFromFlags builds filter criteria. Unset flags select everything;
// ages are honored only when given explicitly.
func criteriaFromFlags(cmd *cobra.Command) filter.Criteria {
	f := cmd.Flags()
	var c filter.Criteria
	if f.Changed("gender") {
		c.Genders = filter.SelectionFrom(fGenders)
	}
	if f.Changed("country") {
		c.Countries = filter.SelectionFrom(fCountries)
	}
	var lo, hi *int
	if f.Changed("age-min") {
		lo = &fAgeMin
	}
	if f.Changed("age-max") {
		hi = &fAgeMax
	}
	c.Ages = filter.Ages(lo, hi)
	c.Treatment = filter.ParseTreatment(fTreatment)
	return c
}

// loadView loads the survey and applies the command's filter flags.
func loadView(cmd *cobra.Command) (*filter.View, string, error) {
	t, path, err := loadTable()
	if err != nil {
		return nil, path, err
	}
	c := criteriaFromFlags(cmd)
	v := filter.Apply(t, c)
	logger.Debug("filters applied", "criteria", c.Describe(), "rows", v.Len(), "total", t.Len())
	return v, path, nil
}

// viewTotal is the unfiltered row count behind v.
func viewTotal(v *filter.View) int {
	return v.Table().Len()
}
