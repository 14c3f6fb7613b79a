// Package surveytest builds small survey fixtures for tests.
package surveytest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/techpulse/internal/survey"
)

// Header is the full 27-column survey header.
var Header = []string{
	"Timestamp", "Age", "Gender", "Country", "state", "self_employed", "family_history",
	"treatment", "work_interfere", "no_employees", "remote_work", "tech_company",
	"benefits", "care_options", "wellness_program", "seek_help", "anonymity", "leave",
	"mental_health_consequence", "phys_health_consequence", "coworkers", "supervisor",
	"mental_health_interview", "phys_health_interview", "mental_vs_physical",
	"obs_consequence", "comments",
}

// Row is one raw survey answer. Fields left empty are written as "NA" for
// the columns the loader fills, and as plausible answers otherwise.
type Row struct {
	Timestamp     string
	Age           string
	Gender        string
	Country       string
	State         string
	SelfEmployed  string
	FamilyHistory string
	Treatment     string
	WorkInterfere string
	NoEmployees   string
	RemoteWork    string
	TechCompany   string
	Benefits      string
	Consequence   string
	Coworkers     string
	Supervisor    string
	MentalPhys    string
	Comments      string
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Fields renders the row in Header order.
func (r Row) Fields() []string {
	return []string{
		or(r.Timestamp, "2014-08-27 11:29:31"), or(r.Age, "30"), or(r.Gender, "Male"),
		or(r.Country, "United States"), or(r.State, "NA"), or(r.SelfEmployed, "NA"),
		or(r.FamilyHistory, "No"), or(r.Treatment, "Yes"), or(r.WorkInterfere, "NA"),
		or(r.NoEmployees, "26-100"), or(r.RemoteWork, "No"), or(r.TechCompany, "Yes"),
		or(r.Benefits, "Don't know"), "Not sure", "No", "No", "Don't know", "Somewhat easy",
		or(r.Consequence, "Maybe"), "No", or(r.Coworkers, "Some of them"), or(r.Supervisor, "Yes"),
		"No", "Maybe", or(r.MentalPhys, "Don't know"), "No", or(r.Comments, "NA"),
	}
}

// CSV encodes rows under the full header.
func CSV(rows ...Row) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(Header)
	for _, r := range rows {
		_ = w.Write(r.Fields())
	}
	w.Flush()
	return b.String()
}

// WriteFile writes rows as a CSV file in a temp dir and returns its path.
func WriteFile(t testing.TB, rows ...Row) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "survey.csv")
	if err := os.WriteFile(p, []byte(CSV(rows...)), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

// Table builds a canonical table from rows.
func Table(t testing.TB, rows ...Row) *survey.Table {
	t.Helper()
	tbl, err := survey.Build(strings.NewReader(CSV(rows...)), survey.Source{Path: "fixture.csv"})
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return tbl
}

// Sample is a small mixed dataset: a few countries, genders, ages across
// every bucket, both treatment answers and some out-of-range ages.
func Sample() []Row {
	return []Row{
		{Age: "37", Gender: "Female", Country: "United States", State: "IL", Treatment: "Yes", WorkInterfere: "Often", FamilyHistory: "No"},
		{Age: "44", Gender: "M", Country: "United States", State: "IN", Treatment: "No", WorkInterfere: "Rarely", FamilyHistory: "No"},
		{Age: "32", Gender: "Male", Country: "Canada", Treatment: "No", WorkInterfere: "Rarely", FamilyHistory: "No"},
		{Age: "31", Gender: "Male", Country: "United Kingdom", Treatment: "Yes", WorkInterfere: "Often", FamilyHistory: "Yes"},
		{Age: "31", Gender: "Male", Country: "United States", State: "TX", Treatment: "No", WorkInterfere: "Never", FamilyHistory: "No"},
		{Age: "33", Gender: "Male", Country: "United States", State: "TN", Treatment: "No", WorkInterfere: "Sometimes", FamilyHistory: "Yes"},
		{Age: "35", Gender: "Cis Male", Country: "Germany", Treatment: "Yes", WorkInterfere: "Sometimes", FamilyHistory: "Yes"},
		{Age: "39", Gender: "female", Country: "Germany", Treatment: "No", WorkInterfere: "Never", FamilyHistory: "No"},
		{Age: "42", Gender: "Trans woman", Country: "Germany", Treatment: "Yes", FamilyHistory: "Yes"},
		{Age: "23", Gender: "Genderqueer", Country: "Canada", Treatment: "Yes", WorkInterfere: "Sometimes", FamilyHistory: "Yes"},
		{Age: "25", Gender: "xyz123", Country: "United Kingdom", Treatment: "No", FamilyHistory: "No"},
		{Age: "46", Gender: "Woman", Country: "United States", State: "CA", Treatment: "Yes", SelfEmployed: "Yes", FamilyHistory: "Yes"},
		{Age: "56", Gender: "male", Country: "Netherlands", Treatment: "No", FamilyHistory: "No"},
		{Age: "60", Gender: "F", Country: "United States", State: "NY", Treatment: "Yes", FamilyHistory: "Yes"},
		{Age: "15", Gender: "Male", Country: "United States", Treatment: "Yes"},
		{Age: "16", Gender: "Male", Country: "Germany", Treatment: "Yes"},
		{Age: "100", Gender: "Male", Country: "Germany", Treatment: "No"},
		{Age: "-1726", Gender: "Male", Country: "Canada", Treatment: "No"},
		{Age: "99999999999", Gender: "Female", Country: "Canada", Treatment: "Yes"},
	}
}

// SampleRetained is the number of Sample rows within the age domain.
const SampleRetained = 14
