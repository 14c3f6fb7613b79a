package survey

// Column names as they appear in the survey header.
const (
	ColTimestamp      = "Timestamp"
	ColAge            = "Age"
	ColGender         = "Gender"
	ColCountry        = "Country"
	ColState          = "state"
	ColSelfEmployed   = "self_employed"
	ColFamilyHistory  = "family_history"
	ColTreatment      = "treatment"
	ColWorkInterfere  = "work_interfere"
	ColNoEmployees    = "no_employees"
	ColRemoteWork     = "remote_work"
	ColTechCompany    = "tech_company"
	ColBenefits       = "benefits"
	ColConsequence    = "mental_health_consequence"
	ColCoworkers      = "coworkers"
	ColSupervisor     = "supervisor"
	ColMentalPhysical = "mental_vs_physical"
	ColAgeGroup       = "Age_Group"
)

// RequiredColumns must all be present in the source header.
var RequiredColumns = []string{
	ColTimestamp, ColAge, ColGender, ColCountry, ColState, ColSelfEmployed,
	ColFamilyHistory, ColTreatment, ColWorkInterfere, ColNoEmployees,
	ColRemoteWork, ColTechCompany, ColBenefits, ColConsequence, ColCoworkers,
	ColSupervisor, ColMentalPhysical,
}

// Replacement values for missing state, work_interfere and self_employed.
const (
	NotApplicable = "Not Applicable"
	No            = "No"
	Yes           = "Yes"
)

// Canonical gender categories.
const (
	GenderMale      = "Male"
	GenderFemale    = "Female"
	GenderTrans     = "Trans"
	GenderNonBinary = "Non-binary"
	GenderOther     = "Other"
)

// Genders lists the closed set of canonical gender values.
var Genders = []string{GenderMale, GenderFemale, GenderTrans, GenderNonBinary, GenderOther}

// WorkInterfereOrder is the ordinal order of work_interfere answers.
var WorkInterfereOrder = []string{"Never", "Rarely", "Sometimes", "Often", NotApplicable}

// AgeGroup is a right-closed age bucket.
type AgeGroup struct {
	Label string
	Lower int // exclusive
	Upper int // inclusive
}

// AgeGroups are ordered and non-overlapping; together they cover (0, 100].
var AgeGroups = []AgeGroup{
	{Label: "18-25", Lower: 0, Upper: 25},
	{Label: "26-35", Lower: 25, Upper: 35},
	{Label: "36-45", Lower: 35, Upper: 45},
	{Label: "46-55", Lower: 45, Upper: 55},
	{Label: "56+", Lower: 55, Upper: 100},
}

// AgeGroupLabels returns bucket labels in bucket order.
func AgeGroupLabels() []string {
	out := make([]string, len(AgeGroups))
	for i, g := range AgeGroups {
		out[i] = g.Label
	}
	return out
}

// BucketAge returns the label of the bucket containing age, or "" when age
// falls outside (0, 100].
func BucketAge(age int) string {
	for _, g := range AgeGroups {
		if age > g.Lower && age <= g.Upper {
			return g.Label
		}
	}
	return ""
}

// Retained age domain: minAge < age < maxAge.
const (
	minAge = 16
	maxAge = 100
)

// timestampLayout is the canonical rendering of Timestamp on export.
const timestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	timestampLayout,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// naTokens are the strings read as missing values, matched exactly.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw field is read as a missing value.
func IsMissing(raw string) bool {
	_, ok := naTokens[raw]
	return ok
}
