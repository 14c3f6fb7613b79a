package survey

import "strings"

// genderSynonyms maps lower-cased, trimmed spellings to canonical categories.
var genderSynonyms = map[string]string{
	"male": GenderMale, "m": GenderMale, "man": GenderMale, "cis male": GenderMale,
	"male-ish": GenderMale, "maile": GenderMale, "mal": GenderMale, "male (cis)": GenderMale,
	"make": GenderMale, "msle": GenderMale, "mail": GenderMale, "malr": GenderMale,
	"cis man": GenderMale,

	"female": GenderFemale, "f": GenderFemale, "woman": GenderFemale, "cis female": GenderFemale,
	"femake": GenderFemale, "cis-female/femme": GenderFemale, "female (cis)": GenderFemale,
	"femail": GenderFemale,

	"trans-female": GenderTrans, "trans woman": GenderTrans, "female (trans)": GenderTrans,

	"non-binary": GenderNonBinary, "genderqueer": GenderNonBinary, "fluid": GenderNonBinary,
	"queer": GenderNonBinary, "androgyne": GenderNonBinary, "agender": GenderNonBinary,
	"genderfluid": GenderNonBinary, "enby": GenderNonBinary,
}

// NormalizeGender maps a raw gender answer onto the closed category set.
// Unknown spellings fall back to Other.
func NormalizeGender(raw string) string {
	if g, ok := genderSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return g
	}
	return GenderOther
}

// IsGender reports whether v is one of the canonical categories.
func IsGender(v string) bool {
	for _, g := range Genders {
		if g == v {
			return true
		}
	}
	return false
}
