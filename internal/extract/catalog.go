// Package extract implements the entity and classification engine: it pulls
// disease and country mentions out of announcement text and assigns a signal
// classification with a confidence score and a human-readable rationale.
//
// Two interchangeable strategies exist: deterministic keyword/regex matching
// (always available) and a generative-model strategy that fails soft back to
// the rules. The lookup tables are immutable and shared.
package extract

import (
	"regexp"
	"strings"
)

// diseaseEntry maps a canonical disease name to its surface-form synonyms.
type diseaseEntry struct {
	canonical string
	synonyms  []string
	patterns  []*regexp.Regexp
}

type countryEntry struct {
	name    string
	pattern *regexp.Regexp
}

// Catalog holds the compiled disease and country lookup tables.
// It is built once at startup and never mutated, so it is safe to share.
type Catalog struct {
	diseases  []diseaseEntry
	countries []countryEntry
}

// diseaseSynonyms lists canonical disease names with their surface synonyms.
// The first synonym match wins for a canonical name; order within a list is
// therefore most-specific-first where it matters.
var diseaseSynonyms = []struct {
	canonical string
	synonyms  []string
}{
	{"Cholera", []string{"Cholera"}},
	{"Mpox", []string{"Mpox", "monkeypox"}},
	{"Ebola", []string{"Ebola", "EVD"}},
	{"Dengue", []string{"Dengue", "DENV"}},
	{"Nipah", []string{"Nipah", "NiV"}},
	{"Avian Influenza", []string{"Avian Influenza", "H5N1", "H7N9", "H5N6", "H9N2"}},
	{"COVID-19", []string{"COVID-19", "Coronavirus", "SARS-CoV-2", "SARS-2"}},
	{"Oropouche", []string{"Oropouche", "OROV"}},
	{"Zika", []string{"Zika", "ZIKV"}},
	{"Polio", []string{"Polio", "Poliomyelitis", "cVDPV2", "WPV1"}},
	{"Marburg", []string{"Marburg", "MVD"}},
	{"Lassa Fever", []string{"Lassa Fever"}},
	{"Yellow Fever", []string{"Yellow Fever"}},
	{"Anthrax", []string{"Anthrax"}},
	{"Measles", []string{"Measles"}},
}

// countryNames lists countries commonly appearing in outbreak bulletins.
// Matching is case-sensitive to avoid false positives on common words
// ("china" in "machinate", "cuba" in "incubation").
var countryNames = []string{
	"Afghanistan", "Angola", "Argentina", "Australia", "Bangladesh", "Benin", "Bolivia", "Brazil",
	"Burkina Faso", "Burundi", "Cambodia", "Cameroon", "Canada", "Central African Republic", "Chad",
	"Chile", "China", "Colombia", "Congo", "Costa Rica", "Côte d'Ivoire", "Cuba", "DRC", "Democratic Republic of the Congo",
	"Ecuador", "Egypt", "Ethiopia", "France", "Gabon", "Gambia", "Germany", "Ghana", "Guinea", "Guyana",
	"Haiti", "India", "Indonesia", "Iraq", "Italy", "Japan", "Jordan", "Kazakhstan", "Kenya", "Laos",
	"Liberia", "Madagascar", "Malawi", "Malaysia", "Mali", "Mauritania", "Mexico", "Mongolia", "Morocco",
	"Mozambique", "Myanmar", "Namibia", "Nepal", "Niger", "Nigeria", "Pakistan", "Panama", "Papua New Guinea",
	"Paraguay", "Peru", "Philippines", "Rwanda", "Saudi Arabia", "Senegal", "Sierra Leone", "Somalia",
	"South Africa", "South Sudan", "Spain", "Sri Lanka", "Sudan", "Tanzania", "Thailand", "Togo", "Uganda",
	"United Kingdom", "USA", "United States", "Vietnam", "Yemen", "Zambia", "Zimbabwe",
}

var defaultCatalog = buildDefaultCatalog()

// DefaultCatalog returns the shared built-in lookup tables.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func buildDefaultCatalog() *Catalog {
	c := &Catalog{}
	for _, d := range diseaseSynonyms {
		entry := diseaseEntry{canonical: d.canonical, synonyms: d.synonyms}
		for _, syn := range d.synonyms {
			entry.patterns = append(entry.patterns, wordPattern(syn, true))
		}
		c.diseases = append(c.diseases, entry)
	}
	for _, name := range countryNames {
		c.countries = append(c.countries, countryEntry{name: name, pattern: wordPattern(name, false)})
	}
	return c
}

// wordPattern compiles a whole-word match for the given phrase.
func wordPattern(phrase string, caseInsensitive bool) *regexp.Regexp {
	expr := `\b` + regexp.QuoteMeta(phrase) + `\b`
	if caseInsensitive {
		expr = `(?i)` + expr
	}
	return regexp.MustCompile(expr)
}

// ExtractDiseases returns the canonical names of diseases mentioned in text.
// The first synonym hit wins for a canonical name, so duplicate synonym
// mentions collapse to a single entry.
func (c *Catalog) ExtractDiseases(text string) []string {
	var found []string
	for _, entry := range c.diseases {
		for _, p := range entry.patterns {
			if p.MatchString(text) {
				found = append(found, entry.canonical)
				break
			}
		}
	}
	return found
}

// ExtractCountries returns the countries mentioned in text, whole-word and
// case-sensitive.
func (c *Catalog) ExtractCountries(text string) []string {
	var found []string
	for _, entry := range c.countries {
		if entry.pattern.MatchString(text) {
			found = append(found, entry.name)
		}
	}
	return found
}

// Canonicalize maps a surface disease name to its canonical name. Names the
// catalog does not know are returned unchanged.
func (c *Catalog) Canonicalize(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, entry := range c.diseases {
		for _, syn := range entry.synonyms {
			if strings.EqualFold(trimmed, syn) {
				return entry.canonical
			}
		}
	}
	return trimmed
}
