package importer

import (
	"strings"
	"time"

	"github.com/sekolahku/pelajar-gateway/internal/model"
)

// genderVocabulary maps lower-cased spellings to canonical gender values.
// English, Malay and Chinese forms are accepted. The canonical values map
// to themselves, which makes NormalizeGender idempotent.
var genderVocabulary = map[string]string{
	"male":   string(model.GenderMale),
	"m":      string(model.GenderMale),
	"lelaki": string(model.GenderMale),
	"l":      string(model.GenderMale),
	"男":      string(model.GenderMale),

	"female":    string(model.GenderFemale),
	"f":         string(model.GenderFemale),
	"perempuan": string(model.GenderFemale),
	"p":         string(model.GenderFemale),
	"女":         string(model.GenderFemale),
}

// dateLayouts are the date spellings accepted in uploaded cells, tried in
// order. Everything recognized is rewritten to ISO YYYY-MM-DD.
var dateLayouts = []string{
	time.DateOnly,
	"02/01/2006",
	"2006/01/02",
}

// NormalizeGender canonicalizes a gender cell. Recognized vocabulary
// becomes Male or Female; anything else passes through trimmed so the
// validator can flag it. Normalization never invents a value.
func NormalizeGender(raw string) string {
	value := strings.TrimSpace(raw)
	if canonical, ok := genderVocabulary[strings.ToLower(value)]; ok {
		return canonical
	}
	return value
}

// NormalizeDate rewrites a recognized date spelling to ISO YYYY-MM-DD.
// Empty means absent and stays empty; unrecognized values pass through
// trimmed for the validator to flag.
func NormalizeDate(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return value
}

// optional trims a cell and collapses it to absent when empty. Optional
// fields are never stored as empty strings.
func optional(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	return &value
}
