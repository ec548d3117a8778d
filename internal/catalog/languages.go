package catalog

// LanguageOption is one selectable language and the levels valid for it
type LanguageOption struct {
	Language string   `json:"language"`
	Levels   []string `json:"levels"`
}

// standardLevels is the CEFR scale plus native, shared by every catalog entry.
// Languages outside the catalog fall back to it.
var standardLevels = []string{"A1", "A2", "B1", "B2", "C1", "C2", "Nativo"}

var languages = []LanguageOption{
	{Language: "Español", Levels: standardLevels},
	{Language: "Inglés", Levels: standardLevels},
	{Language: "Francés", Levels: standardLevels},
	{Language: "Alemán", Levels: standardLevels},
	{Language: "Portugués", Levels: standardLevels},
	{Language: "Italiano", Levels: standardLevels},
	{Language: "Chino", Levels: standardLevels},
	{Language: "Ruso", Levels: standardLevels},
}

// Languages returns a copy of the catalog in display order
func Languages() []LanguageOption {
	out := make([]LanguageOption, len(languages))
	for i, opt := range languages {
		out[i] = LanguageOption{
			Language: opt.Language,
			Levels:   append([]string(nil), opt.Levels...),
		}
	}
	return out
}

// IsKnownLanguage reports whether lang is a catalog entry
func IsKnownLanguage(lang string) bool {
	for _, opt := range languages {
		if opt.Language == lang {
			return true
		}
	}
	return false
}

// LevelsFor returns the levels valid for lang. The result is never empty.
func LevelsFor(lang string) []string {
	for _, opt := range languages {
		if opt.Language == lang {
			return append([]string(nil), opt.Levels...)
		}
	}
	return append([]string(nil), standardLevels...)
}

// FirstLevel is the level a language entry resets to after its language changes
func FirstLevel(lang string) string {
	return LevelsFor(lang)[0]
}

// IsValidLevel reports whether level belongs to the levels valid for lang
func IsValidLevel(lang, level string) bool {
	for _, l := range LevelsFor(lang) {
		if l == level {
			return true
		}
	}
	return false
}
