package rendering

import "sort"

// Labels are the fixed strings printed on the page
type Labels struct {
	Lang       string
	Summary    string
	Skills     string
	Languages  string
	Links      string
	Education  string
	Experience string
	LinkedIn   string
	GitHub     string
	Portfolio  string
}

// Spanish is the default label set
var Spanish = Labels{
	Lang:       "es",
	Summary:    "Resumen",
	Skills:     "Conocimientos",
	Languages:  "Idiomas",
	Links:      "Links",
	Education:  "Formación Académica",
	Experience: "Experiencia Laboral",
	LinkedIn:   "LinkedIn",
	GitHub:     "GitHub",
	Portfolio:  "Portafolio",
}

// English labels
var English = Labels{
	Lang:       "en",
	Summary:    "Summary",
	Skills:     "Skills",
	Languages:  "Languages",
	Links:      "Links",
	Education:  "Education",
	Experience: "Work Experience",
	LinkedIn:   "LinkedIn",
	GitHub:     "GitHub",
	Portfolio:  "Portfolio",
}

var labelSets = map[string]Labels{
	Spanish.Lang: Spanish,
	English.Lang: English,
}

// LabelsFor returns the label set for a language code
func LabelsFor(code string) (Labels, bool) {
	l, ok := labelSets[code]
	return l, ok
}

// LabelCodes lists the available label set codes
func LabelCodes() []string {
	codes := make([]string, 0, len(labelSets))
	for code := range labelSets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
