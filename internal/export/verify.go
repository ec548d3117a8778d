package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/jonathan/cv-generator/internal/types"
	pdf "github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of a PDF
func ExtractText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

// PageCount returns the number of pages of a PDF
func PageCount(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	return r.NumPage(), nil
}

// MissingContent lists the document values that do not appear in text.
// Matching ignores case and whitespace, since layout may wrap lines and
// headers are upper-cased.
func MissingContent(doc *types.CVDocument, text string) []string {
	haystack := squash(text)

	var missing []string
	check := func(v string) {
		if strings.TrimSpace(v) == "" {
			return
		}
		if !strings.Contains(haystack, squash(v)) {
			missing = append(missing, v)
		}
	}

	check(doc.Name)
	check(doc.LastName)
	check(doc.Title)
	check(doc.Contact.Location)
	check(doc.Contact.Phone)
	check(doc.Contact.Email)
	check(doc.Summary)
	for _, s := range doc.Skills {
		check(s)
	}
	for _, e := range doc.Education {
		check(e.Degree)
		check(e.Institution)
		check(e.Period)
	}
	for _, w := range doc.WorkExperience {
		check(w.Company)
		check(w.Period)
		for _, r := range w.Roles {
			check(r)
		}
	}
	for _, l := range doc.Languages {
		check(l.Language)
		check(l.Level)
	}
	return missing
}

func squash(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
