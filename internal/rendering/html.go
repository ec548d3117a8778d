package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/cv-generator/internal/types"
)

//go:embed templates/cv.html.tmpl
var templateFS embed.FS

const templateName = "cv.html.tmpl"

var (
	tmplOnce sync.Once
	tmpl     *template.Template
	tmplErr  error
)

var (
	colorPattern     = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)
	imageURIPattern  = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/=]+$`)
	filenameReplacer = strings.NewReplacer("/", "-", "\\", "-")
)

// pageData is what the page template sees
type pageData struct {
	Lang           string
	FullName       string
	Title          string
	ProfileImage   template.URL
	Contact        types.ContactInfo
	Summary        string
	Skills         []string
	Languages      []types.LanguageEntry
	Links          []link
	Education      []types.EducationEntry
	WorkExperience []types.WorkExperienceEntry
	Palette        paletteCSS
	Labels         Labels
}

type link struct {
	Class string
	URL   string
	Label string
}

type paletteCSS struct {
	HeaderBg  template.CSS
	ContactBg template.CSS
	Divider   template.CSS
}

func loadTemplate() (*template.Template, error) {
	tmplOnce.Do(func() {
		tmpl, tmplErr = template.ParseFS(templateFS, "templates/"+templateName)
		if tmplErr != nil {
			tmplErr = &TemplateError{Message: "failed to parse page template", Cause: tmplErr}
		}
	})
	return tmpl, tmplErr
}

// Render produces the self-contained A4 HTML page for doc themed with
// palette. The output depends only on its inputs.
func Render(doc *types.CVDocument, palette types.Palette, labels Labels) ([]byte, error) {
	if doc == nil {
		return nil, &RenderError{Message: "document is nil"}
	}
	if strings.TrimSpace(doc.Name) == "" || strings.TrimSpace(doc.LastName) == "" {
		return nil, &RenderError{Message: "name and last name are required"}
	}
	c := doc.Contact
	if c.Location == "" && c.Phone == "" && c.Email == "" {
		return nil, &RenderError{Message: "at least one of location, phone or email is required"}
	}

	data, err := buildPageData(doc, palette, labels)
	if err != nil {
		return nil, err
	}

	t, err := loadTemplate()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, templateName, data); err != nil {
		return nil, &TemplateError{Message: "failed to execute page template", Cause: err}
	}
	return buf.Bytes(), nil
}

// RenderDocument renders doc with its own palette
func RenderDocument(doc *types.CVDocument, labels Labels) ([]byte, error) {
	if doc == nil {
		return nil, &RenderError{Message: "document is nil"}
	}
	return Render(doc, doc.Palette, labels)
}

func buildPageData(doc *types.CVDocument, palette types.Palette, labels Labels) (*pageData, error) {
	colors, err := paletteStyles(palette)
	if err != nil {
		return nil, err
	}

	data := &pageData{
		Lang:           labels.Lang,
		FullName:       doc.FullName(),
		Title:          strings.ToUpper(doc.Title),
		Contact:        doc.Contact,
		Summary:        doc.Summary,
		Skills:         doc.Skills,
		Languages:      doc.Languages,
		Education:      doc.Education,
		WorkExperience: doc.WorkExperience,
		Palette:        colors,
		Labels:         upperLabels(labels),
	}

	if doc.HasProfileImage() {
		if !imageURIPattern.MatchString(*doc.ProfileImage) {
			return nil, &RenderError{Message: "profile image is not a base64 image data URI"}
		}
		data.ProfileImage = template.URL(*doc.ProfileImage) //nolint:gosec // checked against imageURIPattern
	}

	for _, l := range []link{
		{Class: "linkedin", URL: doc.Contact.LinkedIn, Label: labels.LinkedIn},
		{Class: "github", URL: doc.Contact.GitHub, Label: labels.GitHub},
		{Class: "portfolio", URL: doc.Contact.Portfolio, Label: labels.Portfolio},
	} {
		if l.URL != "" {
			data.Links = append(data.Links, l)
		}
	}
	return data, nil
}

func paletteStyles(p types.Palette) (paletteCSS, error) {
	for _, c := range []string{p.HeaderBg, p.ContactBg, p.Divider} {
		if !colorPattern.MatchString(c) {
			return paletteCSS{}, &RenderError{Message: fmt.Sprintf("invalid palette colour %q", c)}
		}
	}
	return paletteCSS{
		HeaderBg:  template.CSS(p.HeaderBg),  //nolint:gosec // checked against colorPattern
		ContactBg: template.CSS(p.ContactBg), //nolint:gosec // checked against colorPattern
		Divider:   template.CSS(p.Divider),   //nolint:gosec // checked against colorPattern
	}, nil
}

// upperLabels upper-cases the section headers; link labels keep their case
func upperLabels(l Labels) Labels {
	l.Summary = strings.ToUpper(l.Summary)
	l.Skills = strings.ToUpper(l.Skills)
	l.Languages = strings.ToUpper(l.Languages)
	l.Links = strings.ToUpper(l.Links)
	l.Education = strings.ToUpper(l.Education)
	l.Experience = strings.ToUpper(l.Experience)
	return l
}

// Filename returns the download name CV_{name}_{lastName}.{ext}
func Filename(doc *types.CVDocument, ext string) string {
	name := fmt.Sprintf("CV_%s_%s", doc.Name, doc.LastName)
	return filenameReplacer.Replace(name) + "." + strings.TrimPrefix(ext, ".")
}

// ExtractText returns the visible text of a rendered page with whitespace
// collapsed to single spaces
func ExtractText(page []byte) (string, error) {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", &RenderError{Message: "failed to parse rendered page", Cause: err}
	}
	return strings.Join(strings.Fields(d.Find("body").Text()), " "), nil
}
