package form

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jonathan/cv-generator/internal/catalog"
	"github.com/jonathan/cv-generator/internal/media"
	"github.com/jonathan/cv-generator/internal/storage"
	"github.com/jonathan/cv-generator/internal/types"
	"github.com/jonathan/cv-generator/internal/validation"
)

// Field names a top-level scalar of the document
type Field string

// Settable top-level fields
const (
	FieldName     Field = "name"
	FieldLastName Field = "lastName"
	FieldTitle    Field = "title"
	FieldSummary  Field = "summary"
)

// ContactField names a field of the contact block
type ContactField string

// Settable contact fields
const (
	ContactLocation  ContactField = "location"
	ContactPhone     ContactField = "phone"
	ContactEmail     ContactField = "email"
	ContactLinkedIn  ContactField = "linkedin"
	ContactGitHub    ContactField = "github"
	ContactPortfolio ContactField = "portfolio"
)

// DocumentRepository persists the saved document
type DocumentRepository interface {
	SaveDocument(ctx context.Context, doc *types.CVDocument) error
	LoadDocument(ctx context.Context) (*types.CVDocument, error)
}

// Controller holds the working CV document and applies edits to it.
// All methods are safe for concurrent use.
type Controller struct {
	mu            sync.Mutex
	doc           types.CVDocument
	repo          DocumentRepository
	floors        validation.Floors
	notifier      Notifier
	maxImageBytes int64
}

// Option configures a Controller
type Option func(*Controller)

// WithFloors overrides the minimum collection sizes
func WithFloors(f validation.Floors) Option {
	return func(c *Controller) { c.floors = f }
}

// WithNotifier sets where save, reset and upload outcomes are reported
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithMaxImageBytes bounds the size of an uploaded profile image
func WithMaxImageBytes(n int64) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxImageBytes = n
		}
	}
}

// NewController returns a controller holding the default document
func NewController(repo DocumentRepository, opts ...Option) *Controller {
	c := &Controller{
		doc:           DefaultDocument(),
		repo:          repo,
		floors:        validation.DefaultFloors(),
		notifier:      LogNotifier{},
		maxImageBytes: media.DefaultMaxImageBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the working document with the saved one. A missing or
// unusable saved document leaves the default in place; the return value
// reports whether the saved document was used.
func (c *Controller) Load(ctx context.Context) bool {
	doc := DefaultDocument()
	loaded := false

	if c.repo != nil {
		saved, err := c.repo.LoadDocument(ctx)
		var corrupt *storage.CorruptStateError
		switch {
		case err == nil:
			doc = saved.Clone()
			loaded = true
		case errors.Is(err, storage.ErrNotFound):
			log.Printf("[form] No saved document, using default")
		case errors.As(err, &corrupt):
			log.Printf("[form] Saved document unusable, using default: %v", err)
		default:
			log.Printf("[form] Failed to load saved document, using default: %v", err)
		}
	}

	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()
	return loaded
}

// Replace swaps in doc as the working document
func (c *Controller) Replace(doc types.CVDocument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = doc.Clone()
}

// Snapshot returns a deep copy of the working document
func (c *Controller) Snapshot() types.CVDocument {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// Violations runs full validation on the working document. It returns nil
// when the document can be saved.
func (c *Controller) Violations() *validation.ValidationError {
	c.mu.Lock()
	doc := c.doc.Clone()
	c.mu.Unlock()

	if err := validation.Document(&doc, c.floors); err != nil {
		var ve *validation.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return &validation.ValidationError{Errors: []validation.FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	return nil
}

// FieldErrors returns the current violations keyed by field path
func (c *Controller) FieldErrors() map[string]string {
	ve := c.Violations()
	if ve == nil {
		return map[string]string{}
	}
	return ve.ByField()
}

// SetField writes value into a top-level field. The value is stored even
// when it violates a constraint; the violation is returned as *validation.FieldError.
func (c *Controller) SetField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldName:
		c.doc.Name = value
	case FieldLastName:
		c.doc.LastName = value
	case FieldTitle:
		c.doc.Title = value
	case FieldSummary:
		c.doc.Summary = value
	default:
		return &UnknownFieldError{Field: string(field)}
	}
	return fieldErr(validation.Field(string(field), value))
}

// SetContactField writes value into the contact block with the same
// semantics as SetField
func (c *Controller) SetContactField(field ContactField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ct := &c.doc.Contact
	switch field {
	case ContactLocation:
		ct.Location = value
	case ContactPhone:
		ct.Phone = value
	case ContactEmail:
		ct.Email = value
	case ContactLinkedIn:
		ct.LinkedIn = value
	case ContactGitHub:
		ct.GitHub = value
	case ContactPortfolio:
		ct.Portfolio = value
	default:
		return &UnknownFieldError{Field: "contact." + string(field)}
	}
	return fieldErr(validation.Field("contact."+string(field), value))
}

// SetPath dispatches a dotted field path ("title", "contact.email") to
// SetField or SetContactField
func (c *Controller) SetPath(path, value string) error {
	if !validation.IsKnownField(path) {
		return &UnknownFieldError{Field: path}
	}
	if rest, ok := strings.CutPrefix(path, "contact."); ok {
		return c.SetContactField(ContactField(rest), value)
	}
	return c.SetField(Field(path), value)
}

// fieldErr avoids returning a typed nil inside a non-nil error
func fieldErr(fe *validation.FieldError) error {
	if fe == nil {
		return nil
	}
	return fe
}

// entryErr returns the first violation of a collection element, if any
func entryErr(prefix string, entry any) error {
	if errs := validation.Entry(prefix, entry); len(errs) > 0 {
		return &errs[0]
	}
	return nil
}

// AppendSkill adds a skill at the end and returns its index
func (c *Controller) AppendSkill(skill string) int {
	if skill == "" {
		skill = DefaultSkill
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.Skills = append(c.doc.Skills, skill)
	return len(c.doc.Skills) - 1
}

// UpdateSkill replaces the skill at index i
func (c *Controller) UpdateSkill(i int, skill string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := updateItem(c.doc.Skills, i, skill, "skills"); err != nil {
		return err
	}
	if skill == "" {
		return &validation.FieldError{Field: fmt.Sprintf("skills[%d]", i), Message: "is required"}
	}
	return nil
}

// RemoveSkill removes the skill at index i unless the list is at its floor
func (c *Controller) RemoveSkill(i int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, removed, err := removeItem(c.doc.Skills, i, c.floors.Skills, "skills")
	c.doc.Skills = out
	return removed, err
}

// AppendEducation adds an education entry at the end and returns its index
func (c *Controller) AppendEducation(entry types.EducationEntry) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.Education = append(c.doc.Education, entry)
	return len(c.doc.Education) - 1
}

// UpdateEducation replaces the education entry at index i. Blank fields
// are stored and the first one is returned as *validation.FieldError.
func (c *Controller) UpdateEducation(i int, entry types.EducationEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := updateItem(c.doc.Education, i, entry, "education"); err != nil {
		return err
	}
	return entryErr(fmt.Sprintf("education[%d]", i), entry)
}

// RemoveEducation removes the education entry at index i unless the list is at its floor
func (c *Controller) RemoveEducation(i int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, removed, err := removeItem(c.doc.Education, i, c.floors.Education, "education")
	c.doc.Education = out
	return removed, err
}

// AppendExperience adds an experience entry at the end and returns its
// index. An entry without roles gets one placeholder role.
func (c *Controller) AppendExperience(entry types.WorkExperienceEntry) int {
	entry.Roles = append([]string(nil), entry.Roles...)
	if len(entry.Roles) == 0 {
		entry.Roles = []string{DefaultRole}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.WorkExperience = append(c.doc.WorkExperience, entry)
	return len(c.doc.WorkExperience) - 1
}

// UpdateExperience replaces company and period of the entry at index i.
// Roles are replaced only when entry.Roles is non-nil; fewer roles than the
// floor is a *FloorError and nothing is written. Blank fields are stored
// and reported like UpdateEducation.
func (c *Controller) UpdateExperience(i int, entry types.WorkExperienceEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkIndex(i, len(c.doc.WorkExperience), "workExperience"); err != nil {
		return err
	}
	if entry.Roles == nil {
		entry.Roles = c.doc.WorkExperience[i].Roles
	} else {
		if len(entry.Roles) < c.floors.Roles {
			return &FloorError{Collection: fmt.Sprintf("workExperience[%d].roles", i), Floor: c.floors.Roles}
		}
		entry.Roles = append([]string(nil), entry.Roles...)
	}
	c.doc.WorkExperience[i] = entry
	return entryErr(fmt.Sprintf("workExperience[%d]", i), entry)
}

// RemoveExperience removes the experience entry at index i unless the list is at its floor
func (c *Controller) RemoveExperience(i int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, removed, err := removeItem(c.doc.WorkExperience, i, c.floors.WorkExperience, "workExperience")
	c.doc.WorkExperience = out
	return removed, err
}

// AppendRole adds a role to experience exp and returns its index
func (c *Controller) AppendRole(exp int, role string) (int, error) {
	if role == "" {
		role = DefaultRole
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkIndex(exp, len(c.doc.WorkExperience), "workExperience"); err != nil {
		return -1, err
	}
	entry := &c.doc.WorkExperience[exp]
	entry.Roles = append(entry.Roles, role)
	return len(entry.Roles) - 1, nil
}

// UpdateRole replaces role i of experience exp
func (c *Controller) UpdateRole(exp, i int, role string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkIndex(exp, len(c.doc.WorkExperience), "workExperience"); err != nil {
		return err
	}
	if err := updateItem(c.doc.WorkExperience[exp].Roles, i, role, fmt.Sprintf("workExperience[%d].roles", exp)); err != nil {
		return err
	}
	if role == "" {
		return &validation.FieldError{Field: fmt.Sprintf("workExperience[%d].roles[%d]", exp, i), Message: "is required"}
	}
	return nil
}

// RemoveRole removes role i of experience exp unless the experience is at its role floor
func (c *Controller) RemoveRole(exp, i int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkIndex(exp, len(c.doc.WorkExperience), "workExperience"); err != nil {
		return false, err
	}
	entry := &c.doc.WorkExperience[exp]
	out, removed, err := removeItem(entry.Roles, i, c.floors.Roles, fmt.Sprintf("workExperience[%d].roles", exp))
	entry.Roles = out
	return removed, err
}

// AppendLanguage adds a language entry and returns its index. A zero entry
// becomes the default language at its first level; an empty level becomes
// the first level of the language.
func (c *Controller) AppendLanguage(entry types.LanguageEntry) (int, error) {
	if entry.Language == "" {
		entry.Language = DefaultLanguage
	}
	if entry.Level == "" {
		entry.Level = catalog.FirstLevel(entry.Language)
	}
	if !catalog.IsValidLevel(entry.Language, entry.Level) {
		return -1, levelError("languages", entry)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.Languages = append(c.doc.Languages, entry)
	return len(c.doc.Languages) - 1, nil
}

// UpdateLanguage replaces entry i. An empty level becomes the first level
// of the language; a level not offered for the language is rejected.
func (c *Controller) UpdateLanguage(i int, entry types.LanguageEntry) error {
	if entry.Level == "" {
		entry.Level = catalog.FirstLevel(entry.Language)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkIndex(i, len(c.doc.Languages), "languages"); err != nil {
		return err
	}
	if !catalog.IsValidLevel(entry.Language, entry.Level) {
		return levelError(fmt.Sprintf("languages[%d]", i), entry)
	}
	c.doc.Languages[i] = entry
	return nil
}

// SetLanguage changes the language of entry i. The level is reset to the
// first level offered for the new language.
func (c *Controller) SetLanguage(i int, language string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkIndex(i, len(c.doc.Languages), "languages"); err != nil {
		return err
	}
	c.doc.Languages[i] = types.LanguageEntry{Language: language, Level: catalog.FirstLevel(language)}
	if language == "" {
		return &validation.FieldError{Field: fmt.Sprintf("languages[%d].language", i), Message: "is required"}
	}
	return nil
}

// SetLevel changes the level of entry i. Levels not offered for the entry's
// language are rejected and leave the entry unchanged.
func (c *Controller) SetLevel(i int, level string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkIndex(i, len(c.doc.Languages), "languages"); err != nil {
		return err
	}
	entry := c.doc.Languages[i]
	entry.Level = level
	if !catalog.IsValidLevel(entry.Language, level) {
		return levelError(fmt.Sprintf("languages[%d]", i), entry)
	}
	c.doc.Languages[i] = entry
	return nil
}

// RemoveLanguage removes language entry i unless the list is at its floor
func (c *Controller) RemoveLanguage(i int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, removed, err := removeItem(c.doc.Languages, i, c.floors.Languages, "languages")
	c.doc.Languages = out
	return removed, err
}

func levelError(prefix string, entry types.LanguageEntry) *validation.FieldError {
	return &validation.FieldError{
		Field:   prefix + ".level",
		Message: fmt.Sprintf("must be one of %s", strings.Join(catalog.LevelsFor(entry.Language), ", ")),
	}
}

// SelectPalette switches the document palette to the registered palette name
func (c *Controller) SelectPalette(name string) error {
	p, ok := catalog.PaletteByName(name)
	if !ok {
		return &UnknownPaletteError{Name: name}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.Palette = p
	return nil
}

// UploadProfileImage decodes raw image bytes into the profile image. On
// failure the current image is kept.
func (c *Controller) UploadProfileImage(data []byte) error {
	encoded, err := media.DecodeImage(data, c.maxImageBytes)
	if err != nil {
		c.notify(Failure("Imagen no válida", err.Error()))
		return err
	}
	c.mu.Lock()
	c.doc.ProfileImage = &encoded
	c.mu.Unlock()
	return nil
}

// ClearProfileImage removes the profile image
func (c *Controller) ClearProfileImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.ProfileImage = nil
}

// ResetToDefault discards every unsaved edit and restores the default
// document. Saved state is untouched until the next Save.
func (c *Controller) ResetToDefault() {
	c.mu.Lock()
	c.doc = DefaultDocument()
	c.mu.Unlock()
	c.notify(Success("Valores Restablecidos", "Se han restaurado los valores predeterminados del CV."))
}

// Save validates the working document and persists it. A document with
// violations is not written and the *validation.ValidationError is returned.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	doc := c.doc.Clone()
	c.mu.Unlock()

	if err := validation.Document(&doc, c.floors); err != nil {
		var ve *validation.ValidationError
		fields := err.Error()
		if errors.As(err, &ve) {
			fields = strings.Join(violatedFields(ve), ", ")
		}
		c.notify(Failure("CV no guardado", "Revisa los campos: "+fields))
		return err
	}
	if c.repo == nil {
		err := errors.New("no repository configured")
		c.notify(Failure("CV no guardado", err.Error()))
		return err
	}
	if err := c.repo.SaveDocument(ctx, &doc); err != nil {
		c.notify(Failure("CV no guardado", err.Error()))
		return fmt.Errorf("failed to save document: %w", err)
	}

	log.Printf("[form] Saved document for %s", doc.FullName())
	c.notify(Success("CV Guardado", "Los cambios en tu currículum han sido guardados exitosamente."))
	return nil
}

func violatedFields(ve *validation.ValidationError) []string {
	seen := make(map[string]bool, len(ve.Errors))
	var out []string
	for _, fe := range ve.Errors {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			out = append(out, fe.Field)
		}
	}
	return out
}

func (c *Controller) notify(n Notification) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}
