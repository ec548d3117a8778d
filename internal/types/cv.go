// Package types provides type definitions for structured data used throughout the cv-generator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// SchemaVersion is the version written into every persisted document envelope.
const SchemaVersion = 1

// Palette is a named colour triple used to theme the header band, the
// contact band and the section dividers.
type Palette struct {
	Name      string `json:"name" validate:"required"`
	HeaderBg  string `json:"headerBg" validate:"required"`
	ContactBg string `json:"contactBg" validate:"required"`
	Divider   string `json:"divider" validate:"required"`
}

// ContactInfo is the contact block of a CV
type ContactInfo struct {
	Location  string `json:"location" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub    string `json:"github,omitempty" validate:"omitempty,url"`
	Portfolio string `json:"portfolio,omitempty" validate:"omitempty,url"`
}

// EducationEntry is one line of the education section
type EducationEntry struct {
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Period      string `json:"period" validate:"required"`
}

// WorkExperienceEntry is one employer with its ordered role bullets
type WorkExperienceEntry struct {
	Company string   `json:"company" validate:"required"`
	Period  string   `json:"period" validate:"required"`
	Roles   []string `json:"roles" validate:"dive,required"`
}

// LanguageEntry pairs a spoken language with a proficiency level
type LanguageEntry struct {
	Language string `json:"language" validate:"required"`
	Level    string `json:"level" validate:"required"`
}

// CVDocument is the aggregate root holding all résumé content for one user.
// Ordering inside every slice is display order.
type CVDocument struct {
	ProfileImage   *string               `json:"profileImage"`
	Name           string                `json:"name" validate:"required"`
	LastName       string                `json:"lastName" validate:"required"`
	Title          string                `json:"title" validate:"required"`
	Contact        ContactInfo           `json:"contact"`
	Summary        string                `json:"summary,omitempty"`
	Skills         []string              `json:"skills" validate:"dive,required"`
	Education      []EducationEntry      `json:"education" validate:"dive"`
	WorkExperience []WorkExperienceEntry `json:"workExperience" validate:"dive"`
	Languages      []LanguageEntry       `json:"languages" validate:"dive"`
	Palette        Palette               `json:"colorPalette"`
}

// PersistedDocument is the versioned envelope stored in the local key-value store
type PersistedDocument struct {
	SchemaVersion int        `json:"schemaVersion"`
	SavedAt       time.Time  `json:"savedAt"`
	Document      CVDocument `json:"document"`
}

// FullName joins name and last name the way the header band shows them
func (d *CVDocument) FullName() string {
	if d.LastName == "" {
		return d.Name
	}
	if d.Name == "" {
		return d.LastName
	}
	return d.Name + " " + d.LastName
}

// HasProfileImage reports whether an embeddable image is set
func (d *CVDocument) HasProfileImage() bool {
	return d.ProfileImage != nil && *d.ProfileImage != ""
}

// Clone returns a deep copy of the document. Mutating the copy never
// affects the original.
func (d *CVDocument) Clone() CVDocument {
	out := *d

	if d.ProfileImage != nil {
		img := *d.ProfileImage
		out.ProfileImage = &img
	}

	out.Skills = cloneStrings(d.Skills)

	if d.Education != nil {
		out.Education = make([]EducationEntry, len(d.Education))
		copy(out.Education, d.Education)
	}

	if d.WorkExperience != nil {
		out.WorkExperience = make([]WorkExperienceEntry, len(d.WorkExperience))
		for i, exp := range d.WorkExperience {
			out.WorkExperience[i] = WorkExperienceEntry{
				Company: exp.Company,
				Period:  exp.Period,
				Roles:   cloneStrings(exp.Roles),
			}
		}
	}

	if d.Languages != nil {
		out.Languages = make([]LanguageEntry, len(d.Languages))
		copy(out.Languages, d.Languages)
	}

	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
