package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/cv-generator/internal/catalog"
	"github.com/jonathan/cv-generator/internal/types"
)

// Floors is the minimum number of entries each collection must keep
type Floors struct {
	Skills         int `json:"skills" mapstructure:"skills"`
	Education      int `json:"education" mapstructure:"education"`
	WorkExperience int `json:"work_experience" mapstructure:"work_experience"`
	Roles          int `json:"roles" mapstructure:"roles"`
	Languages      int `json:"languages" mapstructure:"languages"`
}

// DefaultFloors keeps at least one entry in every collection
func DefaultFloors() Floors {
	return Floors{Skills: 1, Education: 1, WorkExperience: 1, Roles: 1, Languages: 1}
}

// fieldTags are the constraints of every scalar field a form can set directly
var fieldTags = map[string]string{
	"name":              "required",
	"lastName":          "required",
	"title":             "required",
	"summary":           "",
	"contact.location":  "required",
	"contact.phone":     "required",
	"contact.email":     "required,email",
	"contact.linkedin":  "omitempty,url",
	"contact.github":    "omitempty,url",
	"contact.portfolio": "omitempty,url",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// IsKnownField reports whether path names a scalar field with known constraints
func IsKnownField(path string) bool {
	_, ok := fieldTags[path]
	return ok
}

// Field validates a single scalar value against the constraint of path.
// It returns nil when the value is acceptable.
func Field(path, value string) *FieldError {
	tag, ok := fieldTags[path]
	if !ok {
		return &FieldError{Field: path, Message: "unknown field"}
	}
	if tag == "" {
		return nil
	}
	if err := validate.Var(value, tag); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &FieldError{Field: path, Message: messageFor(errs[0].Tag())}
		}
		return &FieldError{Field: path, Message: err.Error()}
	}
	return nil
}

// Entry validates one collection element (an education, experience or
// language entry) and prefixes every violation with prefix.
func Entry(prefix string, entry any) []FieldError {
	err := validate.Struct(entry)
	if err == nil {
		return nil
	}
	return toFieldErrors(err, prefix)
}

// Document runs full-document validation: struct constraints, collection
// floors, palette membership and language levels. It returns nil or a
// *ValidationError listing every violation.
func Document(doc *types.CVDocument, floors Floors) error {
	if doc == nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "document is missing"}}}
	}

	var errs []FieldError
	if err := validate.Struct(doc); err != nil {
		errs = append(errs, toFieldErrors(err, "")...)
	}

	errs = append(errs, checkFloor("skills", len(doc.Skills), floors.Skills)...)
	errs = append(errs, checkFloor("education", len(doc.Education), floors.Education)...)
	errs = append(errs, checkFloor("workExperience", len(doc.WorkExperience), floors.WorkExperience)...)
	for i, exp := range doc.WorkExperience {
		errs = append(errs, checkFloor(fmt.Sprintf("workExperience[%d].roles", i), len(exp.Roles), floors.Roles)...)
	}
	errs = append(errs, checkFloor("languages", len(doc.Languages), floors.Languages)...)

	for i, lang := range doc.Languages {
		if lang.Language == "" || lang.Level == "" {
			continue
		}
		if !catalog.IsValidLevel(lang.Language, lang.Level) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("languages[%d].level", i),
				Message: fmt.Sprintf("must be one of %s", strings.Join(catalog.LevelsFor(lang.Language), ", ")),
			})
		}
	}

	if !catalog.IsRegistered(doc.Palette) {
		errs = append(errs, FieldError{Field: "colorPalette", Message: "must be one of the registered palettes"})
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

func checkFloor(field string, size, floor int) []FieldError {
	if size >= floor {
		return nil
	}
	noun := "entries"
	if floor == 1 {
		noun = "entry"
	}
	return []FieldError{{Field: field, Message: fmt.Sprintf("must have at least %d %s", floor, noun)}}
}

// toFieldErrors converts validator errors into JSON-path field errors.
// The validator namespace starts with the root struct name, which is dropped.
func toFieldErrors(err error, prefix string) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: rootOr(prefix), Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if idx := strings.Index(path, "."); idx >= 0 {
			path = path[idx+1:]
		}
		if prefix != "" {
			path = prefix + "." + path
		}
		out = append(out, FieldError{Field: path, Message: messageFor(fe.Tag())})
	}
	return out
}

func rootOr(prefix string) string {
	if prefix == "" {
		return "(root)"
	}
	return prefix
}

func messageFor(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q constraint", tag)
	}
}
