package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/cv-generator/internal/catalog"
	"github.com/jonathan/cv-generator/internal/schemas"
	"github.com/jonathan/cv-generator/internal/types"
)

// Storage keys
const (
	// DocumentKey holds the last explicitly saved document
	DocumentKey = "savedCV"
	// DraftKey holds the unvalidated working copy between CLI invocations
	DraftKey = "draftCV"
)

// Repository reads and writes versioned CV documents on top of a Store
type Repository struct {
	store    Store
	key      string
	draftKey string
	now      func() time.Time
}

// NewRepository returns a repository that saves under key (DocumentKey when empty)
func NewRepository(store Store, key string) *Repository {
	if key == "" {
		key = DocumentKey
	}
	return &Repository{store: store, key: key, draftKey: DraftKey, now: time.Now}
}

// Key returns the storage key of the saved document
func (r *Repository) Key() string {
	return r.key
}

// SaveDocument writes doc inside a versioned envelope under the document key
func (r *Repository) SaveDocument(ctx context.Context, doc *types.CVDocument) error {
	return r.put(ctx, r.key, doc)
}

// LoadDocument returns the saved document. It returns ErrNotFound when
// nothing has been saved and *CorruptStateError when the bytes are unusable.
func (r *Repository) LoadDocument(ctx context.Context) (*types.CVDocument, error) {
	return r.get(ctx, r.key)
}

// SaveDraft writes the working copy without validating it
func (r *Repository) SaveDraft(ctx context.Context, doc *types.CVDocument) error {
	return r.put(ctx, r.draftKey, doc)
}

// LoadDraft returns the working copy, with the same errors as LoadDocument
func (r *Repository) LoadDraft(ctx context.Context) (*types.CVDocument, error) {
	return r.get(ctx, r.draftKey)
}

// DiscardDraft deletes the working copy
func (r *Repository) DiscardDraft(ctx context.Context) error {
	return r.store.Delete(ctx, r.draftKey)
}

func (r *Repository) put(ctx context.Context, key string, doc *types.CVDocument) error {
	envelope := types.PersistedDocument{
		SchemaVersion: types.SchemaVersion,
		SavedAt:       r.now().UTC(),
		Document:      doc.Clone(),
	}
	normalizeSlices(&envelope.Document)
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (r *Repository) get(ctx context.Context, key string) (*types.CVDocument, error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return Decode(key, data)
}

// Decode turns persisted bytes back into a document. Envelopes of the
// current version are accepted, as are bare documents written before the
// envelope existed.
func Decode(key string, data []byte) (*types.CVDocument, error) {
	var probe struct {
		SchemaVersion *int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &CorruptStateError{Key: key, Message: "malformed JSON", Cause: err}
	}

	if probe.SchemaVersion == nil {
		return decodeLegacy(key, data)
	}

	if *probe.SchemaVersion > types.SchemaVersion || *probe.SchemaVersion < 1 {
		return nil, &CorruptStateError{
			Key:     key,
			Message: fmt.Sprintf("unsupported schema version %d (expected <= %d)", *probe.SchemaVersion, types.SchemaVersion),
		}
	}

	if err := schemas.ValidateDefinition(schemas.DefinitionEnvelope, data); err != nil {
		return nil, &CorruptStateError{Key: key, Message: "schema mismatch", Cause: err}
	}

	var envelope types.PersistedDocument
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &CorruptStateError{Key: key, Message: "failed to decode envelope", Cause: err}
	}
	doc := envelope.Document
	fillPalette(&doc)
	return &doc, nil
}

func decodeLegacy(key string, data []byte) (*types.CVDocument, error) {
	if err := schemas.ValidateDefinition(schemas.DefinitionDocument, data); err != nil {
		return nil, &CorruptStateError{Key: key, Message: "schema mismatch", Cause: err}
	}

	var doc types.CVDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptStateError{Key: key, Message: "failed to decode document", Cause: err}
	}
	log.Printf("[STORE] Migrated unversioned document under %q to schema version %d", key, types.SchemaVersion)
	fillPalette(&doc)
	return &doc, nil
}

// fillPalette gives documents stored without a palette the registry default
func fillPalette(doc *types.CVDocument) {
	if doc.Palette == (types.Palette{}) {
		doc.Palette = catalog.DefaultPalette()
	}
}

// normalizeSlices writes empty collections as [] rather than null
func normalizeSlices(doc *types.CVDocument) {
	if doc.Skills == nil {
		doc.Skills = []string{}
	}
	if doc.Education == nil {
		doc.Education = []types.EducationEntry{}
	}
	if doc.WorkExperience == nil {
		doc.WorkExperience = []types.WorkExperienceEntry{}
	}
	for i := range doc.WorkExperience {
		if doc.WorkExperience[i].Roles == nil {
			doc.WorkExperience[i].Roles = []string{}
		}
	}
	if doc.Languages == nil {
		doc.Languages = []types.LanguageEntry{}
	}
}
