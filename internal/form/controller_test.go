package form

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/cv-generator/internal/catalog"
	"github.com/jonathan/cv-generator/internal/storage"
	"github.com/jonathan/cv-generator/internal/types"
	"github.com/jonathan/cv-generator/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}
	}
	return r.items[len(r.items)-1]
}

func newTestController(t *testing.T, opts ...Option) (*Controller, *storage.Repository, *storage.FileStore) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	repo := storage.NewRepository(store, "")
	return NewController(repo, opts...), repo, store
}

func TestNewController_StartsWithDefault(t *testing.T) {
	c, _, _ := newTestController(t)
	assert.Equal(t, DefaultDocument(), c.Snapshot())
	assert.Nil(t, c.Violations())
	assert.Empty(t, c.FieldErrors())
}

func TestDefaultDocument_IsValid(t *testing.T) {
	doc := DefaultDocument()
	require.NoError(t, validation.Document(&doc, validation.DefaultFloors()))
	assert.Equal(t, "Blue Ocean", doc.Palette.Name)
	assert.Nil(t, doc.ProfileImage)
}

func TestSetField(t *testing.T) {
	c, _, _ := newTestController(t)

	require.NoError(t, c.SetField(FieldTitle, "Ingeniero de Datos"))
	assert.Equal(t, "Ingeniero de Datos", c.Snapshot().Title)

	err := c.SetField(FieldName, "")
	var fe *validation.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)
	assert.Equal(t, "", c.Snapshot().Name, "invalid value is still written")
	assert.Contains(t, c.FieldErrors(), "name")

	var ufe *UnknownFieldError
	assert.ErrorAs(t, c.SetField("nickname", "x"), &ufe)
}

func TestSetContactField(t *testing.T) {
	c, _, _ := newTestController(t)

	err := c.SetContactField(ContactEmail, "not-an-email")
	var fe *validation.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "contact.email", fe.Field)
	assert.Equal(t, "not-an-email", c.Snapshot().Contact.Email)

	require.NoError(t, c.SetContactField(ContactLinkedIn, ""))
	assert.Empty(t, c.Snapshot().Contact.LinkedIn)

	require.NoError(t, c.SetPath("contact.phone", "+541111111111"))
	assert.Equal(t, "+541111111111", c.Snapshot().Contact.Phone)
	require.NoError(t, c.SetPath("summary", ""))
}

func TestSkills_RemoveAtFloor(t *testing.T) {
	c, _, _ := newTestController(t)
	doc := DefaultDocument()
	doc.Skills = []string{"JavaScript"}
	c.Replace(doc)

	idx := c.AppendSkill("TypeScript")
	assert.Equal(t, 1, idx)

	removed, err := c.RemoveSkill(0)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"TypeScript"}, c.Snapshot().Skills)

	removed, err = c.RemoveSkill(0)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []string{"TypeScript"}, c.Snapshot().Skills)
}

func TestAppendRemove_RoundTrip(t *testing.T) {
	c, _, _ := newTestController(t)
	before := c.Snapshot()

	i := c.AppendEducation(types.EducationEntry{Degree: "Curso", Institution: "UTN", Period: "2024"})
	removed, err := c.RemoveEducation(i)
	require.NoError(t, err)
	require.True(t, removed)

	i = c.AppendExperience(types.WorkExperienceEntry{Company: "Acme"})
	assert.Equal(t, []string{DefaultRole}, c.Snapshot().WorkExperience[i].Roles)
	removed, err = c.RemoveExperience(i)
	require.NoError(t, err)
	require.True(t, removed)

	assert.Equal(t, before, c.Snapshot())
}

func TestIndexErrors(t *testing.T) {
	c, _, _ := newTestController(t)
	var ie *IndexError

	_, err := c.RemoveSkill(99)
	assert.ErrorAs(t, err, &ie)
	assert.ErrorAs(t, c.UpdateEducation(-1, types.EducationEntry{}), &ie)
	_, err = c.AppendRole(5, "x")
	assert.ErrorAs(t, err, &ie)
	assert.ErrorAs(t, c.SetLevel(10, "B1"), &ie)
	assert.Equal(t, DefaultDocument(), c.Snapshot())
}

func TestRoles(t *testing.T) {
	c, _, _ := newTestController(t)

	idx, err := c.AppendRole(0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, c.Snapshot().WorkExperience[0].Roles[idx])

	require.NoError(t, c.UpdateRole(0, idx, "Liderazgo técnico"))
	assert.Equal(t, "Liderazgo técnico", c.Snapshot().WorkExperience[0].Roles[idx])

	var fe *validation.FieldError
	require.ErrorAs(t, c.UpdateRole(0, idx, ""), &fe)
	assert.Equal(t, "workExperience[0].roles["+strconv.Itoa(idx)+"]", fe.Field)
	assert.Equal(t, "", c.Snapshot().WorkExperience[0].Roles[idx])

	for i := 0; i < 3; i++ {
		removed, err := c.RemoveRole(0, 0)
		require.NoError(t, err)
		require.True(t, removed)
	}
	removed, err := c.RemoveRole(0, 0)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, c.Snapshot().WorkExperience[0].Roles, 1)
}

func TestUpdateExperience_KeepsRolesWhenNil(t *testing.T) {
	c, _, _ := newTestController(t)
	roles := c.Snapshot().WorkExperience[0].Roles

	require.NoError(t, c.UpdateExperience(0, types.WorkExperienceEntry{Company: "SoftCraft", Period: "2021"}))
	got := c.Snapshot().WorkExperience[0]
	assert.Equal(t, "SoftCraft", got.Company)
	assert.Equal(t, roles, got.Roles)

	var floorErr *FloorError
	require.ErrorAs(t, c.UpdateExperience(0, types.WorkExperienceEntry{Company: "x", Period: "y", Roles: []string{}}), &floorErr)
	assert.Equal(t, "workExperience[0].roles", floorErr.Collection)
	assert.Equal(t, "SoftCraft", c.Snapshot().WorkExperience[0].Company)
}

func TestUpdateEntries_BlankFieldsAreStoredAndReported(t *testing.T) {
	c, _, _ := newTestController(t)
	var fe *validation.FieldError

	err := c.UpdateEducation(0, types.EducationEntry{Degree: "Máster", Institution: "", Period: "2024"})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "education[0].institution", fe.Field)
	assert.Equal(t, "Máster", c.Snapshot().Education[0].Degree)

	err = c.UpdateExperience(0, types.WorkExperienceEntry{Company: "", Period: "2021"})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "workExperience[0].company", fe.Field)
	assert.Equal(t, "2021", c.Snapshot().WorkExperience[0].Period)

	require.NoError(t, c.UpdateEducation(0, types.EducationEntry{Degree: "Máster", Institution: "UBA", Period: "2024"}))
	require.NoError(t, c.UpdateExperience(0, types.WorkExperienceEntry{Company: "Acme", Period: "2021"}))
}

func TestSetPath_UnknownField(t *testing.T) {
	c, _, _ := newTestController(t)
	var ue *UnknownFieldError

	require.ErrorAs(t, c.SetPath("contact.fax", "123"), &ue)
	assert.Equal(t, "contact.fax", ue.Field)
	require.ErrorAs(t, c.SetPath("colorPalette", "Teal"), &ue)
	assert.Equal(t, DefaultDocument(), c.Snapshot())

	require.NoError(t, c.SetPath("contact.phone", "+541100000000"))
	assert.Equal(t, "+541100000000", c.Snapshot().Contact.Phone)
}

func TestLanguages(t *testing.T) {
	c, _, _ := newTestController(t)

	require.NoError(t, c.SetLanguage(1, "Francés"))
	entry := c.Snapshot().Languages[1]
	assert.Equal(t, "Francés", entry.Language)
	assert.Contains(t, catalog.LevelsFor("Francés"), entry.Level)
	assert.Equal(t, catalog.FirstLevel("Francés"), entry.Level)

	require.NoError(t, c.SetLevel(1, "C1"))
	assert.Equal(t, "C1", c.Snapshot().Languages[1].Level)

	var fe *validation.FieldError
	require.ErrorAs(t, c.SetLevel(1, "Experto"), &fe)
	assert.Equal(t, "languages[1].level", fe.Field)
	assert.Equal(t, "C1", c.Snapshot().Languages[1].Level)

	idx, err := c.AppendLanguage(types.LanguageEntry{})
	require.NoError(t, err)
	assert.Equal(t, types.LanguageEntry{Language: DefaultLanguage, Level: "A1"}, c.Snapshot().Languages[idx])

	_, err = c.AppendLanguage(types.LanguageEntry{Language: "Alemán", Level: "Z9"})
	assert.ErrorAs(t, err, &fe)

	require.NoError(t, c.UpdateLanguage(0, types.LanguageEntry{Language: "Italiano"}))
	assert.Equal(t, types.LanguageEntry{Language: "Italiano", Level: "A1"}, c.Snapshot().Languages[0])
	assert.ErrorAs(t, c.UpdateLanguage(0, types.LanguageEntry{Language: "Ruso", Level: "Z9"}), &fe)
}

func TestSelectPalette(t *testing.T) {
	c, _, _ := newTestController(t)

	require.NoError(t, c.SelectPalette("Teal"))
	assert.Equal(t, "#F0FDFA", c.Snapshot().Palette.HeaderBg)

	var pe *UnknownPaletteError
	require.ErrorAs(t, c.SelectPalette("Neon"), &pe)
	assert.Equal(t, "Teal", c.Snapshot().Palette.Name)
}

func TestSave_InvalidEmailDoesNotWrite(t *testing.T) {
	rec := &recorder{}
	c, repo, _ := newTestController(t, WithNotifier(rec))
	ctx := context.Background()

	_ = c.SetContactField(ContactEmail, "not-an-email")
	err := c.Save(ctx)

	var ve *validation.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Has("contact.email"))
	assert.Equal(t, KindFailure, rec.last().Kind)

	_, err = repo.LoadDocument(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSave_WithoutRepositoryNotifiesFailure(t *testing.T) {
	rec := &recorder{}
	c := NewController(nil, WithNotifier(rec))

	require.Error(t, c.Save(context.Background()))
	last := rec.last()
	assert.Equal(t, KindFailure, last.Kind)
	assert.Equal(t, "CV no guardado", last.Title)
}

func TestResetSaveLoad_EqualsDefault(t *testing.T) {
	rec := &recorder{}
	c, repo, _ := newTestController(t, WithNotifier(rec))
	ctx := context.Background()

	require.NoError(t, c.SetField(FieldTitle, "Otro"))
	c.ResetToDefault()
	assert.Equal(t, "Valores Restablecidos", rec.last().Title)

	require.NoError(t, c.Save(ctx))
	assert.Equal(t, Notification{
		Kind:    KindSuccess,
		Title:   "CV Guardado",
		Message: "Los cambios en tu currículum han sido guardados exitosamente.",
	}, rec.last())

	fresh := NewController(repo)
	require.NoError(t, fresh.SetField(FieldName, "Temporal"))
	assert.True(t, fresh.Load(ctx))
	assert.Equal(t, DefaultDocument(), fresh.Snapshot())
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	c, _, store := newTestController(t)
	ctx := context.Background()

	assert.False(t, c.Load(ctx))
	assert.Equal(t, DefaultDocument(), c.Snapshot())

	require.NoError(t, store.Put(ctx, storage.DocumentKey, []byte("{not json")))
	require.NoError(t, c.SetField(FieldName, "Otro"))
	assert.False(t, c.Load(ctx))
	assert.Equal(t, DefaultDocument(), c.Snapshot())
}

func TestSnapshot_IsIndependent(t *testing.T) {
	c, _, _ := newTestController(t)
	snap := c.Snapshot()
	snap.Skills[0] = "COBOL"
	snap.WorkExperience[0].Roles[0] = "changed"
	assert.Equal(t, "JavaScript", c.Snapshot().Skills[0])
	assert.NotEqual(t, "changed", c.Snapshot().WorkExperience[0].Roles[0])
}

func TestUploadProfileImage(t *testing.T) {
	rec := &recorder{}
	c, _, _ := newTestController(t, WithNotifier(rec), WithMaxImageBytes(1<<20))

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	require.NoError(t, c.UploadProfileImage(buf.Bytes()))
	got := c.Snapshot().ProfileImage
	require.NotNil(t, got)
	assert.True(t, strings.HasPrefix(*got, "data:image/png;base64,"))

	require.Error(t, c.UploadProfileImage([]byte("plain text")))
	assert.Equal(t, KindFailure, rec.last().Kind)
	assert.Equal(t, *got, *c.Snapshot().ProfileImage)

	c.ClearProfileImage()
	assert.Nil(t, c.Snapshot().ProfileImage)
}

func TestWithFloors(t *testing.T) {
	c, _, _ := newTestController(t, WithFloors(validation.Floors{Skills: 3}))
	doc := DefaultDocument()
	doc.Skills = []string{"a", "b", "c"}
	c.Replace(doc)

	removed, err := c.RemoveSkill(0)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestController_ConcurrentEdits(t *testing.T) {
	c, _, _ := newTestController(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AppendSkill("Go")
			_ = c.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, c.Snapshot().Skills, len(DefaultDocument().Skills)+20)
}
