package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/cv-generator/internal/catalog"
	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/form"
	"github.com/jonathan/cv-generator/internal/rendering"
	"github.com/jonathan/cv-generator/internal/server/ratelimit"
	"github.com/jonathan/cv-generator/internal/storage"
	"github.com/jonathan/cv-generator/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine echoes the page behind a PDF header
type fakeEngine struct {
	mu      sync.Mutex
	printed int
	err     error
	gate    chan struct{}
}

func (f *fakeEngine) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.printed++
	return append([]byte("%PDF-1.4\n"), html...), nil
}

type testEnv struct {
	server     *Server
	controller *form.Controller
	repo       *storage.Repository
	engine     *fakeEngine
	broadcast  *Broadcaster
}

func newTestEnv(t *testing.T, rl *ratelimit.Config) *testEnv {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	repo := storage.NewRepository(store, "")

	broadcast := NewBroadcaster()
	ctrl := form.NewController(repo, form.WithNotifier(broadcast))
	engine := &fakeEngine{}
	labels, _ := rendering.LabelsFor("es")

	s := New(Config{ExportTimeout: 5 * time.Second, RateLimit: rl}, Deps{
		Controller:    ctrl,
		Exporter:      export.NewExporter(engine, labels),
		Notifications: broadcast,
	})
	t.Cleanup(s.Close)

	return &testEnv{server: s, controller: ctrl, repo: repo, engine: engine, broadcast: broadcast}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	palettes := decode[[]types.Palette](t, env.do(t, "GET", "/palettes", nil))
	assert.Equal(t, catalog.Palettes(), palettes)

	langs := decode[[]catalog.LanguageOption](t, env.do(t, "GET", "/languages", nil))
	assert.NotEmpty(t, langs)

	levels := decode[map[string]any](t, env.do(t, "GET", "/languages/Ingl%C3%A9s/levels", nil))
	assert.Equal(t, "Inglés", levels["language"])
	assert.Equal(t, true, levels["known"])
	assert.Contains(t, levels["levels"], "C2")

	levels = decode[map[string]any](t, env.do(t, "GET", "/languages/Klingon/levels", nil))
	assert.Equal(t, false, levels["known"])
	assert.NotEmpty(t, levels["levels"])
}

func TestGetDocument_Default(t *testing.T) {
	env := newTestEnv(t, nil)
	doc := decode[types.CVDocument](t, env.do(t, "GET", "/document", nil))
	assert.Equal(t, form.DefaultDocument(), doc)

	errs := decode[ErrorsResponse](t, env.do(t, "GET", "/document/errors", nil))
	assert.True(t, errs.Valid)
	assert.Empty(t, errs.Errors)
}

func TestSetField(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, "PATCH", "/document/fields/name", ValueRequest{Value: "Lucía"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DocumentResponse](t, rec)
	assert.Equal(t, "Lucía", resp.Document.Name)
	assert.Nil(t, resp.FieldError)

	// Invalid values are stored and reported
	rec = env.do(t, "PATCH", "/document/fields/contact.email", ValueRequest{Value: "not-an-email"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[DocumentResponse](t, rec)
	assert.Equal(t, "not-an-email", resp.Document.Contact.Email)
	require.NotNil(t, resp.FieldError)
	assert.Equal(t, "contact.email", resp.FieldError.Field)

	errs := decode[ErrorsResponse](t, env.do(t, "GET", "/document/errors", nil))
	assert.False(t, errs.Valid)

	rec = env.do(t, "PATCH", "/document/fields/nickname", ValueRequest{Value: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest("PATCH", "/document/fields/name", strings.NewReader("{"))
	raw := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestSkills_FloorAndIndexes(t *testing.T) {
	env := newTestEnv(t, nil)
	env.controller.Replace(types.CVDocument{
		Name: "A", LastName: "B", Title: "T", Summary: "S",
		Contact:        types.ContactInfo{Location: "L", Phone: "1", Email: "a@b.co"},
		Skills:         []string{"Go"},
		Education:      []types.EducationEntry{{Degree: "D", Institution: "I", Period: "P"}},
		WorkExperience: []types.WorkExperienceEntry{{Company: "C", Period: "P", Roles: []string{"R"}}},
		Languages:      []types.LanguageEntry{{Language: "Inglés", Level: "B2"}},
		Palette:        catalog.DefaultPalette(),
	})

	rec := env.do(t, "DELETE", "/document/skills/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[RemoveResponse](t, rec).Removed, "removal at the floor is ignored")

	rec = env.do(t, "POST", "/document/skills", ValueRequest{Value: "Docker"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, decode[IndexResponse](t, rec).Index)

	rec = env.do(t, "PUT", "/document/skills/1", ValueRequest{Value: "Kubernetes"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Go", "Kubernetes"}, decode[DocumentResponse](t, rec).Document.Skills)

	rec = env.do(t, "DELETE", "/document/skills/0", nil)
	assert.True(t, decode[RemoveResponse](t, rec).Removed)
	assert.Equal(t, []string{"Kubernetes"}, env.controller.Snapshot().Skills)

	assert.Equal(t, http.StatusNotFound, env.do(t, "PUT", "/document/skills/9", ValueRequest{Value: "x"}).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, "DELETE", "/document/skills/abc", nil).Code)
}

func TestExperienceAndRoles(t *testing.T) {
	env := newTestEnv(t, nil)
	before := len(env.controller.Snapshot().WorkExperience)

	rec := env.do(t, "POST", "/document/experience", types.WorkExperienceEntry{Company: "Acme", Period: "2024"})
	require.Equal(t, http.StatusCreated, rec.Code)
	idx := decode[IndexResponse](t, rec).Index
	assert.Equal(t, before, idx)
	assert.Equal(t, []string{form.DefaultRole}, env.controller.Snapshot().WorkExperience[idx].Roles)

	rec = env.do(t, "POST", "/document/experience/0/roles", ValueRequest{Value: "Liderazgo técnico"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, "PUT", "/document/experience/0/roles/0", ValueRequest{Value: "Arquitectura"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Arquitectura", env.controller.Snapshot().WorkExperience[0].Roles[0])

	rec = env.do(t, "POST", "/document/experience/99/roles", ValueRequest{Value: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, "DELETE", "/document/experience/"+strconv.Itoa(idx), nil)
	assert.True(t, decode[RemoveResponse](t, rec).Removed)
	assert.Len(t, env.controller.Snapshot().WorkExperience, before)
}

func TestUpdateExperience_StoredAndRejectedEdits(t *testing.T) {
	env := newTestEnv(t, nil)
	roles := env.controller.Snapshot().WorkExperience[0].Roles

	rec := env.do(t, "PUT", "/document/experience/0", types.WorkExperienceEntry{Company: "", Period: "2020"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[DocumentResponse](t, rec)
	require.NotNil(t, resp.FieldError)
	assert.Equal(t, "workExperience[0].company", resp.FieldError.Field)
	assert.Equal(t, "2020", resp.Document.WorkExperience[0].Period)
	assert.Equal(t, roles, resp.Document.WorkExperience[0].Roles)

	rec = env.do(t, "PUT", "/document/experience/0", map[string]any{"company": "Acme", "period": "2020", "roles": []string{}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "", env.controller.Snapshot().WorkExperience[0].Company)

	rec = env.do(t, "PUT", "/document/experience/0/roles/0", ValueRequest{Value: ""})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[DocumentResponse](t, rec)
	require.NotNil(t, resp.FieldError)
	assert.Equal(t, "workExperience[0].roles[0]", resp.FieldError.Field)
}

func TestEducation(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, "POST", "/document/education", types.EducationEntry{Degree: "MSc", Institution: "UBA", Period: "2020"})
	require.Equal(t, http.StatusCreated, rec.Code)
	idx := decode[IndexResponse](t, rec).Index

	rec = env.do(t, "PUT", "/document/education/"+strconv.Itoa(idx), types.EducationEntry{Degree: "PhD", Institution: "UBA", Period: "2024"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PhD", env.controller.Snapshot().Education[idx].Degree)

	rec = env.do(t, "DELETE", "/document/education/"+strconv.Itoa(idx), nil)
	assert.True(t, decode[RemoveResponse](t, rec).Removed)
}

func TestLanguages(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, "POST", "/document/languages", types.LanguageEntry{})
	require.Equal(t, http.StatusCreated, rec.Code)
	idx := decode[IndexResponse](t, rec).Index
	added := env.controller.Snapshot().Languages[idx]
	assert.Equal(t, form.DefaultLanguage, added.Language)
	assert.Equal(t, catalog.FirstLevel(form.DefaultLanguage), added.Level)

	rec = env.do(t, "PUT", "/document/languages/"+strconv.Itoa(idx)+"/level", ValueRequest{Value: "C1"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Changing the language resets the level
	rec = env.do(t, "PUT", "/document/languages/"+strconv.Itoa(idx)+"/language", ValueRequest{Value: "Español"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.LanguageEntry{Language: "Español", Level: catalog.FirstLevel("Español")}, env.controller.Snapshot().Languages[idx])

	rec = env.do(t, "PUT", "/document/languages/"+strconv.Itoa(idx)+"/level", ValueRequest{Value: "Z9"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, catalog.FirstLevel("Español"), env.controller.Snapshot().Languages[idx].Level)

	rec = env.do(t, "PUT", "/document/languages/"+strconv.Itoa(idx), types.LanguageEntry{Language: "Francés", Level: "A2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A2", env.controller.Snapshot().Languages[idx].Level)

	rec = env.do(t, "DELETE", "/document/languages/"+strconv.Itoa(idx), nil)
	assert.True(t, decode[RemoveResponse](t, rec).Removed)
}

func TestSelectPalette(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, "PUT", "/document/palette", PaletteRequest{Name: "Teal"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Teal", decode[types.Palette](t, rec).Name)

	rec = env.do(t, "PUT", "/document/palette", PaletteRequest{Name: "Neon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Teal", env.controller.Snapshot().Palette.Name)
}

func TestSave(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.do(t, "PATCH", "/document/fields/contact.email", ValueRequest{Value: "broken"})
	rec := env.do(t, "POST", "/document/save", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["errors"])

	_, err := env.repo.LoadDocument(ctx)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "invalid document must not be written")

	env.do(t, "PATCH", "/document/fields/contact.email", ValueRequest{Value: "ok@example.com"})
	rec = env.do(t, "POST", "/document/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	saved, err := env.repo.LoadDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok@example.com", saved.Contact.Email)
}

func TestReset(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, "PATCH", "/document/fields/name", ValueRequest{Value: "Otro"})

	rec := env.do(t, "POST", "/document/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, form.DefaultDocument(), decode[types.CVDocument](t, rec))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProfileImage(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest("PUT", "/document/profile-image", bytes.NewReader(pngBytes(t)))
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	img := env.controller.Snapshot().ProfileImage
	require.NotNil(t, img)
	assert.True(t, strings.HasPrefix(*img, "data:image/png;base64,"))

	req = httptest.NewRequest("PUT", "/document/profile-image", strings.NewReader("plain text, not an image"))
	rec = httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, img, env.controller.Snapshot().ProfileImage, "failed upload keeps the image")

	rec = env.do(t, "DELETE", "/document/profile-image", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, env.controller.Snapshot().ProfileImage)
}

func TestPreviewAndExport_SameContent(t *testing.T) {
	env := newTestEnv(t, nil)

	preview := env.do(t, "GET", "/preview", nil)
	require.Equal(t, http.StatusOK, preview.Code)
	assert.Equal(t, export.ContentTypeHTML, preview.Header().Get("Content-Type"))
	assert.Contains(t, preview.Header().Get("Content-Disposition"), "inline")

	pdf := env.do(t, "GET", "/export", nil)
	require.Equal(t, http.StatusOK, pdf.Code)
	assert.Equal(t, export.ContentTypePDF, pdf.Header().Get("Content-Type"))
	assert.Contains(t, pdf.Header().Get("Content-Disposition"), `filename=CV_Santiago_Peralta.pdf`)
	assert.Equal(t, append([]byte("%PDF-1.4\n"), preview.Body.Bytes()...), pdf.Body.Bytes())
}

func TestExport_Failures(t *testing.T) {
	env := newTestEnv(t, nil)

	env.do(t, "PATCH", "/document/fields/name", ValueRequest{Value: ""})
	assert.Equal(t, http.StatusUnprocessableEntity, env.do(t, "GET", "/preview", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, env.do(t, "GET", "/export", nil).Code)

	env.do(t, "PATCH", "/document/fields/name", ValueRequest{Value: "Santiago"})
	env.engine.err = errors.New("browser crashed")
	assert.Equal(t, http.StatusBadGateway, env.do(t, "GET", "/export", nil).Code)
}

func TestAsyncExport(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, "POST", "/exports", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	id := decode[map[string]string](t, rec)["id"]
	assert.Equal(t, "/exports/"+id, rec.Header().Get("Location"))

	var job export.Job
	require.Eventually(t, func() bool {
		job = decode[export.Job](t, env.do(t, "GET", "/exports/"+id, nil))
		return job.Status != export.StatusPending
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, export.StatusCompleted, job.Status)
	assert.Equal(t, "CV_Santiago_Peralta.pdf", job.Filename)

	file := env.do(t, "GET", "/exports/"+id+"/file", nil)
	require.Equal(t, http.StatusOK, file.Code)
	assert.True(t, bytes.HasPrefix(file.Body.Bytes(), []byte("%PDF")))

	assert.Equal(t, http.StatusNotFound, env.do(t, "GET", "/exports/missing", nil).Code)
}

func TestAsyncExport_FileBeforeCompletion(t *testing.T) {
	env := newTestEnv(t, nil)
	env.engine.gate = make(chan struct{})
	defer close(env.engine.gate)

	id := decode[map[string]string](t, env.do(t, "POST", "/exports", nil))["id"]
	rec := env.do(t, "GET", "/exports/"+id+"/file", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

// readEvent reads one SSE event name and its data line
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func TestExportEvents(t *testing.T) {
	env := newTestEnv(t, nil)
	env.engine.gate = make(chan struct{})
	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	id := decode[map[string]string](t, env.do(t, "POST", "/exports", nil))["id"]

	resp, err := http.Get(ts.URL + "/exports/" + id + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	event, data := readEvent(t, r)
	assert.Equal(t, eventStatus, event)
	assert.Contains(t, data, `"status":"pending"`)

	close(env.engine.gate)
	event, data = readEvent(t, r)
	assert.Equal(t, eventComplete, event)
	assert.Contains(t, data, "CV_Santiago_Peralta.pdf")
}

func TestNotificationsStream(t *testing.T) {
	env := newTestEnv(t, nil)
	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/notifications", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return env.broadcast.subscribers() == 1 }, time.Second, 5*time.Millisecond)

	env.do(t, "POST", "/document/reset", nil)

	event, data := readEvent(t, bufio.NewReader(resp.Body))
	assert.Equal(t, eventNotification, event)
	var n form.Notification
	require.NoError(t, json.Unmarshal([]byte(data), &n))
	assert.Equal(t, form.KindSuccess, n.Kind)
	assert.Equal(t, "Valores Restablecidos", n.Title)

	cancel()
	assert.Eventually(t, func() bool { return env.broadcast.subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRateLimit_Export(t *testing.T) {
	env := newTestEnv(t, &ratelimit.Config{Enabled: true, Rules: ratelimit.DefaultRules(1, 1, time.Minute)})

	first := env.do(t, "GET", "/export", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := env.do(t, "GET", "/export", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, env.do(t, "GET", "/preview", nil).Code, "preview is not limited")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, "GET", "/document", nil)

	rec := env.do(t, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cvgen_http_requests_total{method="GET",path="GET /document",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, "OPTIONS", "/document/skills", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}
