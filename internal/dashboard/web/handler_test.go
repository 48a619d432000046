package web_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/2beens/gymdash/internal/dashboard"
	"github.com/2beens/gymdash/internal/dashboard/web"
	"github.com/2beens/gymdash/internal/lifts"
	"github.com/2beens/gymdash/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `Title,Date,Weight,Reps
Bench Press,2024-05-06 10:00:00,80,5
Bench Press,2024-05-13 10:00:00,82.5,5
Bench Press,2024-05-20 10:00:00,85,4
Squat,2024-05-07 10:00:00,100,5
Squat,2024-05-14 10:00:00,105,5
`

type webFixture struct {
	router *mux.Router
	dash   *dashboard.Dashboard
}

func newWebFixture(t *testing.T) webFixture {
	t.Helper()
	now := func() time.Time { return time.Date(2024, 5, 21, 9, 0, 0, 0, time.UTC) }
	dir := t.TempDir()

	repo, err := lifts.NewCsvRepo(filepath.Join(dir, "lifts.csv"))
	require.NoError(t, err)
	service := lifts.NewService(lifts.NewServiceParams{
		Repo:           repo,
		Settings:       lifts.NewFileSettingsStore(filepath.Join(dir, "settings.json")),
		MetricsManager: metrics.NewTestManager(),
		Now:            now,
	})
	apiRouter := mux.NewRouter()
	lifts.NewHandler(service, 1).SetupRoutes(apiRouter.PathPrefix("/api").Subrouter(), nil)
	apiServer := httptest.NewServer(apiRouter)
	t.Cleanup(apiServer.Close)

	view := dashboard.NewMemoryView()
	renderer := dashboard.NewSVGRenderer(400, 200)
	dash := dashboard.NewDashboard(dashboard.NewDashboardParams{
		Client:   dashboard.NewApiClient(dashboard.ClientConfig{BaseURL: apiServer.URL + "/api", Timeout: 5 * time.Second}),
		View:     view,
		Renderer: renderer,
		Now:      now,
	})

	router := mux.NewRouter()
	web.NewHandler(dash, view, renderer, 1).SetupRoutes(router)
	return webFixture{router: router, dash: dash}
}

func (f webFixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f webFixture) page(t *testing.T) string {
	t.Helper()
	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	return rec.Body.String()
}

func (f webFixture) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(t, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	return rec
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile("csvFile", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_EmptyLog(t *testing.T) {
	f := newWebFixture(t)
	require.NoError(t, f.dash.Initialize(context.Background()))

	page := f.page(t)
	assert.Contains(t, page, "Upload data first!")
	assert.Contains(t, page, `id="bodyWeight" name="bodyweight" value="65"`)
	assert.Contains(t, page, `value="2024-05-21"`)
	assert.NotContains(t, page, "/charts/gainsChart.svg")

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/charts/gainsChart.svg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UploadThenBrowse(t *testing.T) {
	f := newWebFixture(t)
	require.NoError(t, f.dash.Initialize(context.Background()))

	rec := f.do(t, uploadRequest(t, "lifts.csv", testCSV))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page := f.page(t)
	assert.Contains(t, page, "Data uploaded!")
	assert.Contains(t, page, `<option value="Bench Press" selected>Bench Press</option>`)
	assert.Contains(t, page, `<option value="Squat">Squat</option>`)
	assert.Contains(t, page, "Ready")
	assert.Contains(t, page, "/charts/gainsChart.svg?v=1")
	assert.Contains(t, page, "/charts/anatomyChart.svg?v=1")

	// alerts are shown once
	assert.NotContains(t, f.page(t), "Data uploaded!")

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/charts/gainsChart.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "<svg")

	f.postForm(t, "/select", url.Values{"exercise": {"Squat"}})
	page = f.page(t)
	assert.Contains(t, page, `<option value="Squat" selected>Squat</option>`)
	assert.Contains(t, page, "/charts/gainsChart.svg?v=2")
}

func TestHandler_UploadWithoutFile(t *testing.T) {
	f := newWebFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(t, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotContains(t, f.page(t), "Processing...")
}

func TestHandler_UploadTooLarge(t *testing.T) {
	f := newWebFixture(t)

	rec := f.do(t, uploadRequest(t, "huge.csv", strings.Repeat("x", 2<<20)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "file too large", rec.Body.String())
}

func TestHandler_UploadInvalidCSV(t *testing.T) {
	f := newWebFixture(t)

	rec := f.do(t, uploadRequest(t, "bad.csv", "a,b\n1,2\n"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page := f.page(t)
	assert.Contains(t, page, "Invalid format or empty file")
	assert.Contains(t, page, `<span id="uploadStatus">Error</span>`)
}

func TestHandler_SubmitEntry(t *testing.T) {
	f := newWebFixture(t)
	require.Equal(t, http.StatusSeeOther, f.do(t, uploadRequest(t, "lifts.csv", testCSV)).Code)
	f.page(t)

	f.postForm(t, "/submit", url.Values{"date": {"2024-05-21"}, "exercise": {"Squat"}, "weight": {""}, "reps": {"5"}})
	assert.Contains(t, f.page(t), "Fill in the data first!")

	f.postForm(t, "/submit", url.Values{"date": {"2024-05-21"}, "exercise": {"Squat"}, "weight": {"110"}, "reps": {"5"}})
	page := f.page(t)
	assert.Contains(t, page, "Entry saved! New 1RM: 128 kg")
	assert.Contains(t, page, `id="inputWeight" name="weight" placeholder="kg" value=""`)
}

func TestHandler_SaveWeight(t *testing.T) {
	f := newWebFixture(t)
	require.NoError(t, f.dash.Initialize(context.Background()))

	f.postForm(t, "/weight", url.Values{"bodyweight": {"80"}})
	page := f.page(t)
	assert.Contains(t, page, "Body weight saved! Rank updated.")
	assert.Contains(t, page, `value="80"`)

	f.postForm(t, "/weight", url.Values{"bodyweight": {"0"}})
	assert.Contains(t, f.page(t), "Invalid")

	f.postForm(t, "/refresh", nil)
	assert.Contains(t, f.page(t), `id="bodyWeight" name="bodyweight" value="80"`)
}
