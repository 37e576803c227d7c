package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/demolab/internal/domain"
	"github.com/vanshika/demolab/internal/service"
	"github.com/vanshika/demolab/internal/tasks"
	"github.com/vanshika/demolab/internal/ui"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func socialFixture(t *testing.T) *service.SocialNetworkService {
	t.Helper()
	friendships, err := service.FriendshipsFrame([]domain.Friendship{
		{IndividualA: "Alice", IndividualB: "Bob", Interactions: 12},
		{IndividualA: "Bob", IndividualB: "Cara", Interactions: 4},
		{IndividualA: "Alice", IndividualB: "Cara", Interactions: 1},
		{IndividualA: "Eve", IndividualB: "Finn", Interactions: 3},
	})
	require.NoError(t, err)
	day := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	interactions, err := service.InteractionsFrame([]domain.Interaction{
		{Date: day, IndividualA: "Alice", IndividualB: "Bob", Kind: "Call"},
		{Date: day, IndividualA: "Eve", IndividualB: "Finn", Kind: "Text"},
	})
	require.NoError(t, err)
	svc, err := service.NewSocialNetworkService(friendships, interactions, discardLogger())
	require.NoError(t, err)
	return svc
}

func irisFixture(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(",x,y,species\n")
	centers := []struct {
		species string
		x, y    float64
	}{{"setosa", 0, 0}, {"versicolor", 6, 6}, {"virginica", 0, 6}}
	offsets := [][2]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0.5, 0.5}}
	n := 0
	for _, c := range centers {
		for rep := 0; rep < 2; rep++ {
			for _, o := range offsets {
				b.WriteString(strings.Join([]string{
					itoa(n),
					ftoa(c.x + o[0] + 0.1*float64(rep)),
					ftoa(c.y + o[1]),
					c.species,
				}, ",") + "\n")
				n++
			}
		}
	}
	return b.String()
}

type testEnv struct {
	handler http.Handler
	manager *tasks.Manager
}

func newTestEnv(t *testing.T, svc service.Services, origins ...string) testEnv {
	t.Helper()
	logger := discardLogger()
	manager := tasks.NewManager(1, time.Minute, logger)
	t.Cleanup(manager.Close)

	reg := ui.NewRegistry()
	service.RegisterApps(reg, svc)
	api := NewAPIHandlers(logger, reg, svc, manager)
	handler := NewRouter(logger, RouterDependencies{
		Health:         CompositeHealth{DataRootHealth{Root: t.TempDir()}},
		API:            api,
		AllowedOrigins: origins,
	})
	return testEnv{handler: handler, manager: manager}
}

func (e testEnv) do(t *testing.T, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, service.Services{})
	rec := env.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])

	missing := NewRouter(discardLogger(), RouterDependencies{
		Health: DataRootHealth{Root: filepath.Join(t.TempDir(), "gone")},
	})
	rec = httptest.NewRecorder()
	missing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decode[map[string]any](t, rec)["status"])
}

func TestListAppsAndRenderPage(t *testing.T) {
	env := newTestEnv(t, service.Services{Social: socialFixture(t)})

	rec := env.do(t, http.MethodGet, "/api/apps", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps := decode[[]map[string]any](t, rec)
	var names []string
	for _, a := range apps {
		names = append(names, a["name"].(string))
	}
	assert.Equal(t, []string{"custom-css", "graph-viewer"}, names)

	rec = env.do(t, http.MethodGet, "/api/apps/custom-css/pages/css-units", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/apps/custom-css/pages/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStrongestPathEndpoint(t *testing.T) {
	env := newTestEnv(t, service.Services{Social: socialFixture(t)})

	rec := env.do(t, http.MethodPost, "/api/graph/path", strings.NewReader(`{"selection":["Alice","Cara"]}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[service.PathReport](t, rec)
	assert.Equal(t, []string{"Alice", "Bob", "Cara"}, report.Path)
	assert.Equal(t, 16, report.CumulativeInteractions)

	rec = env.do(t, http.MethodPost, "/api/graph/path", strings.NewReader(`{"selection":["Alice","Eve"]}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/graph/path", strings.NewReader(`{"selection":["Alice","Zed"]}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/graph/path", strings.NewReader(`{"selected":["Alice"]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphEndpoints(t *testing.T) {
	env := newTestEnv(t, service.Services{Social: socialFixture(t)})

	rec := env.do(t, http.MethodGet, "/api/graph/centrality?measure=Closeness", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/graph/interactions?source=Alice", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/graph/interactions?source=Bob&destination=Alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = env.do(t, http.MethodPost, "/api/graph/selection", strings.NewReader(`{"selection":["Alice"],"node":"Bob"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Alice", "Bob"}, decode[selectionResponse](t, rec).Selection)
}

func TestUnavailableDemoAnswers503(t *testing.T) {
	env := newTestEnv(t, service.Services{})

	for _, target := range []string{"/api/graph/view", "/api/advisor/questions", "/api/explorer/table"} {
		rec := env.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
	rec := env.do(t, http.MethodGet, "/api/advisor/summary", nil)
	assert.Equal(t, "sales advisor is not available", decode[map[string]string](t, rec)["error"])
}

func TestWranglerUploadAndDownload(t *testing.T) {
	env := newTestEnv(t, service.Services{Wrangler: service.NewWranglerService(t.TempDir(), discardLogger())})

	csv := ",Name,Age\n0,Alice,34\n1,Bob,28\n"
	req := httptest.NewRequest(http.MethodPost, "/api/wrangler/datasets?name=people.csv", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	info := decode[service.DatasetInfo](t, rec)
	assert.Equal(t, "people.csv", info.Name)
	assert.Equal(t, 2, info.Rows)

	rec = env.do(t, http.MethodGet, "/api/wrangler/datasets/"+info.ID+"/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filtered_data.csv")
	assert.Contains(t, rec.Body.String(), "Alice")

	rec = env.do(t, http.MethodGet, "/api/wrangler/datasets/"+info.ID+"/download?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/wrangler/datasets/"+info.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/wrangler/datasets/"+info.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReactivityEndpoints(t *testing.T) {
	env := newTestEnv(t, service.Services{})

	rec := env.do(t, http.MethodGet, "/api/reactivity/sum?a=1&b=2.5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[sumResponse](t, rec)
	assert.Equal(t, "3.5", sum.Text)
	require.NotNil(t, sum.Value)
	assert.Equal(t, 3.5, *sum.Value)

	rec = env.do(t, http.MethodGet, "/api/reactivity/sum?a=x&b=2", nil)
	sum = decode[sumResponse](t, rec)
	assert.Equal(t, service.NotCalculable, sum.Text)
	assert.Nil(t, sum.Value)

	rec = env.do(t, http.MethodGet, "/api/reactivity/text?text=abc", nil)
	assert.Equal(t, "cba", decode[map[string]any](t, rec)["backwards"])

	rec = env.do(t, http.MethodPost, "/api/reactivity/gridsearch", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGridSearchStreamsProgress(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, writeFile(filepath.Join(root, "iris.csv"), irisFixture(t)))

	logger := discardLogger()
	manager := tasks.NewManager(1, time.Minute, logger)
	defer manager.Close()
	reactivity, err := service.LoadReactivity(root, manager, logger)
	require.NoError(t, err)

	svc := service.Services{Reactivity: reactivity}
	api := NewAPIHandlers(logger, ui.NewRegistry(), svc, manager)
	api.heartbeat = 10 * time.Millisecond
	srv := httptest.NewServer(NewRouter(logger, RouterDependencies{API: api}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/reactivity/gridsearch", "application/json",
		bytes.NewReader([]byte(`{"kernels":["linear"],"c":[1],"gamma":[0.5]}`)))
	require.NoError(t, err)
	var snap tasks.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.NotEmpty(t, snap.ID)

	events, err := http.Get(srv.URL + "/api/tasks/" + snap.ID + "/events")
	require.NoError(t, err)
	defer events.Body.Close()
	assert.Equal(t, "text/event-stream", events.Header.Get("Content-Type"))
	stream, err := io.ReadAll(events.Body)
	require.NoError(t, err)
	assert.Contains(t, string(stream), "event: progress")
	assert.Contains(t, string(stream), "event: done")

	result, err := http.Get(srv.URL + "/api/tasks/" + snap.ID + "/result")
	require.NoError(t, err)
	defer result.Body.Close()
	require.Equal(t, http.StatusOK, result.StatusCode)
	var report service.GridSearchReport
	require.NoError(t, json.NewDecoder(result.Body).Decode(&report))
	assert.Equal(t, 1.0, report.Accuracy)

	missing, err := http.Get(srv.URL + "/api/tasks/nope")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestStylingEndpoints(t *testing.T) {
	env := newTestEnv(t, service.Services{})

	rec := env.do(t, http.MethodPost, "/api/styling/box", strings.NewReader(`{"bold":true,"width":"abc"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	box := decode[ui.Component](t, rec)
	assert.NotEmpty(t, box.Type)

	rec = env.do(t, http.MethodPost, "/api/styling/raw", strings.NewReader(`{"target":"select","css":"{\"color\":"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/styling/raw", strings.NewReader(`{"target":"slider","css":"color: red"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/styling/units", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]service.CSSUnit](t, rec))
}

func TestCORSHeaders(t *testing.T) {
	env := newTestEnv(t, service.Services{}, "http://localhost:3000")

	req := httptest.NewRequest(http.MethodGet, "/api/styling/units", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/styling/units", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestParseAllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, ParseAllowedOrigins(" http://a, ,http://b "))
	assert.Nil(t, ParseAllowedOrigins(""))
}
