// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentry-taiga/internal/api"
	"sentry-taiga/internal/common/config"
	"sentry-taiga/internal/common/database"
	httpclient "sentry-taiga/internal/common/http"
	"sentry-taiga/internal/common/logger"
	"sentry-taiga/internal/common/taiga"
	"sentry-taiga/internal/common/taiga/taigatest"
	"sentry-taiga/internal/connector"
	"sentry-taiga/internal/items"
	"sentry-taiga/internal/options"
	taigaitemcreate "sentry-taiga/internal/workers/taiga/taiga-item-create"
)

const (
	statusNew   = int64(100)
	statusDraft = int64(200)
)

// stack is the full host wiring: fake Taiga, Redis-backed options, the item
// service, the HTTP API and the workflow worker.
type stack struct {
	taiga  *taigatest.Server
	redis  *miniredis.Miniredis
	store  options.Store
	items  *items.Service
	api    *httptest.Server
	worker *taigaitemcreate.Handler
}

func newStack(t *testing.T) *stack {
	t.Helper()

	tg := taigatest.NewServer("sentry-bot", "hunter2")
	t.Cleanup(tg.Close)
	tg.AddProject(taiga.Project{
		ID:                 9,
		Name:               "Demo",
		Slug:               "demo",
		DefaultIssueStatus: ptr(statusNew),
		DefaultUSStatus:    ptr(statusDraft),
		DefaultPriority:    ptr(2),
		DefaultIssueType:   ptr(3),
		DefaultSeverity:    ptr(4),
	})
	tg.NextRef = 1234

	mr := miniredis.RunT(t)
	rdb := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := options.NewFromConfig(config.OptionsConfig{
		Backend:   config.OptionsBackendRedis,
		KeyPrefix: "e2e_options",
	}, rdb, nil)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	hc := httpclient.NewClient(5*time.Second, httpclient.WithUserAgent("sentry-taiga-e2e"))
	svc := items.NewService(items.Dependencies{
		Registry: connector.NewDefaultRegistry(connector.NewTaigaTrackerFactory(hc)),
		Store:    store,
		Logger:   log,
	})

	apiSrv := httptest.NewServer(api.NewServer(api.Dependencies{
		Items:  svc,
		Logger: log,
		ReadyChecks: map[string]api.ReadyCheck{
			"redis": rdb.Ping,
		},
	}).Handler())
	t.Cleanup(apiSrv.Close)

	worker, err := taigaitemcreate.NewHandler(taigaitemcreate.HandlerOptions{
		AppConfig: &config.Config{
			Workers: map[string]config.WorkerConfig{
				"taiga-item-create": {Enabled: true, MaxJobsActive: 1, Timeout: 10000},
			},
		},
		Logger: log,
		Items:  svc,
	})
	require.NoError(t, err)

	return &stack{taiga: tg, redis: mr, store: store, items: svc, api: apiSrv, worker: worker}
}

func ptr(v int64) *int64 { return &v }

func (s *stack) request(t *testing.T, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.api.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.api.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func (s *stack) configure(t *testing.T, slug, projectID, labels string) {
	t.Helper()
	resp, _ := s.request(t, http.MethodPut, "/api/v1/plugins/"+slug+"/projects/"+projectID+"/options", map[string]string{
		"serviceUrl":  s.taiga.URL + "/",
		"apiUrl":      s.taiga.URL,
		"username":    "sentry-bot",
		"password":    "hunter2",
		"projectSlug": "demo",
		"labels":      labels,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestE2E_CreateIssueThroughAPI(t *testing.T) {
	s := newStack(t)
	s.configure(t, "taiga", "sentry-1", " bug, sentry ,,bug")

	// Options landed in Redis under the configured prefix.
	assert.Equal(t, "demo", s.redis.HGet("e2e_options:taiga:sentry-1", "projectSlug"))

	resp, body := s.request(t, http.MethodPost, "/api/v1/plugins/taiga/projects/sentry-1/items", map[string]string{
		"title":       "Crash",
		"description": "NPE",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, float64(1234), body["ref"])
	assert.Equal(t, "TG-1234", body["label"])
	assert.Equal(t, s.taiga.URL+"/project/demo/issue/1234", body["url"])

	req := s.taiga.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "/api/v1/issues", req.Path)
	assert.Equal(t, "Crash", req.Body["subject"])
	assert.Equal(t, "NPE", req.Body["description"])
	assert.Equal(t, float64(9), req.Body["project"])
	assert.Equal(t, float64(statusNew), req.Body["status"])
	assert.Equal(t, float64(2), req.Body["priority"])
	assert.Equal(t, float64(3), req.Body["type"])
	assert.Equal(t, float64(4), req.Body["severity"])

	var tags []string
	for _, tag := range req.Body["tags"].([]interface{}) {
		tags = append(tags, tag.(string))
	}
	assert.Equal(t, connector.ParseLabels(" bug, sentry ,,bug"), tags)
}

func TestE2E_CreateUserStoryThroughWorker(t *testing.T) {
	s := newStack(t)
	s.configure(t, "taiga-userstory", "sentry-2", "")

	output, err := s.worker.Execute(context.Background(), &taigaitemcreate.Input{
		PluginSlug:  "taiga-userstory",
		ProjectID:   "sentry-2",
		Title:       "Crash",
		Description: "NPE",
	})
	require.NoError(t, err)

	assert.True(t, output.Success)
	assert.Equal(t, int64(1234), output.Ref)
	assert.Equal(t, "TG-1234", output.Label)
	assert.Equal(t, s.taiga.URL+"/project/demo/us/1234", output.URL)

	req := s.taiga.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "/api/v1/userstories", req.Path)
	assert.Equal(t, float64(statusDraft), req.Body["status"])
	assert.NotContains(t, req.Body, "tags")

	// The API renders the same link for the ref.
	resp, body := s.request(t, http.MethodGet, "/api/v1/plugins/taiga-userstory/projects/sentry-2/items/1234", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, output.URL, body["url"])
}

func TestE2E_UnconfiguredAndFailingProjects(t *testing.T) {
	s := newStack(t)

	resp, body := s.request(t, http.MethodGet, "/api/v1/plugins/taiga/projects/p/configured", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["configured"])

	resp, _ = s.request(t, http.MethodPost, "/api/v1/plugins/taiga/projects/p/items", map[string]string{"title": "Crash"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	s.configure(t, "taiga", "p", "")
	s.taiga.Password = "rotated"

	resp, body = s.request(t, http.MethodPost, "/api/v1/plugins/taiga/projects/p/items", map[string]string{"title": "Crash"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "INTEGRATION_ERROR", errObj["code"])
	assert.Contains(t, errObj["message"], "Error Communicating with Taiga")
	assert.Empty(t, s.taiga.Requests())
}

func TestE2E_ReadinessFollowsRedis(t *testing.T) {
	s := newStack(t)

	resp, _ := s.request(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.redis.SetError("LOADING redis is loading")

	resp, body := s.request(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "not_ready", body["status"])
}
