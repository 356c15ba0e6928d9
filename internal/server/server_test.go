package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"kaizen/internal/config"
	"kaizen/internal/db"
	"kaizen/internal/domain"
	"kaizen/internal/engine"
	"kaizen/internal/logging"
	"kaizen/internal/migrate"
)

type testServer struct {
	URL    string
	Engine *engine.Engine
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestServer(t *testing.T, auth AuthConfig) (*testServer, func()) {
	t.Helper()
	workspace := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := engine.New(conn, config.Default(), logging.NewWithWriter("error", nopWriter{}))
	handler, err := New(Config{Engine: e, BasePath: "/v0", Auth: auth})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		Engine: e,
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	return testSrv, func() { testSrv.Close() }
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func TestSpaceLifecycleOverHTTP(t *testing.T) {
	srv, cleanup := newTestServer(t, AuthConfig{})
	defer cleanup()
	client := srv.Client()

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v0/spaces", map[string]any{
		"name": "Garage",
		"goal": "park the car again",
	}, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create space status %d: %s", res.StatusCode, string(data))
	}
	var space domain.Space
	if err := json.Unmarshal(data, &space); err != nil {
		t.Fatalf("unmarshal space: %v", err)
	}
	if space.ID == "" || space.Name != "Garage" {
		t.Fatalf("unexpected space %+v", space)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/v0/spaces/"+space.ID, nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get space status %d: %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v0/spaces/"+space.ID+"/clock-in", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("clock-in status %d: %s", res.StatusCode, string(data))
	}
	// clocking in twice surfaces as a validation failure
	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v0/spaces/"+space.ID+"/clock-in", nil, nil)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("double clock-in status %d: %s", res.StatusCode, string(data))
	}
	var envelope struct {
		Body struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal error envelope: %v", err)
	}
	if envelope.Body.Code != "validation_failed" {
		t.Fatalf("expected validation_failed, got %q", envelope.Body.Code)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/v0/spaces/"+space.ID+"/summary", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("summary status %d: %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, client, http.MethodDelete, srv.URL+"/v0/spaces/"+space.ID, nil, nil)
	if res.StatusCode != http.StatusNoContent && res.StatusCode != http.StatusOK {
		t.Fatalf("delete status %d: %s", res.StatusCode, string(data))
	}
	res, _ = doJSON(t, client, http.MethodGet, srv.URL+"/v0/spaces/"+space.ID, nil, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", res.StatusCode)
	}
}

func TestActionAndWasteFlow(t *testing.T) {
	srv, cleanup := newTestServer(t, AuthConfig{})
	defer cleanup()
	client := srv.Client()

	_, data := doJSON(t, client, http.MethodPost, srv.URL+"/v0/spaces", map[string]any{"name": "Garage"}, nil)
	var space domain.Space
	if err := json.Unmarshal(data, &space); err != nil {
		t.Fatalf("unmarshal space: %v", err)
	}

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v0/actions", map[string]any{
		"space_id": space.ID,
		"name":     "Sweep",
		"points":   5,
	}, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create action status %d: %s", res.StatusCode, string(data))
	}
	var action domain.Action
	if err := json.Unmarshal(data, &action); err != nil {
		t.Fatalf("unmarshal action: %v", err)
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v0/actions/"+action.ID+"/log", nil, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("log action status %d: %s", res.StatusCode, string(data))
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v0/waste", map[string]any{
		"space_id":     space.ID,
		"category_ids": []string{"waiting", "defects"},
	}, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("log waste status %d: %s", res.StatusCode, string(data))
	}
	var entries []domain.WasteEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("unmarshal waste: %v", err)
	}
	if len(entries) != 2 || entries[0].Points+entries[1].Points != 11 {
		t.Fatalf("unexpected waste entries %+v", entries)
	}

	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/v0/spaces/"+space.ID+"/summary", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("summary status %d: %s", res.StatusCode, string(data))
	}
	var summary struct {
		TotalPoints      int `json:"total_points"`
		TotalWastePoints int `json:"total_waste_points"`
	}
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary.TotalPoints != 5 || summary.TotalWastePoints != 11 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestQuestStepOverHTTP(t *testing.T) {
	srv, cleanup := newTestServer(t, AuthConfig{})
	defer cleanup()
	client := srv.Client()

	_, data := doJSON(t, client, http.MethodPost, srv.URL+"/v0/spaces", map[string]any{"name": "Garage"}, nil)
	var space domain.Space
	if err := json.Unmarshal(data, &space); err != nil {
		t.Fatalf("unmarshal space: %v", err)
	}

	res, data := doJSON(t, client, http.MethodPost, srv.URL+"/v0/quests", map[string]any{
		"space_id":        space.ID,
		"name":            "Sort toolbox",
		"points_per_step": 10,
		"step_names":      []string{"Empty", "Sort"},
	}, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create quest status %d: %s", res.StatusCode, string(data))
	}
	var quest domain.Quest
	if err := json.Unmarshal(data, &quest); err != nil {
		t.Fatalf("unmarshal quest: %v", err)
	}

	res, data = doJSON(t, client, http.MethodPost, srv.URL+"/v0/quests/"+quest.ID+"/complete-step", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("complete step status %d: %s", res.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, &quest); err != nil {
		t.Fatalf("unmarshal quest: %v", err)
	}
	if quest.CurrentStepIndex != 1 || !quest.Steps[0].Completed {
		t.Fatalf("unexpected quest state %+v", quest)
	}
}

func TestBearerAuth(t *testing.T) {
	srv, cleanup := newTestServer(t, AuthConfig{Secret: "test-secret"})
	defer cleanup()
	client := srv.Client()

	// health stays open
	res, data := doJSON(t, client, http.MethodGet, srv.URL+"/v0/health", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health status %d: %s", res.StatusCode, string(data))
	}

	res, _ = doJSON(t, client, http.MethodGet, srv.URL+"/v0/spaces", nil, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}

	res, _ = doJSON(t, client, http.MethodGet, srv.URL+"/v0/spaces", nil, map[string]string{
		"Authorization": "Bearer garbage",
	})
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", res.StatusCode)
	}

	token, err := IssueToken("test-secret", "tester", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	res, data = doJSON(t, client, http.MethodGet, srv.URL+"/v0/spaces", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", res.StatusCode, string(data))
	}
}
