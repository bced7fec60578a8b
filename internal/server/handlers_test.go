package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mtomcal/videotitan-server/internal/docstore"
	"github.com/mtomcal/videotitan-server/internal/importer"
	"github.com/mtomcal/videotitan-server/internal/models"
	"github.com/mtomcal/videotitan-server/internal/platform"
	"github.com/mtomcal/videotitan-server/internal/shared"
)

type stubDirectory struct {
	owners    map[string]string
	playlists map[string][]models.PlaylistRef
	videos    map[string][]models.Video
}

var _ platform.Directory = (*stubDirectory)(nil)

func (s *stubDirectory) Name() string { return models.OriginYouTube }

func (s *stubDirectory) ResolveOwner(ctx context.Context, username string) (string, error) {
	id, ok := s.owners[username]
	if !ok {
		return "", fmt.Errorf("%w: no channel for username %q", shared.ErrOwnerNotFound, username)
	}
	return id, nil
}

func (s *stubDirectory) ListPlaylists(ctx context.Context, channelID string) ([]models.PlaylistRef, error) {
	return s.playlists[channelID], nil
}

func (s *stubDirectory) ListVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	return s.videos[playlistID], nil
}

func newTestServer(t *testing.T, dir platform.Directory) (*httptest.Server, docstore.Store) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store, err := docstore.NewSQLite(db, nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := shared.NewLogger(nil)
	engine := importer.NewEngine(dir, importer.NewStagedPublisher(store), logger, 2)
	sources := importer.NewSourceService(store)

	router := NewRouter()
	router.Use(RequestID())
	router.Handler(&HealthHandler{})
	router.Handler(NewUserHandler(engine, sources, store, logger))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, store
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func TestHealthHandler(t *testing.T) {
	server, _ := newTestServer(t, &stubDirectory{})

	resp, body := doJSON(t, http.MethodGet, server.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("expected status ok, got %q", payload["status"])
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestSourcesEndpoints(t *testing.T) {
	server, _ := newTestServer(t, &stubDirectory{})

	t.Run("get before set returns an empty config", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, server.URL+"/api/users/alice/sources", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var cfg models.SourceConfig
		if err := json.Unmarshal(body, &cfg); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if !cfg.Empty() {
			t.Errorf("expected empty config, got %+v", cfg)
		}
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		in := models.SourceConfig{ByUsername: []string{"alice-channel"}}
		resp, _ := doJSON(t, http.MethodPut, server.URL+"/api/users/alice/sources", in)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		resp, body := doJSON(t, http.MethodGet, server.URL+"/api/users/alice/sources", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var out models.SourceConfig
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(out.ByUsername) != 1 || out.ByUsername[0] != "alice-channel" {
			t.Errorf("unexpected config %+v", out)
		}
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		in := models.SourceConfig{ByUsername: []string{""}}
		resp, _ := doJSON(t, http.MethodPut, server.URL+"/api/users/alice/sources", in)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("unsupported method is rejected", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodDelete, server.URL+"/api/users/alice/sources", nil)
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", resp.StatusCode)
		}
	})
}

func TestImportEndpoint(t *testing.T) {
	dir := &stubDirectory{
		owners: map[string]string{"alice-channel": "UC123"},
		playlists: map[string][]models.PlaylistRef{
			"UC123": {{ID: "PL1", Title: "Mix", Origin: models.OriginYouTube}},
		},
		videos: map[string][]models.Video{
			"PL1": {
				{ID: "v1", PlaylistID: "PL1", Title: "Song A"},
				{ID: "v2", PlaylistID: "PL1", Title: "Song B"},
			},
		},
	}
	server, _ := newTestServer(t, dir)

	t.Run("import without sources is a bad request", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/users/alice/import", nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("import publishes and reports counts", func(t *testing.T) {
		cfg := models.SourceConfig{ByUsername: []string{"alice-channel"}}
		if resp, _ := doJSON(t, http.MethodPut, server.URL+"/api/users/alice/sources", cfg); resp.StatusCode != http.StatusOK {
			t.Fatalf("failed to set sources: %d", resp.StatusCode)
		}

		resp, body := doJSON(t, http.MethodPost, server.URL+"/api/users/alice/import", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
		}
		var result importer.Result
		if err := json.Unmarshal(body, &result); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if result.Playlists != 1 || result.Videos != 2 {
			t.Errorf("expected counts 1/2, got %+v", result)
		}
	})

	t.Run("published data is readable with playlist filter", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, server.URL+"/api/users/alice/playlists", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var playlists []models.PlaylistRef
		if err := json.Unmarshal(body, &playlists); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(playlists) != 1 || playlists[0].ID != "PL1" {
			t.Errorf("unexpected playlists %+v", playlists)
		}

		resp, body = doJSON(t, http.MethodGet, server.URL+"/api/users/alice/videos?playlist=PL1", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var videos []models.Video
		if err := json.Unmarshal(body, &videos); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(videos) != 2 {
			t.Fatalf("expected 2 videos, got %d", len(videos))
		}
		if videos[0].ID != "v1" || videos[1].ID != "v2" {
			t.Errorf("expected staged order v1, v2; got %s, %s", videos[0].ID, videos[1].ID)
		}

		resp, body = doJSON(t, http.MethodGet, server.URL+"/api/users/alice/videos?playlist=OTHER", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if err := json.Unmarshal(body, &videos); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(videos) != 0 {
			t.Errorf("expected filter to exclude all videos, got %d", len(videos))
		}
	})

	t.Run("unknown resources are not found", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/users/alice/unknown", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})
}
