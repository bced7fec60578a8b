package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mtomcal/videotitan-server/internal/shared"
)

func TestNewYouTube(t *testing.T) {
	t.Run("defaults base URL and page size", func(t *testing.T) {
		y := NewYouTube(YouTubeOpts{})
		if y.baseURL != defaultYouTubeBaseURL {
			t.Errorf("expected baseURL %s, got %s", defaultYouTubeBaseURL, y.baseURL)
		}
		if y.pageSize != defaultPageSize {
			t.Errorf("expected page size %d, got %d", defaultPageSize, y.pageSize)
		}
	})

	t.Run("clamps oversized page size", func(t *testing.T) {
		if y := NewYouTube(YouTubeOpts{PageSize: 500}); y.pageSize != defaultPageSize {
			t.Errorf("expected page size %d, got %d", defaultPageSize, y.pageSize)
		}
	})

	t.Run("name matches origin tag", func(t *testing.T) {
		if y := NewYouTube(YouTubeOpts{}); y.Name() != "youtube" {
			t.Errorf("expected name youtube, got %s", y.Name())
		}
	})
}

func TestResolveOwner(t *testing.T) {
	ctx := context.Background()

	newServer := func(t *testing.T, items []map[string]any) *httptest.Server {
		t.Helper()
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/channels" {
				t.Errorf("expected path /channels, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("forUsername") != "bob" {
				t.Errorf("expected forUsername bob, got %s", r.URL.Query().Get("forUsername"))
			}
			if r.URL.Query().Get("key") != "test-key" {
				t.Errorf("expected API key on request")
			}
			json.NewEncoder(w).Encode(map[string]any{"items": items})
		}))
	}

	t.Run("resolves a single match", func(t *testing.T) {
		server := newServer(t, []map[string]any{{"id": "UC123"}})
		defer server.Close()

		y := NewYouTube(YouTubeOpts{BaseURL: server.URL, APIKey: "test-key"})
		id, err := y.ResolveOwner(ctx, "bob")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != "UC123" {
			t.Errorf("expected UC123, got %s", id)
		}
	})

	t.Run("zero matches is not found", func(t *testing.T) {
		server := newServer(t, nil)
		defer server.Close()

		y := NewYouTube(YouTubeOpts{BaseURL: server.URL, APIKey: "test-key"})
		if _, err := y.ResolveOwner(ctx, "bob"); !errors.Is(err, shared.ErrOwnerNotFound) {
			t.Fatalf("expected owner-not-found, got %v", err)
		}
	})

	t.Run("multiple matches is ambiguous, not first-match", func(t *testing.T) {
		server := newServer(t, []map[string]any{{"id": "UC1"}, {"id": "UC2"}})
		defer server.Close()

		y := NewYouTube(YouTubeOpts{BaseURL: server.URL, APIKey: "test-key"})
		if _, err := y.ResolveOwner(ctx, "bob"); !errors.Is(err, shared.ErrOwnerAmbiguous) {
			t.Fatalf("expected owner-ambiguous, got %v", err)
		}
	})

	t.Run("API failure is an upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "quota exceeded"}})
		}))
		defer server.Close()

		y := NewYouTube(YouTubeOpts{BaseURL: server.URL})
		if _, err := y.ResolveOwner(ctx, "bob"); !errors.Is(err, shared.ErrUpstream) {
			t.Fatalf("expected upstream error, got %v", err)
		}
	})
}

func TestListPlaylists(t *testing.T) {
	ctx := context.Background()

	t.Run("drains pages and tags origin", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists" {
				t.Errorf("expected path /playlists, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("channelId") != "UC123" {
				t.Errorf("expected channelId UC123")
			}

			switch r.URL.Query().Get("pageToken") {
			case "":
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{
						{"id": "PL1", "snippet": map[string]any{"title": "Mix", "description": "first"}},
					},
					"nextPageToken": "p2",
				})
			case "p2":
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{
						{"id": "PL2", "snippet": map[string]any{"title": "Live"}},
					},
				})
			default:
				t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
			}
		}))
		defer server.Close()

		y := NewYouTube(YouTubeOpts{BaseURL: server.URL})
		refs, err := y.ListPlaylists(ctx, "UC123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(refs) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(refs))
		}
		if refs[0].ID != "PL1" || refs[1].ID != "PL2" {
			t.Errorf("expected page order PL1, PL2; got %s, %s", refs[0].ID, refs[1].ID)
		}
		if refs[0].Title != "Mix" || refs[0].Description != "first" {
			t.Errorf("unexpected snippet mapping: %+v", refs[0])
		}
		for _, ref := range refs {
			if ref.Origin != "youtube" {
				t.Errorf("expected origin youtube on %s, got %q", ref.ID, ref.Origin)
			}
		}
	})

	t.Run("stuck continuation token fails with protocol error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"items":         []map[string]any{{"id": "PL1", "snippet": map[string]any{"title": "Mix"}}},
				"nextPageToken": "stuck",
			})
		}))
		defer server.Close()

		y := NewYouTube(YouTubeOpts{BaseURL: server.URL})
		if _, err := y.ListPlaylists(ctx, "UC123"); !errors.Is(err, shared.ErrProtocol) {
			t.Fatalf("expected protocol error, got %v", err)
		}
	})
}

func TestListVideos(t *testing.T) {
	ctx := context.Background()

	t.Run("maps snippets and keeps thumbnails best-effort", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlistItems" {
				t.Errorf("expected path /playlistItems, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("playlistId") != "PL1" {
				t.Errorf("expected playlistId PL1")
			}

			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{
						"snippet": map[string]any{
							"title":      "Song A",
							"resourceId": map[string]any{"videoId": "v1"},
							"thumbnails": map[string]any{"high": map[string]any{"url": "http://img/v1.jpg"}},
						},
					},
					{
						// No thumbnails at all: still collected.
						"snippet": map[string]any{
							"title":      "Song B",
							"resourceId": map[string]any{"videoId": "v2"},
						},
					},
				},
			})
		}))
		defer server.Close()

		y := NewYouTube(YouTubeOpts{BaseURL: server.URL})
		videos, err := y.ListVideos(ctx, "PL1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(videos) != 2 {
			t.Fatalf("expected 2 videos, got %d", len(videos))
		}
		if videos[0].ID != "v1" || videos[0].ThumbnailURL != "http://img/v1.jpg" {
			t.Errorf("unexpected first video: %+v", videos[0])
		}
		if videos[1].ID != "v2" {
			t.Errorf("expected v2, got %s", videos[1].ID)
		}
		if videos[1].ThumbnailURL != "" {
			t.Errorf("expected missing thumbnail to stay empty, got %q", videos[1].ThumbnailURL)
		}
		for _, v := range videos {
			if v.PlaylistID != "PL1" {
				t.Errorf("expected back-reference PL1 on %s, got %q", v.ID, v.PlaylistID)
			}
		}
	})

	t.Run("preserves order across pages", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			item := func(id string) map[string]any {
				return map[string]any{"snippet": map[string]any{
					"title":      id,
					"resourceId": map[string]any{"videoId": id},
				}}
			}
			switch r.URL.Query().Get("pageToken") {
			case "":
				json.NewEncoder(w).Encode(map[string]any{
					"items":         []map[string]any{item("v1"), item("v2")},
					"nextPageToken": "p2",
				})
			case "p2":
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{item("v3")},
				})
			}
		}))
		defer server.Close()

		y := NewYouTube(YouTubeOpts{BaseURL: server.URL})
		videos, err := y.ListVideos(ctx, "PL1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"v1", "v2", "v3"}
		if len(videos) != len(want) {
			t.Fatalf("expected %d videos, got %d", len(want), len(videos))
		}
		for i, v := range videos {
			if v.ID != want[i] {
				t.Errorf("video %d: expected %s, got %s", i, want[i], v.ID)
			}
		}
	})
}
