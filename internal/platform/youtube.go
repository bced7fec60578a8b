package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mtomcal/videotitan-server/internal/models"
	"github.com/mtomcal/videotitan-server/internal/shared"
	"golang.org/x/time/rate"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

const defaultPageSize = 50

// YouTubeOpts configures a [YouTube] client.
type YouTubeOpts struct {
	BaseURL   string  // API base URL (default: the public googleapis endpoint)
	APIKey    string  // API key sent as the key query parameter
	PageSize  int     // maxResults per page, 1..50 (default: 50)
	RateLimit float64 // upstream requests per second, 0 disables limiting
}

// YouTube implements [Directory] against the YouTube Data API v3.
type YouTube struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTube creates a YouTube directory client.
func NewYouTube(opts YouTubeOpts) *YouTube {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultYouTubeBaseURL
	}
	if opts.PageSize <= 0 || opts.PageSize > 50 {
		opts.PageSize = defaultPageSize
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &YouTube{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		pageSize:   opts.PageSize,
		httpClient: http.DefaultClient,
		limiter:    limiter,
	}
}

// Name returns the integration name.
func (y *YouTube) Name() string {
	return models.OriginYouTube
}

// doRequest performs one GET against the API and decodes the JSON response into result.
//
// Waits on the rate limiter first so pagination loops cannot burst past quota.
func (y *YouTube) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if y.limiter != nil {
		if err := y.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrUpstream, err)
		}
	}

	if y.apiKey != "" {
		params.Set("key", y.apiKey)
	}
	apiURL := y.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: %s (status %d): %s", shared.ErrUpstream, endpoint, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: %s: status %d", shared.ErrUpstream, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrProtocol, endpoint, err)
	}

	return nil
}

// ResolveOwner resolves a channel username to its canonical channel id.
//
// channels.list is not paginated for a username lookup: zero items is
// shared.ErrOwnerNotFound, more than one is shared.ErrOwnerAmbiguous rather
// than a silent first-match.
func (y *YouTube) ResolveOwner(ctx context.Context, username string) (string, error) {
	params := url.Values{}
	params.Set("part", "id")
	params.Set("forUsername", username)

	var result struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}

	if err := y.doRequest(ctx, "/channels", params, &result); err != nil {
		return "", err
	}

	switch len(result.Items) {
	case 0:
		return "", fmt.Errorf("%w: no channel for username %q", shared.ErrOwnerNotFound, username)
	case 1:
		return result.Items[0].ID, nil
	default:
		return "", fmt.Errorf("%w: username %q matched %d channels", shared.ErrOwnerAmbiguous, username, len(result.Items))
	}
}

type youtubeSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ResourceID  struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
	Thumbnails map[string]struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
}

// thumbnailURL picks the best available thumbnail variant, empty when none exist.
func (s youtubeSnippet) thumbnailURL() string {
	for _, quality := range []string{"high", "medium", "default"} {
		if t, ok := s.Thumbnails[quality]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

type youtubeListResponse struct {
	Items []struct {
		ID      string         `json:"id"`
		Snippet youtubeSnippet `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

// ListPlaylists retrieves all playlists owned by channelID via playlists.list.
func (y *YouTube) ListPlaylists(ctx context.Context, channelID string) ([]models.PlaylistRef, error) {
	return FetchAll(ctx, func(ctx context.Context, token string) (Page[models.PlaylistRef], error) {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("channelId", channelID)
		params.Set("maxResults", fmt.Sprintf("%d", y.pageSize))
		if token != "" {
			params.Set("pageToken", token)
		}

		var result youtubeListResponse
		if err := y.doRequest(ctx, "/playlists", params, &result); err != nil {
			return Page[models.PlaylistRef]{}, err
		}

		refs := make([]models.PlaylistRef, len(result.Items))
		for i, item := range result.Items {
			refs[i] = models.PlaylistRef{
				ID:          item.ID,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				Origin:      models.OriginYouTube,
			}
		}

		return Page[models.PlaylistRef]{Items: refs, NextToken: result.NextPageToken}, nil
	})
}

// ListVideos retrieves all videos in playlistID via playlistItems.list.
//
// A missing thumbnail only omits the field.
func (y *YouTube) ListVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	return FetchAll(ctx, func(ctx context.Context, token string) (Page[models.Video], error) {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", fmt.Sprintf("%d", y.pageSize))
		if token != "" {
			params.Set("pageToken", token)
		}

		var result youtubeListResponse
		if err := y.doRequest(ctx, "/playlistItems", params, &result); err != nil {
			return Page[models.Video]{}, err
		}

		videos := make([]models.Video, len(result.Items))
		for i, item := range result.Items {
			videos[i] = models.Video{
				ID:           item.Snippet.ResourceID.VideoID,
				PlaylistID:   playlistID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				ThumbnailURL: item.Snippet.thumbnailURL(),
			}
		}

		return Page[models.Video]{Items: videos, NextToken: result.NextPageToken}, nil
	})
}
