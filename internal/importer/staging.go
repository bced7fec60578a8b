package importer

import (
	"context"

	"github.com/mtomcal/videotitan-server/internal/docstore"
	"github.com/mtomcal/videotitan-server/internal/models"
)

// Store path layout per user. Staging paths are exclusively owned by one
// in-flight run; published paths are what the read API serves.
func stagingPlaylistsPath(userID string) string { return userID + "/playlists_importing" }
func stagingVideosPath(userID string) string    { return userID + "/videos_importing" }

// PublishedPlaylistsPath is the durable location for a user's playlists.
func PublishedPlaylistsPath(userID string) string { return userID + "/playlists" }

// PublishedVideosPath is the durable location for a user's videos.
func PublishedVideosPath(userID string) string { return userID + "/videos" }

// StagedPublisher runs the two-phase stage/commit protocol against the store.
//
// The store offers no transactions, so Swap orders its writes to keep the
// published location out of any hybrid old/new state: read staging, clear
// published, write published, clear staging. If the write after the clear
// fails, published is left empty, which is detectable rather than silently
// stale or mixed.
type StagedPublisher struct {
	store docstore.Store
}

// NewStagedPublisher creates a publisher over the given store.
func NewStagedPublisher(store docstore.Store) *StagedPublisher {
	return &StagedPublisher{store: store}
}

// Reset clears the user's staging paths. Called at the start of a run so
// leftovers from an aborted earlier run can never leak into this run's swap.
func (p *StagedPublisher) Reset(ctx context.Context, userID string) error {
	if err := p.store.Set(ctx, stagingPlaylistsPath(userID), nil); err != nil {
		return err
	}
	return p.store.Set(ctx, stagingVideosPath(userID), nil)
}

// StagePlaylist appends one playlist ref to the user's staging area.
func (p *StagedPublisher) StagePlaylist(ctx context.Context, userID string, pl models.PlaylistRef) error {
	_, err := p.store.Push(ctx, stagingPlaylistsPath(userID), pl)
	return err
}

// StageVideo appends one video to the user's staging area.
func (p *StagedPublisher) StageVideo(ctx context.Context, userID string, v models.Video) error {
	_, err := p.store.Push(ctx, stagingVideosPath(userID), v)
	return err
}

// Swap publishes the full staging contents, replacing whatever was published
// before, and clears staging. Must only run after every stage append for the
// run has completed. Returns the published playlist and video counts.
//
// Empty staging clears the published location: the published set always
// reflects exactly what this run collected.
func (p *StagedPublisher) Swap(ctx context.Context, userID string) (int, int, error) {
	var playlists map[string]models.PlaylistRef
	if err := p.store.Read(ctx, stagingPlaylistsPath(userID), &playlists); err != nil {
		return 0, 0, err
	}
	var videos map[string]models.Video
	if err := p.store.Read(ctx, stagingVideosPath(userID), &videos); err != nil {
		return 0, 0, err
	}

	if err := p.store.Set(ctx, PublishedPlaylistsPath(userID), nil); err != nil {
		return 0, 0, err
	}
	if err := p.store.Set(ctx, PublishedVideosPath(userID), nil); err != nil {
		return 0, 0, err
	}

	if len(playlists) > 0 {
		if err := p.store.Set(ctx, PublishedPlaylistsPath(userID), playlists); err != nil {
			return 0, 0, err
		}
	}
	if len(videos) > 0 {
		if err := p.store.Set(ctx, PublishedVideosPath(userID), videos); err != nil {
			return 0, 0, err
		}
	}

	if err := p.store.Set(ctx, stagingPlaylistsPath(userID), nil); err != nil {
		return 0, 0, err
	}
	if err := p.store.Set(ctx, stagingVideosPath(userID), nil); err != nil {
		return 0, 0, err
	}

	return len(playlists), len(videos), nil
}
