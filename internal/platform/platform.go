package platform

import (
	"context"

	"github.com/mtomcal/videotitan-server/internal/models"
)

// Directory defines the upstream read operations the import engine depends on.
type Directory interface {
	// ResolveOwner looks up the canonical channel id for a display username.
	// Returns shared.ErrOwnerNotFound when the upstream has zero matches and
	// shared.ErrOwnerAmbiguous when it has more than one.
	ResolveOwner(ctx context.Context, username string) (string, error)

	// ListPlaylists retrieves every playlist owned by the given channel id,
	// in upstream page order.
	ListPlaylists(ctx context.Context, channelID string) ([]models.PlaylistRef, error)

	// ListVideos retrieves every video in the given playlist, in upstream
	// page order. Missing thumbnails are omitted, never an error.
	ListVideos(ctx context.Context, playlistID string) ([]models.Video, error)

	// Name returns the integration name, also used as the record origin tag.
	Name() string
}
