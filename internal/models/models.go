package models

// OriginYouTube tags records produced by the YouTube integration.
const OriginYouTube = "youtube"

// PlaylistRef identifies one importable playlist on an upstream platform.
//
// ID is the platform's unique key. Origin records which integration produced
// the ref so additional platforms can share the published namespace.
type PlaylistRef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Origin      string `json:"origin"`
}

// Video is a single video inside a playlist.
//
// PlaylistID back-references the owning [PlaylistRef]; playlists never hold a
// forward reference to their videos. ThumbnailURL is best-effort and may be empty.
type Video struct {
	ID           string `json:"id"`
	PlaylistID   string `json:"playlistId"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// SourceKind discriminates the two supported source shapes.
type SourceKind int

const (
	// SourceByPlaylist names a playlist directly.
	SourceByPlaylist SourceKind = iota
	// SourceByUsername names a channel owner whose playlists are discovered at run time.
	SourceByUsername
)

func (k SourceKind) String() string {
	switch k {
	case SourceByPlaylist:
		return "by_playlist"
	case SourceByUsername:
		return "by_username"
	default:
		return ""
	}
}

// Source is one user-supplied import source.
//
// Exactly one of Playlist or Username is set, selected by Kind.
type Source struct {
	Kind     SourceKind
	Playlist *PlaylistRef
	Username string
}

// SourceConfig is the per-user source document stored at {user}/sources.
type SourceConfig struct {
	ByPlaylist []PlaylistRef `json:"byPlaylist,omitempty"`
	ByUsername []string      `json:"byUsername,omitempty"`
}

// Sources flattens the config into an ordered source list, directly named
// playlists first, usernames second. Run order depends on this.
func (c SourceConfig) Sources() []Source {
	sources := make([]Source, 0, len(c.ByPlaylist)+len(c.ByUsername))
	for i := range c.ByPlaylist {
		pl := c.ByPlaylist[i]
		if pl.Origin == "" {
			pl.Origin = OriginYouTube
		}
		sources = append(sources, Source{Kind: SourceByPlaylist, Playlist: &pl})
	}
	for _, name := range c.ByUsername {
		sources = append(sources, Source{Kind: SourceByUsername, Username: name})
	}
	return sources
}

// Empty reports whether the config names no sources at all.
func (c SourceConfig) Empty() bool {
	return len(c.ByPlaylist) == 0 && len(c.ByUsername) == 0
}
