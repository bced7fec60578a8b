// Package platform implements clients for upstream video platforms.
//
// The [Directory] interface covers the three read operations the import engine
// needs: resolving a channel username to its canonical id, listing the playlists
// a channel owns, and listing the videos inside a playlist. The latter two are
// cursor-paginated upstream and are driven through the generic [FetchAll] pager.
//
// [YouTube] is the only implementation today, speaking the YouTube Data API v3
// wire shapes with API key authentication and a client-side rate limiter.
package platform
