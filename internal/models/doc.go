// Package models defines the domain entities for the video import service.
//
// Everything here is write-once per import run:
//
//   - [PlaylistRef] : one importable playlist discovered from or named for an upstream platform
//   - [Video] : a single video belonging to exactly one playlist
//   - [Source] : user-supplied configuration entry, either a playlist or a channel username
//   - [SourceConfig] : the per-user source document persisted in the store
//
// Records are created in memory during a fetch, staged once, and copied verbatim
// into the published location during the swap. No entity is mutated after creation.
package models
