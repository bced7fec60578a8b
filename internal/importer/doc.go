// Package importer implements the playlist import-synchronization engine.
//
// A run gathers a user's configured sources (directly named playlists plus
// playlists discovered by resolving channel usernames), fetches every video in
// every playlist from the upstream platform, stages the records under the
// user's `*_importing` paths, and finally swaps staging into the published
// location. The swap is the only step consumers can observe: a run either
// publishes one coherent result set or leaves the previous one in place.
//
// Concurrency: username resolution/listing and per-playlist video fetches each
// fan out over a bounded worker pool and join before the next step. Source
// failures are fail-soft (skipped and surfaced), video-fetch failures are
// fail-fast (the run aborts before the swap). Progress is reported through an
// optional non-blocking channel.
//
// Known limitation: concurrent runs for the same user are not coordinated and
// race on the shared staging paths.
package importer
