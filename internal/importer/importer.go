package importer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mtomcal/videotitan-server/internal/models"
	"github.com/mtomcal/videotitan-server/internal/platform"
	"github.com/mtomcal/videotitan-server/internal/shared"
)

const defaultWorkers = 4

// Result summarizes one completed import run.
type Result struct {
	Playlists int             `json:"playlists"`
	Videos    int             `json:"videos"`
	Skipped   []SkippedSource `json:"skipped,omitempty"`
}

// SkippedSource records a configured source that was dropped from the run
// rather than aborting it: an unresolvable username or a playlist entry
// without a usable id.
type SkippedSource struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Engine orchestrates import runs.
type Engine struct {
	dir     platform.Directory
	pub     *StagedPublisher
	logger  *log.Logger
	workers int
}

// NewEngine creates an Engine. workers bounds every fan-out and is clamped to
// 1..10; a nil logger falls back to the package default.
func NewEngine(dir platform.Directory, pub *StagedPublisher, logger *log.Logger, workers int) *Engine {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > 10 {
		workers = 10
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{dir: dir, pub: pub, logger: logger, workers: workers}
}

// sendProgress sends a progress update through the channel without blocking.
// A full or nil channel drops the update rather than stalling the run.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes one full import for userID.
//
// Directly named playlists come first in the combined work list, playlists
// discovered via usernames second, stable within each group. Source resolution
// failures are skipped and surfaced in the result; any failure while staging a
// queued playlist's videos aborts the run before the swap, leaving the
// published location untouched.
func (e *Engine) Run(ctx context.Context, userID string, sources []models.Source, progress chan<- ProgressUpdate) (*Result, error) {
	if e.dir == nil || e.pub == nil {
		return nil, fmt.Errorf("%w: import engine not initialized", shared.ErrServiceUnavailable)
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is empty", shared.ErrInvalidInput)
	}

	logger := shared.WithLogger(e.logger, "user", userID)

	// Leftover staging from an aborted earlier run must not leak into this one.
	if err := e.pub.Reset(ctx, userID); err != nil {
		return nil, err
	}

	result := &Result{}

	var explicit []models.PlaylistRef
	var usernames []string
	for _, src := range sources {
		switch src.Kind {
		case models.SourceByPlaylist:
			if src.Playlist == nil || strings.TrimSpace(src.Playlist.ID) == "" {
				result.Skipped = append(result.Skipped, SkippedSource{
					Source: "playlist",
					Reason: "no usable playlist id",
				})
				logger.Warn("skipping playlist source without id")
				continue
			}
			explicit = append(explicit, *src.Playlist)
		case models.SourceByUsername:
			usernames = append(usernames, src.Username)
		}
	}

	discovered, skipped := e.discoverPlaylists(ctx, usernames, progress)
	result.Skipped = append(result.Skipped, skipped...)
	for _, s := range skipped {
		e.sendProgress(progress, skipUpdate(1, 1, s.Source, fmt.Errorf("%s", s.Reason)))
		logger.Warn("skipping source", "source", s.Source, "reason", s.Reason)
	}

	combined := make([]models.PlaylistRef, 0, len(explicit)+len(discovered))
	combined = append(combined, explicit...)
	combined = append(combined, discovered...)

	if err := e.stagePlaylists(ctx, userID, combined, progress); err != nil {
		e.discardStaging(ctx, userID, logger)
		return nil, err
	}

	e.sendProgress(progress, publishUpdate())
	playlists, videos, err := e.pub.Swap(ctx, userID)
	if err != nil {
		return nil, err
	}

	result.Playlists = playlists
	result.Videos = videos
	e.sendProgress(progress, doneUpdate(result))
	logger.Info("import complete", "playlists", playlists, "videos", videos, "skipped", len(result.Skipped))

	return result, nil
}

// discoverPlaylists resolves each username to a channel and lists its
// playlists with a bounded worker pool. Per-source failures are fail-soft:
// they turn into skip records while the other sources proceed. The returned
// refs keep username input order; ordering inside one username's listing is
// the upstream page order.
func (e *Engine) discoverPlaylists(ctx context.Context, usernames []string, progress chan<- ProgressUpdate) ([]models.PlaylistRef, []SkippedSource) {
	if len(usernames) == 0 {
		return nil, nil
	}

	type outcome struct {
		refs []models.PlaylistRef
		err  error
	}
	outcomes := make([]outcome, len(usernames))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				username := usernames[i]
				e.sendProgress(progress, resolveUpdate(i+1, len(usernames), username))

				channelID, err := e.dir.ResolveOwner(ctx, username)
				if err != nil {
					outcomes[i] = outcome{err: err}
					continue
				}

				refs, err := e.dir.ListPlaylists(ctx, channelID)
				if err != nil {
					outcomes[i] = outcome{err: err}
					continue
				}

				outcomes[i] = outcome{refs: refs}
				e.sendProgress(progress, discoveredUpdate(i+1, len(usernames), len(refs), username))
			}
		}()
	}

	for i := range usernames {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var refs []models.PlaylistRef
	var skipped []SkippedSource
	for i, out := range outcomes {
		if out.err != nil {
			skipped = append(skipped, SkippedSource{Source: usernames[i], Reason: out.err.Error()})
			continue
		}
		refs = append(refs, out.refs...)
	}

	return refs, skipped
}

// stagePlaylists fans out over the combined playlist list, staging each ref
// and its videos. The first failure cancels the remaining work; the join still
// waits for every in-flight worker so no stage append can race the caller.
func (e *Engine) stagePlaylists(ctx context.Context, userID string, playlists []models.PlaylistRef, progress chan<- ProgressUpdate) error {
	if len(playlists) == 0 {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	errc := make(chan error, len(playlists))

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if runCtx.Err() != nil {
					continue
				}
				pl := playlists[i]
				if err := e.importPlaylist(runCtx, userID, pl, i+1, len(playlists), progress); err != nil {
					errc <- fmt.Errorf("playlist %s: %w", pl.ID, err)
					cancel()
				}
			}
		}()
	}

feed:
	for i := range playlists {
		select {
		case jobs <- i:
		case <-runCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(errc)

	var runErr error
	for err := range errc {
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// importPlaylist stages one playlist ref and all its videos, preserving the
// upstream video order within the playlist.
func (e *Engine) importPlaylist(ctx context.Context, userID string, pl models.PlaylistRef, step, total int, progress chan<- ProgressUpdate) error {
	if err := e.pub.StagePlaylist(ctx, userID, pl); err != nil {
		return err
	}

	videos, err := e.dir.ListVideos(ctx, pl.ID)
	if err != nil {
		return err
	}

	for _, v := range videos {
		if v.PlaylistID == "" {
			v.PlaylistID = pl.ID
		}
		if err := e.pub.StageVideo(ctx, userID, v); err != nil {
			return err
		}
	}

	e.sendProgress(progress, fetchUpdate(step, total, pl.Title, len(videos)))
	return nil
}

// discardStaging clears staging after an aborted run so the paths do not
// accumulate stale records. Detached from the run context, which may already
// be cancelled.
func (e *Engine) discardStaging(ctx context.Context, userID string, logger *log.Logger) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := e.pub.Reset(cleanupCtx, userID); err != nil {
		logger.Warn("failed to discard staging after aborted run", "error", err)
	}
}
