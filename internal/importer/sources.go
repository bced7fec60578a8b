package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/mtomcal/videotitan-server/internal/docstore"
	"github.com/mtomcal/videotitan-server/internal/models"
	"github.com/mtomcal/videotitan-server/internal/shared"
)

// SourcesPath is the store location of a user's source configuration.
func SourcesPath(userID string) string { return userID + "/sources" }

// SourceService reads and writes per-user source configuration documents.
type SourceService struct {
	store docstore.Store
}

// NewSourceService creates a SourceService over the given store.
func NewSourceService(store docstore.Store) *SourceService {
	return &SourceService{store: store}
}

// Set validates and stores the user's source configuration, replacing any
// previous document.
func (s *SourceService) Set(ctx context.Context, userID string, cfg models.SourceConfig) error {
	for i, pl := range cfg.ByPlaylist {
		if strings.TrimSpace(pl.ID) == "" {
			return fmt.Errorf("%w: byPlaylist[%d] has no id", shared.ErrInvalidInput, i)
		}
	}
	for i, name := range cfg.ByUsername {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: byUsername[%d] is empty", shared.ErrInvalidInput, i)
		}
	}

	return s.store.Set(ctx, SourcesPath(userID), cfg)
}

// Get retrieves the user's source configuration. A user with no stored
// document gets an empty config, not an error.
func (s *SourceService) Get(ctx context.Context, userID string) (models.SourceConfig, error) {
	var cfg models.SourceConfig
	if err := s.store.Read(ctx, SourcesPath(userID), &cfg); err != nil {
		return models.SourceConfig{}, err
	}
	return cfg, nil
}
