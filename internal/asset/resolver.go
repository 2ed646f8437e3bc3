// Package asset resolves uploaded storage keys back to the logical assets
// registered by the upload path.
package asset

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zl90/agentic-grants-assessment/internal/logger"
	"github.com/zl90/agentic-grants-assessment/pkg/models"
)

// Directory is the asset lookup the resolver depends on. Satisfied by
// store.AssetStore.
type Directory interface {
	QueryByS3Key(ctx context.Context, s3Key string) ([]models.Asset, error)
}

// Resolver maps a decoded storage key to the asset it belongs to.
type Resolver struct {
	directory Directory
	log       zerolog.Logger
}

// NewResolver creates a resolver over the given asset directory.
func NewResolver(directory Directory) *Resolver {
	return &Resolver{
		directory: directory,
		log:       logger.WithComponent("asset-resolver"),
	}
}

// Resolve looks up the asset registered against a storage key. Zero matches
// returns ErrNoMatchingAsset. More than one match uses the first result and
// logs a warning; the directory's query order is not guaranteed stable, so
// which asset wins is deliberately left to the index.
func (r *Resolver) Resolve(ctx context.Context, s3Key string) (*models.Asset, error) {
	const op = "Resolve"

	assets, err := r.directory.QueryByS3Key(ctx, s3Key)
	if err != nil {
		return nil, fmt.Errorf("%s: asset directory lookup failed for %q: %w", op, s3Key, err)
	}

	switch {
	case len(assets) == 0:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrNoMatchingAsset, s3Key)
	case len(assets) > 1:
		r.log.Warn().
			Str("s3_key", s3Key).
			Int("matches", len(assets)).
			Str("asset_id", assets[0].ID).
			Msg("Multiple assets registered for storage key, using first match")
	}

	return &assets[0], nil
}
