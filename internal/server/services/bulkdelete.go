package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/racelog/internal/common"
	"github.com/dmitrijs2005/racelog/internal/logging"
	"github.com/dmitrijs2005/racelog/internal/server/repositories"
)

// BulkDelete removes a multi-entity selection in one request: the car
// cascade for every selected car, then the track cascade for every
// selected track. The two passes are independent; a setup removed by the
// car pass is simply no longer there for the track pass to detach.
type BulkDelete struct {
	repos   *repositories.Manager
	cascade *CascadeEngine
	logger  logging.Logger
}

func NewBulkDelete(repos *repositories.Manager, cascade *CascadeEngine, logger logging.Logger) *BulkDelete {
	return &BulkDelete{repos: repos, cascade: cascade, logger: logger.With("module", "bulkdelete")}
}

// Run deletes the owner's selected cars and tracks with their cascades and
// returns combined counts. Ids that do not resolve under the owner are
// ignored rather than failing the whole batch.
func (b *BulkDelete) Run(ctx context.Context, ownerID string, carIDs, trackIDs []string) (CascadeCounts, error) {
	counts := CascadeCounts{}

	for _, id := range carIDs {
		if err := b.repos.Cars.Delete(ownerID, id); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return counts, err
		}
		counts["cars"]++
		c, err := b.cascade.CarDeleted(ctx, ownerID, id)
		if err != nil {
			return counts, err
		}
		counts.add(c)
	}

	for _, id := range trackIDs {
		if err := b.repos.Tracks.Delete(ownerID, id); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return counts, err
		}
		counts["tracks"]++
		c, err := b.cascade.TrackDeleted(ctx, ownerID, id)
		if err != nil {
			return counts, err
		}
		counts.add(c)
	}

	b.logger.Info(ctx, "bulk delete finished", "counts", map[string]int(counts))
	return counts, nil
}
