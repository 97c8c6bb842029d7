package system

import (
	"context"
	"time"

	coresys "github.com/wildsim/server/internal/core/system"
	"github.com/wildsim/server/internal/persist"
	"github.com/wildsim/server/internal/world"
	"go.uber.org/zap"
)

// PersistenceSystem flushes changed positions to the world-save store every
// save interval. Phase 2 (Persist). A failed flush is logged and retried at
// the next interval — the dirty set is requeued, never dropped.
type PersistenceSystem struct {
	world    *world.State
	repo     *persist.PositionRepo
	log      *zap.Logger
	interval int
	counter  int
}

func NewPersistenceSystem(ws *world.State, repo *persist.PositionRepo, intervalTicks int, log *zap.Logger) *PersistenceSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	return &PersistenceSystem{world: ws, repo: repo, log: log, interval: intervalTicks}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.counter++
	if s.counter < s.interval {
		return
	}
	s.counter = 0
	s.Flush()
}

// Flush writes every dirty position now. Also called once at shutdown.
func (s *PersistenceSystem) Flush() {
	dirty := s.world.DrainDirty()
	if len(dirty) == 0 {
		return
	}

	rows := make([]persist.PositionRow, 0, len(dirty))
	for _, id := range dirty {
		pos, ok := s.world.GetPosition(id)
		if !ok {
			continue // despawned since it was marked
		}
		info, ok := s.world.Info(id)
		if !ok {
			continue
		}
		rows = append(rows, persist.PositionRow{
			EntityID: int64(id),
			Species:  info.Species,
			X:        pos.X,
			Y:        pos.Y,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.repo.SaveBatch(ctx, rows); err != nil {
		s.log.Error("position save failed", zap.Int("count", len(rows)), zap.Error(err))
		// Requeue so the next interval retries.
		for _, id := range dirty {
			if pos, ok := s.world.GetPosition(id); ok {
				s.world.SetPosition(id, pos)
			}
		}
		return
	}
	s.log.Debug("positions saved", zap.Int("count", len(rows)))
}
