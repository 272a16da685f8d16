package observability

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/infclass/internal/gameserver"
)

// WorldStats is a point-in-time summary of a world.
type WorldStats struct {
	Tick       int
	Players    int
	Humans     int
	Infected   int
	Characters int
	Entities   int
	SnapIDs    int
	SnapCap    int
}

// CollectStats summarises w.
func CollectStats(w *gameserver.World) WorldStats {
	humans, infected := w.Players().CountByTeam()
	return WorldStats{
		Tick:       w.CurrentTick(),
		Players:    w.Players().PlayerCount(),
		Humans:     humans,
		Infected:   infected,
		Characters: len(w.Characters()),
		Entities:   w.Entities().Len(),
		SnapIDs:    w.SnapIDs().InUse(),
		SnapCap:    w.SnapIDs().Capacity(),
	}
}

// snapIDWarnRatio is the pool usage above which a report escalates to Warn.
const snapIDWarnRatio = 0.9

// StatsReporter logs WorldStats every period ticks. Its Observe method is
// meant to be registered as a TickLoop observer.
type StatsReporter struct {
	logger *zap.Logger
	period int
}

// NewStatsReporter returns a reporter logging every period ticks.
//
// Precondition: logger must be non-nil; period must be > 0.
func NewStatsReporter(logger *zap.Logger, period int) *StatsReporter {
	if logger == nil {
		panic("observability.NewStatsReporter: logger must not be nil")
	}
	if period <= 0 {
		panic("observability.NewStatsReporter: period must be > 0")
	}
	return &StatsReporter{logger: logger, period: period}
}

// Observe reports w when its tick counter is a multiple of the period.
func (r *StatsReporter) Observe(w *gameserver.World) {
	if w.CurrentTick()%r.period != 0 {
		return
	}
	s := CollectStats(w)
	fields := []zap.Field{
		zap.Int("tick", s.Tick),
		zap.Int("players", s.Players),
		zap.Int("humans", s.Humans),
		zap.Int("infected", s.Infected),
		zap.Int("characters", s.Characters),
		zap.Int("entities", s.Entities),
		zap.Int("snap_ids", s.SnapIDs),
	}
	if float64(s.SnapIDs) >= snapIDWarnRatio*float64(s.SnapCap) {
		r.logger.Warn("snap id pool nearly exhausted", fields...)
		return
	}
	r.logger.Info("world stats", fields...)
}
