// Package dashboard assembles the data shown on the Mission Control home page.
package dashboard

import (
	"context"
	"time"

	"mission-control/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotConnected is the _error text used when no database is attached.
const ErrNotConnected = "Database not connected"

const payloadKey = "dashboard"

// Source is the read side of the store used by the dashboard.
type Source interface {
	GetMetrics(ctx context.Context) (store.Metrics, error)
	ListTeamMembers(ctx context.Context) ([]store.TeamMember, error)
	ListAlerts(ctx context.Context) ([]store.Alert, error)
}

// Service loads dashboard payloads, falling back to fixed data on any failure.
type Service struct {
	src   Source
	cache *Cache
	log   *zap.Logger
	now   func() time.Time
}

// NewService builds a service. src may be nil (no database); cache may be nil (no caching).
func NewService(src Source, cache *Cache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, cache: cache, log: log, now: time.Now}
}

// Connected reports whether a data source is attached.
func (s *Service) Connected() bool {
	return s.src != nil
}

// Invalidate drops the cached payload so the next Load reads through.
func (s *Service) Invalidate() {
	s.cache.Clear()
}

// Load returns metrics, team and alerts. It never fails: without a source, or when any
// query errors, it returns FallbackPayload with Error set.
func (s *Service) Load(ctx context.Context) Payload {
	if s.src == nil {
		p := FallbackPayload()
		p.Error = ErrNotConnected
		return p
	}
	if cached, ok := s.cache.Get(payloadKey); ok {
		return cached
	}

	var p Payload
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.src.GetMetrics(gctx)
		p.Metrics = m
		return err
	})
	g.Go(func() error {
		team, err := s.src.ListTeamMembers(gctx)
		p.Team = team
		return err
	})
	g.Go(func() error {
		alerts, err := s.src.ListAlerts(gctx)
		p.Alerts = alerts
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("dashboard data unavailable, serving fallback", zap.Error(err))
		fb := FallbackPayload()
		fb.Error = err.Error()
		return fb
	}

	if p.Team == nil {
		p.Team = []store.TeamMember{}
	}
	if p.Alerts == nil {
		p.Alerts = []store.Alert{}
	}
	s.cache.Set(payloadKey, p)
	return p
}
