package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tolldesk/access"
	"tolldesk/db"
	"tolldesk/metrics"
	"tolldesk/models"
)

// Loader fills a Store from a remote source.
type Loader struct {
	source db.Source
}

func NewLoader(source db.Source) *Loader {
	return &Loader{source: source}
}

// Load fetches every collection concurrently under scope. A failing fetch
// leaves its collection empty and is reported in the returned slice; it never
// stops the other fetches. The store is only returned once every fetch has
// finished.
func (l *Loader) Load(ctx context.Context, scope access.Scope) (*Store, []*db.FetchError) {
	s := Empty()
	failures := make([]*db.FetchError, len(models.Entities))

	var g errgroup.Group
	for i, entity := range models.Entities {
		g.Go(func() error {
			start := time.Now()
			err := l.fetch(ctx, s, entity, scope)
			metrics.FetchDuration.WithLabelValues(string(entity)).Observe(time.Since(start).Seconds())
			if err != nil {
				failures[i] = asFetchError(entity, err)
				metrics.Fetches.WithLabelValues(string(entity), "error").Inc()
				log.Warn().Err(err).Str("entity", string(entity)).Msg("collection fetch failed, using empty set")
				return nil
			}
			metrics.Fetches.WithLabelValues(string(entity), "ok").Inc()
			return nil
		})
	}
	_ = g.Wait()

	s.loadedAt = time.Now()

	var out []*db.FetchError
	for _, f := range failures {
		if f != nil {
			out = append(out, f)
		}
	}
	return s, out
}

// fetch loads one collection into its slot. Each entity owns a distinct field
// of s, so concurrent calls never touch the same memory. Rows are re-checked
// against the scope in case the backend ignored a condition.
func (l *Loader) fetch(ctx context.Context, s *Store, entity models.Entity, scope access.Scope) error {
	switch entity {
	case models.EntityTollRecords:
		rows, err := l.source.TollRecords(ctx, scope)
		if err != nil {
			return err
		}
		s.records = access.Keep(scope, entity, rows)
	case models.EntityCompanies:
		rows, err := l.source.Companies(ctx, scope)
		if err != nil {
			return err
		}
		s.companies = access.Keep(scope, entity, rows)
	case models.EntityStations:
		rows, err := l.source.Stations(ctx, scope)
		if err != nil {
			return err
		}
		s.stations = access.Keep(scope, entity, rows)
	case models.EntityGroups:
		rows, err := l.source.Groups(ctx, scope)
		if err != nil {
			return err
		}
		s.groups = access.Keep(scope, entity, rows)
	case models.EntityCollectors:
		rows, err := l.source.Collectors(ctx, scope)
		if err != nil {
			return err
		}
		s.collectors = access.Keep(scope, entity, rows)
	case models.EntityMonitors:
		rows, err := l.source.Monitors(ctx, scope)
		if err != nil {
			return err
		}
		s.monitors = access.Keep(scope, entity, rows)
	case models.EntityShifts:
		rows, err := l.source.Shifts(ctx, scope)
		if err != nil {
			return err
		}
		s.shifts = access.Keep(scope, entity, rows)
	case models.EntityAdminUsers:
		rows, err := l.source.AdminUsers(ctx, scope)
		if err != nil {
			return err
		}
		s.users = access.Keep(scope, entity, rows)
	}
	return nil
}

func asFetchError(entity models.Entity, err error) *db.FetchError {
	var fe *db.FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &db.FetchError{Entity: entity, Cause: err}
}
