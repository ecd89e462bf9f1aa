// Package db holds the adapters that load entity collections from a remote store.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tolldesk/access"
	"tolldesk/models"
)

// ErrNotFound is returned by Authenticate when no user has the given username.
var ErrNotFound = errors.New("not found")

// FetchError reports that one collection could not be loaded.
type FetchError struct {
	Entity models.Entity
	Cause  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Entity, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Source is the remote store as seen by the session core. Every fetch applies
// the scope's conditions on the server side and returns rows in the
// collection's default order.
type Source interface {
	TollRecords(ctx context.Context, scope access.Scope) ([]models.TollRecord, error)
	Companies(ctx context.Context, scope access.Scope) ([]models.Company, error)
	Stations(ctx context.Context, scope access.Scope) ([]models.Station, error)
	Groups(ctx context.Context, scope access.Scope) ([]models.Unit, error)
	Collectors(ctx context.Context, scope access.Scope) ([]models.Unit, error)
	Monitors(ctx context.Context, scope access.Scope) ([]models.Unit, error)
	Shifts(ctx context.Context, scope access.Scope) ([]models.Shift, error)
	AdminUsers(ctx context.Context, scope access.Scope) ([]models.User, error)

	// Authenticate returns the account registered under username, or ErrNotFound.
	Authenticate(ctx context.Context, username string) (*models.User, error)

	Close() error
}

// Document is one raw row or document as returned by a backend.
type Document map[string]any

// documentStore is implemented by backends that hand out untyped documents.
type documentStore interface {
	query(ctx context.Context, entity models.Entity, conds []access.Condition) ([]Document, error)
	findUser(ctx context.Context, username string) (Document, error)
	Close() error
}

// documentSource decodes the documents of a documentStore into models.
// Timestamps stored without an offset are read in loc.
type documentSource struct {
	store documentStore
	loc   *time.Location
}

func fetchAs[T any](ctx context.Context, s documentStore, entity models.Entity, scope access.Scope, decode func(Document) T) ([]T, error) {
	docs, err := s.query(ctx, entity, scope.Conditions(entity))
	if err != nil {
		return nil, &FetchError{Entity: entity, Cause: err}
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, decode(d))
	}
	return out, nil
}

func (s documentSource) TollRecords(ctx context.Context, scope access.Scope) ([]models.TollRecord, error) {
	return fetchAs(ctx, s.store, models.EntityTollRecords, scope, func(d Document) models.TollRecord {
		return decodeTollRecord(d, s.loc)
	})
}

func (s documentSource) Companies(ctx context.Context, scope access.Scope) ([]models.Company, error) {
	return fetchAs(ctx, s.store, models.EntityCompanies, scope, decodeCompany)
}

func (s documentSource) Stations(ctx context.Context, scope access.Scope) ([]models.Station, error) {
	return fetchAs(ctx, s.store, models.EntityStations, scope, decodeStation)
}

func (s documentSource) Groups(ctx context.Context, scope access.Scope) ([]models.Unit, error) {
	return fetchAs(ctx, s.store, models.EntityGroups, scope, decodeUnit)
}

func (s documentSource) Collectors(ctx context.Context, scope access.Scope) ([]models.Unit, error) {
	return fetchAs(ctx, s.store, models.EntityCollectors, scope, decodeUnit)
}

func (s documentSource) Monitors(ctx context.Context, scope access.Scope) ([]models.Unit, error) {
	return fetchAs(ctx, s.store, models.EntityMonitors, scope, decodeUnit)
}

func (s documentSource) Shifts(ctx context.Context, scope access.Scope) ([]models.Shift, error) {
	return fetchAs(ctx, s.store, models.EntityShifts, scope, decodeShift)
}

func (s documentSource) AdminUsers(ctx context.Context, scope access.Scope) ([]models.User, error) {
	return fetchAs(ctx, s.store, models.EntityAdminUsers, scope, decodeUser)
}

func (s documentSource) Authenticate(ctx context.Context, username string) (*models.User, error) {
	doc, err := s.store.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	user := decodeUser(doc)
	return &user, nil
}

func (s documentSource) Close() error { return s.store.Close() }
