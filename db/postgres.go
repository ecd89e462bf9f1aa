package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"tolldesk/access"
	"tolldesk/models"
)

// Identifier and numeric columns are cast to text so every backend hands the
// decoder the same shapes.
var columns = map[models.Entity]string{
	models.EntityTollRecords: "id::text AS id, plate_number, company_id::text AS company_id, station_id::text AS station_id, amount::text AS amount, is_free, created_at",
	models.EntityCompanies:   "id::text AS id, name",
	models.EntityStations:    "id::text AS id, name, company_id::text AS company_id",
	models.EntityGroups:      "id::text AS id, name, company_id::text AS company_id, station_id::text AS station_id",
	models.EntityCollectors:  "id::text AS id, name, company_id::text AS company_id, station_id::text AS station_id",
	models.EntityMonitors:    "id::text AS id, name, company_id::text AS company_id, station_id::text AS station_id",
	models.EntityShifts:      "id::text AS id, name, company_id::text AS company_id, station_id::text AS station_id, group_id::text AS group_id, start_time::text AS start_time, end_time::text AS end_time",
	models.EntityAdminUsers:  "id::text AS id, username, password, role, company_id::text AS company_id, station_id::text AS station_id",
}

// PostgresDB reads the dashboard tables of a PostgreSQL database.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// NewPostgresDB opens a pool and checks connectivity.
func NewPostgresDB(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}

	log.Info().Msg("✅ Connected to PostgreSQL")

	return &PostgresDB{pool: pool}, nil
}

// Source exposes the tables through the Source contract. Timestamps
// stored without an offset are read in loc.
func (db *PostgresDB) Source(loc *time.Location) Source {
	return documentSource{store: db, loc: loc}
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// selectSQL builds the scoped, ordered query for one table. Table and column
// names come from closed sets; only condition values are parameters.
func selectSQL(entity models.Entity, conds []access.Condition) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", columns[entity], entity)

	args := make([]any, 0, len(conds))
	for i, c := range conds {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, c.Value.String())
		fmt.Fprintf(&b, "%s::text = $%d", c.Field, len(args))
	}

	field, desc := entity.DefaultOrder()
	fmt.Fprintf(&b, " ORDER BY %s", field)
	if desc {
		b.WriteString(" DESC")
	}
	return b.String(), args
}

func (db *PostgresDB) query(ctx context.Context, entity models.Entity, conds []access.Condition) ([]Document, error) {
	sql, args := selectSQL(entity, conds)
	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", entity, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", entity, err)
	}

	docs := make([]Document, len(maps))
	for i, m := range maps {
		docs[i] = Document(m)
	}
	return docs, nil
}

func (db *PostgresDB) findUser(ctx context.Context, username string) (Document, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE username = $1 LIMIT 1", columns[models.EntityAdminUsers], models.EntityAdminUsers)
	rows, err := db.pool.Query(ctx, sql, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(maps) == 0 {
		return nil, ErrNotFound
	}
	return Document(maps[0]), nil
}
