package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"tolldesk/auth"
	"tolldesk/config"
	"tolldesk/db"
	"tolldesk/logger"
	"tolldesk/models"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.Logging)
	if cfg.Data.FirebaseProjectID == "" {
		log.Fatal().Msg("FIREBASE_PROJECT_ID is required for seeding")
	}

	ctx := context.Background()
	firestoreDB, err := db.NewFirestoreDB(ctx, cfg.Data.FirebaseProjectID, cfg.Data.FirebaseCredentialsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Firestore")
	}
	defer firestoreDB.Close()

	log.Info().Msg("🌱 Starting database seeding...")

	data := db.DemoDataset(time.Now().In(cfg.Dashboard.Location))

	if err := seedOrganisation(ctx, firestoreDB, data); err != nil {
		log.Fatal().Err(err).Msg("failed to seed organisation")
	}
	if err := seedUsers(ctx, firestoreDB, data.Users); err != nil {
		log.Fatal().Err(err).Msg("failed to seed users")
	}
	if err := seedRecords(ctx, firestoreDB, data.Records); err != nil {
		log.Fatal().Err(err).Msg("failed to seed toll records")
	}

	log.Info().Msg("✅ Database seeding completed successfully!")
}

func seedOrganisation(ctx context.Context, fs *db.FirestoreDB, data db.Dataset) error {
	for _, c := range data.Companies {
		if err := fs.Put(ctx, models.EntityCompanies, c.ID, map[string]any{"name": c.Name}); err != nil {
			return err
		}
		log.Info().Str("name", c.Name).Msg("  ✓ Created company")
	}

	for _, s := range data.Stations {
		doc := map[string]any{"name": s.Name, "company_id": s.CompanyID.String()}
		if err := fs.Put(ctx, models.EntityStations, s.ID, doc); err != nil {
			return err
		}
		log.Info().Str("name", s.Name).Msg("  ✓ Created station")
	}

	units := map[models.Entity][]models.Unit{
		models.EntityGroups:     data.Groups,
		models.EntityCollectors: data.Collectors,
		models.EntityMonitors:   data.Monitors,
	}
	for entity, items := range units {
		for _, u := range items {
			doc := map[string]any{
				"name":       u.Name,
				"company_id": u.CompanyID.String(),
				"station_id": u.StationID.String(),
			}
			if err := fs.Put(ctx, entity, u.ID, doc); err != nil {
				return err
			}
		}
		log.Info().Str("entity", string(entity)).Int("count", len(items)).Msg("  ✓ Created units")
	}

	for _, s := range data.Shifts {
		doc := map[string]any{
			"name":       s.Name,
			"company_id": s.CompanyID.String(),
			"station_id": s.StationID.String(),
			"group_id":   s.GroupID.String(),
			"start_time": s.StartTime,
			"end_time":   s.EndTime,
		}
		if err := fs.Put(ctx, models.EntityShifts, s.ID, doc); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(data.Shifts)).Msg("  ✓ Created shifts")

	return nil
}

func seedUsers(ctx context.Context, fs *db.FirestoreDB, users []models.User) error {
	for _, u := range users {
		// Hash and store password
		passwordHash, err := auth.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}

		doc := map[string]any{
			"username": u.Username,
			"password": passwordHash,
			"role":     string(u.Role),
		}
		if !u.CompanyID.IsZero() {
			doc["company_id"] = u.CompanyID.String()
		}
		if !u.StationID.IsZero() {
			doc["station_id"] = u.StationID.String()
		}
		if err := fs.Put(ctx, models.EntityAdminUsers, u.ID, doc); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}

		log.Info().Str("user", u.Username).Str("role", string(u.Role)).Msg("  ✓ Created user")
	}
	return nil
}

func seedRecords(ctx context.Context, fs *db.FirestoreDB, records []models.TollRecord) error {
	for _, r := range records {
		doc := map[string]any{
			"plate_number": r.PlateNumber,
			"company_id":   r.CompanyID.String(),
			"station_id":   r.StationID.String(),
			"is_free":      r.IsFree,
			"created_at":   r.CreatedAt,
		}
		if r.Amount.Valid {
			doc["amount"] = r.Amount.Decimal.InexactFloat64()
		}
		if err := fs.Put(ctx, models.EntityTollRecords, r.ID, doc); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(records)).Msg("  ✓ Created toll records")
	return nil
}
