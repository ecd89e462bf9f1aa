package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"tolldesk/access"
	"tolldesk/models"
)

// FirestoreDB wraps the Firestore client. Each entity is a top-level collection
// named after it; documents carry their id in an "id" field, falling back to the
// document id.
type FirestoreDB struct {
	client *firestore.Client
}

// NewFirestoreDB initializes a new Firestore client
func NewFirestoreDB(ctx context.Context, projectID, credentialsPath string) (*FirestoreDB, error) {
	opt := option.WithCredentialsFile(credentialsPath)

	config := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, config, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	log.Info().Str("project", projectID).Msg("✅ Connected to Firestore")

	return &FirestoreDB{client: client}, nil
}

// Source exposes the Firestore collections through the Source contract. Timestamps
// stored without an offset are read in loc.
func (db *FirestoreDB) Source(loc *time.Location) Source {
	return documentSource{store: db, loc: loc}
}

// Close closes the Firestore client
func (db *FirestoreDB) Close() error {
	return db.client.Close()
}

// idValues lists the stored forms an identifier may take. Legacy documents
// hold numeric ids, newer ones strings.
func idValues(id models.ID) []any {
	values := []any{id.String()}
	if n, ok := id.Int(); ok {
		values = append(values, n)
	}
	return values
}

func (db *FirestoreDB) query(ctx context.Context, entity models.Entity, conds []access.Condition) ([]Document, error) {
	q := db.client.Collection(string(entity)).Query
	for _, c := range conds {
		values := idValues(c.Value)
		if len(values) == 1 {
			q = q.Where(c.Field, "==", values[0])
		} else {
			q = q.Where(c.Field, "in", values)
		}
	}

	field, desc := entity.DefaultOrder()
	dir := firestore.Asc
	if desc {
		dir = firestore.Desc
	}
	q = q.OrderBy(field, dir)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s: %w", entity, err)
		}
		docs = append(docs, toDocument(doc))
	}

	return docs, nil
}

func (db *FirestoreDB) findUser(ctx context.Context, username string) (Document, error) {
	iter := db.client.Collection(string(models.EntityAdminUsers)).
		Where("username", "==", username).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDocument(doc), nil
}

// Put writes a document under the given collection and id, replacing any
// existing one. Used by the seeding script.
func (db *FirestoreDB) Put(ctx context.Context, entity models.Entity, id models.ID, data map[string]any) error {
	if _, ok := data["id"]; !ok {
		data["id"] = id.String()
	}
	_, err := db.client.Collection(string(entity)).Doc(id.String()).Set(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", entity, id, err)
	}
	return nil
}

func toDocument(snap *firestore.DocumentSnapshot) Document {
	d := Document(snap.Data())
	if d == nil {
		d = Document{}
	}
	if _, ok := d["id"]; !ok {
		d["id"] = snap.Ref.ID
	}
	return d
}
