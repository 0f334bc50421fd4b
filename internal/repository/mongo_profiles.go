package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"roster-data/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProfilesRepo stores the roster snapshots in three collections:
// current, previous, and a staging collection that exists only while an
// ingestion is promoting.
type MongoProfilesRepo struct {
	db *mongo.Database
}

func NewMongoProfilesRepo(db *mongo.Database) *MongoProfilesRepo {
	return &MongoProfilesRepo{db: db}
}

func (r *MongoProfilesRepo) current() *mongo.Collection {
	return r.db.Collection(CollCurrentProfiles)
}

func (r *MongoProfilesRepo) staging() *mongo.Collection {
	return r.db.Collection(CollStagingProfiles)
}

func (r *MongoProfilesRepo) ListCurrent(ctx context.Context, filters ProfileFilters, page, size int) ([]*domain.Profile, int, error) {
	filter := bson.M{}
	if filters.Letter != "" {
		filter["name"] = bson.M{"$regex": "^" + regexp.QuoteMeta(filters.Letter), "$options": "i"}
	}

	total, err := r.current().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))

	cur, err := r.current().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode profiles: %w", err)
	}
	return out, int(total), nil
}

func (r *MongoProfilesRepo) AllCurrent(ctx context.Context) ([]*domain.Profile, error) {
	cur, err := r.current().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load current snapshot: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode current snapshot: %w", err)
	}
	return out, nil
}

func (r *MongoProfilesRepo) GetCurrent(ctx context.Context, regCode string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.current().FindOne(ctx, bson.M{"reg_code": domain.CanonicalRegCode(regCode)}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *MongoProfilesRepo) CountCurrent(ctx context.Context) (int, error) {
	n, err := r.current().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return int(n), nil
}

func (r *MongoProfilesRepo) Search(ctx context.Context, matches []FieldMatch, limit int) ([]*domain.Profile, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	ors := make([]bson.M, 0, len(matches))
	for _, m := range matches {
		pattern := regexp.QuoteMeta(m.Text)
		switch {
		case m.Exact:
			pattern = "^" + pattern + "$"
		case m.Prefix:
			pattern = "^" + pattern
		}
		ors = append(ors, bson.M{string(m.Field): bson.M{"$regex": pattern, "$options": "i"}})
	}

	opts := options.Find().SetLimit(int64(limit))
	cur, err := r.current().Find(ctx, bson.M{"$or": ors}, opts)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return out, nil
}

func (r *MongoProfilesRepo) UpdateCurrent(ctx context.Context, regCode string, fields map[domain.FieldName]string) (*domain.Profile, error) {
	set := bson.M{}
	for f, v := range fields {
		if f == domain.FieldRegCode {
			// the business key is immutable through the live-sheet path
			continue
		}
		set[string(f)] = v
	}
	if len(set) == 0 {
		return r.GetCurrent(ctx, regCode)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p domain.Profile
	err := r.current().FindOneAndUpdate(ctx,
		bson.M{"reg_code": domain.CanonicalRegCode(regCode)},
		bson.M{"$set": set},
		opts,
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &p, nil
}

func (r *MongoProfilesRepo) LoadStaging(ctx context.Context, rows []*domain.Profile) error {
	if err := r.staging().Drop(ctx); err != nil {
		return fmt.Errorf("drop staging: %w", err)
	}
	docs := make([]interface{}, 0, len(rows))
	for _, p := range rows {
		docs = append(docs, p)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := r.staging().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("load staging: %w", err)
	}
	return nil
}

// PromoteStaging rotates the snapshot pair with two collection renames:
// current -> old (dropping the previous old), then staging -> current. Each
// rename is atomic on the server, so the live collection is never observed
// empty mid-ingestion.
func (r *MongoProfilesRepo) PromoteStaging(ctx context.Context) error {
	dbName := r.db.Name()
	admin := r.db.Client().Database("admin")

	err := admin.RunCommand(ctx, bson.D{
		{Key: "renameCollection", Value: dbName + "." + CollCurrentProfiles},
		{Key: "to", Value: dbName + "." + CollOldProfiles},
		{Key: "dropTarget", Value: true},
	}).Err()
	if err != nil && !isNamespaceNotFound(err) {
		return fmt.Errorf("archive current snapshot: %w", err)
	}

	err = admin.RunCommand(ctx, bson.D{
		{Key: "renameCollection", Value: dbName + "." + CollStagingProfiles},
		{Key: "to", Value: dbName + "." + CollCurrentProfiles},
		{Key: "dropTarget", Value: true},
	}).Err()
	if err != nil {
		return fmt.Errorf("promote staging snapshot: %w", err)
	}
	return nil
}

// isNamespaceNotFound: the very first ingestion has no current collection to
// archive; that rename failing is expected, not an error.
func isNamespaceNotFound(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 26 || cmdErr.Name == "NamespaceNotFound"
	}
	return false
}
