package repository

import (
	"context"
	"fmt"

	"roster-data/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoLedgerRepo struct {
	db *mongo.Database
}

func NewMongoLedgerRepo(db *mongo.Database) *MongoLedgerRepo {
	return &MongoLedgerRepo{db: db}
}

func (r *MongoLedgerRepo) added() *mongo.Collection   { return r.db.Collection(CollAddedProfiles) }
func (r *MongoLedgerRepo) removed() *mongo.Collection { return r.db.Collection(CollRemovedProfiles) }
func (r *MongoLedgerRepo) updated() *mongo.Collection { return r.db.Collection(CollUpdatedProfiles) }

// ReplaceDelta swaps the whole ledger for the delta of the latest ingestion.
// The ledger always describes exactly one snapshot pair, so the previous
// contents are cleared rather than merged.
func (r *MongoLedgerRepo) ReplaceDelta(ctx context.Context, added, removed []*domain.ChangeRecord, updated []*domain.UpdatedProfile) error {
	if _, err := r.added().DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear added ledger: %w", err)
	}
	if _, err := r.removed().DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear removed ledger: %w", err)
	}
	if _, err := r.updated().DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear updated ledger: %w", err)
	}

	if len(added) > 0 {
		docs := make([]interface{}, 0, len(added))
		for _, c := range added {
			docs = append(docs, c)
		}
		if _, err := r.added().InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("write added ledger: %w", err)
		}
	}
	if len(removed) > 0 {
		docs := make([]interface{}, 0, len(removed))
		for _, c := range removed {
			docs = append(docs, c)
		}
		if _, err := r.removed().InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("write removed ledger: %w", err)
		}
	}
	if len(updated) > 0 {
		docs := make([]interface{}, 0, len(updated))
		for _, u := range updated {
			docs = append(docs, u)
		}
		if _, err := r.updated().InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("write updated ledger: %w", err)
		}
	}
	return nil
}

func (r *MongoLedgerRepo) ListAdded(ctx context.Context) ([]*domain.ChangeRecord, error) {
	return r.listChanges(ctx, r.added())
}

func (r *MongoLedgerRepo) ListRemoved(ctx context.Context) ([]*domain.ChangeRecord, error) {
	return r.listChanges(ctx, r.removed())
}

func (r *MongoLedgerRepo) listChanges(ctx context.Context, coll *mongo.Collection) ([]*domain.ChangeRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reg_code", Value: 1}})
	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list change records: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.ChangeRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode change records: %w", err)
	}
	return out, nil
}

func (r *MongoLedgerRepo) ListUpdated(ctx context.Context) ([]*domain.UpdatedProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reg_code", Value: 1}})
	cur, err := r.updated().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list updated profiles: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.UpdatedProfile
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode updated profiles: %w", err)
	}
	return out, nil
}

func (r *MongoLedgerRepo) GetUpdated(ctx context.Context, regCode string) (*domain.UpdatedProfile, error) {
	var u domain.UpdatedProfile
	err := r.updated().FindOne(ctx, bson.M{"reg_code": domain.CanonicalRegCode(regCode)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get updated profile: %w", err)
	}
	return &u, nil
}

func (r *MongoLedgerRepo) UpdatedRegCodes(ctx context.Context) (map[string]bool, error) {
	vals, err := r.updated().Distinct(ctx, "reg_code", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct updated reg codes: %w", err)
	}
	out := make(map[string]bool, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out[s] = true
		}
	}
	return out, nil
}
