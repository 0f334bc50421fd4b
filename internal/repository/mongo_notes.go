package repository

import (
	"context"
	"fmt"
	"time"

	"roster-data/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoNotesRepo struct {
	db *mongo.Database
}

func NewMongoNotesRepo(db *mongo.Database) *MongoNotesRepo {
	return &MongoNotesRepo{db: db}
}

func (r *MongoNotesRepo) coll() *mongo.Collection { return r.db.Collection(CollNotes) }

func (r *MongoNotesRepo) Create(ctx context.Context, n *domain.Note) (*domain.Note, error) {
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	res, err := r.coll().InsertOne(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return n, nil
}

func (r *MongoNotesRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Note
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}
	return out, nil
}

func (r *MongoNotesRepo) Get(ctx context.Context, id string) (*domain.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var n domain.Note
	err = r.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &n, nil
}

func (r *MongoNotesRepo) Update(ctx context.Context, id string, title, content string) (*domain.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n domain.Note
	err = r.coll().FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"title":      title,
			"content":    content,
			"updated_at": time.Now().UTC(),
		}},
		opts,
	).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return &n, nil
}

func (r *MongoNotesRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
