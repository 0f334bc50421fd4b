package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roster-data/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGuestsRepo struct {
	db *mongo.Database
}

func NewMongoGuestsRepo(db *mongo.Database) *MongoGuestsRepo {
	return &MongoGuestsRepo{db: db}
}

func (r *MongoGuestsRepo) coll() *mongo.Collection { return r.db.Collection(CollGuestUsers) }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MongoGuestsRepo) GetByEmail(ctx context.Context, email string) (*domain.GuestUser, error) {
	var g domain.GuestUser
	err := r.coll().FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return &g, nil
}

func (r *MongoGuestsRepo) Create(ctx context.Context, g *domain.GuestUser) error {
	g.Email = normalizeEmail(g.Email)
	if _, err := r.coll().InsertOne(ctx, g); err != nil {
		return fmt.Errorf("create guest: %w", err)
	}
	return nil
}

func (r *MongoGuestsRepo) AppendActivity(ctx context.Context, email string, e domain.ActivityEntry) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"email": normalizeEmail(email)},
		bson.M{"$push": bson.M{"activity_log": e}},
	)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPage is a single conditional document update: the page moves forward
// only while no concurrent request has already moved past it.
func (r *MongoGuestsRepo) SetPage(ctx context.Context, email string, page int, e domain.ActivityEntry) (*domain.GuestUser, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g domain.GuestUser
	err := r.coll().FindOneAndUpdate(ctx,
		bson.M{"email": normalizeEmail(email), "current_page": bson.M{"$lte": page}},
		bson.M{
			"$set":  bson.M{"current_page": page},
			"$max":  bson.M{"max_page_reached": page},
			"$push": bson.M{"activity_log": e},
		},
		opts,
	).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set guest page: %w", err)
	}
	return &g, nil
}

func (r *MongoGuestsRepo) ResetPages(ctx context.Context, email string, e domain.ActivityEntry) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"email": normalizeEmail(email)},
		bson.M{
			"$set":  bson.M{"current_page": 1, "max_page_reached": 1},
			"$push": bson.M{"activity_log": e},
		},
	)
	if err != nil {
		return fmt.Errorf("reset guest pages: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoGuestsRepo) SetRevoked(ctx context.Context, email string, revoked bool, at *time.Time, e domain.ActivityEntry) error {
	update := bson.M{
		"$set":  bson.M{"access_revoked": revoked},
		"$push": bson.M{"activity_log": e},
	}
	if at != nil {
		update["$set"].(bson.M)["revoked_at"] = *at
	} else {
		update["$unset"] = bson.M{"revoked_at": ""}
	}

	res, err := r.coll().UpdateOne(ctx, bson.M{"email": normalizeEmail(email)}, update)
	if err != nil {
		return fmt.Errorf("set guest revocation: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoGuestsRepo) StartSession(ctx context.Context, email string, s domain.GuestSession) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"email": normalizeEmail(email)},
		bson.M{"$push": bson.M{"session_data": s}},
	)
	if err != nil {
		return fmt.Errorf("start guest session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoGuestsRepo) CloseSession(ctx context.Context, email, sessionID string, at time.Time) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"email": normalizeEmail(email), "session_data.session_id": sessionID},
		bson.M{"$set": bson.M{"session_data.$.logout_at": at}},
	)
	if err != nil {
		return fmt.Errorf("close guest session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoGuestsRepo) AppendPageVisit(ctx context.Context, email string, v domain.PageVisit) error {
	return r.push(ctx, email, "page_visits", v)
}

func (r *MongoGuestsRepo) AppendSearch(ctx context.Context, email string, s domain.SearchEvent) error {
	return r.push(ctx, email, "searches", s)
}

func (r *MongoGuestsRepo) AppendCopyAction(ctx context.Context, email string, c domain.CopyAction) error {
	return r.push(ctx, email, "copy_actions", c)
}

func (r *MongoGuestsRepo) push(ctx context.Context, email, field string, v any) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"email": normalizeEmail(email)},
		bson.M{"$push": bson.M{field: v}},
	)
	if err != nil {
		return fmt.Errorf("append %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
