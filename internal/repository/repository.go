package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotFound is returned by every repository when no document matches.
var ErrNotFound = errors.New("not found")

// Collection names. The snapshot/ledger names follow the historical data
// layout so existing dashboards and exports keep working against the same
// database.
const (
	CollCurrentProfiles = "NewProfile"
	CollOldProfiles     = "OldProfile"
	CollStagingProfiles = "NewProfileStaging"
	CollAddedProfiles   = "NewProfilesComparison"
	CollRemovedProfiles = "RemovedProfilesComparison"
	CollUpdatedProfiles = "UpdatedProfilesComparison"
	CollGuestUsers      = "guestusers"
	CollNotes           = "notes"
)

// Connect opens a MongoDB client and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
