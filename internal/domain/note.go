package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a free-standing user annotation with its own lifecycle, created and
// edited directly by its owner or an admin.
type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
