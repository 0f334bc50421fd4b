package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChangeRecord is one profile that appeared in (added) or vanished from
// (removed) the roster between the last two snapshots. Details is keyed by
// spreadsheet column name, the shape the dashboard tables consume directly.
type ChangeRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RegCode  string             `bson:"reg_code" json:"regCode"`
	Name     string             `bson:"name" json:"name"`
	Details  map[string]string  `bson:"details" json:"details"`
	LoggedAt time.Time          `bson:"logged_at" json:"loggedAt"`
}

// FieldChange is one field's old/new value pair.
type FieldChange struct {
	OldValue string `bson:"old_value" json:"oldValue"`
	NewValue string `bson:"new_value" json:"newValue"`
}

// UpdatedProfile records every field that differs for a regCode present in
// both snapshots. Changes is keyed by FieldName; the API renders it keyed by
// column name (see ColumnChanges).
type UpdatedProfile struct {
	ID       primitive.ObjectID        `bson:"_id,omitempty" json:"-"`
	RegCode  string                    `bson:"reg_code" json:"regCode"`
	Name     string                    `bson:"name" json:"name"`
	Changes  map[FieldName]FieldChange `bson:"changes" json:"-"`
	LoggedAt time.Time                 `bson:"logged_at" json:"loggedAt"`
}

// ColumnChanges re-keys Changes by spreadsheet column name for API output.
func (u *UpdatedProfile) ColumnChanges() map[string]FieldChange {
	out := make(map[string]FieldChange, len(u.Changes))
	for f, c := range u.Changes {
		out[f.Column()] = c
	}
	return out
}

// StatusTransition is one agentAttorney change that counts as a meaningful
// status change for the insights dashboard.
type StatusTransition struct {
	From string
	To   string
}

// DefaultStatusTransitions are the only transitions counted by default.
// Kept as data so deployments can extend the list without a code change.
var DefaultStatusTransitions = []StatusTransition{
	{From: "AGENT", To: "ATTORNEY"},
	{From: "LIMITED RECOGNITION", To: "AGENT"},
}
