package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Guest activity event types. Every state transition appends one of these to
// the guest's activity log; the log itself is append-only.
const (
	ActivityLogin              = "login"
	ActivityLogout             = "logout"
	ActivityPageView           = "page_view"
	ActivityPrevPageAttempt    = "attempted_previous_page"
	ActivityExceedLimitAttempt = "attempted_exceed_page_limit"
	ActivityRevoked            = "access_revoked"
	ActivityRevocationReset    = "revocation_reset"
	ActivityPagesReset         = "pages_reset"
)

// ActivityEntry is one immutable entry of a guest's activity log.
type ActivityEntry struct {
	Action    string    `bson:"action" json:"action"`
	Detail    string    `bson:"detail,omitempty" json:"detail,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// GuestSession covers one login/logout span.
type GuestSession struct {
	SessionID string    `bson:"session_id" json:"sessionId"`
	LoginAt   time.Time `bson:"login_at" json:"loginAt"`
	LogoutAt  time.Time `bson:"logout_at,omitempty" json:"logoutAt,omitempty"`
}

// PageVisit is one tracked frontend page view.
type PageVisit struct {
	Page      string    `bson:"page" json:"page"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// SearchEvent is one tracked guest search.
type SearchEvent struct {
	Query     string    `bson:"query" json:"query"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// CopyAction is one tracked copy-to-clipboard event.
type CopyAction struct {
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// GuestUser is a page-limited roster viewer. Invariants: CurrentPage never
// moves backwards within a session (lower requests are rejected and logged);
// MaxPageReached is monotone non-decreasing except on explicit admin reset.
type GuestUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"`
	AccessRevoked  bool               `bson:"access_revoked" json:"accessRevoked"`
	RevokedAt      *time.Time         `bson:"revoked_at,omitempty" json:"revokedAt,omitempty"`
	CurrentPage    int                `bson:"current_page" json:"currentPage"`
	MaxPageReached int                `bson:"max_page_reached" json:"maxPageReached"`
	ActivityLog    []ActivityEntry    `bson:"activity_log" json:"activityLog"`
	SessionData    []GuestSession     `bson:"session_data" json:"sessionData"`
	PageVisits     []PageVisit        `bson:"page_visits" json:"pageVisits"`
	Searches       []SearchEvent      `bson:"searches" json:"searches"`
	CopyActions    []CopyAction       `bson:"copy_actions" json:"copyActions"`
}
