package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"roster-data/internal/domain"
	"roster-data/internal/repository"
	"roster-data/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrGuestExists        = errors.New("guest already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccessRevoked      = errors.New("access revoked")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrPageRegression     = errors.New("page below current page")
	ErrPageLimit          = errors.New("page limit reached")
)

// GuestPage is one successfully served roster page for a guest.
type GuestPage struct {
	Profiles       []*domain.Profile `json:"profiles"`
	Total          int               `json:"total"`
	Page           int               `json:"page"`
	MaxPageReached int               `json:"maxPageReached"`
	PageLimit      int               `json:"pageLimit"`
}

// GuestService enforces the guest page window and revocation rules. Issued
// tokens are JWTs recorded in the KV store with the session TTL, so admin
// revocation kills live sessions immediately; nothing rotates in shared
// process state.
type GuestService struct {
	guests    repository.GuestsRepo
	profiles  repository.ProfilesRepo
	kv        store.KV
	jwtSecret []byte
	ttl       time.Duration
	pageLimit int
	pageSize  int
	logger    *zap.Logger
}

func NewGuestService(guests repository.GuestsRepo, profiles repository.ProfilesRepo, kv store.KV, jwtSecret string, ttl time.Duration, pageLimit, pageSize int, logger *zap.Logger) *GuestService {
	return &GuestService{
		guests:    guests,
		profiles:  profiles,
		kv:        kv,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		pageLimit: pageLimit,
		pageSize:  pageSize,
		logger:    logger,
	}
}

func tokenKey(email, sessionID string) string {
	return "guest:token:" + email + ":" + sessionID
}

// CreateGuest provisions a new guest account starting at page 1.
func (s *GuestService) CreateGuest(ctx context.Context, email, password string) (*domain.GuestUser, error) {
	if _, err := s.guests.GetByEmail(ctx, email); err == nil {
		return nil, ErrGuestExists
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	g := &domain.GuestUser{
		Email:          email,
		Password:       password,
		CurrentPage:    1,
		MaxPageReached: 1,
	}
	if err := s.guests.Create(ctx, g); err != nil {
		return nil, err
	}
	return s.guests.GetByEmail(ctx, email)
}

// Login verifies credentials, refuses revoked guests, and opens a session.
func (s *GuestService) Login(ctx context.Context, email, password string) (string, *domain.GuestUser, error) {
	g, err := s.guests.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if g.Password != password {
		return "", nil, ErrInvalidCredentials
	}
	if g.AccessRevoked {
		return "", nil, ErrAccessRevoked
	}

	now := time.Now().UTC()
	sessionID := uuid.NewString()

	claims := jwt.MapClaims{
		"sub": g.Email,
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign guest token: %w", err)
	}

	if err := s.kv.Set(ctx, tokenKey(g.Email, sessionID), strconv.FormatInt(now.Unix(), 10), s.ttl); err != nil {
		return "", nil, fmt.Errorf("record guest session: %w", err)
	}

	if err := s.guests.StartSession(ctx, g.Email, domain.GuestSession{SessionID: sessionID, LoginAt: now}); err != nil {
		return "", nil, err
	}
	if err := s.guests.AppendActivity(ctx, g.Email, domain.ActivityEntry{Action: domain.ActivityLogin, Timestamp: now}); err != nil {
		return "", nil, err
	}

	g, err = s.guests.GetByEmail(ctx, g.Email)
	if err != nil {
		return "", nil, err
	}
	return token, g, nil
}

// ValidateToken checks the JWT signature and that the session record still
// exists in the KV store.
func (s *GuestService) ValidateToken(ctx context.Context, token string) (email, sessionID string, err error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	email, _ = claims["sub"].(string)
	sessionID, _ = claims["sid"].(string)
	if email == "" || sessionID == "" {
		return "", "", ErrInvalidToken
	}

	if _, err := s.kv.Get(ctx, tokenKey(email, sessionID)); err != nil {
		return "", "", ErrInvalidToken
	}
	return email, sessionID, nil
}

func (s *GuestService) Logout(ctx context.Context, email, sessionID string) error {
	now := time.Now().UTC()
	if err := s.kv.Del(ctx, tokenKey(email, sessionID)); err != nil {
		s.logger.Warn("guest token delete failed", zap.Error(err))
	}
	if err := s.guests.CloseSession(ctx, email, sessionID, now); err != nil && err != repository.ErrNotFound {
		return err
	}
	return s.guests.AppendActivity(ctx, email, domain.ActivityEntry{Action: domain.ActivityLogout, Timestamp: now})
}

// GetPage serves one roster page inside the guest window. Requests below
// currentPage and requests beyond the ceiling once maxPageReached hit it are
// rejected and logged; requesting the current page again changes nothing.
func (s *GuestService) GetPage(ctx context.Context, email string, page int) (*GuestPage, error) {
	g, err := s.guests.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if g.AccessRevoked {
		return nil, ErrAccessRevoked
	}

	now := time.Now().UTC()

	if page < g.CurrentPage {
		if err := s.guests.AppendActivity(ctx, email, domain.ActivityEntry{
			Action:    domain.ActivityPrevPageAttempt,
			Detail:    fmt.Sprintf("requested page %d while on page %d", page, g.CurrentPage),
			Timestamp: now,
		}); err != nil {
			return nil, err
		}
		return nil, ErrPageRegression
	}

	if page > s.pageLimit && g.MaxPageReached >= s.pageLimit {
		if err := s.guests.AppendActivity(ctx, email, domain.ActivityEntry{
			Action:    domain.ActivityExceedLimitAttempt,
			Detail:    fmt.Sprintf("requested page %d beyond limit %d", page, s.pageLimit),
			Timestamp: now,
		}); err != nil {
			return nil, err
		}
		return nil, ErrPageLimit
	}

	g, err = s.guests.SetPage(ctx, email, page, domain.ActivityEntry{
		Action:    domain.ActivityPageView,
		Detail:    fmt.Sprintf("page %d", page),
		Timestamp: now,
	})
	if err == repository.ErrNotFound {
		// a concurrent request advanced past this page between the read and
		// the conditional update
		return nil, ErrPageRegression
	}
	if err != nil {
		return nil, err
	}

	profiles, total, err := s.profiles.ListCurrent(ctx, repository.ProfileFilters{}, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	return &GuestPage{
		Profiles:       profiles,
		Total:          total,
		Page:           g.CurrentPage,
		MaxPageReached: g.MaxPageReached,
		PageLimit:      s.pageLimit,
	}, nil
}

// Revoke flips the guest to revoked and kills every live session token.
func (s *GuestService) Revoke(ctx context.Context, email string) error {
	now := time.Now().UTC()
	err := s.guests.SetRevoked(ctx, email, true, &now, domain.ActivityEntry{
		Action:    domain.ActivityRevoked,
		Timestamp: now,
	})
	if err != nil {
		return err
	}

	keys, err := s.kv.ScanKeys(ctx, "guest:token:"+email+":*")
	if err != nil {
		s.logger.Warn("guest token scan failed during revoke", zap.Error(err))
		return nil
	}
	if err := s.kv.Del(ctx, keys...); err != nil {
		s.logger.Warn("guest token delete failed during revoke", zap.Error(err))
	}
	return nil
}

// ResetRevocation is the admin path back to active.
func (s *GuestService) ResetRevocation(ctx context.Context, email string) error {
	return s.guests.SetRevoked(ctx, email, false, nil, domain.ActivityEntry{
		Action:    domain.ActivityRevocationReset,
		Timestamp: time.Now().UTC(),
	})
}

// ResetPages is the admin reset of the page window back to 1.
func (s *GuestService) ResetPages(ctx context.Context, email string) error {
	return s.guests.ResetPages(ctx, email, domain.ActivityEntry{
		Action:    domain.ActivityPagesReset,
		Timestamp: time.Now().UTC(),
	})
}

func (s *GuestService) TrackPageVisit(ctx context.Context, email, page string) error {
	return s.guests.AppendPageVisit(ctx, email, domain.PageVisit{Page: page, Timestamp: time.Now().UTC()})
}

func (s *GuestService) TrackSearch(ctx context.Context, email, query string) error {
	return s.guests.AppendSearch(ctx, email, domain.SearchEvent{Query: query, Timestamp: time.Now().UTC()})
}

func (s *GuestService) TrackCopy(ctx context.Context, email, content string) error {
	return s.guests.AppendCopyAction(ctx, email, domain.CopyAction{Content: content, Timestamp: time.Now().UTC()})
}
