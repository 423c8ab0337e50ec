// Package session persists the authenticated session (bearer token plus
// cached user profile) and notifies subscribers of auth transitions.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/inertiafit/fitcli/internal/types"
)

// ErrNotLoggedIn is returned when an operation needs a session and none is
// stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Entry keys. The store holds exactly two persisted values, mirroring the
// token and user entries of the web client.
const (
	keyToken   = "token"
	keyProfile = "user"
)

// EventType identifies an auth-state transition.
type EventType string

const (
	EventLogin          EventType = "login"
	EventLogout         EventType = "logout"
	EventProfileUpdated EventType = "profile-updated"
)

// AuthEvent is delivered to every subscriber on a session transition.
type AuthEvent struct {
	Type    EventType
	Profile *types.UserProfile
}

type sessionEntry struct {
	Key       string `gorm:"primarykey"`
	Value     string
	UpdatedAt time.Time
}

func (sessionEntry) TableName() string { return "session_entries" }

// Store is the persisted session store. All methods are safe for
// concurrent use.
type Store struct {
	db  *gorm.DB
	log *logrus.Entry

	mu          sync.Mutex
	subscribers []chan AuthEvent
}

// Open opens (creating if needed) the session database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	if err := db.AutoMigrate(&sessionEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session store: %w", err)
	}

	return &Store{
		db:  db,
		log: logrus.WithField("component", "session"),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Subscribe returns a channel receiving auth transitions. Slow subscribers
// miss events rather than blocking the store.
func (s *Store) Subscribe() <-chan AuthEvent {
	ch := make(chan AuthEvent, 4)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify(ev AuthEvent) {
	s.mu.Lock()
	subs := make([]chan AuthEvent, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Store) set(key, value string) error {
	entry := sessionEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
}

func (s *Store) get(key string) (string, bool) {
	var entry sessionEntry
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		return "", false
	}
	return entry.Value, true
}

// SetSession stores the token and profile of a fresh login and notifies
// subscribers.
func (s *Store) SetSession(token string, profile types.UserProfile) error {
	if err := s.set(keyToken, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.storeProfile(profile); err != nil {
		return err
	}

	s.log.WithField("user", profile.Email).Debug("session stored")
	s.notify(AuthEvent{Type: EventLogin, Profile: &profile})
	return nil
}

// Token returns the stored bearer token.
func (s *Store) Token() (string, bool) {
	return s.get(keyToken)
}

// Profile returns the cached user profile.
func (s *Store) Profile() (types.UserProfile, bool) {
	raw, ok := s.get(keyProfile)
	if !ok {
		return types.UserProfile{}, false
	}
	var profile types.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.log.WithError(err).Warn("cached profile is corrupt, discarding")
		return types.UserProfile{}, false
	}
	return profile, true
}

// UpdateProfile refreshes the cached profile (after a profile edit or a
// remote refetch) and notifies subscribers.
func (s *Store) UpdateProfile(profile types.UserProfile) error {
	if _, ok := s.Token(); !ok {
		return ErrNotLoggedIn
	}
	if err := s.storeProfile(profile); err != nil {
		return err
	}
	s.notify(AuthEvent{Type: EventProfileUpdated, Profile: &profile})
	return nil
}

func (s *Store) storeProfile(profile types.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := s.set(keyProfile, string(raw)); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

// Clear removes the stored session. Subscribers are notified once per
// actual logout; clearing an already-empty store is a no-op.
func (s *Store) Clear() error {
	_, hadToken := s.Token()
	if err := s.db.Where("key IN ?", []string{keyToken, keyProfile}).Delete(&sessionEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if hadToken {
		s.log.Debug("session cleared")
		s.notify(AuthEvent{Type: EventLogout})
	}
	return nil
}

// TokenExpired reports whether the stored token carries an exp claim in the
// past. Tokens that are absent or unparseable are reported as not expired;
// the backend stays the authority and a 401 handles the rest.
func (s *Store) TokenExpired() bool {
	raw, ok := s.Token()
	if !ok {
		return false
	}
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
