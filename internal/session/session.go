// Package session keeps the shopper's bearer token and cached profile.
package session

import (
	"encoding/json"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Storage keys, shared with the web storefront.
const (
	TokenKey = "accessToken"
	UserKey  = "currentUser"
)

// User is the cached profile shown in the navigation bar.
type User struct {
	ID      int     `json:"id,omitempty"`
	Name    string  `json:"name"`
	Email   string  `json:"email,omitempty"`
	Country string  `json:"country,omitempty"`
	Gender  string  `json:"gender,omitempty"`
	Image   *string `json:"image,omitempty"`
}

type Session struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger}
}

func (s *Session) Token() string {
	tok, _ := s.store.Get(TokenKey)
	return tok
}

func (s *Session) SetToken(token string) error {
	return s.store.Set(TokenKey, token)
}

// User returns the cached profile, or nil when none is stored or it cannot
// be decoded.
func (s *Session) User() *User {
	raw, ok := s.store.Get(UserKey)
	if !ok || raw == "" {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.logger.Warn("discarding unreadable cached user", zap.Error(err))
		return nil
	}
	return &u
}

func (s *Session) SetUser(u User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.store.Set(UserKey, string(b))
}

// Save stores a fresh login: the bearer token and the profile that came with it.
func (s *Session) Save(token string, u User) error {
	if err := s.SetToken(token); err != nil {
		return err
	}
	return s.SetUser(u)
}

// Clear removes both the token and the cached profile.
func (s *Session) Clear() error {
	if err := s.store.Remove(TokenKey); err != nil {
		return err
	}
	return s.store.Remove(UserKey)
}

func (s *Session) IsLoggedIn() bool {
	return s.Token() != ""
}

// CurrentUser returns the cached profile and falls back to the claims of the
// bearer token. The token signature is not verified; that is the backend's
// job.
func (s *Session) CurrentUser() *User {
	if u := s.User(); u != nil {
		return u
	}
	token := s.Token()
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		s.logger.Warn("error decoding token", zap.Error(err))
		return nil
	}
	return userFromClaims(claims)
}

func userFromClaims(claims jwt.MapClaims) *User {
	u := &User{}
	if v, ok := claims["name"].(string); ok {
		u.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		u.Email = v
	} else if v, ok := claims["sub"].(string); ok {
		u.Email = v
	}
	if v, ok := claims["image"].(string); ok && v != "" {
		u.Image = &v
	}
	switch v := claims["user_id"].(type) {
	case float64:
		u.ID = int(v)
	case string:
		if id, err := strconv.Atoi(v); err == nil {
			u.ID = id
		}
	}
	return u
}
