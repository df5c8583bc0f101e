package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/cinedex/cinedex/internal/config"
	"github.com/cinedex/cinedex/internal/notification"
	"github.com/cinedex/cinedex/internal/storage"
)

const (
	// sessionKey is the fixed durable storage key for the signed-in user.
	sessionKey = "cinema_user"

	//nolint:gosec // variable name, not a credential
	jwtSecretKey = "session_jwt_secret"

	// TokenExpiry is how long a minted session token stays valid.
	TokenExpiry = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// User is the signed-in identity.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Claims is the JWT payload for a session token.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Notifier publishes user-facing notifications on session changes.
type Notifier interface {
	Publish(ctx context.Context, message string, typ notification.Type) notification.Entry
}

// Broadcaster pushes change events to connected view clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Service holds at most one signed-in user, persisted across restarts.
type Service struct {
	store     *storage.Store
	notifier  Notifier
	logger    zerolog.Logger
	jwtSecret []byte

	mu       sync.RWMutex
	user     *User
	watchers map[int]func()
	nextID   int

	broadcaster Broadcaster
}

// NewService creates the session service. The JWT secret comes from
// config when set, otherwise it is loaded from storage or generated
// and persisted on first run. A previously signed-in user is restored.
func NewService(store *storage.Store, cfg config.SessionConfig, notifier Notifier, logger zerolog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("session: nil storage store")
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		var err error
		secret, err = loadOrGenerateSecret(store)
		if err != nil {
			return nil, err
		}
	}

	s := &Service{
		store:     store,
		notifier:  notifier,
		logger:    logger.With().Str("component", "session").Logger(),
		jwtSecret: secret,
		watchers:  make(map[int]func()),
	}

	var user User
	err := store.GetJSON(context.Background(), sessionKey, &user)
	switch {
	case err == nil:
		s.user = &user
	case errors.Is(err, storage.ErrKeyNotFound):
		// No saved session.
	default:
		s.logger.Warn().Err(err).Msg("Failed to restore session, starting signed out")
	}

	return s, nil
}

func loadOrGenerateSecret(store *storage.Store) ([]byte, error) {
	ctx := context.Background()
	value, err := store.GetString(ctx, jwtSecretKey)

	switch {
	case err == nil && value != "":
		secret, decErr := hex.DecodeString(value)
		if decErr != nil {
			return nil, fmt.Errorf("failed to decode stored JWT secret: %w", decErr)
		}
		return secret, nil

	case errors.Is(err, storage.ErrKeyNotFound) || (err == nil && value == ""):
		secret := make([]byte, 32)
		if _, randErr := rand.Read(secret); randErr != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", randErr)
		}
		if setErr := store.SetString(ctx, jwtSecretKey, hex.EncodeToString(secret)); setErr != nil {
			return nil, fmt.Errorf("failed to persist JWT secret: %w", setErr)
		}
		return secret, nil

	default:
		return nil, fmt.Errorf("failed to load JWT secret: %w", err)
	}
}

// SetBroadcaster wires an event hub for change fan-out.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Login signs the user in, persists the session, and mints a token.
// Any identity is accepted; signing in over an existing session
// replaces it.
func (s *Service) Login(ctx context.Context, user User) (string, error) {
	s.mu.Lock()
	prev := s.user
	s.user = &user
	if err := s.store.SetJSON(ctx, sessionKey, user); err != nil {
		// Keep memory and durable state in step.
		s.user = prev
		s.mu.Unlock()
		return "", fmt.Errorf("failed to persist session: %w", err)
	}
	s.mu.Unlock()

	token, err := s.generateToken(user)
	if err != nil {
		return "", err
	}

	if s.notifier != nil {
		s.notifier.Publish(ctx, fmt.Sprintf("Welcome back, %s!", user.Name), notification.TypeSuccess)
	}
	s.notifyChanged()

	s.logger.Info().Str("name", user.Name).Msg("User signed in")
	return token, nil
}

// Logout signs the user out and clears the persisted session. Logging
// out while signed out is a no-op and publishes nothing.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return nil
	}
	prev := s.user
	s.user = nil
	if err := s.store.Delete(ctx, sessionKey); err != nil {
		// Put the session back; memory must not run ahead of the store.
		s.user = prev
		s.mu.Unlock()
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Publish(ctx, "You've been signed out safely.", notification.TypeInfo)
	}
	s.notifyChanged()

	s.logger.Info().Msg("User signed out")
	return nil
}

// CurrentUser returns the signed-in user, or nil when signed out.
func (s *Service) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// IsAuthenticated reports whether a user is signed in.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Subscribe registers a listener called after every session change.
// The returned function unsubscribes it.
func (s *Service) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Service) generateToken(user User) (string, error) {
	claims := &Claims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "cinedex",
			Subject:   user.Email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses and verifies a session token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *Service) notifyChanged() {
	s.mu.RLock()
	watchers := make([]func(), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range watchers {
		fn()
	}
	if s.broadcaster != nil {
		_ = s.broadcaster.Broadcast("session:changed", map[string]bool{"authenticated": s.IsAuthenticated()})
	}
}
