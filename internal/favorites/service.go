package favorites

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cinedex/cinedex/internal/catalog"
	"github.com/cinedex/cinedex/internal/notification"
	"github.com/cinedex/cinedex/internal/storage"
)

// favoritesKey is the fixed durable storage key for the favorites list.
const favoritesKey = "movie_favorites"

// Notifier publishes user-facing notifications on collection changes.
type Notifier interface {
	Publish(ctx context.Context, message string, typ notification.Type) notification.Entry
}

// Broadcaster pushes change events to connected view clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Service maintains the user's favorite movie collection. The full
// movie records are persisted so the collection renders without
// refetching from the remote catalog.
type Service struct {
	store    *storage.Store
	notifier Notifier
	logger   zerolog.Logger

	mu       sync.RWMutex
	movies   []catalog.MovieRecord
	watchers map[int]func()
	nextID   int

	broadcaster Broadcaster
}

// NewService creates the favorites service, loading the collection
// from durable storage. Missing or corrupt state loads as empty.
func NewService(store *storage.Store, notifier Notifier, logger zerolog.Logger) *Service {
	if store == nil {
		panic("favorites: nil storage store")
	}

	s := &Service{
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("component", "favorites").Logger(),
		movies:   []catalog.MovieRecord{},
		watchers: make(map[int]func()),
	}

	if err := store.GetJSON(context.Background(), favoritesKey, &s.movies); err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn().Err(err).Msg("Failed to load favorites, starting empty")
		}
		s.movies = []catalog.MovieRecord{}
	}

	return s
}

// SetBroadcaster wires an event hub for change fan-out.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Add appends a movie to the collection. Adding a movie that is
// already present is a no-op and publishes nothing.
func (s *Service) Add(ctx context.Context, movie catalog.MovieRecord) error {
	s.mu.Lock()
	if s.containsLocked(movie.ID) {
		s.mu.Unlock()
		return nil
	}
	s.movies = append(s.movies, movie)
	if err := s.persistLocked(ctx); err != nil {
		// Keep memory and durable state in step.
		s.movies = s.movies[:len(s.movies)-1]
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Publish(ctx, fmt.Sprintf("%s added to your collection!", movie.Title), notification.TypeSuccess)
	}
	s.notifyChanged()

	s.logger.Debug().Int("movieId", movie.ID).Msg("Added favorite")
	return nil
}

// Remove drops a movie from the collection by id. Removing an absent
// movie is a no-op and publishes nothing.
func (s *Service) Remove(ctx context.Context, id int) error {
	s.mu.Lock()
	idx := -1
	for i, m := range s.movies {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return nil
	}
	removed := s.movies[idx]
	s.movies = append(s.movies[:idx], s.movies[idx+1:]...)
	if err := s.persistLocked(ctx); err != nil {
		// Put the record back; memory must not run ahead of the store.
		tail := append([]catalog.MovieRecord{removed}, s.movies[idx:]...)
		s.movies = append(s.movies[:idx], tail...)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Publish(ctx, fmt.Sprintf("Removed %s from favorites.", removed.Title), notification.TypeInfo)
	}
	s.notifyChanged()

	s.logger.Debug().Int("movieId", id).Msg("Removed favorite")
	return nil
}

// Toggle adds the movie when absent and removes it when present. It
// reports whether the movie is in the collection afterwards.
func (s *Service) Toggle(ctx context.Context, movie catalog.MovieRecord) (bool, error) {
	if s.Contains(movie.ID) {
		return false, s.Remove(ctx, movie.ID)
	}
	return true, s.Add(ctx, movie)
}

// Contains reports whether a movie id is in the collection.
func (s *Service) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containsLocked(id)
}

// List returns the collection in insertion order.
func (s *Service) List() []catalog.MovieRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.MovieRecord, len(s.movies))
	copy(out, s.movies)
	return out
}

// Count returns the collection size.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// Subscribe registers a listener called after every collection change.
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

func (s *Service) containsLocked(id int) bool {
	for _, m := range s.movies {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) persistLocked(ctx context.Context) error {
	if err := s.store.SetJSON(ctx, favoritesKey, s.movies); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
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
		_ = s.broadcaster.Broadcast("favorites:changed", map[string]int{"count": s.Count()})
	}
}
