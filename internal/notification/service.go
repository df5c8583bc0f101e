package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cinedex/cinedex/internal/config"
	"github.com/cinedex/cinedex/internal/storage"
)

// historyKey is the fixed durable storage key for the notification history.
const historyKey = "cinema_notifications"

// Broadcaster pushes change events to connected view clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Service is the notification center: a transient toast channel for
// immediate feedback and a durable, capped history for later review.
type Service struct {
	store  *storage.Store
	cfg    config.NotificationsConfig
	logger zerolog.Logger

	mu       sync.RWMutex
	history  []Entry
	toasts   []*Toast
	timers   map[string]*time.Timer
	watchers map[int]func()
	nextID   int

	broadcaster Broadcaster
}

// NewService creates the notification center, loading history from
// durable storage. Missing or corrupt history loads as empty.
func NewService(store *storage.Store, cfg config.NotificationsConfig, logger zerolog.Logger) *Service {
	if store == nil {
		panic("notification: nil storage store")
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = 5 * time.Second
	}
	if cfg.EnterDelay <= 0 {
		cfg.EnterDelay = 10 * time.Millisecond
	}
	if cfg.ExitDelay <= 0 {
		cfg.ExitDelay = 500 * time.Millisecond
	}

	s := &Service{
		store:    store,
		cfg:      cfg,
		logger:   logger.With().Str("component", "notification").Logger(),
		history:  []Entry{},
		timers:   make(map[string]*time.Timer),
		watchers: make(map[int]func()),
	}

	if err := store.GetJSON(context.Background(), historyKey, &s.history); err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn().Err(err).Msg("Failed to load notification history, starting empty")
		}
		s.history = []Entry{}
	}

	return s
}

// SetBroadcaster wires an event hub for change fan-out.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Publish records a notification: it is prepended to the durable
// history (oldest entries evicted beyond the cap) and shown as a toast.
func (s *Service) Publish(ctx context.Context, message string, typ Type) Entry {
	if !typ.Valid() {
		typ = TypeInfo
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      typ,
		Timestamp: time.Now().UTC(),
		Read:      false,
	}

	s.mu.Lock()
	s.history = append([]Entry{entry}, s.history...)
	if len(s.history) > s.cfg.HistoryLimit {
		s.history = s.history[:s.cfg.HistoryLimit]
	}
	s.persistHistoryLocked(ctx)

	toast := &Toast{Entry: entry, State: ToastCreated}
	s.toasts = append(s.toasts, toast)
	s.timers[entry.ID] = time.AfterFunc(s.cfg.EnterDelay, func() {
		s.show(entry.ID)
	})
	s.mu.Unlock()

	s.notify("notification:published", entry)

	s.logger.Debug().
		Str("id", entry.ID).
		Str("type", string(typ)).
		Msg("Notification published")

	return entry
}

// Dismiss hides a visible toast early; it then leaves the active set
// after the usual exit delay. Unknown ids are a no-op.
func (s *Service) Dismiss(id string) {
	s.mu.Lock()
	toast := s.findToastLocked(id)
	if toast == nil || toast.State == ToastHidden {
		s.mu.Unlock()
		return
	}
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
	}
	toast.State = ToastHidden
	s.timers[id] = time.AfterFunc(s.cfg.ExitDelay, func() {
		s.remove(id)
	})
	s.mu.Unlock()

	s.notify("notification:toasts", nil)
}

// MarkAllRead flags every history entry as read. Toasts are unaffected.
func (s *Service) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	for i := range s.history {
		s.history[i].Read = true
	}
	s.persistHistoryLocked(ctx)
	s.mu.Unlock()

	s.notify("notification:history", nil)
}

// ClearHistory empties the durable history. Active toasts are unaffected.
func (s *Service) ClearHistory(ctx context.Context) {
	s.mu.Lock()
	s.history = []Entry{}
	s.persistHistoryLocked(ctx)
	s.mu.Unlock()

	s.notify("notification:history", nil)
}

// History returns the durable history, most recent first.
func (s *Service) History() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.history))
	copy(out, s.history)
	return out
}

// UnreadCount returns the number of unread history entries.
func (s *Service) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, entry := range s.history {
		if !entry.Read {
			count++
		}
	}
	return count
}

// Active returns the current toast set in creation order.
func (s *Service) Active() []Toast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Toast, len(s.toasts))
	for i, t := range s.toasts {
		out[i] = *t
	}
	return out
}

// Subscribe registers a listener called after every change. The
// returned function unsubscribes it.
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

// Close stops all pending toast timers.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// show transitions a toast created → visible and arms the display timer.
func (s *Service) show(id string) {
	s.mu.Lock()
	toast := s.findToastLocked(id)
	if toast == nil || toast.State != ToastCreated {
		s.mu.Unlock()
		return
	}
	toast.State = ToastVisible
	s.timers[id] = time.AfterFunc(s.cfg.ToastDuration, func() {
		s.hide(id)
	})
	s.mu.Unlock()

	s.notify("notification:toasts", nil)
}

// hide transitions a toast visible → hidden and arms the removal timer.
func (s *Service) hide(id string) {
	s.mu.Lock()
	toast := s.findToastLocked(id)
	if toast == nil || toast.State != ToastVisible {
		s.mu.Unlock()
		return
	}
	toast.State = ToastHidden
	s.timers[id] = time.AfterFunc(s.cfg.ExitDelay, func() {
		s.remove(id)
	})
	s.mu.Unlock()

	s.notify("notification:toasts", nil)
}

// remove drops a toast from the active set.
func (s *Service) remove(id string) {
	s.mu.Lock()
	delete(s.timers, id)
	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify("notification:toasts", nil)
}

func (s *Service) findToastLocked(id string) *Toast {
	for _, t := range s.toasts {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Service) persistHistoryLocked(ctx context.Context) {
	if err := s.store.SetJSON(ctx, historyKey, s.history); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist notification history")
	}
}

func (s *Service) notify(event string, payload interface{}) {
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
		_ = s.broadcaster.Broadcast(event, payload)
	}
}
