package notification

import "time"

// Type classifies a notification.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Valid reports whether t is a known notification type.
func (t Type) Valid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeWarning, TypeInfo:
		return true
	}
	return false
}

// Entry is a single notification in the durable history.
type Entry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// ToastState is the lifecycle state of an active toast.
// Toasts move created → visible → hidden → removed on independent
// timers; Dismiss jumps a toast straight to hidden.
type ToastState string

const (
	ToastCreated ToastState = "created"
	ToastVisible ToastState = "visible"
	ToastHidden  ToastState = "hidden"
)

// Toast is a transient on-screen notification. Toasts are never
// persisted; only the matching history Entry survives a restart.
type Toast struct {
	Entry
	State ToastState `json:"state"`
}
