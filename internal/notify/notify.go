// Package notify models the transient toast notifications shown after
// user actions, such as sending the contact form.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind selects the notification style.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Timing of the slide-in/auto-dismiss cycle.
const (
	SlideInDelay = 100 * time.Millisecond
	AutoDismiss  = 5 * time.Second
	RemovalDelay = 300 * time.Millisecond
)

// Canonical contact form messages.
const (
	ContactSuccessMessage = "Opening email client and WhatsApp. We'll get back to you soon!"
	ContactFailureMessage = "Something went wrong. Please try again later."
)

// notificationLimit bounds how many notifications a Center keeps.
const notificationLimit = 20

// Background returns the background color for k. Unknown kinds render as info.
func (k Kind) Background() string {
	switch k {
	case KindSuccess:
		return "#10b981"
	case KindError:
		return "#ef4444"
	default:
		return "#3b82f6"
	}
}

// Notification is a single toast.
type Notification struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	Message      string    `json:"message"`
	Background   string    `json:"background"`
	CreatedAt    time.Time `json:"created_at"`
	DismissAfter int64     `json:"dismiss_after_ms"`
}

// New builds a notification. Unknown kinds fall back to info.
func New(kind Kind, message string, now time.Time) Notification {
	switch kind {
	case KindInfo, KindSuccess, KindError:
	default:
		kind = KindInfo
	}
	return Notification{
		ID:           uuid.New().String(),
		Kind:         kind,
		Message:      message,
		Background:   kind.Background(),
		CreatedAt:    now,
		DismissAfter: AutoDismiss.Milliseconds(),
	}
}

// ContactSent is the notification shown after a successful submission.
func ContactSent(now time.Time) Notification {
	return New(KindSuccess, ContactSuccessMessage, now)
}

// ContactFailed is the notification shown when a submission cannot be sent.
func ContactFailed(now time.Time) Notification {
	return New(KindError, ContactFailureMessage, now)
}

// VisibleAt reports whether the notification has slid in and not yet been
// auto-dismissed at now.
func (n Notification) VisibleAt(now time.Time) bool {
	return !now.Before(n.CreatedAt.Add(SlideInDelay)) && now.Before(n.dismissAt())
}

// ExpiredAt reports whether the removal transition has finished at now.
func (n Notification) ExpiredAt(now time.Time) bool {
	return !now.Before(n.dismissAt().Add(RemovalDelay))
}

func (n Notification) dismissAt() time.Time {
	return n.CreatedAt.Add(time.Duration(n.DismissAfter) * time.Millisecond)
}

// Center holds the live notifications of one session.
type Center struct {
	mu    sync.Mutex
	items []Notification
}

// NewCenter creates an empty Center.
func NewCenter() *Center {
	return &Center{}
}

// Push adds n, dropping the oldest entries over the limit.
func (c *Center) Push(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, n)
	if over := len(c.items) - notificationLimit; over > 0 {
		c.items = append([]Notification(nil), c.items[over:]...)
	}
}

// Dismiss removes a notification early. It reports whether one was removed.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active prunes expired notifications and returns those visible at now,
// oldest first.
func (c *Center) Active(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	keep := c.items[:0]
	var visible []Notification
	for _, n := range c.items {
		if n.ExpiredAt(now) {
			continue
		}
		keep = append(keep, n)
		if n.VisibleAt(now) {
			visible = append(visible, n)
		}
	}
	c.items = keep
	return visible
}
