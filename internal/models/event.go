package models

import (
	"encoding/json"
	"time"
)

// EventType categorizes events in the system.
type EventType string

const (
	// Theme events
	EventTypeThemeRotated EventType = "theme.rotated"

	// Contact events
	EventTypeContactSubmitted EventType = "contact.submitted"

	// System events
	EventTypeError   EventType = "error"
	EventTypeWarning EventType = "warning"
)

// EntityType identifies the type of entity an event relates to.
type EntityType string

const (
	EntityTypeTheme   EntityType = "theme"
	EntityTypeContact EntityType = "contact"
	EntityTypeSystem  EntityType = "system"
)

// Event represents an append-only log entry.
type Event struct {
	// ID is the unique identifier for the event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// EntityType identifies what kind of entity this event relates to.
	EntityType EntityType `json:"entity_type"`

	// EntityID is the ID of the related entity.
	EntityID string `json:"entity_id"`

	// Payload contains event-specific data.
	Payload json.RawMessage `json:"payload,omitempty"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ThemeRotatedPayload is the payload for theme.rotated events.
type ThemeRotatedPayload struct {
	Date     string `json:"date"`
	OldTheme string `json:"old_theme,omitempty"`
	NewTheme string `json:"new_theme"`
	Hex      string `json:"hex"`
}

// ContactSubmittedPayload is the payload for contact.submitted events.
type ContactSubmittedPayload struct {
	SubmissionID string `json:"submission_id"`
	Name         string `json:"name"`
	// Email is masked before the event is recorded.
	Email string `json:"email,omitempty"`
}

// ErrorPayload is the payload for error events.
type ErrorPayload struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}
