// Package sse implements Server-Sent Events for change notifications.
// Library mutations are broadcast to connected clients so they can refresh
// caches without polling.
package sse

import (
	"time"

	"github.com/shelfmarkapp/shelfmark-server/internal/dto"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventBookCreated represents a book creation event.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated represents a book update event.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted represents a book deletion event.
	EventBookDeleted EventType = "book.deleted"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// Username filters delivery to one user's connections. Empty means
	// broadcast to all, which preserves visibility of legacy ownerless
	// records.
	Username string `json:"-"`
}

// BookEventData is the data payload for book create/update events.
// Carries the full projected record so clients can render without a
// follow-up fetch.
type BookEventData struct {
	Book *dto.BookResponse `json:"book"`
}

// BookDeletedEventData is the data payload for book delete events.
type BookDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	BookID    string    `json:"book_id"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewBookCreatedEvent creates a book.created event scoped to the owner.
func NewBookCreatedEvent(username string, book *dto.BookResponse) Event {
	return Event{
		Type:      EventBookCreated,
		Timestamp: time.Now(),
		Username:  username,
		Data:      BookEventData{Book: book},
	}
}

// NewBookUpdatedEvent creates a book.updated event scoped to the owner.
func NewBookUpdatedEvent(username string, book *dto.BookResponse) Event {
	return Event{
		Type:      EventBookUpdated,
		Timestamp: time.Now(),
		Username:  username,
		Data:      BookEventData{Book: book},
	}
}

// NewBookDeletedEvent creates a book.deleted event scoped to the owner.
func NewBookDeletedEvent(username, bookID string) Event {
	return Event{
		Type:      EventBookDeleted,
		Timestamp: time.Now(),
		Username:  username,
		Data: BookDeletedEventData{
			BookID:    bookID,
			DeletedAt: time.Now(),
		},
	}
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      HeartbeatEventData{ServerTime: time.Now()},
	}
}
