package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the item service.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
)

// SchemaVersion is the current envelope version; increment on breaking changes.
const SchemaVersion = 1

// ItemEvent is published after a document is created, updated or deleted.
// Document is set only for created events so consumers can warm caches.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemEvent struct {
	EventID    uuid.UUID      `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int            `json:"version"`
	Resource   string         `json:"resource"`
	ItemID     string         `json:"item_id"`
	Document   map[string]any `json:"document,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewItemEvent stamps a fresh event for the given document.
func NewItemEvent(resource, itemID string, document map[string]any) ItemEvent {
	return ItemEvent{
		EventID:    uuid.New(),
		Version:    SchemaVersion,
		Resource:   resource,
		ItemID:     itemID,
		Document:   document,
		OccurredAt: time.Now().UTC(),
	}
}
