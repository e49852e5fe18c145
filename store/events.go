package store

import "github.com/tailored-agentic-units/sealstore/observability"

// Store event types.
const (
	EventCreate         observability.EventType = "store.create"
	EventUpdateStart    observability.EventType = "store.update.start"
	EventUpdateComplete observability.EventType = "store.update.complete"
	EventUpdateRejected observability.EventType = "store.update.rejected"
	EventCallback       observability.EventType = "store.callback"
)
