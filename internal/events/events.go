// Package events provides an in-process pub/sub event bus for cross-component
// communication within the document intelligence service.
package events

import (
	"time"
)

// EventType identifies the type of event being published.
type EventType string

const (
	// FileDiscovered is published when a new file is found during a walk.
	FileDiscovered EventType = "file.discovered"

	// FileChanged is published when an existing file is modified.
	FileChanged EventType = "file.changed"

	// FileDeleted is published when a file is removed.
	FileDeleted EventType = "file.deleted"

	// AnalysisComplete is published when analysis finishes for a file.
	AnalysisComplete EventType = "analysis.complete"

	// AnalysisFailed is published when analysis fails for a file.
	AnalysisFailed EventType = "analysis.failed"

	// GraphConnected is published when the outline graph client establishes a connection.
	GraphConnected EventType = "graph.connected"

	// GraphDisconnected is published when the outline graph client loses its connection.
	GraphDisconnected EventType = "graph.disconnected"

	// GraphWriteQueueFull is published when the graph write queue hits capacity.
	GraphWriteQueueFull EventType = "graph.write_queue_full"
)

// Event represents a published event in the system.
type Event struct {
	// Type identifies the event type.
	Type EventType

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Payload contains event-specific data.
	Payload any
}

// NewEvent creates a new event with the given type and payload.
func NewEvent(eventType EventType, payload any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// FileEvent contains data for file-related events (discovered, changed, deleted).
// It is also used by tests exercising the generic bus mechanics.
type FileEvent struct {
	// Path is the absolute path to the file.
	Path string

	// ContentHash is the SHA256 hash of the file content (empty for deleted files).
	ContentHash string

	// Size is the file size in bytes (0 for deleted files).
	Size int64

	// ModTime is the file modification time (zero for deleted files).
	ModTime time.Time

	// IsNew indicates if this is a newly discovered file (for FileDiscovered events).
	IsNew bool
}

// GraphConnectionEvent contains data for graph connection events.
type GraphConnectionEvent struct {
	// Connected indicates if the connection was established (true) or lost (false).
	Connected bool

	// Endpoint is the graph database endpoint.
	Endpoint string

	// Error contains the error message if connection failed.
	Error string
}

// GraphBackpressureEvent contains data for graph write queue pressure events.
type GraphBackpressureEvent struct {
	// QueueDepth is the current number of items in the write queue.
	QueueDepth int

	// QueueCapacity is the maximum write queue size.
	QueueCapacity int
}

// NewGraphConnected creates a GraphConnected event.
func NewGraphConnected(endpoint string) Event {
	return NewEvent(GraphConnected, &GraphConnectionEvent{
		Connected: true,
		Endpoint:  endpoint,
	})
}

// NewGraphDisconnected creates a GraphDisconnected event.
func NewGraphDisconnected(endpoint string, err error) Event {
	return NewEvent(GraphDisconnected, &GraphConnectionEvent{
		Connected: false,
		Endpoint:  endpoint,
		Error:     errorString(err),
	})
}

// NewGraphWriteQueueFull creates a GraphWriteQueueFull event.
func NewGraphWriteQueueFull(queueDepth, queueCapacity int) Event {
	return NewEvent(GraphWriteQueueFull, &GraphBackpressureEvent{
		QueueDepth:    queueDepth,
		QueueCapacity: queueCapacity,
	})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// EventHandler is a function that processes events.
type EventHandler func(event Event)
