package deploy

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Observer defines the interface for structured observability during a
// deployment run.
type Observer interface {
	// Printf emits a plain progress line.
	Printf(format string, v ...any)

	// Event emits a structured event.
	Event(event Event)

	// WithFields returns a new Observer with additional context fields.
	WithFields(fields map[string]string) Observer
}

// Event represents a structured deployment event.
type Event struct {
	Type      EventType
	Phase     string            // phase name, e.g. "registry-bootstrap"
	Message   string            // human-readable message
	Resource  string            // resource or unit name if applicable
	Timestamp time.Time
	Fields    map[string]string
}

// EventType represents the type of deployment event.
type EventType string

const (
	// EventPhaseStarted indicates a phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventArtifactPushed indicates an image push command succeeded.
	EventArtifactPushed EventType = "artifact.pushed"
	// EventArtifactVerified indicates the pushed artifact was independently
	// confirmed present in the registry.
	EventArtifactVerified EventType = "artifact.verified"
	// EventArtifactSkipped indicates a unit was skipped, source absent.
	EventArtifactSkipped EventType = "artifact.skipped"

	// EventResourceConverged indicates the provider reported convergence.
	EventResourceConverged EventType = "resource.converged"
	// EventResourceDestroyed indicates the provider reported teardown.
	EventResourceDestroyed EventType = "resource.destroyed"

	// EventAssetsSynced indicates the asset bucket matches the build output.
	EventAssetsSynced EventType = "assets.synced"
	// EventCacheInvalidated indicates the CDN cache invalidation was issued.
	EventCacheInvalidated EventType = "cache.invalidated"

	// EventWarning indicates a non-fatal condition the operator should see.
	EventWarning EventType = "warning"
)

// ConsoleObserver implements Observer over the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{contextFields: make(map[string]string)}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	log.Print(o.formatEvent(event))
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &ConsoleObserver{contextFields: newFields}
}

// formatEvent formats an event for console output.
func (o *ConsoleObserver) formatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))
	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		var fieldParts []string
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}

// Warn emits a warning event scoped to a phase.
func Warn(observer Observer, phase, format string, v ...any) {
	observer.Event(Event{
		Type:    EventWarning,
		Phase:   phase,
		Message: fmt.Sprintf(format, v...),
	})
}
