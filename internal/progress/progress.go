package progress

import (
	"encoding/json"
	"sync"
	"time"
)

// Stage represents the current stage of a run
type Stage string

const (
	StageInitializing Stage = "initializing"
	StageDiscovering  Stage = "discovering"
	StageExtracting   Stage = "extracting"
	StageSaving       Stage = "saving"
	StageComplete     Stage = "complete"
	StageError        Stage = "error"
)

// Event represents a progress event
type Event struct {
	Stage         Stage          `json:"stage"`
	Progress      float64        `json:"progress"`
	Message       string         `json:"message"`
	Timestamp     time.Time      `json:"timestamp"`
	EntityDetails *EntityDetails `json:"entityDetails,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// EntityDetails describes the artist currently being extracted
type EntityDetails struct {
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Current   string `json:"current"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}

// ProgressTracker manages progress tracking
type ProgressTracker struct {
	mu            sync.RWMutex
	stage         Stage
	progress      float64
	message       string
	entityDetails *EntityDetails
	error         error
	listeners     []func(Event)
}

// NewProgressTracker creates a new ProgressTracker instance
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		stage:     StageInitializing,
		listeners: make([]func(Event), 0),
	}
}

// AddListener adds a new progress event listener
func (pt *ProgressTracker) AddListener(listener func(Event)) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.listeners = append(pt.listeners, listener)
}

// UpdateProgress updates the progress and notifies all listeners
func (pt *ProgressTracker) UpdateProgress(stage Stage, progress float64, message string) {
	pt.mu.Lock()
	pt.stage = stage
	pt.progress = progress
	pt.message = message
	pt.mu.Unlock()

	pt.notifyListeners(Event{
		Stage:     stage,
		Progress:  progress,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// UpdateEntityProgress records the artist being extracted. Progress moves
// linearly through the extracting stage between from and to percent.
func (pt *ProgressTracker) UpdateEntityProgress(details EntityDetails, from, to float64) {
	pt.mu.Lock()
	pt.stage = StageExtracting
	if details.Total > 0 {
		pt.progress = from + (to-from)*float64(details.Index)/float64(details.Total)
	}
	pt.message = details.Current
	pt.entityDetails = &details
	event := Event{
		Stage:         pt.stage,
		Progress:      pt.progress,
		Message:       pt.message,
		Timestamp:     time.Now(),
		EntityDetails: pt.entityDetails,
	}
	pt.mu.Unlock()

	pt.notifyListeners(event)
}

// SetError sets an error state and notifies all listeners
func (pt *ProgressTracker) SetError(err error) {
	pt.mu.Lock()
	pt.stage = StageError
	pt.error = err
	progress := pt.progress
	pt.mu.Unlock()

	pt.notifyListeners(Event{
		Stage:     StageError,
		Progress:  progress,
		Message:   err.Error(),
		Timestamp: time.Now(),
		Error:     err.Error(),
	})
}

// notifyListeners sends an event to all registered listeners
func (pt *ProgressTracker) notifyListeners(event Event) {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	for _, listener := range pt.listeners {
		listener(event)
	}
}

// GetCurrentState returns the current progress state
func (pt *ProgressTracker) GetCurrentState() Event {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	state := Event{
		Stage:         pt.stage,
		Progress:      pt.progress,
		Message:       pt.message,
		Timestamp:     time.Now(),
		EntityDetails: pt.entityDetails,
	}
	if pt.error != nil {
		state.Error = pt.error.Error()
	}
	return state
}

// MarshalJSON implements json.Marshaler for Event
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Alias:     (*Alias)(&e),
	})
}
