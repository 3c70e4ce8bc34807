package notifymock

import (
	"context"
	"sync"

	"creditly-backend/internal/notify"
)

var _ notify.Dispatcher = (*Recorder)(nil)

// Recorder captures dispatched events for assertions.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

type Event struct {
	Type    string
	Payload map[string]any
}

func New() *Recorder { return &Recorder{} }

func (r *Recorder) Dispatch(_ context.Context, eventType string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Type: eventType, Payload: payload})
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
