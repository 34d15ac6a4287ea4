package logging

import (
	"context"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

type EntityKind string

const (
	EntityKindUnknown EntityKind = "unknown"
	EntityKindNode    EntityKind = "node"
	EntityKindNavmesh EntityKind = "navmesh"
	EntityKindEditor  EntityKind = "editor"
	EntityKindSession EntityKind = "session"
)

// Event is one structured log record. Sequence orders events raised by the
// editor loop; it is zero for events raised elsewhere.
type Event struct {
	Type      EventType      `json:"type"`
	Sequence  uint64         `json:"sequence,omitempty"`
	Time      time.Time      `json:"time"`
	Actor     EntityRef      `json:"actor"`
	Targets   []EntityRef    `json:"targets,omitempty"`
	Severity  Severity       `json:"severity"`
	Category  string         `json:"category,omitempty"`
	Payload   any            `json:"payload,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
	CommandID string         `json:"commandId,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

const (
	CategoryEdit    = "edit"
	CategoryHistory = "history"
	CategorySystem  = "system"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

type fieldPublisher struct {
	next   Publisher
	fields map[string]any
}

func (p *fieldPublisher) Publish(ctx context.Context, event Event) {
	if p.next == nil {
		return
	}
	p.next.Publish(ctx, mergeFields(event, p.fields))
}

// mergeFields copies fields into the event's Extra without overwriting keys
// the event already carries.
func mergeFields(event Event, fields map[string]any) Event {
	if len(fields) == 0 {
		return event
	}
	event = event.Clone()
	if event.Extra == nil {
		event.Extra = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if _, exists := event.Extra[k]; !exists {
			event.Extra[k] = v
		}
	}
	return event
}

// Clone copies the event's slices and maps so the copy can be handed to
// another goroutine.
func (e Event) Clone() Event {
	cloned := e
	if len(e.Targets) > 0 {
		cloned.Targets = append([]EntityRef(nil), e.Targets...)
	}
	if e.Extra != nil {
		copied := make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			copied[k] = v
		}
		cloned.Extra = copied
	}
	return cloned
}

func WithFields(p Publisher, fields map[string]any) Publisher {
	if p == nil {
		return NopPublisher()
	}
	if len(fields) == 0 {
		return p
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &fieldPublisher{next: p, fields: copied}
}

func (e Event) WithExtra(key string, value any) Event {
	if e.Extra == nil {
		e.Extra = make(map[string]any, 1)
	}
	e.Extra[key] = value
	return e
}
