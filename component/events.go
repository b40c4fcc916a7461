package component

// EventType identifies a Character notification.
type EventType string

const (
	EventHealthChanged      EventType = "health_changed"
	EventDamaged            EventType = "damaged"
	EventDied               EventType = "died"
	EventLevelUp            EventType = "level_up"
	EventConcealmentChanged EventType = "concealment_changed"
	EventRevealChanged      EventType = "reveal_changed"
)

// Event is delivered synchronously to every subscriber of a Character.
type Event struct {
	Type   EventType
	Target *Character
	// Source is the damage dealer for EventDamaged and EventDied.
	Source *Character
	Amount int
	Flag   bool
}

type EventHandler func(evt Event)

// EventEmitter fans events out to its handlers.
type EventEmitter struct {
	Handlers []EventHandler
}

func (e *EventEmitter) Subscribe(h EventHandler) {
	if e == nil || h == nil {
		return
	}
	e.Handlers = append(e.Handlers, h)
}

func (e *EventEmitter) Emit(evt Event) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}
