package core

import (
	"sync"

	"github.com/spaghettifunk/ossa/engine/containers"
)

// EventType identifies the kind of event carried by an EventContext.
// System internal event types live below 255; applications should use
// values beyond that.
type EventType int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventType = 0x01

	// A non-looping clip reached its end.
	/* Context usage:
	 * data = *AnimationEvent
	 */
	EVENT_CODE_ANIMATION_FINISHED EventType = 0x10

	// A looping clip wrapped around its duration.
	/* Context usage:
	 * data = *AnimationEvent
	 */
	EVENT_CODE_ANIMATION_LOOPED EventType = 0x11

	// A crossfade between two clips completed.
	/* Context usage:
	 * data = *AnimationEvent
	 */
	EVENT_CODE_ANIMATION_FADE_COMPLETED EventType = 0x12

	// An asset on disk was created or modified.
	/* Context usage:
	 * data = path string
	 */
	EVENT_CODE_ASSET_RELOADED EventType = 0x20

	MAX_EVENT_CODE EventType = 0xFF
)

// AnimationEvent is the payload for animation lifecycle events.
type AnimationEvent struct {
	// AnimatorID is the string form of the animator's instance id.
	AnimatorID string
	// ClipName is the clip the event refers to.
	ClipName string
}

// EventContext is the envelope delivered to every listener.
type EventContext struct {
	Type EventType
	Data interface{}
}

// FnOnEvent is invoked for every event of a registered type.
type FnOnEvent func(context EventContext)

// Queue depth before EventFire starts dropping.
const maxPendingEvents = 4096

type eventSystemState struct {
	mu        sync.Mutex
	listeners map[EventType][]FnOnEvent
	pending   *containers.RingQueue[EventContext]
}

var onceEvent sync.Once
var eventState *eventSystemState

func EventSystemInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			listeners: make(map[EventType][]FnOnEvent),
			pending:   containers.NewRingQueue[EventContext](maxPendingEvents),
		}
	})
	return true
}

func EventSystemShutdown() error {
	if eventState == nil {
		return nil
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.listeners = make(map[EventType][]FnOnEvent)
	for !eventState.pending.IsEmpty() {
		eventState.pending.Dequeue()
	}
	return nil
}

// EventRegister adds a listener for the given event type.
func EventRegister(eventType EventType, onEvent FnOnEvent) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.listeners[eventType] = append(eventState.listeners[eventType], onEvent)
	return true
}

// EventFire enqueues an event for delivery on the next ProcessEvents call.
// Firing before initialization is a no-op so that subsystems never have to
// care whether a host wired the event system up.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	if err := eventState.pending.Enqueue(context); err != nil {
		LogWarn("event queue full, dropping event of type %d", context.Type)
		return false
	}
	return true
}

// ProcessEvents drains the pending queue and dispatches every event to its
// listeners. Called once per frame by the engine loop, which keeps delivery
// deterministic with respect to Update order.
func ProcessEvents() {
	if eventState == nil {
		return
	}
	for {
		eventState.mu.Lock()
		context, err := eventState.pending.Dequeue()
		if err != nil {
			eventState.mu.Unlock()
			return
		}
		listeners := eventState.listeners[context.Type]
		eventState.mu.Unlock()

		for _, fn := range listeners {
			fn(context)
		}
	}
}
