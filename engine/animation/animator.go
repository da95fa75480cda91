package animation

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/ossa/engine/core"
	"github.com/spaghettifunk/ossa/engine/math"
)

// PlayState is the animator's playback state.
type PlayState int

const (
	PlayStateStopped PlayState = iota
	PlayStatePlaying
	PlayStatePaused
	// PlayStateFading is a transient sub-state active only during a
	// crossfade; it always resolves back to PlayStatePlaying.
	PlayStateFading
)

func (s PlayState) String() string {
	switch s {
	case PlayStateStopped:
		return "stopped"
	case PlayStatePlaying:
		return "playing"
	case PlayStatePaused:
		return "paused"
	case PlayStateFading:
		return "fading"
	}
	return "unknown"
}

// EndPolicy controls what happens when a non-looping clip reaches its end.
type EndPolicy int

const (
	// EndPolicyHoldLastFrame keeps the animator playing, pinned at the
	// final pose. The default: it avoids a visible snap back to bind pose.
	EndPolicyHoldLastFrame EndPolicy = iota
	// EndPolicyAutoStop transitions to Stopped once the end is reached.
	// The last published pose is kept; only the time cursor stops.
	EndPolicyAutoStop
)

/** @brief The default crossfade length in seconds. */
const DefaultFadeDuration float32 = 0.3

// PoseConsumer receives the pose computed by an animator each frame.
// How local transforms become skinning matrices is the consumer's
// business.
type PoseConsumer interface {
	ApplyPose(pose Pose)
}

// AnimatorConfig is the configuration surface accepted by NewAnimator.
// Zero values select the defaults (speed 1.0, DefaultFadeDuration,
// hold-last-frame).
type AnimatorConfig struct {
	Collection   *Collection
	Consumer     PoseConsumer
	Speed        float32
	FadeDuration float32
	EndPolicy    EndPolicy
}

/**
 * @brief The playback state machine. Owns current/previous clip cursors,
 * the fade weight, speed and the play/pause/stop/crossfade transitions;
 * samples and blends each tick and publishes the resulting pose to the
 * bone-hierarchy consumer.
 *
 * One animator exists per animated instance. It is never safe to drive
 * the same animator from two concurrent updates; the shared collection,
 * however, is read-only and needs no synchronization.
 */
type Animator struct {
	id         uuid.UUID
	collection *Collection
	consumer   PoseConsumer
	sampler    *Sampler

	currentIndex  int
	currentTime   float32
	previousIndex int
	previousTime  float32
	fadeElapsed   float32
	// fadeLength is captured when a fade starts; changing FadeDuration
	// mid-fade only affects future fades.
	fadeLength float32

	fadeDuration float32
	speed        float32
	endPolicy    EndPolicy

	state            PlayState
	stateBeforePause PlayState
	endReached       bool

	lastPose Pose
}

func NewAnimator(config *AnimatorConfig) *Animator {
	a := &Animator{
		id:            uuid.New(),
		collection:    config.Collection,
		consumer:      config.Consumer,
		sampler:       NewSampler(),
		currentIndex:  -1,
		previousIndex: -1,
		speed:         config.Speed,
		fadeDuration:  config.FadeDuration,
		endPolicy:     config.EndPolicy,
		state:         PlayStateStopped,
	}
	if a.speed == 0 {
		a.speed = 1.0
	}
	if a.fadeDuration <= 0 {
		a.fadeDuration = DefaultFadeDuration
	}
	return a
}

// ID returns the animator's instance identity.
func (a *Animator) ID() string {
	return a.id.String()
}

func (a *Animator) State() PlayState {
	return a.state
}

// CurrentClip returns the active clip, or nil when stopped before any play.
func (a *Animator) CurrentClip() *Clip {
	if a.collection == nil {
		return nil
	}
	clip, _ := a.collection.Clip(a.currentIndex)
	return clip
}

// CurrentTime returns the active clip's time cursor in seconds.
func (a *Animator) CurrentTime() float32 {
	return a.currentTime
}

// Pose returns the most recently published pose.
func (a *Animator) Pose() Pose {
	return a.lastPose
}

func (a *Animator) Speed() float32 {
	return a.speed
}

// SetSpeed sets the playback speed. Negative values reverse time while
// still respecting the clip's loop/clamp policy.
func (a *Animator) SetSpeed(speed float32) {
	a.speed = speed
}

func (a *Animator) FadeDuration() float32 {
	return a.fadeDuration
}

// SetFadeDuration configures the length of future crossfades. An
// in-progress fade keeps the length it started with.
func (a *Animator) SetFadeDuration(seconds float32) {
	a.fadeDuration = seconds
}

func (a *Animator) SetEndPolicy(policy EndPolicy) {
	a.endPolicy = policy
}

// SetCollection swaps the clip source. Playback stops because the
// current indices are meaningless against a different collection.
func (a *Animator) SetCollection(collection *Collection) {
	a.Stop()
	a.collection = collection
	a.currentIndex = -1
}

// Play resolves a clip by name and starts (or crossfades into) it.
// An unknown name or an unset collection is logged and leaves the
// state machine untouched; the boolean result tells the caller, since
// speculative lookups are an expected condition.
func (a *Animator) Play(name string, fade bool) bool {
	if a.collection == nil {
		core.LogWarn("animator %s: no collection set, cannot play %q", a.ID(), name)
		return false
	}
	_, index, ok := a.collection.Find(name)
	if !ok {
		core.LogWarn("animator %s: unknown clip %q", a.ID(), name)
		return false
	}
	return a.PlayIndex(index, fade)
}

// PlayIndex starts (or crossfades into) the clip at the given position.
func (a *Animator) PlayIndex(index int, fade bool) bool {
	if a.collection == nil {
		core.LogWarn("animator %s: no collection set, cannot play clip %d", a.ID(), index)
		return false
	}
	if _, ok := a.collection.Clip(index); !ok {
		core.LogWarn("animator %s: clip index %d out of range", a.ID(), index)
		return false
	}

	active := a.currentIndex >= 0 && a.state != PlayStateStopped
	if fade && active {
		// Re-requesting the active clip with fade never restarts it.
		if index == a.currentIndex {
			return true
		}
		if a.fadeDuration > 0 {
			a.previousIndex = a.currentIndex
			a.previousTime = a.currentTime
			a.currentIndex = index
			a.currentTime = 0
			a.fadeElapsed = 0
			a.fadeLength = a.fadeDuration
			a.endReached = false
			a.state = PlayStateFading
			return true
		}
	}

	a.currentIndex = index
	a.currentTime = 0
	a.previousIndex = -1
	a.fadeElapsed = 0
	a.endReached = false
	a.state = PlayStatePlaying
	return true
}

// Pause freezes time advancement. Valid only while playing or fading.
func (a *Animator) Pause() {
	if a.state != PlayStatePlaying && a.state != PlayStateFading {
		return
	}
	a.stateBeforePause = a.state
	a.state = PlayStatePaused
}

// Resume reverses Pause, returning to the playing or fading state the
// animator was in.
func (a *Animator) Resume() {
	if a.state != PlayStatePaused {
		return
	}
	a.state = a.stateBeforePause
}

// Stop resets the time cursor and drops any previous-clip reference.
// Subsequent Update calls are no-ops until Play is called again.
func (a *Animator) Stop() {
	a.currentTime = 0
	a.previousIndex = -1
	a.fadeElapsed = 0
	a.endReached = false
	a.state = PlayStateStopped
}

// Update advances the time cursors by deltaTime (scaled by speed),
// samples the active clip(s), blends during a crossfade and publishes
// the resulting pose to the consumer. Pure arithmetic over in-memory
// arrays; it never blocks.
func (a *Animator) Update(deltaTime float32) {
	if a.state != PlayStatePlaying && a.state != PlayStateFading {
		return
	}
	clip, ok := a.collection.Clip(a.currentIndex)
	if !ok {
		return
	}

	scaled := deltaTime * a.speed
	newTime, wrapped, finished := advanceTime(clip, a.currentTime+scaled)
	a.currentTime = newTime
	if wrapped {
		a.fireEvent(core.EVENT_CODE_ANIMATION_LOOPED, clip)
	}

	if a.state == PlayStateFading {
		a.updateFade(clip, deltaTime, scaled)
	} else {
		a.publish(a.sampler.SamplePose(clip, a.currentTime))
	}

	if finished && !a.endReached {
		a.endReached = true
		a.fireEvent(core.EVENT_CODE_ANIMATION_FINISHED, clip)
		if a.endPolicy == EndPolicyAutoStop {
			// Hold the last published pose; only the state machine stops.
			a.previousIndex = -1
			a.state = PlayStateStopped
		}
	}
}

func (a *Animator) updateFade(clip *Clip, deltaTime, scaled float32) {
	previous, ok := a.collection.Clip(a.previousIndex)
	if !ok {
		// Defensive: a fade without a previous clip degrades to plain playback.
		a.state = PlayStatePlaying
		a.publish(a.sampler.SamplePose(clip, a.currentTime))
		return
	}

	// The previous clip keeps advancing under its own loop policy so the
	// fade source doesn't freeze mid-motion.
	previousTime, _, _ := advanceTime(previous, a.previousTime+scaled)
	a.previousTime = previousTime

	a.fadeElapsed += deltaTime
	weight := math.Clamp(a.fadeElapsed/a.fadeLength, 0, 1)
	if weight >= 1 {
		a.previousIndex = -1
		a.state = PlayStatePlaying
		a.fireEvent(core.EVENT_CODE_ANIMATION_FADE_COMPLETED, clip)
		// Fully faded: publish the current clip's pose exactly, bypassing
		// the combiner.
		a.publish(a.sampler.SamplePose(clip, a.currentTime))
		return
	}

	from := a.sampler.SamplePose(previous, a.previousTime)
	to := a.sampler.SamplePose(clip, a.currentTime)
	a.publish(Blend(from, to, weight))
}

func (a *Animator) publish(pose Pose) {
	a.lastPose = pose
	// A missing consumer just means nobody is listening; not an error.
	if a.consumer != nil {
		a.consumer.ApplyPose(pose)
	}
}

func (a *Animator) fireEvent(eventType core.EventType, clip *Clip) {
	core.EventFire(core.EventContext{
		Type: eventType,
		Data: &core.AnimationEvent{
			AnimatorID: a.id.String(),
			ClipName:   clip.Name,
		},
	})
}

// advanceTime applies the clip's loop policy to an unclamped time value.
// For looping clips the time wraps via modulo against the duration; for
// non-looping clips it clamps to [0, duration] and reports when the end
// was reached.
func advanceTime(clip *Clip, t float32) (newTime float32, wrapped, finished bool) {
	duration := clip.Duration
	if duration <= 0 {
		return 0, false, !clip.Looping
	}
	if clip.Looping {
		wrappedTime := math.Mod(t, duration)
		if wrappedTime < 0 {
			wrappedTime += duration
		}
		return wrappedTime, wrappedTime != t, false
	}
	if t >= duration {
		return duration, false, true
	}
	if t < 0 {
		return 0, false, false
	}
	return t, false, false
}
