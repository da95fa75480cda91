package animation

import (
	"fmt"

	"github.com/spaghettifunk/ossa/engine/math"
)

/**
 * @brief A single sampled pose of one bone at one instant.
 * Immutable once imported.
 */
type Keyframe struct {
	/** @brief The sample time in seconds. Never negative. */
	Time float32
	/** @brief The bone's local position. */
	Position math.Vec3
	/** @brief The bone's local rotation as a unit quaternion. */
	Rotation math.Quaternion
	/** @brief The bone's local scale. */
	Scale math.Vec3
}

/**
 * @brief The time-ordered keyframe sequence for one bone within one clip.
 * Owned exclusively by its parent clip and read-only after import.
 */
type Channel struct {
	/** @brief The bone this channel animates. */
	BoneName string
	/** @brief Keyframes with strictly increasing time. Never empty. */
	Keyframes []Keyframe
}

// NewChannel validates the imported keyframes. A channel with a single
// keyframe is valid and represents a static bone.
func NewChannel(boneName string, keyframes []Keyframe) (*Channel, error) {
	if boneName == "" {
		return nil, fmt.Errorf("channel has no bone name")
	}
	if len(keyframes) == 0 {
		return nil, fmt.Errorf("channel for bone %q has no keyframes", boneName)
	}
	if keyframes[0].Time < 0 {
		return nil, fmt.Errorf("channel for bone %q starts at negative time %f", boneName, keyframes[0].Time)
	}
	for i := 1; i < len(keyframes); i++ {
		if keyframes[i].Time <= keyframes[i-1].Time {
			return nil, fmt.Errorf("channel for bone %q has non-increasing time at keyframe %d", boneName, i)
		}
	}
	return &Channel{
		BoneName:  boneName,
		Keyframes: keyframes,
	}, nil
}

// EndTime returns the time of the channel's last keyframe. Bones whose
// channel ends before the clip's duration hold this keyframe's values.
func (c *Channel) EndTime() float32 {
	return c.Keyframes[len(c.Keyframes)-1].Time
}
