package animation

import (
	"sort"
)

/**
 * @brief Evaluates clip channels at a point in time.
 *
 * The sampler keeps a per-channel bracket hint so that sequential
 * forward sampling stays O(1) amortized instead of paying a binary
 * search every frame. The hint is an optimization only; it never
 * changes the sampled result. Because collections are shared
 * read-only across animators, each animator owns its own sampler.
 */
type Sampler struct {
	hints map[*Channel]int
}

func NewSampler() *Sampler {
	return &Sampler{
		hints: make(map[*Channel]int),
	}
}

// Sample returns boneName's local transform in clip at the given time.
// A bone without a channel contributes no animation and samples to the
// bind transform.
func (s *Sampler) Sample(clip *Clip, boneName string, time float32) BoneTransform {
	channel, ok := clip.Channel(boneName)
	if !ok {
		return BindTransform()
	}
	return s.sampleChannel(channel, time)
}

// SamplePose samples every channel in the clip in one pass. This is the
// unit the animator publishes each frame.
func (s *Sampler) SamplePose(clip *Clip, time float32) Pose {
	pose := make(Pose, len(clip.channels))
	for bone, channel := range clip.channels {
		pose[bone] = s.sampleChannel(channel, time)
	}
	return pose
}

func (s *Sampler) sampleChannel(c *Channel, time float32) BoneTransform {
	keys := c.Keyframes

	// A single keyframe means the bone is static for the whole clip.
	if len(keys) == 1 {
		return keyframeTransform(keys[0])
	}

	// Clamp outside the keyframe range; looping is handled by the
	// caller via time wrap-around, never by extrapolation here.
	if time <= keys[0].Time {
		return keyframeTransform(keys[0])
	}
	if last := keys[len(keys)-1]; time >= last.Time {
		return keyframeTransform(last)
	}

	i := s.bracketIndex(c, time)
	k0 := keys[i]
	k1 := keys[i+1]

	span := k1.Time - k0.Time
	if span <= 0 {
		// Degenerate zero-length interval.
		return keyframeTransform(k0)
	}
	t := (time - k0.Time) / span
	return lerpTransforms(keyframeTransform(k0), keyframeTransform(k1), t)
}

// bracketIndex returns i such that keys[i].Time <= time < keys[i+1].Time.
// The caller guarantees time lies strictly inside the keyframe range.
func (s *Sampler) bracketIndex(c *Channel, time float32) int {
	keys := c.Keyframes

	// Typical frame-to-frame advance lands in the same bracket or the
	// next one; check both before falling back to a binary search.
	if hint, ok := s.hints[c]; ok {
		if hint+1 < len(keys) && keys[hint].Time <= time && time < keys[hint+1].Time {
			return hint
		}
		if next := hint + 1; next+1 < len(keys) && keys[next].Time <= time && time < keys[next+1].Time {
			s.hints[c] = next
			return next
		}
	}

	// Rewind or long seek: binary search for the first keyframe past time.
	i := sort.Search(len(keys), func(j int) bool {
		return keys[j].Time > time
	}) - 1
	s.hints[c] = i
	return i
}

func keyframeTransform(k Keyframe) BoneTransform {
	return BoneTransform{
		Position: k.Position,
		Rotation: k.Rotation,
		Scale:    k.Scale,
	}
}
