package animation

import (
	"github.com/spaghettifunk/ossa/engine/math"
)

/**
 * @brief A single bone's local transform at one instant.
 */
type BoneTransform struct {
	Position math.Vec3
	Rotation math.Quaternion
	Scale    math.Vec3
}

// BindTransform returns the identity transform used for bones that
// have no channel in the active clip; the consumer keeps the bone's
// rest pose.
func BindTransform() BoneTransform {
	return BoneTransform{
		Position: math.NewVec3Zero(),
		Rotation: math.NewQuatIdentity(),
		Scale:    math.NewVec3One(),
	}
}

// Compare reports whether two transforms match within tolerance.
func (bt BoneTransform) Compare(other BoneTransform, tolerance float32) bool {
	return bt.Position.Compare(other.Position, tolerance) &&
		bt.Rotation.Compare(other.Rotation, tolerance) &&
		bt.Scale.Compare(other.Scale, tolerance)
}

// lerpTransforms applies the per-channel interpolation rule: linear for
// position and scale, shortest-arc spherical for rotation.
func lerpTransforms(a, b BoneTransform, t float32) BoneTransform {
	return BoneTransform{
		Position: a.Position.Lerp(b.Position, t),
		Rotation: a.Rotation.Slerp(b.Rotation, t),
		Scale:    a.Scale.Lerp(b.Scale, t),
	}
}

/**
 * @brief A mapping from bone name to local transform at a given instant.
 * This is the unit published to the skinning consumer every frame.
 */
type Pose map[string]BoneTransform

// Blend combines two sampled poses into one. weight is the contribution
// of b: 0 yields a, 1 yields b. Bones present in only one pose pass
// through unweighted so they never snap to bind pose mid-fade. Pure
// function; deterministic for identical inputs.
func Blend(a, b Pose, weight float32) Pose {
	weight = math.Clamp(weight, 0, 1)
	out := make(Pose, len(a)+len(b))
	for bone, ta := range a {
		if tb, ok := b[bone]; ok {
			out[bone] = lerpTransforms(ta, tb, weight)
		} else {
			out[bone] = ta
		}
	}
	for bone, tb := range b {
		if _, ok := a[bone]; !ok {
			out[bone] = tb
		}
	}
	return out
}
