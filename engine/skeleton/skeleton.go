package skeleton

import (
	"fmt"

	"github.com/spaghettifunk/ossa/engine/animation"
	"github.com/spaghettifunk/ossa/engine/math"
)

/**
 * @brief A named node in the bone hierarchy. ParentIndex is -1 for a
 * root bone and must otherwise point at an earlier bone so a single
 * forward pass resolves every parent before its children.
 */
type Bone struct {
	Name        string
	ParentIndex int
	// Rest is the bone's local transform when no animation drives it.
	Rest animation.BoneTransform
}

/**
 * @brief The runtime bone hierarchy. It consumes poses published by an
 * animator, overlays them onto the rest pose and exposes world-space
 * transforms for each bone.
 */
type Skeleton struct {
	bones       []Bone
	nameToIndex map[string]int
	transforms  []*math.Transform
}

// New validates the bone list and builds the transform hierarchy.
// Bones must have unique non-empty names and appear parent-first.
func New(bones []Bone) (*Skeleton, error) {
	if len(bones) == 0 {
		return nil, fmt.Errorf("skeleton needs at least one bone")
	}

	s := &Skeleton{
		bones:       make([]Bone, len(bones)),
		nameToIndex: make(map[string]int, len(bones)),
		transforms:  make([]*math.Transform, len(bones)),
	}
	copy(s.bones, bones)

	for i, bone := range s.bones {
		if bone.Name == "" {
			return nil, fmt.Errorf("bone %d has no name", i)
		}
		if _, exists := s.nameToIndex[bone.Name]; exists {
			return nil, fmt.Errorf("duplicate bone name %q", bone.Name)
		}
		if bone.ParentIndex < -1 || bone.ParentIndex >= i {
			return nil, fmt.Errorf("bone %q has invalid parent index %d", bone.Name, bone.ParentIndex)
		}
		s.nameToIndex[bone.Name] = i

		if bone.Rest.Scale.LengthSquared() == 0 {
			// A zero-valued Rest means the caller never set one.
			s.bones[i].Rest = animation.BindTransform()
		}
		rest := s.bones[i].Rest
		s.transforms[i] = math.TransformFromPositionRotationScale(rest.Position, rest.Rotation, rest.Scale)
		if bone.ParentIndex >= 0 {
			s.transforms[i].Parent = s.transforms[bone.ParentIndex]
		}
	}
	return s, nil
}

// Len returns the number of bones.
func (s *Skeleton) Len() int {
	return len(s.bones)
}

// Bone returns the bone at the given index.
func (s *Skeleton) Bone(index int) (Bone, bool) {
	if index < 0 || index >= len(s.bones) {
		return Bone{}, false
	}
	return s.bones[index], true
}

// Find resolves a bone by name.
func (s *Skeleton) Find(name string) (int, bool) {
	i, ok := s.nameToIndex[name]
	return i, ok
}

// ApplyPose overlays the sampled pose onto the hierarchy. Bones absent
// from the pose fall back to their rest transform so partial clips
// never collapse the untargeted part of the skeleton.
func (s *Skeleton) ApplyPose(pose animation.Pose) {
	for i, bone := range s.bones {
		local := bone.Rest
		if bt, ok := pose[bone.Name]; ok {
			local = bt
		}
		s.transforms[i].SetPositionRotationScale(local.Position, local.Rotation, local.Scale)
	}
}

// LocalTransform returns the bone's current local matrix.
func (s *Skeleton) LocalTransform(index int) (math.Mat4, bool) {
	if index < 0 || index >= len(s.transforms) {
		return math.NewMat4Identity(), false
	}
	return s.transforms[index].GetLocal(), true
}

// WorldTransform returns the bone's current world matrix, composed
// through the parent chain.
func (s *Skeleton) WorldTransform(index int) (math.Mat4, bool) {
	if index < 0 || index >= len(s.transforms) {
		return math.NewMat4Identity(), false
	}
	return s.transforms[index].GetWorld(), true
}
