package animation

import (
	"testing"

	"github.com/spaghettifunk/ossa/engine/math"
)

func testPoses() (Pose, Pose) {
	a := Pose{
		"root": {
			Position: math.NewVec3(0, 0, 0),
			Rotation: math.NewQuatIdentity(),
			Scale:    math.NewVec3One(),
		},
		"arm": {
			Position: math.NewVec3(1, 0, 0),
			Rotation: math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), math.DegToRad(20), true),
			Scale:    math.NewVec3One(),
		},
		"tail": {
			Position: math.NewVec3(0, 0, -3),
			Rotation: math.NewQuatIdentity(),
			Scale:    math.NewVec3One(),
		},
	}
	b := Pose{
		"root": {
			Position: math.NewVec3(4, 0, 0),
			Rotation: math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), math.DegToRad(90), true),
			Scale:    math.NewVec3(2, 2, 2),
		},
		"arm": {
			Position: math.NewVec3(1, 2, 0),
			Rotation: math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), math.DegToRad(60), true),
			Scale:    math.NewVec3One(),
		},
		"wing": {
			Position: math.NewVec3(0, 5, 0),
			Rotation: math.NewQuatIdentity(),
			Scale:    math.NewVec3One(),
		},
	}
	return a, b
}

func comparePoses(t *testing.T, got, expected Pose) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("pose has %d bones, expected %d", len(got), len(expected))
	}
	for bone, want := range expected {
		transform, ok := got[bone]
		if !ok {
			t.Errorf("bone %s missing from blended pose", bone)
			continue
		}
		if !transform.Compare(want, tolerance) {
			t.Errorf("bone %s = %+v, expected %+v", bone, transform, want)
		}
	}
}

func TestBlendWeightZeroYieldsFirstPose(t *testing.T) {
	a, b := testPoses()
	got := Blend(a, b, 0)

	// Bones unique to b still pass through untouched.
	expected := Pose{"root": a["root"], "arm": a["arm"], "tail": a["tail"], "wing": b["wing"]}
	comparePoses(t, got, expected)
}

func TestBlendWeightOneYieldsSecondPose(t *testing.T) {
	a, b := testPoses()
	got := Blend(a, b, 1)

	expected := Pose{"root": b["root"], "arm": b["arm"], "tail": a["tail"], "wing": b["wing"]}
	comparePoses(t, got, expected)
}

func TestBlendMidpoint(t *testing.T) {
	a, b := testPoses()
	got := Blend(a, b, 0.5)

	root := got["root"]
	if !root.Position.Compare(math.NewVec3(2, 0, 0), tolerance) {
		t.Errorf("root position = %v, expected (2, 0, 0)", root.Position)
	}
	if !root.Scale.Compare(math.NewVec3(1.5, 1.5, 1.5), tolerance) {
		t.Errorf("root scale = %v, expected (1.5, 1.5, 1.5)", root.Scale)
	}
	expectedRot := math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), math.DegToRad(45), true)
	if !root.Rotation.Compare(expectedRot, tolerance) {
		t.Errorf("root rotation = %v, expected 45 degree yaw", root.Rotation)
	}
}

func TestBlendClampsWeight(t *testing.T) {
	a, b := testPoses()

	low := Blend(a, b, -2)
	if !low["root"].Compare(a["root"], tolerance) {
		t.Errorf("weight below zero did not clamp to first pose: %+v", low["root"])
	}
	high := Blend(a, b, 7)
	if !high["root"].Compare(b["root"], tolerance) {
		t.Errorf("weight above one did not clamp to second pose: %+v", high["root"])
	}
}

func TestBlendIsDeterministic(t *testing.T) {
	a, b := testPoses()

	first := Blend(a, b, 0.3)
	second := Blend(a, b, 0.3)
	for bone := range first {
		if first[bone] != second[bone] {
			t.Errorf("bone %s differs between identical blends", bone)
		}
	}
}

func TestBlendDoesNotMutateInputs(t *testing.T) {
	a, b := testPoses()
	aRoot := a["root"]
	bRoot := b["root"]

	Blend(a, b, 0.5)

	if a["root"] != aRoot || b["root"] != bRoot {
		t.Error("Blend mutated an input pose")
	}
}

func TestBindTransformIsIdentity(t *testing.T) {
	bind := BindTransform()
	if !bind.Position.Compare(math.NewVec3Zero(), tolerance) {
		t.Errorf("bind position = %v", bind.Position)
	}
	if !bind.Rotation.Compare(math.NewQuatIdentity(), tolerance) {
		t.Errorf("bind rotation = %v", bind.Rotation)
	}
	if !bind.Scale.Compare(math.NewVec3One(), tolerance) {
		t.Errorf("bind scale = %v", bind.Scale)
	}
}
