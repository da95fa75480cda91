package animation

import (
	"testing"

	"github.com/spaghettifunk/ossa/engine/math"
)

const tolerance = 1e-5

// movementClip animates "root" from the origin to (10, 0, 0) with a
// 90 degree yaw and doubling scale over two seconds, and holds a static
// "head" bone. Its channels end before the three second duration.
func movementClip(t *testing.T, looping bool) *Clip {
	t.Helper()

	root, err := NewChannel("root", []Keyframe{
		{
			Time:     0,
			Position: math.NewVec3Zero(),
			Rotation: math.NewQuatIdentity(),
			Scale:    math.NewVec3One(),
		},
		{
			Time:     1.0,
			Position: math.NewVec3(5, 0, 0),
			Rotation: math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), math.DegToRad(45), true),
			Scale:    math.NewVec3(1.5, 1.5, 1.5),
		},
		{
			Time:     2.0,
			Position: math.NewVec3(10, 0, 0),
			Rotation: math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), math.DegToRad(90), true),
			Scale:    math.NewVec3(2, 2, 2),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	head, err := NewChannel("head", []Keyframe{
		{
			Time:     0,
			Position: math.NewVec3(0, 2, 0),
			Rotation: math.NewQuatIdentity(),
			Scale:    math.NewVec3One(),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	clip, err := NewClip("Move", 3.0, []*Channel{root, head}, looping)
	if err != nil {
		t.Fatal(err)
	}
	return clip
}

func TestSampleReproducesKeyframesExactly(t *testing.T) {
	clip := movementClip(t, true)
	sampler := NewSampler()

	channel, _ := clip.Channel("root")
	for _, key := range channel.Keyframes {
		got := sampler.Sample(clip, "root", key.Time)
		if !got.Compare(keyframeTransform(key), tolerance) {
			t.Errorf("Sample at keyframe time %f = %+v, expected stored values %+v", key.Time, got, key)
		}
	}
}

func TestSampleInterpolatesBetweenKeyframes(t *testing.T) {
	clip := movementClip(t, true)
	sampler := NewSampler()

	got := sampler.Sample(clip, "root", 0.5)
	if !got.Position.Compare(math.NewVec3(2.5, 0, 0), tolerance) {
		t.Errorf("position at 0.5 = %v, expected (2.5, 0, 0)", got.Position)
	}
	if !got.Scale.Compare(math.NewVec3(1.25, 1.25, 1.25), tolerance) {
		t.Errorf("scale at 0.5 = %v, expected (1.25, 1.25, 1.25)", got.Scale)
	}
	expectedRot := math.NewQuatFromAxisAngle(math.NewVec3(0, 1, 0), math.DegToRad(22.5), true)
	if !got.Rotation.Compare(expectedRot, tolerance) {
		t.Errorf("rotation at 0.5 = %v, expected %v", got.Rotation, expectedRot)
	}
}

func TestSampleRotationStaysUnitLength(t *testing.T) {
	clip := movementClip(t, true)
	sampler := NewSampler()

	for i := 0; i <= 40; i++ {
		time := float32(i) * 0.05
		got := sampler.Sample(clip, "root", time)
		norm := got.Rotation.Normal()
		if norm < 1.0-tolerance || norm > 1.0+tolerance {
			t.Errorf("rotation at %f has norm %f, expected unit length", time, norm)
		}
	}
}

func TestSampleClampsOutsideKeyframeRange(t *testing.T) {
	clip := movementClip(t, false)
	sampler := NewSampler()

	channel, _ := clip.Channel("root")
	first := keyframeTransform(channel.Keyframes[0])
	last := keyframeTransform(channel.Keyframes[len(channel.Keyframes)-1])

	tests := []struct {
		time     float32
		expected BoneTransform
	}{
		{-1.0, first},
		{0, first},
		// Channel ends at 2.0; the bone holds its last value until the
		// clip-wide duration of 3.0 and beyond.
		{2.5, last},
		{3.0, last},
		{100, last},
	}
	for _, test := range tests {
		if got := sampler.Sample(clip, "root", test.time); got != test.expected {
			t.Errorf("Sample at %f = %+v, expected clamped %+v", test.time, got, test.expected)
		}
	}
}

func TestSampleSingleKeyframeIsStatic(t *testing.T) {
	clip := movementClip(t, true)
	sampler := NewSampler()

	for _, time := range []float32{0, 0.5, 2.0, 10.0} {
		got := sampler.Sample(clip, "head", time)
		if !got.Position.Compare(math.NewVec3(0, 2, 0), tolerance) {
			t.Errorf("static bone moved at %f: %v", time, got.Position)
		}
	}
}

func TestSampleAbsentBoneReturnsBindTransform(t *testing.T) {
	clip := movementClip(t, true)
	sampler := NewSampler()

	if got := sampler.Sample(clip, "tail", 1.0); got != BindTransform() {
		t.Errorf("absent bone sampled to %+v, expected bind transform", got)
	}
}

func TestSampleIsIdempotent(t *testing.T) {
	clip := movementClip(t, true)
	sampler := NewSampler()

	for _, time := range []float32{0, 0.33, 1.5, 1.99} {
		first := sampler.Sample(clip, "root", time)
		second := sampler.Sample(clip, "root", time)
		if first != second {
			t.Errorf("Sample at %f is not idempotent: %+v vs %+v", time, first, second)
		}
	}
}

func TestSampleHintSurvivesRewind(t *testing.T) {
	clip := movementClip(t, true)
	sampler := NewSampler()
	reference := NewSampler()

	// Forward playback warms the hint, then jump backwards.
	times := []float32{0.1, 0.4, 0.9, 1.2, 1.8, 0.2, 1.5, 0.7}
	for _, time := range times {
		got := sampler.Sample(clip, "root", time)
		want := reference.Sample(clip, "root", time)
		if got != want {
			t.Errorf("hinted sample at %f = %+v, fresh sampler says %+v", time, got, want)
		}
	}
}

func TestSamplePoseCoversEveryChannel(t *testing.T) {
	clip := movementClip(t, true)
	sampler := NewSampler()

	pose := sampler.SamplePose(clip, 1.0)
	if len(pose) != 2 {
		t.Fatalf("pose has %d bones, expected 2", len(pose))
	}
	for _, bone := range []string{"root", "head"} {
		single := sampler.Sample(clip, bone, 1.0)
		if pose[bone] != single {
			t.Errorf("SamplePose[%s] = %+v, Sample says %+v", bone, pose[bone], single)
		}
	}
}

func TestSampleZeroLengthIntervalGuard(t *testing.T) {
	// Bypass NewChannel validation to simulate degenerate imported data.
	channel := &Channel{
		BoneName: "root",
		Keyframes: []Keyframe{
			{Time: 0, Position: math.NewVec3(1, 0, 0), Rotation: math.NewQuatIdentity(), Scale: math.NewVec3One()},
			{Time: 0, Position: math.NewVec3(9, 0, 0), Rotation: math.NewQuatIdentity(), Scale: math.NewVec3One()},
			{Time: 1, Position: math.NewVec3(5, 0, 0), Rotation: math.NewQuatIdentity(), Scale: math.NewVec3One()},
		},
	}
	clip := &Clip{Name: "degenerate", Duration: 1, Looping: false, channels: map[string]*Channel{"root": channel}}

	// Must not divide by zero; the degenerate interval resolves to k0.
	sampler := NewSampler()
	got := sampler.Sample(clip, "root", 0)
	if !got.Position.Compare(math.NewVec3(1, 0, 0), tolerance) {
		t.Errorf("degenerate interval sampled to %v, expected k0's position", got.Position)
	}
}
