package animation

import (
	"testing"

	"github.com/spaghettifunk/ossa/engine/math"
)

func staticKey(t float32) Keyframe {
	return Keyframe{
		Time:     t,
		Position: math.NewVec3Zero(),
		Rotation: math.NewQuatIdentity(),
		Scale:    math.NewVec3One(),
	}
}

func TestNewChannelValidation(t *testing.T) {
	tests := []struct {
		name      string
		boneName  string
		keyframes []Keyframe
		wantErr   bool
	}{
		{"valid", "root", []Keyframe{staticKey(0), staticKey(1)}, false},
		{"single keyframe is static", "root", []Keyframe{staticKey(0.5)}, false},
		{"empty keyframes", "root", nil, true},
		{"empty bone name", "", []Keyframe{staticKey(0)}, true},
		{"negative start time", "root", []Keyframe{staticKey(-0.1)}, true},
		{"non-increasing time", "root", []Keyframe{staticKey(0), staticKey(1), staticKey(1)}, true},
	}

	for _, test := range tests {
		_, err := NewChannel(test.boneName, test.keyframes)
		if (err != nil) != test.wantErr {
			t.Errorf("%s: NewChannel error = %v, wantErr = %v", test.name, err, test.wantErr)
		}
	}
}

func TestNewClipRaisesShortDuration(t *testing.T) {
	channel, err := NewChannel("root", []Keyframe{staticKey(0), staticKey(2.0)})
	if err != nil {
		t.Fatal(err)
	}

	clip, err := NewClip("Walk", 1.0, []*Channel{channel}, true)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Duration != 2.0 {
		t.Errorf("Duration = %f, expected 2.0 (raised to channel end)", clip.Duration)
	}
}

func TestNewClipRejectsDuplicateChannels(t *testing.T) {
	a, _ := NewChannel("root", []Keyframe{staticKey(0)})
	b, _ := NewChannel("root", []Keyframe{staticKey(0)})

	if _, err := NewClip("Walk", 1.0, []*Channel{a, b}, true); err == nil {
		t.Error("expected error for duplicate bone channels")
	}
}

func TestCollectionGeneratesNames(t *testing.T) {
	unnamed0, _ := NewClip("", 1.0, nil, true)
	named, _ := NewClip("Walk", 1.0, nil, true)
	unnamed2, _ := NewClip("", 1.0, nil, true)

	collection := NewCollection("hero", []*Clip{unnamed0, named, unnamed2})

	tests := []struct {
		name          string
		expectedIndex int
	}{
		{"Animation_0", 0},
		{"Walk", 1},
		{"Animation_2", 2},
	}
	for _, test := range tests {
		_, index, ok := collection.Find(test.name)
		if !ok || index != test.expectedIndex {
			t.Errorf("Find(%q) = (%d, %v), expected index %d", test.name, index, ok, test.expectedIndex)
		}
	}
}

func TestCollectionDuplicateNamesResolveFirstSeen(t *testing.T) {
	first, _ := NewClip("Walk", 1.0, nil, true)
	second, _ := NewClip("Walk", 2.0, nil, true)

	collection := NewCollection("hero", []*Clip{first, second})

	clip, index, ok := collection.Find("Walk")
	if !ok || index != 0 || clip != first {
		t.Errorf("Find(Walk) resolved to index %d, expected first-seen index 0", index)
	}
	if collection.Len() != 2 {
		t.Errorf("Len() = %d, both clips must remain stored", collection.Len())
	}
}

func TestCollectionOutOfRange(t *testing.T) {
	collection := NewCollection("empty", nil)

	if _, ok := collection.Clip(0); ok {
		t.Error("Clip(0) on empty collection must fail")
	}
	if _, _, ok := collection.Find("anything"); ok {
		t.Error("Find on empty collection must fail")
	}
}
