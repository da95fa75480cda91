package math

import "testing"

const tolerance = 1e-5

func TestVec3Lerp(t *testing.T) {
	tests := []struct {
		a, b     Vec3
		t        float32
		expected Vec3
	}{
		{NewVec3(0, 0, 0), NewVec3(1, 2, 3), 0.0, NewVec3(0, 0, 0)},
		{NewVec3(0, 0, 0), NewVec3(1, 2, 3), 1.0, NewVec3(1, 2, 3)},
		{NewVec3(0, 0, 0), NewVec3(1, 2, 3), 0.5, NewVec3(0.5, 1, 1.5)},
		{NewVec3(-1, -1, -1), NewVec3(1, 1, 1), 0.25, NewVec3(-0.5, -0.5, -0.5)},
		{NewVec3(2, 4, 6), NewVec3(2, 4, 6), 0.7, NewVec3(2, 4, 6)},
	}

	for _, test := range tests {
		result := test.a.Lerp(test.b, test.t)
		if !result.Compare(test.expected, tolerance) {
			t.Errorf("Lerp(%v, %v, %f) = %v, expected %v", test.a, test.b, test.t, result, test.expected)
		}
	}
}

func TestQuaternionSlerpEndpoints(t *testing.T) {
	a := NewQuatFromAxisAngle(NewVec3(0, 1, 0), 0, true)
	b := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(90), true)

	start := a.Slerp(b, 0)
	if !start.Compare(a, tolerance) {
		t.Errorf("Slerp(a, b, 0) = %v, expected %v", start, a)
	}

	end := a.Slerp(b, 1)
	if !end.Compare(b, tolerance) {
		t.Errorf("Slerp(a, b, 1) = %v, expected %v", end, b)
	}
}

func TestQuaternionSlerpUnitLength(t *testing.T) {
	a := NewQuatFromAxisAngle(NewVec3(1, 0, 0), DegToRad(10), true)
	b := NewQuatFromAxisAngle(NewVec3(0, 0, 1), DegToRad(170), true)

	for i := 0; i <= 20; i++ {
		pct := float32(i) / 20.0
		q := a.Slerp(b, pct)
		if kabs(q.Normal()-1.0) > tolerance {
			t.Errorf("Slerp at %f produced non-unit quaternion with norm %f", pct, q.Normal())
		}
	}
}

func TestQuaternionSlerpShortestArc(t *testing.T) {
	// b and its negation represent the same rotation; slerp must
	// pick the shorter arc regardless of hemisphere.
	a := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(10), true)
	b := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(50), true)
	negB := Quaternion{-b.X, -b.Y, -b.Z, -b.W}

	mid := a.Slerp(b, 0.5)
	midNeg := a.Slerp(negB, 0.5)

	// Same rotation up to sign.
	if !mid.Compare(midNeg, tolerance) && !mid.Compare(Quaternion{-midNeg.X, -midNeg.Y, -midNeg.Z, -midNeg.W}, tolerance) {
		t.Errorf("shortest-arc slerp mismatch: %v vs %v", mid, midNeg)
	}

	expected := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(30), true)
	if !mid.Compare(expected, tolerance) {
		t.Errorf("Slerp midpoint = %v, expected %v", mid, expected)
	}
}

func TestQuaternionSlerpDegenerateInputs(t *testing.T) {
	// Nearly identical quaternions exercise the nlerp fallback path.
	a := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(30), true)
	b := NewQuatFromAxisAngle(NewVec3(0, 1, 0), DegToRad(30.001), true)

	q := a.Slerp(b, 0.5)
	if kabs(q.Normal()-1.0) > tolerance {
		t.Errorf("nlerp fallback produced non-unit quaternion with norm %f", q.Normal())
	}
	if !q.Compare(a, 1e-3) {
		t.Errorf("nlerp fallback drifted: %v vs %v", q, a)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		value, low, high, expected float32
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0, 0, 1, 0},
		{1, 0, 1, 1},
	}

	for _, test := range tests {
		if got := Clamp(test.value, test.low, test.high); got != test.expected {
			t.Errorf("Clamp(%f, %f, %f) = %f, expected %f", test.value, test.low, test.high, got, test.expected)
		}
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		x, y, expected float32
	}{
		{2.5, 2.0, 0.5},
		{4.0, 2.0, 0.0},
		{-0.5, 2.0, -0.5},
		{1.5, 2.0, 1.5},
	}

	for _, test := range tests {
		if got := Mod(test.x, test.y); kabs(got-test.expected) > tolerance {
			t.Errorf("Mod(%f, %f) = %f, expected %f", test.x, test.y, got, test.expected)
		}
	}
}

func TestTransformGetWorldComposesParent(t *testing.T) {
	parent := TransformFromPosition(NewVec3(1, 0, 0))
	child := TransformFromPosition(NewVec3(0, 2, 0))
	child.Parent = parent

	world := child.GetWorld()
	// Row-major translation lives in elements 12..14.
	if kabs(world.Data[12]-1) > tolerance || kabs(world.Data[13]-2) > tolerance {
		t.Errorf("world translation = (%f, %f), expected (1, 2)", world.Data[12], world.Data[13])
	}
}
