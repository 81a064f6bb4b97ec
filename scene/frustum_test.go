package scene

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrustumPlanesFaceInward(t *testing.T) {
	s := NewWithLights(nil)
	f := FrustumFromVP(s.ViewProjection())

	// The look-at target is inside every plane.
	for i, p := range f.Planes {
		if d := p.DistanceTo(mgl32.Vec3{}); d <= 0 {
			t.Errorf("plane %d: origin at distance %v, expected inside", i, d)
		}
		if l := p.Normal.Len(); l < 1-epsilon || l > 1+epsilon {
			t.Errorf("plane %d: normal length %v", i, l)
		}
	}
}

func TestFrustumSphereTests(t *testing.T) {
	s := NewWithLights(nil)
	f := FrustumFromVP(s.ViewProjection())

	cases := []struct {
		name     string
		center   mgl32.Vec3
		radius   float32
		expected bool
	}{
		{"at target", mgl32.Vec3{}, 0.1, true},
		{"behind camera", mgl32.Vec3{0, 1, 6}, 0.5, false},
		{"enclosing the eye", mgl32.Vec3{0, 1, 3}, 1.5, true},
		{"far to the side", mgl32.Vec3{20, 0, 0}, 0.5, false},
		{"straddling left edge", mgl32.Vec3{-1.6, 0, 0}, 0.8, true},
		{"beyond far plane", mgl32.Vec3{0, -20, -70}, 0.5, false},
	}
	for _, tc := range cases {
		if got := f.IntersectsSphere(tc.center, tc.radius); got != tc.expected {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}

func TestVisibleLightsSkipsOffscreenVolumes(t *testing.T) {
	s := NewWithLights([]PointLight{
		{Position: mgl32.Vec3{0, 0.5, 0}, Color: mgl32.Vec3{1, 0, 0}, Radius: 0.5},
		{Position: mgl32.Vec3{0, 1, 6}, Color: mgl32.Vec3{0, 1, 0}, Radius: 0.5},
		{Position: mgl32.Vec3{0.5, 0, 0.5}, Color: mgl32.Vec3{0, 0, 1}, Radius: 0.3},
	})

	got := s.VisibleLights()
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("expected [0 2], got %v", got)
	}
}

// The orbit is small enough that no generated light can leave the view.
func TestGeneratedLightsAreVisible(t *testing.T) {
	s := New(rand.New(rand.NewSource(3)), DefaultLightCount)
	if got := len(s.VisibleLights()); got != DefaultLightCount {
		t.Errorf("expected %d visible lights, got %d", DefaultLightCount, got)
	}
}
