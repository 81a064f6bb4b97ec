package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-5

func TestAdvanceAccumulatesElapsedTime(t *testing.T) {
	s := New(rand.New(rand.NewSource(1)), 4)
	const dt = float32(1.0 / 30.0)
	for i := 0; i < 90; i++ {
		s.Advance(dt)
	}
	expected := 90 * dt
	if math.Abs(float64(s.Angle()-expected)) > 1e-4 {
		t.Errorf("Angle: expected %v, got %v", expected, s.Angle())
	}
}

func TestGeneratedLightsStayInRange(t *testing.T) {
	lights := GenerateLights(rand.New(rand.NewSource(42)), DefaultLightCount)
	if len(lights) != DefaultLightCount {
		t.Fatalf("expected %d lights, got %d", DefaultLightCount, len(lights))
	}
	for i, l := range lights {
		if d := math.Abs(float64(l.Color.Len() - 1)); d > epsilon {
			t.Errorf("light %d: color length %v, expected 1", i, l.Color.Len())
		}
		if l.Radius < 0.1 || l.Radius > 0.8 {
			t.Errorf("light %d: radius %v outside [0.1, 0.8]", i, l.Radius)
		}
		if d := math.Abs(float64(l.Position.Len() - 0.9)); d > epsilon {
			t.Errorf("light %d: distance from origin %v, expected 0.9", i, l.Position.Len())
		}
	}
}

func TestGenerateLightsIsDeterministicForSeed(t *testing.T) {
	a := GenerateLights(rand.New(rand.NewSource(7)), 10)
	b := GenerateLights(rand.New(rand.NewSource(7)), 10)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("light %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLightWorldIsTranslation(t *testing.T) {
	l := PointLight{Position: mgl32.Vec3{0.1, -0.2, 0.3}}
	got := l.World().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !got.ApproxEqual(l.Position) {
		t.Errorf("World: expected origin to map to %v, got %v", l.Position, got)
	}
}

func TestResizeChangesAspectOnly(t *testing.T) {
	s := NewWithLights(nil)
	s.Resize(800, 400)
	if s.Camera.AspectRatio != 2 {
		t.Errorf("AspectRatio: expected 2, got %v", s.Camera.AspectRatio)
	}
	expected := mgl32.Perspective(mgl32.DegToRad(45), 2, 1, 64)
	if !s.Camera.GetProjectionMatrix().ApproxEqual(expected) {
		t.Errorf("projection mismatch after resize")
	}

	s.Resize(800, 0)
	if s.Camera.AspectRatio != 2 {
		t.Errorf("zero height should be ignored, aspect became %v", s.Camera.AspectRatio)
	}
}

func TestCameraLooksAtOrigin(t *testing.T) {
	s := NewWithLights(nil)
	clip := s.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	if math.Abs(float64(ndc.X())) > epsilon || math.Abs(float64(ndc.Y())) > epsilon {
		t.Errorf("origin should project to screen center, got %v", ndc)
	}
	if s.CameraPosition() != (mgl32.Vec3{0, 1, 3}) {
		t.Errorf("CameraPosition: got %v", s.CameraPosition())
	}
}
