package software

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"deferred-fbo/gpu"
	"deferred-fbo/scene"
)

const (
	flatVS = "flat vertex"
	flatFS = "flat fragment"
	mrtFS  = "mrt fragment"
)

func testShaders() map[string]Shader {
	return map[string]Shader{
		flatVS: VertexShader(func(u *Uniforms, in gpu.Vertex, out *Varyings) mgl32.Vec4 {
			out[0], out[1] = in.UV.X(), in.UV.Y()
			return u.Mat4("MVP").Mul4x1(in.Position.Vec4(1))
		}),
		flatFS: FragmentShader(func(u *Uniforms, in *Varyings, _ mgl32.Vec4, out *Outputs) {
			out[0] = u.Vec3("Color").Vec4(1)
		}),
		mrtFS: FragmentShader(func(u *Uniforms, in *Varyings, frag mgl32.Vec4, out *Outputs) {
			out[0] = mgl32.Vec4{1, 0, 0, 1}
			out[1] = mgl32.Vec4{frag.Z(), 0, 0, 1}
		}),
	}
}

type fixture struct {
	dev   *Device
	prog  gpu.Program
	mvp   int32
	color int32
}

func newFixture(t *testing.T, w, h int, fragment string) *fixture {
	t.Helper()
	d := New(w, h, testShaders())
	vs, err := d.CompileShader(gpu.StageVertex, flatVS)
	if err != nil {
		t.Fatalf("compile vertex: %v", err)
	}
	fs, err := d.CompileShader(gpu.StageFragment, fragment)
	if err != nil {
		t.Fatalf("compile fragment: %v", err)
	}
	p, err := d.LinkProgram(vs, fs)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	d.UseProgram(p)
	f := &fixture{dev: d, prog: p, mvp: d.UniformLocation(p, "MVP"), color: d.UniformLocation(p, "Color")}
	d.UniformMatrix4(f.mvp, mgl32.Ident4())
	d.Uniform3f(f.color, mgl32.Vec3{0.2, 0.2, 0.2})
	return f
}

func (f *fixture) mesh(t *testing.T, v []gpu.Vertex) gpu.Mesh {
	t.Helper()
	m, err := f.dev.CreateMesh(v)
	if err != nil {
		t.Fatalf("CreateMesh: %v", err)
	}
	return m
}

func TestQuadCoversEveryPixelOnce(t *testing.T) {
	f := newFixture(t, 37, 23, flatFS)
	f.dev.SetBlend(gpu.BlendAdditive)
	f.dev.Draw(f.mesh(t, scene.QuadVertices()))

	pix := f.dev.Snapshot(f.dev.WindowTexture())
	for y := 0; y < 23; y++ {
		for x := 0; x < 37; x++ {
			got := pix[(y*37+x)*4]
			if got != 51 {
				t.Fatalf("pixel (%d,%d): expected 51, got %d", x, y, got)
			}
		}
	}
	if e := f.dev.LastError(); e != "NO_ERROR" {
		t.Errorf("LastError: %s", e)
	}
}

func TestCullModes(t *testing.T) {
	cases := []struct {
		cull  gpu.CullMode
		drawn bool
	}{
		{gpu.CullNone, true},
		{gpu.CullBack, true},
		{gpu.CullFront, false},
	}
	for _, c := range cases {
		f := newFixture(t, 8, 8, flatFS)
		f.dev.SetCullFace(c.cull)
		f.dev.Draw(f.mesh(t, scene.QuadVertices()))
		got := f.dev.Texel(f.dev.WindowTexture(), 4, 4).X() > 0
		if got != c.drawn {
			t.Errorf("cull %v: expected drawn=%v, got %v", c.cull, c.drawn, got)
		}
	}
}

func TestDepthTestKeepsNearest(t *testing.T) {
	f := newFixture(t, 8, 8, flatFS)
	f.dev.SetDepthTest(true)
	f.dev.Clear(gpu.ClearColor | gpu.ClearDepth)
	quad := f.mesh(t, scene.QuadVertices())

	f.dev.UniformMatrix4(f.mvp, mgl32.Translate3D(0, 0, -0.5))
	f.dev.Uniform3f(f.color, mgl32.Vec3{1, 0, 0})
	f.dev.Draw(quad)

	f.dev.UniformMatrix4(f.mvp, mgl32.Translate3D(0, 0, 0.5))
	f.dev.Uniform3f(f.color, mgl32.Vec3{0, 1, 0})
	f.dev.Draw(quad)

	if got := f.dev.Texel(f.dev.WindowTexture(), 3, 3); got.X() != 1 || got.Y() != 0 {
		t.Errorf("expected nearer red quad to win, got %v", got)
	}

	// LEQUAL: an equal depth passes.
	f.dev.UniformMatrix4(f.mvp, mgl32.Translate3D(0, 0, -0.5))
	f.dev.Uniform3f(f.color, mgl32.Vec3{0, 0, 1})
	f.dev.Draw(quad)
	if got := f.dev.Texel(f.dev.WindowTexture(), 3, 3); got.Z() != 1 {
		t.Errorf("expected equal-depth blue quad to pass, got %v", got)
	}
}

func TestMultipleRenderTargets(t *testing.T) {
	f := newFixture(t, 4, 4, mrtFS)
	d := f.dev
	color, _ := d.CreateTexture(gpu.TextureDesc{Width: 4, Height: 4, Format: gpu.FormatRGBA8})
	depth, _ := d.CreateTexture(gpu.TextureDesc{Width: 4, Height: 4, Format: gpu.FormatR32F})
	fb, err := d.CreateFramebuffer()
	if err != nil {
		t.Fatalf("CreateFramebuffer: %v", err)
	}
	d.AttachTexture(fb, gpu.Color0, color)
	d.AttachTexture(fb, gpu.Color1, depth)
	d.BindFramebuffer(fb)
	d.DrawBuffers(2)
	d.SetViewport(gpu.Viewport{Width: 4, Height: 4})
	d.UniformMatrix4(f.mvp, mgl32.Translate3D(0, 0, 0.5))
	d.Draw(f.mesh(t, scene.QuadVertices()))

	if got := d.Texel(color, 1, 1); got != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Errorf("color0: got %v", got)
	}
	if got := d.Texel(depth, 1, 1).X(); math.Abs(float64(got)-0.75) > 1e-6 {
		t.Errorf("color1: expected window depth 0.75, got %v", got)
	}
	if got := d.Texel(d.WindowTexture(), 1, 1); got.X() != 0 {
		t.Errorf("default framebuffer should be untouched, got %v", got)
	}
}

func TestViewportLimitsRasterization(t *testing.T) {
	f := newFixture(t, 8, 8, flatFS)
	f.dev.SetViewport(gpu.Viewport{X: 4, Y: 0, Width: 4, Height: 4})
	f.dev.Draw(f.mesh(t, scene.QuadVertices()))
	win := f.dev.WindowTexture()
	if f.dev.Texel(win, 5, 1).X() == 0 {
		t.Error("pixel inside viewport not drawn")
	}
	if f.dev.Texel(win, 1, 1).X() != 0 || f.dev.Texel(win, 5, 5).X() != 0 {
		t.Error("pixel outside viewport drawn")
	}
}

func TestSphereBackFacesCoverOnce(t *testing.T) {
	f := newFixture(t, 64, 64, flatFS)
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 1, 64)
	view := mgl32.LookAtV(mgl32.Vec3{0, 1, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	f.dev.UniformMatrix4(f.mvp, proj.Mul4(view))
	f.dev.SetBlend(gpu.BlendAdditive)
	f.dev.SetCullFace(gpu.CullFront)
	f.dev.Draw(f.mesh(t, scene.SphereVertices(0.8, scene.LightSlices, scene.LightStacks)))

	covered := 0
	pix := f.dev.Snapshot(f.dev.WindowTexture())
	for i := 0; i < len(pix); i += 4 {
		switch pix[i] {
		case 0:
		case 51:
			covered++
		default:
			t.Fatalf("pixel %d accumulated %d, expected 0 or 51", i/4, pix[i])
		}
	}
	if covered == 0 {
		t.Error("sphere not drawn")
	}
}

func TestNearPlaneClipping(t *testing.T) {
	f := newFixture(t, 16, 16, flatFS)
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 10)
	f.dev.UniformMatrix4(f.mvp, proj)
	// A floor triangle reaching behind the camera.
	tri := []gpu.Vertex{
		{Position: mgl32.Vec3{-2, -1, 5}},
		{Position: mgl32.Vec3{2, -1, 5}},
		{Position: mgl32.Vec3{0, -1, -5}},
	}
	f.dev.Draw(f.mesh(t, tri))
	if f.dev.Texel(f.dev.WindowTexture(), 8, 1).X() == 0 {
		t.Error("visible part of the clipped triangle not drawn")
	}
}

func TestFramebufferStatus(t *testing.T) {
	d := New(4, 4, nil)
	mk := func(w, h int, f gpu.Format) gpu.Texture {
		tex, err := d.CreateTexture(gpu.TextureDesc{Width: w, Height: h, Format: f})
		if err != nil {
			t.Fatalf("CreateTexture: %v", err)
		}
		return tex
	}

	fb, _ := d.CreateFramebuffer()
	if s := d.CheckFramebuffer(fb); s != gpu.StatusMissingAttachment {
		t.Errorf("empty: expected MissingAttachment, got %v", s)
	}

	d.AttachTexture(fb, gpu.Color0, mk(8, 8, gpu.FormatRGBA8))
	d.AttachTexture(fb, gpu.Depth, mk(8, 8, gpu.FormatDepth32F))
	if s := d.CheckFramebuffer(fb); s != gpu.StatusComplete {
		t.Errorf("matching: expected Complete, got %v", s)
	}

	d.AttachTexture(fb, gpu.Color1, mk(4, 4, gpu.FormatR32F))
	if s := d.CheckFramebuffer(fb); s != gpu.StatusIncompleteDimensions {
		t.Errorf("mismatch: expected IncompleteDimensions, got %v", s)
	}

	d.AttachTexture(fb, gpu.Color1, mk(8, 8, gpu.FormatDepth32F))
	if s := d.CheckFramebuffer(fb); s != gpu.StatusIncompleteAttachment {
		t.Errorf("depth in color slot: expected IncompleteAttachment, got %v", s)
	}

	d.AttachTexture(fb, gpu.Color1, 0)
	d.BindFramebuffer(fb)
	d.DrawBuffers(3)
	if s := d.CheckFramebuffer(fb); s != gpu.StatusIncompleteDrawBuffer {
		t.Errorf("draw buffers: expected IncompleteDrawBuffer, got %v", s)
	}
}

func TestFramebuffersUnsupported(t *testing.T) {
	d := New(4, 4, nil)
	d.Framebuffers = false
	if d.SupportsFramebuffers() {
		t.Fatal("SupportsFramebuffers should follow the field")
	}
	if _, err := d.CreateFramebuffer(); err == nil {
		t.Error("expected CreateFramebuffer to fail")
	}
	if e := d.LastError(); e != "INVALID_OPERATION" {
		t.Errorf("LastError: expected INVALID_OPERATION, got %s", e)
	}
	if e := d.LastError(); e != "NO_ERROR" {
		t.Errorf("LastError should reset, got %s", e)
	}
}

func TestCompileErrors(t *testing.T) {
	d := New(4, 4, testShaders())
	_, err := d.CompileShader(gpu.StageVertex, "void main() { oops }")
	var ce *gpu.CompileError
	if !errors.As(err, &ce) || ce.Stage != gpu.StageVertex {
		t.Fatalf("expected vertex CompileError, got %v", err)
	}
	if _, err := d.CompileShader(gpu.StageVertex, flatFS); !errors.As(err, &ce) {
		t.Errorf("fragment source compiled as vertex: %v", err)
	}

	vs, _ := d.CompileShader(gpu.StageVertex, "  "+flatVS+"\n")
	vs2, _ := d.CompileShader(gpu.StageVertex, flatVS)
	if _, err := d.LinkProgram(vs, vs2); !errors.As(err, &ce) || !ce.Link {
		t.Errorf("expected link error, got %v", err)
	}
	if n := d.Live().Shaders; n != 0 {
		t.Errorf("failed link left %d shaders behind", n)
	}
}

func TestResizeKeepsViewport(t *testing.T) {
	d := New(4, 4, nil)
	d.Resize(10, 6)
	desc, ok := d.TextureDesc(d.WindowTexture())
	if !ok || desc.Width != 10 || desc.Height != 6 {
		t.Errorf("window size: got %+v", desc)
	}
	if vp := d.Viewport(); vp.Width != 4 || vp.Height != 4 {
		t.Errorf("viewport changed on resize: %+v", vp)
	}
	if c := d.Live(); c != (Counts{}) {
		t.Errorf("window buffers counted as live objects: %+v", c)
	}
}
