package renderer

import (
	"fmt"
	"maps"
	"slices"

	"deferred-fbo/gpu"
)

// DefaultTargetSize is the edge length of every offscreen target. It does
// not follow the window size.
const DefaultTargetSize = 512

// Target is a texture that can be rendered into and sampled.
type Target struct {
	Texture gpu.Texture
	Desc    gpu.TextureDesc
}

func createTarget(dev gpu.Device, desc gpu.TextureDesc) (Target, error) {
	tex, err := dev.CreateTexture(desc)
	if err != nil {
		return Target{}, fmt.Errorf("create %v texture: %w", desc.Format, err)
	}
	return Target{Texture: tex, Desc: desc}, nil
}

// Binding is a framebuffer object together with what is attached to it.
type Binding struct {
	Name        string
	FBO         gpu.Framebuffer
	Attachments map[gpu.Attachment]Target
	DrawBuffers int
}

func newBinding(dev gpu.Device, name string) (*Binding, error) {
	fbo, err := dev.CreateFramebuffer()
	if err != nil {
		return nil, fmt.Errorf("create %s framebuffer: %w", name, err)
	}
	return &Binding{Name: name, FBO: fbo, Attachments: map[gpu.Attachment]Target{}, DrawBuffers: 1}, nil
}

// Attach replaces whatever is attached at at. The caller keeps ownership
// of the previous target.
func (b *Binding) Attach(dev gpu.Device, at gpu.Attachment, t Target) {
	dev.AttachTexture(b.FBO, at, t.Texture)
	b.Attachments[at] = t
}

// Validate checks the attachment invariants without asking the driver:
// there is at least one attachment, color slots hold color formats and the
// depth slot a depth format, every draw buffer has a color attachment and
// all attachments share one non-zero size.
func (b *Binding) Validate() gpu.FramebufferStatus {
	if len(b.Attachments) == 0 {
		return gpu.StatusMissingAttachment
	}
	// Depth (-1) sorts first, then color0..N.
	points := slices.Sorted(maps.Keys(b.Attachments))
	first := b.Attachments[points[0]].Desc
	for _, at := range points {
		d := b.Attachments[at].Desc
		if (at == gpu.Depth) != d.Format.IsDepth() {
			return gpu.StatusIncompleteAttachment
		}
	}
	for i := 0; i < b.DrawBuffers; i++ {
		if _, ok := b.Attachments[gpu.ColorAttachment(i)]; !ok {
			return gpu.StatusIncompleteDrawBuffer
		}
	}
	for _, at := range points {
		d := b.Attachments[at].Desc
		if d.Width <= 0 || d.Height <= 0 || d.Width != first.Width || d.Height != first.Height {
			return gpu.StatusIncompleteDimensions
		}
	}
	return gpu.StatusComplete
}

// Check runs Validate and, if that passes, the driver's own check.
func (b *Binding) Check(dev gpu.Device) gpu.FramebufferStatus {
	if s := b.Validate(); !s.Complete() {
		return s
	}
	return dev.CheckFramebuffer(b.FBO)
}

// Size returns the size of Color0, falling back to the lowest attachment
// point. Attachments share that size unless Validate reports otherwise.
func (b *Binding) Size() (int, int) {
	if len(b.Attachments) == 0 {
		return 0, 0
	}
	t, ok := b.Attachments[gpu.Color0]
	if !ok {
		t = b.Attachments[slices.Min(slices.Collect(maps.Keys(b.Attachments)))]
	}
	return t.Desc.Width, t.Desc.Height
}

// destroyFBO deletes only the framebuffer object; textures are released
// separately so that they go before the framebuffers.
func (b *Binding) destroyFBO(dev gpu.Device) {
	if b == nil || b.FBO == 0 {
		return
	}
	dev.DeleteFramebuffer(b.FBO)
	b.FBO = 0
}

// GeometryTargets is the geometry buffer: surface color, encoded normal and
// linear depth, plus a depth buffer used only for depth testing.
type GeometryTargets struct {
	*Binding
	Color       Target
	Normal      Target
	Depth       Target
	depthBuffer Target
}

// CreateGeometryTargets allocates the geometry buffer at size×size and
// attaches it to one framebuffer with three draw buffers.
func CreateGeometryTargets(dev gpu.Device, size int) (*GeometryTargets, error) {
	if !dev.SupportsFramebuffers() {
		return nil, &InitError{Kind: MissingCapability, Op: "geometry targets", Err: ErrNoFramebuffers}
	}

	g := &GeometryTargets{}
	descs := []struct {
		dst  *Target
		desc gpu.TextureDesc
	}{
		{&g.Color, gpu.TextureDesc{Width: size, Height: size, Format: gpu.FormatRGBA8, Filter: gpu.FilterLinear}},
		{&g.Normal, gpu.TextureDesc{Width: size, Height: size, Format: gpu.FormatRGBA8, Filter: gpu.FilterLinear}},
		{&g.Depth, gpu.TextureDesc{Width: size, Height: size, Format: gpu.FormatR32F, Filter: gpu.FilterLinear}},
		{&g.depthBuffer, gpu.TextureDesc{Width: size, Height: size, Format: gpu.FormatDepth32F, Filter: gpu.FilterLinear}},
	}
	for _, d := range descs {
		t, err := createTarget(dev, d.desc)
		if err != nil {
			g.destroyTextures(dev)
			return nil, err
		}
		*d.dst = t
	}

	b, err := newBinding(dev, "geometry")
	if err != nil {
		g.destroyTextures(dev)
		return nil, err
	}
	g.Binding = b
	g.Attach(dev, gpu.Color0, g.Color)
	g.Attach(dev, gpu.Color1, g.Normal)
	g.Attach(dev, gpu.Color2, g.Depth)
	g.Attach(dev, gpu.Depth, g.depthBuffer)
	g.DrawBuffers = 3
	return g, nil
}

func (g *GeometryTargets) destroyTextures(dev gpu.Device) {
	for _, t := range []*Target{&g.Color, &g.Normal, &g.Depth, &g.depthBuffer} {
		if t.Texture != 0 {
			dev.DeleteTexture(t.Texture)
			t.Texture = 0
		}
	}
}

// LightingTargets is the light accumulation buffer.
type LightingTargets struct {
	*Binding
	Lighting Target
}

// CreateLightingTarget allocates the accumulation target at size×size with
// nearest filtering on its own framebuffer.
func CreateLightingTarget(dev gpu.Device, size int) (*LightingTargets, error) {
	if !dev.SupportsFramebuffers() {
		return nil, &InitError{Kind: MissingCapability, Op: "lighting target", Err: ErrNoFramebuffers}
	}
	t, err := createTarget(dev, gpu.TextureDesc{Width: size, Height: size, Format: gpu.FormatRGBA8, Filter: gpu.FilterNearest})
	if err != nil {
		return nil, err
	}
	b, err := newBinding(dev, "lighting")
	if err != nil {
		dev.DeleteTexture(t.Texture)
		return nil, err
	}
	l := &LightingTargets{Binding: b, Lighting: t}
	l.Attach(dev, gpu.Color0, t)
	return l, nil
}

func (l *LightingTargets) destroyTextures(dev gpu.Device) {
	if l.Lighting.Texture != 0 {
		dev.DeleteTexture(l.Lighting.Texture)
		l.Lighting.Texture = 0
	}
}
