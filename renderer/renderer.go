// Package renderer implements deferred shading: a geometry pass fills an
// offscreen geometry buffer, a lighting pass accumulates every point light
// into a lighting buffer, and a composite pass combines both on screen.
package renderer

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"deferred-fbo/assets"
	"deferred-fbo/gpu"
	"deferred-fbo/scene"
)

// Config controls pipeline construction.
type Config struct {
	// TargetSize is the edge length of the offscreen targets.
	TargetSize int
	// StrictFramebuffers turns an incomplete framebuffer into a startup
	// error instead of a logged warning.
	StrictFramebuffers bool
	// Texture is the cube texture, resolved by the asset loader.
	Texture string
}

func DefaultConfig() Config {
	return Config{
		TargetSize:         DefaultTargetSize,
		StrictFramebuffers: false,
		Texture:            "Textures/crate",
	}
}

// ImageAssets is an Assets that can also load images.
type ImageAssets interface {
	Assets
	Image(name string) (*assets.Image, error)
}

// ViewMode selects what the composite pass shows.
type ViewMode int

const (
	ViewComposite ViewMode = iota
	ViewDebug
)

// Toggle switches between composite and debug views.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewDebug {
		return ViewComposite
	}
	return ViewDebug
}

func (m ViewMode) String() string {
	if m == ViewDebug {
		return "debug"
	}
	return "composite"
}

// State owns every GPU resource of the pipeline.
type State struct {
	dev   gpu.Device
	scene *scene.Scene
	cfg   Config
	log   *zap.Logger

	Geometry *GeometryTargets
	Lighting *LightingTargets
	Programs *ProgramSet

	texture     gpu.Texture
	cube        gpu.Mesh
	quad        gpu.Mesh
	lightMeshes []gpu.Mesh
}

// New builds the pipeline for sc. Every error is an *InitError; resources
// created before the failure are released.
func New(dev gpu.Device, src ImageAssets, sc *scene.Scene, cfg Config, log *zap.Logger) (*State, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TargetSize <= 0 {
		cfg.TargetSize = DefaultTargetSize
	}
	s := &State{dev: dev, scene: sc, cfg: cfg, log: log}

	if !dev.SupportsFramebuffers() {
		return nil, &InitError{Kind: MissingCapability, Op: "startup", Err: ErrNoFramebuffers}
	}
	if err := s.init(src); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *State) init(src ImageAssets) error {
	var err error
	if s.Geometry, err = CreateGeometryTargets(s.dev, s.cfg.TargetSize); err != nil {
		return asInitError(err, "geometry targets")
	}
	if s.Lighting, err = CreateLightingTarget(s.dev, s.cfg.TargetSize); err != nil {
		return asInitError(err, "lighting target")
	}
	if err := s.checkFramebuffers(); err != nil {
		return err
	}

	if s.Programs, err = LoadPrograms(s.dev, src, s.log); err != nil {
		return err
	}

	img, err := src.Image(s.cfg.Texture)
	if err != nil {
		return &InitError{Kind: AssetNotFound, Op: "load " + s.cfg.Texture, Err: err}
	}
	s.texture, err = s.dev.CreateTexture(gpu.TextureDesc{
		Width:  img.Width,
		Height: img.Height,
		Format: gpu.FormatRGBA8,
		Filter: gpu.FilterLinear,
		Wrap:   gpu.WrapClampToBorder,
		Pixels: img.FlipRows(),
	})
	if err != nil {
		return asInitError(err, "upload "+img.Name)
	}

	if s.cube, err = s.dev.CreateMesh(scene.CubeVertices()); err != nil {
		return asInitError(err, "cube mesh")
	}
	if s.quad, err = s.dev.CreateMesh(scene.QuadVertices()); err != nil {
		return asInitError(err, "quad mesh")
	}
	s.lightMeshes = make([]gpu.Mesh, 0, len(s.scene.Lights))
	for i, l := range s.scene.Lights {
		m, err := s.dev.CreateMesh(scene.SphereVertices(l.Radius, scene.LightSlices, scene.LightStacks))
		if err != nil {
			return asInitError(err, fmt.Sprintf("light %d mesh", i))
		}
		s.lightMeshes = append(s.lightMeshes, m)
	}

	s.logDiagnostics()
	return nil
}

func asInitError(err error, op string) error {
	var ie *InitError
	if errors.As(err, &ie) {
		return err
	}
	kind := MissingCapability
	if errors.Is(err, fs.ErrNotExist) {
		kind = AssetNotFound
	}
	return &InitError{Kind: kind, Op: op, Err: err}
}

// checkFramebuffers logs each binding's status. Incomplete bindings are
// fatal only in strict mode.
func (s *State) checkFramebuffers() error {
	for _, b := range []*Binding{s.Geometry.Binding, s.Lighting.Binding} {
		st := b.Check(s.dev)
		if st.Complete() {
			s.log.Info("framebuffer status", zap.String("target", b.Name),
				zap.Stringer("status", st), zap.String("detail", st.Explain()))
			continue
		}
		s.log.Warn("framebuffer incomplete", zap.String("target", b.Name),
			zap.Stringer("status", st), zap.Stringer("cause", st.Cause()),
			zap.String("detail", st.Explain()))
		if s.cfg.StrictFramebuffers {
			return &InitError{Kind: FramebufferIncomplete, Op: "check " + b.Name,
				Err: &IncompleteError{Binding: b.Name, Status: st}}
		}
	}
	return nil
}

func (s *State) logDiagnostics() {
	caps := s.dev.Capabilities()
	s.log.Info("device capabilities",
		zap.String("version", caps.Version),
		zap.Int("maxColorAttachments", caps.MaxColorAttachments),
		zap.Int("auxBuffers", caps.AuxBuffers),
		zap.Int("maxDrawBuffers", caps.MaxDrawBuffers),
		zap.Bool("stereo", caps.Stereo),
		zap.Int("samples", caps.Samples),
		zap.Bool("doubleBuffer", caps.DoubleBuffer),
	)
	s.log.Info("last GL error", zap.String("error", s.dev.LastError()))
}

// Resize adapts the window viewport and projection. Offscreen targets keep
// their size.
func (s *State) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.scene.Resize(w, h)
	s.dev.SetViewport(gpu.Viewport{Width: w, Height: h})
}

// RenderFrame runs the geometry, lighting and composite passes in order.
// The caller presents the frame.
func (s *State) RenderFrame(mode ViewMode) {
	s.GeometryPass()
	s.LightingPass()
	s.CompositePass(mode)
}

// Destroy releases textures, then framebuffers, then programs and meshes.
// It is safe on a partially built State and idempotent.
func (s *State) Destroy() {
	if s.Geometry != nil {
		s.Geometry.destroyTextures(s.dev)
	}
	if s.Lighting != nil {
		s.Lighting.destroyTextures(s.dev)
	}
	if s.texture != 0 {
		s.dev.DeleteTexture(s.texture)
		s.texture = 0
	}

	if s.Geometry != nil {
		s.Geometry.destroyFBO(s.dev)
	}
	if s.Lighting != nil {
		s.Lighting.destroyFBO(s.dev)
	}

	if s.Programs != nil {
		s.Programs.Destroy(s.dev)
	}
	for _, m := range append([]gpu.Mesh{s.cube, s.quad}, s.lightMeshes...) {
		if m != 0 {
			s.dev.DeleteMesh(m)
		}
	}
	s.cube, s.quad, s.lightMeshes = 0, 0, nil
}
