// Package gpu describes the small slice of a programmable 3D API the
// deferred pipeline needs: textures, framebuffer objects, shader programs,
// vertex meshes and the handful of fixed-function switches the passes flip.
//
// Two implementations exist: internal/opengl drives a real GL 4.1 core
// context, internal/software rasterizes on the CPU for tests.
package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Opaque object handles. Zero means "none"; for Framebuffer it names the
// default (window) framebuffer.
type (
	Texture     uint32
	Framebuffer uint32
	Shader      uint32
	Program     uint32
	Mesh        uint32
)

// DefaultFramebuffer is the window's own framebuffer.
const DefaultFramebuffer Framebuffer = 0

// Format is the storage format of a texture.
type Format int

const (
	FormatRGBA8 Format = iota
	FormatR32F
	FormatDepth32F
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatR32F:
		return "R32F"
	case FormatDepth32F:
		return "Depth32F"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// IsDepth reports whether f can only be attached as a depth buffer.
func (f Format) IsDepth() bool { return f == FormatDepth32F }

// Filter is the minification/magnification filter of a texture.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// Wrap is the texture coordinate wrap mode.
type Wrap int

const (
	WrapClampToBorder Wrap = iota
	WrapRepeat
)

// TextureDesc fully describes a 2D texture. Pixels is optional initial data
// in RGBA8 layout, rows bottom to top; only valid for FormatRGBA8.
type TextureDesc struct {
	Width  int
	Height int
	Format Format
	Filter Filter
	Wrap   Wrap
	Pixels []byte
}

// Attachment names a framebuffer attachment point.
type Attachment int

const (
	Color0 Attachment = iota
	Color1
	Color2
	Color3

	Depth Attachment = -1
)

// ColorAttachment returns the i-th color attachment point.
func ColorAttachment(i int) Attachment { return Color0 + Attachment(i) }

func (a Attachment) String() string {
	if a == Depth {
		return "depth"
	}
	return fmt.Sprintf("color%d", int(a))
}

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

func (c CullMode) String() string {
	switch c {
	case CullBack:
		return "back"
	case CullFront:
		return "front"
	}
	return "none"
}

// BlendMode selects how fragment outputs combine with the target.
type BlendMode int

const (
	BlendNone BlendMode = iota
	// BlendAdditive is src*ONE + dst*ONE.
	BlendAdditive
)

// ClearMask selects the buffers Clear touches.
type ClearMask int

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// ShaderStage is the pipeline stage a shader is compiled for.
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	if s == StageFragment {
		return "fragment"
	}
	return "vertex"
}

// Viewport is a window-space rectangle with a bottom-left origin.
type Viewport struct {
	X, Y          int
	Width, Height int
}

// Vertex is the single vertex layout used by every mesh: position at
// attribute 0, normal at 1, texture coordinate at 2.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Capabilities is the startup capability summary of a device.
type Capabilities struct {
	Version             string
	Framebuffers        bool
	MaxColorAttachments int
	AuxBuffers          int
	MaxDrawBuffers      int
	Stereo              bool
	Samples             int
	DoubleBuffer        bool
}

// CompileError is returned when a shader stage fails to compile or a
// program fails to link. Log carries the driver diagnostic verbatim.
type CompileError struct {
	Stage ShaderStage
	Link  bool
	Log   string
}

func (e *CompileError) Error() string {
	if e.Link {
		return fmt.Sprintf("link failed: %s", e.Log)
	}
	return fmt.Sprintf("%s: compile failed: %s", e.Stage, e.Log)
}
