package renderer

import (
	"errors"
	"fmt"

	"deferred-fbo/gpu"
)

// ErrorKind classifies startup failures.
type ErrorKind int

const (
	MissingCapability ErrorKind = iota + 1
	ShaderCompile
	FramebufferIncomplete
	AssetNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case MissingCapability:
		return "missing capability"
	case ShaderCompile:
		return "shader compile"
	case FramebufferIncomplete:
		return "framebuffer incomplete"
	case AssetNotFound:
		return "asset not found"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// InitError is returned by New. Every InitError is fatal.
type InitError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// ErrNoFramebuffers is wrapped by MissingCapability errors.
var ErrNoFramebuffers = errors.New("framebuffer objects are not supported")

// IncompleteError describes a framebuffer that failed validation.
type IncompleteError struct {
	Binding string
	Status  gpu.FramebufferStatus
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s framebuffer: %s (%s)", e.Binding, e.Status, e.Status.Cause())
}

// KindOf returns the kind of an InitError anywhere in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var ie *InitError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return 0
}
