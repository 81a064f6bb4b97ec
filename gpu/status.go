package gpu

// FramebufferStatus is the completeness classification of a framebuffer.
type FramebufferStatus int

const (
	StatusComplete FramebufferStatus = iota
	StatusIncompleteAttachment
	StatusMissingAttachment
	StatusIncompleteDimensions
	StatusIncompleteFormats
	StatusIncompleteDrawBuffer
	StatusIncompleteReadBuffer
	StatusUnsupported
	StatusUnknown
)

var statusNames = [...]string{
	StatusComplete:             "FramebufferComplete",
	StatusIncompleteAttachment: "FramebufferIncompleteAttachment",
	StatusMissingAttachment:    "FramebufferIncompleteMissingAttachment",
	StatusIncompleteDimensions: "FramebufferIncompleteDimensions",
	StatusIncompleteFormats:    "FramebufferIncompleteFormats",
	StatusIncompleteDrawBuffer: "FramebufferIncompleteDrawBuffer",
	StatusIncompleteReadBuffer: "FramebufferIncompleteReadBuffer",
	StatusUnsupported:          "FramebufferUnsupported",
	StatusUnknown:              "FramebufferStatusUnknown",
}

var statusExplanations = [...]string{
	StatusComplete:             "FBO: The framebuffer is complete and valid for rendering.",
	StatusIncompleteAttachment: "FBO: One or more attachment points are not framebuffer attachment complete. This could mean there's no texture attached or the format isn't renderable. For color textures this means the base format must be RGB or RGBA and for depth textures it must be a DEPTH_COMPONENT format. Other causes of this error are that the width or height is zero or the z-offset is out of range in case of render to volume.",
	StatusMissingAttachment:    "FBO: There are no attachments.",
	StatusIncompleteDimensions: "FBO: Attachments are of different size or have zero width or height. All attachments must share one non-zero width and height.",
	StatusIncompleteFormats:    "FBO: The color attachments have different format. All color attachments must have the same format.",
	StatusIncompleteDrawBuffer: "FBO: An attachment point referenced by the draw buffers is missing.",
	StatusIncompleteReadBuffer: "FBO: The attachment point referenced by the read buffer is missing.",
	StatusUnsupported:          "FBO: This particular FBO configuration is not supported by the implementation.",
	StatusUnknown:              "FBO: Status unknown.",
}

func (s FramebufferStatus) valid() bool { return s >= 0 && int(s) < len(statusNames) }

func (s FramebufferStatus) String() string {
	if !s.valid() {
		return statusNames[StatusUnknown]
	}
	return statusNames[s]
}

// Explain returns a human-readable description of the status.
func (s FramebufferStatus) Explain() string {
	if !s.valid() {
		return statusExplanations[StatusUnknown]
	}
	return statusExplanations[s]
}

// Complete reports whether the framebuffer may be rendered to.
func (s FramebufferStatus) Complete() bool { return s == StatusComplete }

// IncompleteCause groups statuses into the causes the pipeline reports.
type IncompleteCause int

const (
	CauseNone IncompleteCause = iota
	CauseMissingAttachment
	CauseDimensionMismatch
	CauseFormatMismatch
	CauseUnsupported
)

func (c IncompleteCause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseMissingAttachment:
		return "missing attachment"
	case CauseDimensionMismatch:
		return "dimension mismatch"
	case CauseFormatMismatch:
		return "format mismatch"
	}
	return "unsupported"
}

// Cause classifies s. Zero-sized attachments are reported as
// StatusIncompleteDimensions, so StatusIncompleteAttachment only covers
// formats that do not fit their attachment point.
func (s FramebufferStatus) Cause() IncompleteCause {
	switch s {
	case StatusComplete:
		return CauseNone
	case StatusMissingAttachment, StatusIncompleteDrawBuffer, StatusIncompleteReadBuffer:
		return CauseMissingAttachment
	case StatusIncompleteDimensions:
		return CauseDimensionMismatch
	case StatusIncompleteAttachment, StatusIncompleteFormats:
		return CauseFormatMismatch
	}
	return CauseUnsupported
}
