package gpu

import (
	"strings"
	"testing"
)

func TestFramebufferStatusCause(t *testing.T) {
	cases := []struct {
		status FramebufferStatus
		cause  IncompleteCause
	}{
		{StatusComplete, CauseNone},
		{StatusMissingAttachment, CauseMissingAttachment},
		{StatusIncompleteDrawBuffer, CauseMissingAttachment},
		{StatusIncompleteDimensions, CauseDimensionMismatch},
		{StatusIncompleteFormats, CauseFormatMismatch},
		{StatusIncompleteAttachment, CauseFormatMismatch},
		{StatusUnsupported, CauseUnsupported},
		{StatusUnknown, CauseUnsupported},
	}
	for _, c := range cases {
		if got := c.status.Cause(); got != c.cause {
			t.Errorf("%v: expected cause %v, got %v", c.status, c.cause, got)
		}
	}
}

func TestFramebufferStatusExplain(t *testing.T) {
	if !strings.Contains(StatusIncompleteDimensions.Explain(), "different size") ||
		!strings.Contains(StatusIncompleteDimensions.Explain(), "zero width or height") {
		t.Errorf("dimensions explanation: got %q", StatusIncompleteDimensions.Explain())
	}
	bogus := FramebufferStatus(99)
	if bogus.String() != StatusUnknown.String() || bogus.Explain() != StatusUnknown.Explain() {
		t.Errorf("out of range status should read as unknown, got %q", bogus.String())
	}
	if !StatusComplete.Complete() || StatusUnsupported.Complete() {
		t.Error("Complete() misclassifies statuses")
	}
}

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{Stage: StageFragment, Log: "0:1: syntax error"}
	if got := err.Error(); got != "fragment: compile failed: 0:1: syntax error" {
		t.Errorf("unexpected message %q", got)
	}
	link := &CompileError{Link: true, Log: "missing main"}
	if got := link.Error(); got != "link failed: missing main" {
		t.Errorf("unexpected message %q", got)
	}
}
