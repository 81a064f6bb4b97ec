package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	onResize []func(width, height int)
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

// DefaultWindowConfig opens the window at the offscreen target size.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     512,
		Height:    512,
		Title:     "Deferred Shading (FBO)",
		Resizable: true,
		VSync:     true,
	}
}

// NewWindow creates a window with a current OpenGL 4.1 core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	glfw.SwapInterval(boolToInt(config.VSync))

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}
	window.Width, window.Height = handle.GetFramebufferSize()

	handle.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		for _, cb := range window.onResize {
			cb(width, height)
		}
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

// Close asks the main loop to stop after the current frame.
func (w *Window) Close() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// FramebufferSize is GetFramebufferSize under the name app.Surface uses.
func (w *Window) FramebufferSize() (int, int) {
	return w.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

// CharCallback receives text input, one rune per key press.
type CharCallback func(r rune)

func (w *Window) SetCharCallback(cb CharCallback) {
	w.Handle.SetCharCallback(func(win *glfw.Window, r rune) {
		cb(r)
	})
}

// KeyCallback receives key presses; releases and repeats are dropped.
type KeyCallback func(key int)

func (w *Window) SetKeyCallback(cb KeyCallback) {
	w.Handle.SetKeyCallback(func(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press {
			cb(int(key))
		}
	})
}

// OnFramebufferResize registers cb for framebuffer size changes in pixels.
func (w *Window) OnFramebufferResize(cb func(width, height int)) {
	w.onResize = append(w.onResize, cb)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// KeyEscape is the key code SetKeyCallback reports for escape. Space
// arrives through the char callback instead.
const KeyEscape = int(glfw.KeyEscape)
