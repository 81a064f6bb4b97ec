package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"deferred-fbo/app"
	"deferred-fbo/assets"
	"deferred-fbo/core"
	"deferred-fbo/internal/opengl"
	"deferred-fbo/renderer"
	"deferred-fbo/scene"
)

const noFramebuffersMessage = "Your video card does not support Framebuffer Objects. Please update your drivers."

func main() {
	os.Exit(run())
}

func run() int {
	log, err := core.NewLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	window, err := core.NewWindow(core.DefaultWindowConfig())
	if err != nil {
		log.Error("Failed to create window", zap.Error(err))
		return 1
	}
	defer window.Destroy()

	dev, err := opengl.New()
	if err != nil {
		log.Error("OpenGL initialization failed", zap.Error(err))
		return 1
	}

	loader := assets.NewLoader(log, assets.DefaultRoots()...)
	sc := scene.New(rand.New(rand.NewSource(time.Now().UnixNano())), scene.DefaultLightCount)

	demo := app.New(window, sc, func(s *scene.Scene) (app.Pipeline, error) {
		state, err := renderer.New(dev, loader, s, renderer.DefaultConfig(), log)
		if err != nil {
			return nil, err
		}
		return state, nil
	}, app.DefaultConfig(), log)

	window.SetCharCallback(demo.OnKeyPress)
	window.SetKeyCallback(func(key int) {
		if key == core.KeyEscape {
			demo.OnKeyDown(app.KeyEscape)
		}
	})
	window.OnFramebufferResize(demo.OnResize)

	if err := demo.Run(); err != nil {
		kind := renderer.KindOf(err)
		if kind == renderer.MissingCapability {
			fmt.Fprintln(os.Stderr, noFramebuffersMessage)
		}
		log.Error("startup failed", zap.Stringer("kind", kind), zap.Error(err))
		return 1
	}
	return 0
}
