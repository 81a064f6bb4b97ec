// Package assets resolves the demo's shader sources and textures from one or
// more search roots.
package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	shaderDir = "Shaders"
	shaderExt = ".glsl"
)

// ImageExtensions are probed in order when an image is requested without an
// extension.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".webp"}

// Loader reads assets from the first root that has them.
type Loader struct {
	roots []fs.FS
	log   *zap.Logger
}

// NewLoader returns a loader searching roots in order.
func NewLoader(log *zap.Logger, roots ...fs.FS) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{roots: roots, log: log}
}

// DefaultRoots returns the executable's directory followed by the working
// directory, skipping whichever cannot be determined.
func DefaultRoots() []fs.FS {
	var roots []fs.FS
	seen := map[string]bool{}
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		seen[dir] = true
		roots = append(roots, os.DirFS(dir))
	}
	if exe, err := os.Executable(); err == nil {
		add(filepath.Dir(exe))
	}
	if wd, err := os.Getwd(); err == nil {
		add(wd)
	}
	return roots
}

// ShaderSource returns the text of Shaders/<name>.glsl.
func (l *Loader) ShaderSource(name string) (string, error) {
	p := path.Join(shaderDir, name+shaderExt)
	data, err := l.read(p)
	if err != nil {
		return "", err
	}
	l.log.Debug("loaded shader", zap.String("path", p), zap.Int("bytes", len(data)))
	return string(data), nil
}

// Image loads name, which may omit its extension; in that case every entry
// of ImageExtensions is tried in turn.
func (l *Loader) Image(name string) (*Image, error) {
	candidates := []string{name}
	if path.Ext(name) == "" {
		candidates = candidates[:0]
		for _, ext := range ImageExtensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, p := range candidates {
		f, err := l.open(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		img, err := DecodeImage(p, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		l.log.Debug("loaded image", zap.String("path", p),
			zap.Int("width", img.Width), zap.Int("height", img.Height))
		return img, nil
	}
	return nil, fmt.Errorf("image %q: %w", name, fs.ErrNotExist)
}

func (l *Loader) read(p string) ([]byte, error) {
	f, err := l.open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", p, err)
	}
	return data, nil
}

func (l *Loader) open(p string) (fs.File, error) {
	for _, root := range l.roots {
		f, err := root.Open(p)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %q: %w", p, err)
		}
	}
	return nil, fmt.Errorf("asset %q: %w", p, fs.ErrNotExist)
}
