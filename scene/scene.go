// Package scene defines the lifecycle the hosting loop drives and the test
// scenes that implement it.
package scene

import (
	"fmt"
	"sort"

	"github.com/richinsley/glscenes/assets"
	"github.com/richinsley/glscenes/graphics"
	"github.com/richinsley/glscenes/shader"
)

// Scene is driven by the hosting loop: Update then Render once per frame,
// then Destroy once. All calls happen on the thread owning the GPU context.
type Scene interface {
	Update(rc graphics.RenderContext, deltaTime float32)
	Render(dev graphics.Device, rc graphics.RenderContext) error
	Destroy()
}

// Config carries what a scene needs to load its resources.
type Config struct {
	Assets *assets.Loader
	// CubeMapName selects the <name>_RT.tga ... <name>_BK.tga face set.
	CubeMapName string
	// Translator, when set, converts shader sources before compilation.
	Translator shader.Translator
}

// Constructor builds a scene, creating all of its GPU resources. It either
// returns a ready scene or an error with nothing left allocated.
type Constructor func(dev graphics.Device, cfg Config) (Scene, error)

var registry = map[string]Constructor{}

// Register makes a scene constructor available by name.
func Register(name string, c Constructor) {
	if _, dup := registry[name]; dup {
		panic("scene: Register called twice for " + name)
	}
	registry[name] = c
}

// New constructs the scene registered as name.
func New(name string, dev graphics.Device, cfg Config) (Scene, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %v)", name, Names())
	}
	return c(dev, cfg)
}

// Names returns the registered scene names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
