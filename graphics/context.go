package graphics

// Context defines the interface for an OpenGL context owned by the host loop.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	// Time returns seconds since the context was created.
	Time() float64
}

// RenderContext carries the per-frame surface dimensions handed to a scene.
type RenderContext struct {
	Width  int
	Height int
}

// Aspect returns Width/Height, or 0 when the surface has no height.
func (rc RenderContext) Aspect() float32 {
	if rc.Height == 0 {
		return 0
	}
	return float32(rc.Width) / float32(rc.Height)
}
