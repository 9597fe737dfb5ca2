//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/glscenes/graphics"
)

// NewHeadless reports that EGL pbuffer contexts are only available on linux.
func NewHeadless(width, height int) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
