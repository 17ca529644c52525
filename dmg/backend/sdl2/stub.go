//go:build !sdl2

package sdl2

import (
	"fmt"

	"github.com/palebit/dmgcore/dmg/backend"
	"github.com/palebit/dmgcore/dmg/video"
)

// Backend stubs out the SDL2 backend for builds without the sdl2 tag (and
// without the SDL2 development libraries available to link against).
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.BackendConfig) error {
	return fmt.Errorf("SDL2 backend not available - build with -tags sdl2 to enable")
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, fmt.Errorf("SDL2 backend not available")
}

func (s *Backend) Cleanup() error {
	return nil
}
