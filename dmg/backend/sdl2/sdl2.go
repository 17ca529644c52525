//go:build sdl2

// Package sdl2 implements the Backend interface on top of SDL2 bindings.
// Building it requires the SDL2 development libraries and the `sdl2` build
// tag; default builds link the stub in stub.go instead.
package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/palebit/dmgcore/dmg/backend"
	"github.com/palebit/dmgcore/dmg/debug"
	"github.com/palebit/dmgcore/dmg/input/action"
	"github.com/palebit/dmgcore/dmg/input/event"
	"github.com/palebit/dmgcore/dmg/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	pixelScale       = 4
	windowWidth      = video.FramebufferWidth * pixelScale
	windowHeight     = video.FramebufferHeight * pixelScale
	bytesPerPixel    = 4
	audioSampleBurst = 1024
)

// Backend renders frames to an SDL2 window and reports keyboard input as
// InputEvents, optionally queuing APU samples to an SDL audio device.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	config        backend.BackendConfig
	debugProvider backend.DebugDataProvider
	currentFrame  *video.FrameBuffer

	audioDevice sdl.AudioDeviceID

	running     bool
	pixelBuffer []byte
	eventBuffer []backend.InputEvent
}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	s.debugProvider = config.DebugProvider

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		windowWidth,
		windowHeight,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %v", err)
	}
	s.texture = texture

	s.pixelBuffer = make([]byte, video.FramebufferWidth*video.FramebufferHeight*bytesPerPixel)
	s.eventBuffer = make([]backend.InputEvent, 0, 10)
	s.running = true

	if config.APU != nil {
		if err := s.initAudio(); err != nil {
			slog.Warn("SDL2 audio device unavailable", "error", err)
		}
	}

	slog.Info("SDL2 backend initialized", "title", config.Title)
	return nil
}

func (s *Backend) initAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     44100,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  audioSampleBurst,
	}
	device, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return err
	}
	s.audioDevice = device
	sdl.PauseAudioDevice(device, false)
	return nil
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	s.eventBuffer = s.eventBuffer[:0]

	for evt := sdl.PollEvent(); evt != nil; evt = sdl.PollEvent() {
		if events := s.handleEvent(evt); events != nil {
			s.eventBuffer = append(s.eventBuffer, events...)
		}
	}

	if !s.running {
		return s.eventBuffer, nil
	}

	s.currentFrame = frame
	s.renderFrame(frame)

	if s.audioDevice != 0 && s.config.APU != nil {
		s.queueAudio()
	}

	return s.eventBuffer, nil
}

func (s *Backend) queueAudio() {
	samples := s.config.APU.GetSamples(audioSampleBurst)
	if len(samples) == 0 {
		return
	}
	buf := make([]byte, len(samples)*2)
	for i, sample := range samples {
		buf[i*2] = byte(sample)
		buf[i*2+1] = byte(sample >> 8)
	}
	if err := sdl.QueueAudio(s.audioDevice, buf); err != nil {
		slog.Warn("failed to queue audio samples", "error", err)
	}
}

func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")
	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

// HandleAction services backend-local actions routed by the host loop:
// snapshotting and the audio-channel debug toggles are handled here since
// they reach into backend-held state (the current frame, the APU's
// Provider); game input and emulator control actions flow back through the
// Emulator instead.
func (s *Backend) HandleAction(act action.Action) {
	if act == action.EmulatorSnapshot && s.currentFrame != nil {
		if err := debug.SaveFramePNGToDir(s.currentFrame, "snapshot", ""); err != nil {
			slog.Error("failed to save snapshot", "error", err)
		}
		return
	}
	if s.config.APU == nil {
		return
	}
	switch act {
	case action.AudioToggleChannel1:
		s.config.APU.ToggleChannel(0)
	case action.AudioToggleChannel2:
		s.config.APU.ToggleChannel(1)
	case action.AudioToggleChannel3:
		s.config.APU.ToggleChannel(2)
	case action.AudioToggleChannel4:
		s.config.APU.ToggleChannel(3)
	case action.AudioSoloChannel1:
		s.config.APU.SoloChannel(0)
	case action.AudioSoloChannel2:
		s.config.APU.SoloChannel(1)
	case action.AudioSoloChannel3:
		s.config.APU.SoloChannel(2)
	case action.AudioSoloChannel4:
		s.config.APU.SoloChannel(3)
	case action.AudioShowStatus:
		ch1, ch2, ch3, ch4 := s.config.APU.GetChannelStatus()
		slog.Info("audio channel status", "ch1", ch1, "ch2", ch2, "ch3", ch3, "ch4", ch4)
	}
}

var keyMapping = map[sdl.Keycode]action.Action{
	sdl.K_F12:    action.EmulatorSnapshot,
	sdl.K_ESCAPE: action.EmulatorQuit,
	sdl.K_SPACE:  action.EmulatorPauseToggle,
	sdl.K_F5:     action.EmulatorStepFrame,
	sdl.K_F6:     action.EmulatorStepInstruction,

	sdl.K_RETURN: action.GBButtonStart,
	sdl.K_a:      action.GBButtonA,
	sdl.K_s:      action.GBButtonB,
	sdl.K_q:      action.GBButtonSelect,
	sdl.K_UP:     action.GBDPadUp,
	sdl.K_DOWN:   action.GBDPadDown,
	sdl.K_LEFT:   action.GBDPadLeft,
	sdl.K_RIGHT:  action.GBDPadRight,

	sdl.K_F1: action.AudioToggleChannel1,
	sdl.K_F2: action.AudioToggleChannel2,
	sdl.K_F3: action.AudioToggleChannel3,
	sdl.K_F4: action.AudioToggleChannel4,
	sdl.K_1:  action.AudioSoloChannel1,
	sdl.K_2:  action.AudioSoloChannel2,
	sdl.K_3:  action.AudioSoloChannel3,
	sdl.K_4:  action.AudioSoloChannel4,
	sdl.K_F7: action.AudioShowStatus,
}

func (s *Backend) handleEvent(evt sdl.Event) []backend.InputEvent {
	switch e := evt.(type) {
	case *sdl.QuitEvent:
		s.running = false
		return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}
	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			return s.handleKeyDown(e.Keysym.Sym, e.Repeat)
		}
		if e.Type == sdl.KEYUP {
			return s.handleKeyUp(e.Keysym.Sym)
		}
	}
	return nil
}

func (s *Backend) handleKeyDown(key sdl.Keycode, repeat uint8) []backend.InputEvent {
	act, ok := keyMapping[key]
	if !ok {
		return nil
	}
	if act == action.EmulatorQuit {
		s.running = false
	}
	if repeat > 0 {
		return []backend.InputEvent{{Action: act, Type: event.Hold}}
	}
	return []backend.InputEvent{{Action: act, Type: event.Press}}
}

func (s *Backend) handleKeyUp(key sdl.Keycode) []backend.InputEvent {
	act, ok := keyMapping[key]
	if !ok {
		return nil
	}
	switch act {
	case action.GBButtonA, action.GBButtonB, action.GBButtonStart, action.GBButtonSelect,
		action.GBDPadUp, action.GBDPadDown, action.GBDPadLeft, action.GBDPadRight:
		return []backend.InputEvent{{Action: act, Type: event.Release}}
	}
	return nil
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) {
	pixels := frame.ToSlice()
	for i, pixel := range pixels {
		dst := i * bytesPerPixel
		r := byte(pixel >> 16)
		g := byte(pixel >> 8)
		b := byte(pixel)
		// ABGR byte order for little-endian RGBA8888.
		s.pixelBuffer[dst] = 0xFF
		s.pixelBuffer[dst+1] = b
		s.pixelBuffer[dst+2] = g
		s.pixelBuffer[dst+3] = r
	}

	s.texture.Update(nil, unsafe.Pointer(&s.pixelBuffer[0]), video.FramebufferWidth*bytesPerPixel)
	s.renderer.SetDrawColor(0, 0, 0, 255)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}
