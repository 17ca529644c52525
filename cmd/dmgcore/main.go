package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/palebit/dmgcore/dmg"
	"github.com/palebit/dmgcore/dmg/backend"
	"github.com/palebit/dmgcore/dmg/backend/headless"
	"github.com/palebit/dmgcore/dmg/backend/sdl2"
	"github.com/palebit/dmgcore/dmg/backend/terminal"
	"github.com/palebit/dmgcore/dmg/input/action"
	"github.com/palebit/dmgcore/dmg/input/event"
	"github.com/palebit/dmgcore/dmg/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A Game Boy (DMG) emulator core"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Display a test pattern instead of emulation (for debugging display)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Interactive backend to use: terminal or sdl2 (sdl2 requires building with -tags sdl2)",
			Value: "terminal",
		},
		cli.StringFlag{
			Name:  "frame-timing",
			Usage: "Interactive frame pacing: adaptive (drift-corrected) or ticker (plain time.Ticker)",
			Value: "adaptive",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	testPattern := c.Bool("test-pattern")

	romPath := c.String("rom")
	if romPath == "" && c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}
	if romPath == "" && !testPattern {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}

	if c.Bool("headless") {
		return runHeadless(c, romPath, testPattern)
	}

	return runInteractive(romPath, testPattern, c.String("backend"), c.String("frame-timing"))
}

func runInteractive(romPath string, testPattern bool, backendName, frameTiming string) error {
	var emu dmg.Emulator
	title := "dmgcore"
	showDebug := false

	if testPattern {
		emu = dmg.NewTestPatternEmulator()
		title = "dmgcore (test pattern)"
	} else {
		core, err := dmg.NewWithFile(romPath)
		if err != nil {
			return err
		}
		emu = core
		title = filepath.Base(romPath)
		showDebug = true
	}

	var be backend.Backend
	switch backendName {
	case "sdl2":
		be = sdl2.New()
	default:
		be = terminal.New()
	}

	config := backend.BackendConfig{
		Title:       title,
		ShowDebug:   showDebug,
		TestPattern: testPattern,
	}
	if provider, ok := emu.(backend.DebugDataProvider); ok {
		config.DebugProvider = provider
	}
	if core, ok := emu.(*dmg.DMG); ok {
		config.APU = core.GetMMU().APU
	}

	if err := be.Init(config); err != nil {
		return err
	}
	defer be.Cleanup()

	// Interactive sessions pace themselves to real wall-clock time; the
	// headless/benchmark paths run flat out and never touch this.
	if frameTiming == "ticker" {
		emu.SetFrameLimiter(timing.NewTickerLimiter())
	} else {
		emu.SetFrameLimiter(timing.NewAdaptiveLimiter())
	}

	return runLoop(emu, be)
}

func runHeadless(c *cli.Context, romPath string, testPattern bool) error {
	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}

	snapshotInterval := c.Int("snapshot-interval")
	snapshotDir := c.String("snapshot-dir")

	romTag := "test-pattern"
	if romPath != "" {
		romTag = romPath
	}
	snapshotConfig, err := headless.CreateSnapshotConfig(snapshotInterval, snapshotDir, romTag)
	if err != nil {
		return fmt.Errorf("failed to set up snapshot directory: %v", err)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(handler))

	var emu dmg.Emulator
	if testPattern {
		emu = dmg.NewTestPatternEmulator()
	} else {
		core, err := dmg.NewWithFile(romPath)
		if err != nil {
			return err
		}
		emu = core
	}

	hBackend := headless.New(frames, snapshotConfig)
	if err := hBackend.Init(backend.BackendConfig{Title: "dmgcore headless", TestPattern: testPattern}); err != nil {
		return fmt.Errorf("failed to initialize backend: %v", err)
	}
	defer hBackend.Cleanup()

	return runLoop(emu, hBackend)
}

// runLoop drives the emulator and backend in lockstep until a quit event
// is observed.
func runLoop(emu dmg.Emulator, be backend.Backend) error {
	for {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}

		events, err := be.Update(emu.GetCurrentFrame())
		if err != nil {
			return fmt.Errorf("backend update failed: %v", err)
		}

		quit := false
		for _, evt := range events {
			info := action.GetInfo(evt.Action)
			switch {
			case evt.Action == action.EmulatorQuit:
				quit = true
			case info.Category == action.CategoryGameInput:
				emu.HandleAction(evt.Action, evt.Type == event.Press)
			case evt.Action == action.EmulatorTestPatternCycle:
				emu.HandleAction(evt.Action, evt.Type == event.Press)
			default:
				if handler, ok := be.(interface{ HandleAction(action.Action) }); ok {
					handler.HandleAction(evt.Action)
				} else {
					emu.HandleAction(evt.Action, evt.Type == event.Press)
				}
			}
		}

		if quit {
			return nil
		}
	}
}
