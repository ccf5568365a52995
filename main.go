/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/massung/chip8vm/beeper"
	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// The CHIP-8 virtual machine.
	///
	VM *chip8.CHIP_8

	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer

	/// Scale of a CHIP-8 pixel in the window.
	///
	Scale int32 = 8
)

const (
	// layout of the window around the scaled screen
	margin = 8
	panelW = 30 * 7
	panelH = 16 * 13
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := ParseFlags(os.Args[1:])
	if err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, err)
			usageErr.ShowUsage()
		}
		os.Exit(2)
	}

	logger := createLogger(opts.Debug || opts.Trace, opts.Quiet)

	if err := run(opts, logger); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(opts Options, logger *log.Logger) error {
	if opts.StatsView != "" {
		LaunchStats(opts.StatsView, logger)
	}

	if opts.Program == "" {
		file, err := dialog.File().Filter("CHIP-8 programs", "ch8", "c8").Title("Load CHIP-8 program").Load()
		if errors.Is(err, dialog.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}

		opts.Program = file
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	VM = chip8.New(chip8.Options{
		Logger: logger,
		Random: chip8.NewRandom(seed),
		Trace:  tracer(opts, logger),
	})

	if err := load(opts, logger); err != nil {
		if !opts.Term {
			dialog.Message("%s", err).Title("CHIP-8").Error()
		}
		return err
	}

	var sinks []io.Writer

	if opts.Wav != "" {
		rec := beeper.NewRecorder(opts.Wav, beeper.SampleRate)
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("Recording failed", nil, log.Err(err))
				return
			}
			logger.Info("Recorded beeper", log.String("file", opts.Wav))
		}()

		sinks = append(sinks, rec)
	}

	if opts.Term {
		return RunTerminal(opts, logger, NewSound(sinks...))
	}

	return runWindow(opts, logger, sinks)
}

/// load the program (or assemble it) into the VM along with the font.
///
func load(opts Options, logger *log.Logger) error {
	var n int
	var err error

	if opts.Asm {
		var src []byte

		if src, err = os.ReadFile(opts.Program); err != nil {
			return &chip8.LoadError{Path: opts.Program, Err: err}
		}

		var asm *chip8.Assembly
		if asm, err = chip8.Assemble(src); err != nil {
			return fmt.Errorf("assemble %s: %w", opts.Program, err)
		}

		if n, err = VM.LoadROM(asm.ROM); err != nil {
			return err
		}
	} else if n, err = VM.LoadFile(opts.Program); err != nil {
		return err
	}

	VM.InstallFont()

	logger.Info("Loaded program",
		log.String("file", opts.Program),
		log.String("size", fmt.Sprintf("%d bytes", n)),
	)

	return nil
}

/// tracer feeds the debug panel and, with -trace, the log.
///
func tracer(opts Options, logger *log.Logger) chip8.Tracer {
	if opts.Term {
		if !opts.Trace {
			return nil
		}

		return func(pc uint16, inst chip8.Instruction) {
			logger.Debug("Step", log.String("pc", fmt.Sprintf("%04X", pc)), log.String("instruction", inst.String()))
		}
	}

	return func(pc uint16, inst chip8.Instruction) {
		TraceInstruction(pc, inst)

		if opts.Trace {
			logger.Debug("Step", log.String("pc", fmt.Sprintf("%04X", pc)), log.String("instruction", inst.String()))
		}
	}
}

func runWindow(opts Options, logger *log.Logger, sinks []io.Writer) error {
	var err error

	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return err
	}
	defer sdl.Quit()

	Scale = int32(opts.Scale)

	w := margin + chip8.Width*Scale + margin + panelW + margin
	h := margin + max(chip8.Height*Scale, panelH) + margin + panelH + margin

	if Window, Renderer, err = sdl.CreateWindowAndRenderer(w, h, sdl.WINDOW_SHOWN); err != nil {
		return err
	}
	defer Window.Destroy()

	Window.SetTitle("CHIP-8 - " + filepath.Base(opts.Program))

	if err = InitScreen(); err != nil {
		return err
	}

	if err = InitFont(); err != nil {
		return err
	}

	// a missing audio device only loses the beep
	if speaker, err := OpenSpeaker(); err != nil {
		logger.Error("No audio", nil, log.Err(err))
	} else {
		defer speaker.Close()
		sinks = append(sinks, speaker)
	}

	sound := NewSound(sinks...)

	VM.SetWaiter(SDLWaiter{})

	DebugHelp()

	// every frame runs the cpu for a number of cycles and updates timers
	video := time.NewTicker(time.Second / FrameRate)
	defer video.Stop()

	for ProcessEvents() {
		<-video.C

		switch {
		case !Paused:
			err = VM.Frame(opts.Cycles)
		case StepOnce:
			StepOnce = false
			err = VM.Step()
		}

		Pressed = Pressed[:0]

		if errors.Is(err, chip8.ErrKeyWait) {
			return nil
		}
		if err != nil {
			return err
		}

		if err = sound.Update(!Paused && VM.Sounding()); err != nil {
			return err
		}

		Refresh()
	}

	return nil
}

/// Refresh redraws the whole window.
///
func Refresh() {
	Renderer.SetDrawColor(32, 42, 53, 255)
	Renderer.Clear()

	sw, sh := chip8.Width*Scale, chip8.Height*Scale
	top := max(sh, panelH)
	px := margin + sw + margin
	py := margin + top + margin

	// frame various portions of the app
	Frame(margin-2, margin-2, sw+3, sh+3)
	Frame(px-2, margin-2, panelW+3, top+3)
	Frame(margin-2, py-2, panelW+3, panelH+3)
	Frame(px-2, py-2, panelW+3, panelH+3)

	// update the video screen when it changed
	if VM.Redraw {
		if err := RefreshScreen(); err != nil {
			panic(err)
		}
	}
	CopyScreen(margin, margin, sw, sh)

	// debug assembly, registers and trace
	DebugAssembly(px, margin)
	DebugRegisters(margin, py)
	DebugTrace(px, py)

	Renderer.Present()
}

/// Frame draws a beveled box.
///
func Frame(x, y, w, h int32) {
	Renderer.SetDrawColor(0, 0, 0, 255)
	Renderer.DrawLine(x, y, x+w, y)
	Renderer.DrawLine(x, y, x, y+h)

	// highlight
	Renderer.SetDrawColor(95, 112, 120, 255)
	Renderer.DrawLine(x+w, y, x+w, y+h)
	Renderer.DrawLine(x, y+h, x+w, y+h)
}
