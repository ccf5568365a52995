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
	"github.com/massung/chip8vm/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// KeyMap is the mapping of keyboard scancodes to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]byte{
		sdl.SCANCODE_A:     0x0,
		sdl.SCANCODE_S:     0x1,
		sdl.SCANCODE_D:     0x2,
		sdl.SCANCODE_F:     0x3,
		sdl.SCANCODE_UP:    0x4,
		sdl.SCANCODE_RIGHT: 0x5,
		sdl.SCANCODE_DOWN:  0x6,
		sdl.SCANCODE_LEFT:  0x7,
		sdl.SCANCODE_1:     0x8,
		sdl.SCANCODE_2:     0x9,
		sdl.SCANCODE_3:     0xA,
		sdl.SCANCODE_4:     0xB,
		sdl.SCANCODE_5:     0xC,
		sdl.SCANCODE_6:     0xD,
		sdl.SCANCODE_7:     0xE,
		sdl.SCANCODE_8:     0xF,
	}

	/// Pressed holds the CHIP-8 keys pressed since it was last cleared, in
	/// the order they went down.
	///
	Pressed []byte
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM. Returns false
/// once the user has asked to quit.
///
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			key, mapped := KeyMap[ev.Keysym.Scancode]

			if ev.Type == sdl.KEYUP {
				if mapped {
					VM.ReleaseKey(key)
				}
				continue
			}

			if mapped {
				if ev.Repeat == 0 {
					Pressed = append(Pressed, key)
				}

				VM.PressKey(key)
				continue
			}

			if !emulationKey(ev.Keysym) {
				return false
			}
		}
	}

	return true
}

/// emulationKey handles the keys that control the emulator rather than
/// the program. Returns false for quit.
///
func emulationKey(sym sdl.Keysym) bool {
	switch sym.Scancode {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_BACKSPACE:
		VM.Reset()
		Trace.Add("Reset")

		// holding control during reset will reboot paused
		Paused = sym.Mod&sdl.KMOD_CTRL != 0
	case sdl.SCANCODE_PAGEUP:
		Trace.ScrollUp()
	case sdl.SCANCODE_PAGEDOWN:
		Trace.ScrollDown(TraceLines)
	case sdl.SCANCODE_HOME:
		Trace.Home()
	case sdl.SCANCODE_END:
		Trace.End()
	case sdl.SCANCODE_H, sdl.SCANCODE_F1:
		DebugHelp()
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
		Paused = !Paused
	case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
		if Paused {
			StepOnce = true
		}
	}

	return true
}

/// SDLWaiter waits for LD Vx, K by pumping SDL events (so the window
/// stays alive) until a CHIP-8 key goes down.
///
type SDLWaiter struct{}

/// WaitKey returns the next key pressed, or chip8.ErrKeyWait if the user
/// quit while waiting.
///
func (SDLWaiter) WaitKey() (byte, error) {
	Pressed = Pressed[:0]

	for {
		if !ProcessEvents() {
			return 0, chip8.ErrKeyWait
		}

		if len(Pressed) > 0 {
			key := Pressed[0]
			Pressed = Pressed[1:]

			return key, nil
		}

		Refresh()
		sdl.Delay(1000 / FrameRate)
	}
}
