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
	"fmt"

	"github.com/massung/chip8vm/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

/// TraceLines is the number of trace lines shown in the debug panel.
///
const TraceLines = 12

var (
	/// Paused stops the VM; StepOnce runs a single instruction while
	/// paused.
	///
	Paused   bool
	StepOnce bool

	/// Address is the first disassembled address shown.
	///
	Address uint16

	/// Trace is the scrollback of executed instructions and messages.
	///
	Trace = NewScrollback(1000)
)

/// Show the HELP text in the trace log.
///
func DebugHelp() {
	Trace.Add("Virtual keys:")
	Trace.Add("  A S D F     - 0 1 2 3")
	Trace.Add("  Up Rt Dn Lt - 4 5 6 7")
	Trace.Add("  1 ... 8     - 8 ... F")
	Trace.Add("Emulation keys:")
	Trace.Add("  ESC      - Quit")
	Trace.Add("  BS       - Reset")
	Trace.Add("  Pg Up/Dn - Scroll trace")
	Trace.Add("  F5/Space - Pause")
	Trace.Add("  F6/F10   - Step")
}

/// TraceInstruction is the VM tracer feeding the debug panel.
///
func TraceInstruction(pc uint16, inst chip8.Instruction) {
	Trace.Add(fmt.Sprintf("%04X - %s", pc, inst))
}

/// DebugAssembly renders the disassembled instructions around the CHIP-8
/// program counter.
///
func DebugAssembly(x, y int32) {
	if Address+30 <= VM.PC || Address+2 >= VM.PC || (Address^VM.PC)&1 == 1 {
		Address = VM.PC - 2
	}

	for i := int32(0); i < 32; i += 2 {
		line := y + (i/2)*FontH

		if Address+uint16(i) == VM.PC {
			if Paused {
				Renderer.SetDrawColor(176, 32, 57, 255)
			} else {
				Renderer.SetDrawColor(57, 102, 176, 255)
			}

			// highlight the current instruction
			Renderer.FillRect(&sdl.Rect{
				X: x - 2,
				Y: line,
				W: 30 * FontW,
				H: FontH,
			})
		}

		DrawText(VM.Disassemble(Address+uint16(i)), x, line, 220, 220, 220)
	}
}

/// Show the current value of all the CHIP-8 registers.
///
func DebugRegisters(x, y int32) {
	for i := int32(0); i < 16; i++ {
		DrawText(fmt.Sprintf("V%X - #%02X", i, VM.V[i]), x, y+i*FontH, 220, 220, 220)
	}

	// shift over for the other registers
	x += 12 * FontW

	DrawText(fmt.Sprintf("PC - #%04X", VM.PC), x, y, 220, 220, 220)
	DrawText(fmt.Sprintf("SP - #%04X", VM.SP), x, y+FontH, 220, 220, 220)
	DrawText(fmt.Sprintf("I  - #%04X", VM.I), x, y+3*FontH, 220, 220, 220)
	DrawText(fmt.Sprintf("DT - #%02X", VM.DT), x, y+5*FontH, 220, 220, 220)
	DrawText(fmt.Sprintf("ST - #%02X", VM.ST), x, y+6*FontH, 220, 220, 220)

	// the pressed keys
	keys := ""
	for k := byte(0); k < 16; k++ {
		if VM.KeyDown(k) {
			keys += fmt.Sprintf("%X", k)
		} else {
			keys += "."
		}
	}

	DrawText("KEYS", x, y+8*FontH, 220, 220, 220)
	DrawText(keys, x, y+9*FontH, 220, 220, 220)
	DrawText(fmt.Sprintf("%d", VM.Cycles), x, y+11*FontH, 140, 140, 140)
}

/// Show the most recent trace lines.
///
func DebugTrace(x, y int32) {
	for _, line := range Trace.Window(TraceLines) {
		if len(line) > 44 {
			line = line[:41] + "..."
		}

		DrawText(line, x, y, 190, 190, 190)
		y += FontH
	}
}
