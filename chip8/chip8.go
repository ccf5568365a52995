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

package chip8

import (
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// ProgramStart is where programs are loaded and execution begins.
	///
	ProgramStart = 0x200

	/// MemorySize is the size of the addressable memory. Addresses wrap
	/// at this boundary.
	///
	MemorySize = 0x1000

	/// MaxProgramSize is the largest program image that fits in memory.
	///
	MaxProgramSize = MemorySize - ProgramStart

	/// StackDepth is the number of return address slots.
	///
	StackDepth = 16
)

/// RandomSource supplies the bytes used by RND. Bytes are expected to be
/// in [1,255].
///
type RandomSource interface {
	RandomByte() byte
}

/// KeyWaiter blocks until a key is pressed and returns its logical index.
///
type KeyWaiter interface {
	WaitKey() (byte, error)
}

/// Tracer is called with each instruction just before it executes.
///
type Tracer func(pc uint16, inst Instruction)

/// Options are the collaborators of a CHIP-8 virtual machine. Any left
/// nil get a default.
///
type Options struct {
	Logger *log.Logger
	Random RandomSource
	Waiter KeyWaiter
	Trace  Tracer
}

/// CHIP_8 virtual machine emulator.
///
type CHIP_8 struct {
	/// ROM is the pristine image (font and program) that Memory is
	/// restored from on Reset.
	///
	ROM [MemorySize]byte

	/// Memory addressable by CHIP-8. The first 512 bytes are reserved
	/// for the font sprites.
	///
	Memory [MemorySize]byte

	/// Video memory, one byte (0 or 1) per pixel, row-major.
	///
	Video [VideoSize]byte

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// SP is the number of nested calls. It isn't bounded; the slot
	/// used is SP modulo the stack depth.
	///
	SP uint16

	/// Stack holds return addresses.
	///
	Stack [StackDepth]uint16

	/// I is the address register.
	///
	I uint16

	/// V are the 16 virtual registers.
	///
	V [16]byte

	/// Delay and sound timers, decremented once per frame.
	///
	DT byte
	ST byte

	/// Keys hold the current state (0 or 1) for the 16-key pad keys.
	///
	Keys [16]byte

	/// Redraw is set whenever video memory is modified and cleared by the
	/// presenter.
	///
	Redraw bool

	/// Cycles is how many instructions have been executed.
	///
	Cycles int64

	// waiting is set while LD Vx, K without a waiter is blocked; held
	// are the keys that were already down when the wait began.
	waiting bool
	held    [16]byte

	random RandomSource
	waiter KeyWaiter
	trace  Tracer
	logger *log.Logger
}

/// New creates a CHIP-8 virtual machine with zeroed state. The font and
/// program are installed separately.
///
func New(opts Options) *CHIP_8 {
	vm := &CHIP_8{
		random: opts.Random,
		waiter: opts.Waiter,
		trace:  opts.Trace,
		logger: opts.Logger,
	}

	if vm.random == nil {
		vm.random = NewRandom(time.Now().UnixNano())
	}

	if vm.logger == nil {
		vm.logger = log.NewWithConfig(log.DefaultConfig())
	}

	vm.PC = ProgramStart

	return vm
}

/// Reset the CHIP-8 virtual machine, restoring memory from the ROM.
///
func (vm *CHIP_8) Reset() {
	vm.Memory = vm.ROM
	vm.Video = [VideoSize]byte{}
	vm.Keys = [16]byte{}
	vm.Stack = [StackDepth]uint16{}
	vm.V = [16]byte{}

	vm.PC = ProgramStart
	vm.SP = 0
	vm.I = 0
	vm.DT = 0
	vm.ST = 0
	vm.Cycles = 0
	vm.waiting = false

	// the cleared screen needs presenting
	vm.Redraw = true
}

/// SetWaiter replaces the key waiter used by LD Vx, K.
///
func (vm *CHIP_8) SetWaiter(w KeyWaiter) {
	vm.waiter = w
}

/// PressKey emulates a CHIP-8 key being pressed.
///
func (vm *CHIP_8) PressKey(key byte) {
	if key < 16 {
		vm.Keys[key] = 1
	}
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *CHIP_8) ReleaseKey(key byte) {
	if key < 16 {
		vm.Keys[key] = 0
	}
}

/// KeyDown returns true if the key is currently pressed. Keys outside the
/// pad are never down.
///
func (vm *CHIP_8) KeyDown(key byte) bool {
	return key < 16 && vm.Keys[key] != 0
}

/// UpdateTimers decrements both timers once and returns true while the
/// sound timer is still running.
///
func (vm *CHIP_8) UpdateTimers() bool {
	if vm.DT > 0 {
		vm.DT--
	}
	if vm.ST > 0 {
		vm.ST--
	}

	return vm.ST > 0
}

/// Sounding is true while the sound timer is non-zero.
///
func (vm *CHIP_8) Sounding() bool {
	return vm.ST > 0
}

/// Tick runs a single frame at the reference cadence: one instruction,
/// then one timer update.
///
func (vm *CHIP_8) Tick() error {
	return vm.Frame(1)
}

/// Frame executes a number of instructions and then updates the timers
/// exactly once. A frame that ends blocked on LD Vx, K (no waiter, no
/// new key) stops there and leaves the timers alone.
///
func (vm *CHIP_8) Frame(cycles int) error {
	for i := 0; i < cycles; i++ {
		if err := vm.Step(); err != nil {
			return err
		}

		// the timers are frozen while blocked on LD Vx, K
		if vm.waiting {
			return nil
		}
	}

	vm.UpdateTimers()

	return nil
}

/// Step the CHIP-8 virtual machine a single instruction.
///
func (vm *CHIP_8) Step() error {
	pc := vm.PC

	// fetch and decode the next instruction
	inst := Decode(vm.fetch())

	if vm.trace != nil {
		vm.trace(pc, inst)
	}

	err := vm.Execute(inst)

	var unsupported *UnsupportedError
	if errors.As(err, &unsupported) {
		vm.logger.Error("Unsupported instruction", nil,
			log.String("opcode", fmt.Sprintf("%04X", unsupported.Word)),
			log.String("pc", fmt.Sprintf("%04X", pc)))
		err = nil
	}

	if err != nil {
		return &ExecError{PC: pc, Word: inst.Word, Err: err}
	}

	// a blocked wait hasn't executed anything yet
	if !vm.waiting {
		vm.Cycles++
	}

	return nil
}

/// Fetch the next 16-bit instruction to execute.
///
func (vm *CHIP_8) fetch() uint16 {
	i := vm.PC

	// advance the program counter
	vm.PC += 2

	// return the 16-bit instruction
	return uint16(vm.read(i))<<8 | uint16(vm.read(i+1))
}

/// read a byte of memory; the address wraps at 4K.
///
func (vm *CHIP_8) read(address uint16) byte {
	return vm.Memory[address%MemorySize]
}

/// write a byte of memory; the address wraps at 4K.
///
func (vm *CHIP_8) write(address uint16, b byte) {
	vm.Memory[address%MemorySize] = b
}

/// Execute a decoded instruction against the current state. The program
/// counter is expected to already point past the instruction. Words that
/// aren't runnable instructions return an *UnsupportedError and change
/// nothing.
///
func (vm *CHIP_8) Execute(inst Instruction) error {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpCLS:
		vm.cls()
	case OpRET:
		return vm.ret()
	case OpJP:
		vm.jump(inst.NNN)
	case OpCALL:
		vm.call(inst.NNN)
	case OpSEByte:
		vm.skipIf(x, inst.NN)
	case OpSNEByte:
		vm.skipIfNot(x, inst.NN)
	case OpSEReg:
		vm.skipIfXY(x, y)
	case OpLDByte:
		vm.loadX(x, inst.NN)
	case OpADDByte:
		vm.addX(x, inst.NN)
	case OpLDReg:
		vm.loadXY(x, y)
	case OpOR:
		vm.or(x, y)
	case OpAND:
		vm.and(x, y)
	case OpXOR:
		vm.xor(x, y)
	case OpADDReg:
		vm.addXY(x, y)
	case OpSUB:
		vm.subXY(x, y)
	case OpSHR:
		vm.shr(x, y)
	case OpSUBN:
		vm.subYX(x, y)
	case OpSHL:
		vm.shl(x, y)
	case OpSNEReg:
		vm.skipIfNotXY(x, y)
	case OpLDI:
		vm.loadI(inst.NNN)
	case OpJPV0:
		vm.jumpV0(inst.NNN)
	case OpRND:
		vm.rnd(x, inst.NN)
	case OpDRW:
		vm.drw(x, y, inst.N)
	case OpSKP:
		vm.skipIfPressed(x)
	case OpSKNP:
		vm.skipIfNotPressed(x)
	case OpLDVxDT:
		vm.loadXDT(x)
	case OpLDK:
		return vm.loadXK(x)
	case OpLDDTVx:
		vm.loadDTX(x)
	case OpLDSTVx:
		vm.loadSTX(x)
	case OpADDI:
		vm.addIX(x)
	case OpLDF:
		vm.loadF(x)
	case OpLDB:
		vm.loadB(x)
	case OpLDMemVx:
		vm.saveRegs(x)
	case OpLDVxMem:
		vm.loadRegs(x)
	default:
		// SYS included, there's no machine code to call
		return &UnsupportedError{Word: inst.Word}
	}

	return nil
}

/// Apply executes a single instruction word as if it had just been
/// fetched: the program counter is not advanced. Like Execute, it returns
/// an *UnsupportedError for words that can't run.
///
func (vm *CHIP_8) Apply(w uint16) error {
	return vm.Execute(Decode(w))
}
