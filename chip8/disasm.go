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

import "fmt"

/// Disassemble the CHIP-8 instruction at address i.
///
func (vm *CHIP_8) Disassemble(i uint16) string {
	if int(i) >= len(vm.Memory)-1 {
		return ""
	}

	// fetch the instruction at this location
	inst := uint16(vm.Memory[i])<<8 | uint16(vm.Memory[i+1])

	// end of program memory?
	if inst == 0 {
		return fmt.Sprintf("%04X -", i)
	}

	return fmt.Sprintf("%04X - %s", i, Decode(inst))
}

/// String returns the assembly source for the instruction. Words that
/// don't decode are emitted as WORD data so the output re-assembles.
///
func (inst Instruction) String() string {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpCLS:
		return "CLS"
	case OpRET:
		return "RET"
	case OpSYS:
		return fmt.Sprintf("SYS    #%03X", inst.NNN)
	case OpJP:
		return fmt.Sprintf("JP     #%03X", inst.NNN)
	case OpCALL:
		return fmt.Sprintf("CALL   #%03X", inst.NNN)
	case OpSEByte:
		return fmt.Sprintf("SE     V%X, #%02X", x, inst.NN)
	case OpSNEByte:
		return fmt.Sprintf("SNE    V%X, #%02X", x, inst.NN)
	case OpSEReg:
		return fmt.Sprintf("SE     V%X, V%X", x, y)
	case OpLDByte:
		return fmt.Sprintf("LD     V%X, #%02X", x, inst.NN)
	case OpADDByte:
		return fmt.Sprintf("ADD    V%X, #%02X", x, inst.NN)
	case OpLDReg:
		return fmt.Sprintf("LD     V%X, V%X", x, y)
	case OpOR:
		return fmt.Sprintf("OR     V%X, V%X", x, y)
	case OpAND:
		return fmt.Sprintf("AND    V%X, V%X", x, y)
	case OpXOR:
		return fmt.Sprintf("XOR    V%X, V%X", x, y)
	case OpADDReg:
		return fmt.Sprintf("ADD    V%X, V%X", x, y)
	case OpSUB:
		return fmt.Sprintf("SUB    V%X, V%X", x, y)
	case OpSHR:
		return fmt.Sprintf("SHR    V%X, V%X", x, y)
	case OpSUBN:
		return fmt.Sprintf("SUBN   V%X, V%X", x, y)
	case OpSHL:
		return fmt.Sprintf("SHL    V%X, V%X", x, y)
	case OpSNEReg:
		return fmt.Sprintf("SNE    V%X, V%X", x, y)
	case OpLDI:
		return fmt.Sprintf("LD     I, #%03X", inst.NNN)
	case OpJPV0:
		return fmt.Sprintf("JP     V0, #%03X", inst.NNN)
	case OpRND:
		return fmt.Sprintf("RND    V%X, #%02X", x, inst.NN)
	case OpDRW:
		return fmt.Sprintf("DRW    V%X, V%X, %d", x, y, inst.N)
	case OpSKP:
		return fmt.Sprintf("SKP    V%X", x)
	case OpSKNP:
		return fmt.Sprintf("SKNP   V%X", x)
	case OpLDVxDT:
		return fmt.Sprintf("LD     V%X, DT", x)
	case OpLDK:
		return fmt.Sprintf("LD     V%X, K", x)
	case OpLDDTVx:
		return fmt.Sprintf("LD     DT, V%X", x)
	case OpLDSTVx:
		return fmt.Sprintf("LD     ST, V%X", x)
	case OpADDI:
		return fmt.Sprintf("ADD    I, V%X", x)
	case OpLDF:
		return fmt.Sprintf("LD     F, V%X", x)
	case OpLDB:
		return fmt.Sprintf("LD     B, V%X", x)
	case OpLDMemVx:
		return fmt.Sprintf("LD     [I], V%X", x)
	case OpLDVxMem:
		return fmt.Sprintf("LD     V%X, [I]", x)
	}

	// unknown instruction
	return fmt.Sprintf("WORD   #%04X", inst.Word)
}
