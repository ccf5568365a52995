package chip8

import (
	"fmt"
)

/// call a subroutine at address.
///
func (vm *CHIP_8) call(address uint16) {
	vm.Stack[vm.SP%StackDepth] = vm.PC

	// there's no overflow check, a 17th call reuses slot 0
	vm.SP++

	// jump to address
	vm.PC = address
}

/// return from subroutine.
///
func (vm *CHIP_8) ret() error {
	if vm.SP == 0 && vm.Stack[0] == 0 {
		return ErrStackUnderflow
	}

	if vm.SP > 0 {
		vm.SP--
	}

	// restore program counter and release the slot
	vm.PC = vm.Stack[vm.SP%StackDepth]
	vm.Stack[vm.SP%StackDepth] = 0

	return nil
}

/// jump to address.
///
func (vm *CHIP_8) jump(address uint16) {
	vm.PC = address
}

/// jump to address + v0.
///
func (vm *CHIP_8) jumpV0(address uint16) {
	vm.PC = address + uint16(vm.V[0])
}

/// skip next instruction if vx == n.
///
func (vm *CHIP_8) skipIf(x, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

/// skip next instruction if vx != n.
///
func (vm *CHIP_8) skipIfNot(x, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

/// skip next instruction if vx == vy.
///
func (vm *CHIP_8) skipIfXY(x, y byte) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if vx != vy.
///
func (vm *CHIP_8) skipIfNotXY(x, y byte) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is pressed.
///
func (vm *CHIP_8) skipIfPressed(x byte) {
	if vm.KeyDown(vm.V[x]) {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is not pressed.
///
func (vm *CHIP_8) skipIfNotPressed(x byte) {
	if !vm.KeyDown(vm.V[x]) {
		vm.PC += 2
	}
}

/// load n into vx.
///
func (vm *CHIP_8) loadX(x, b byte) {
	vm.V[x] = b
}

/// load y into vx.
///
func (vm *CHIP_8) loadXY(x, y byte) {
	vm.V[x] = vm.V[y]
}

/// load delay timer into vx.
///
func (vm *CHIP_8) loadXDT(x byte) {
	vm.V[x] = vm.DT
}

/// load vx into delay timer.
///
func (vm *CHIP_8) loadDTX(x byte) {
	vm.DT = vm.V[x]
}

/// load vx into sound timer.
///
func (vm *CHIP_8) loadSTX(x byte) {
	vm.ST = vm.V[x]
}

/// load vx with next key hit (blocking).
///
func (vm *CHIP_8) loadXK(x byte) error {
	if vm.waiter == nil {
		if !vm.waiting {
			vm.waiting = true
			vm.held = vm.Keys
		}

		// only a key going down during the wait counts
		for k := byte(0); k < 16; k++ {
			switch {
			case !vm.KeyDown(k):
				vm.held[k] = 0
			case vm.held[k] == 0:
				vm.waiting = false
				vm.V[x] = k
				return nil
			}
		}

		// nothing pressed yet, run this instruction again next time
		vm.PC -= 2
		return nil
	}

	key, err := vm.waiter.WaitKey()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyWait, err)
	}

	vm.V[x] = key & 0xF

	return nil
}

/// load address register.
///
func (vm *CHIP_8) loadI(address uint16) {
	vm.I = address
}

/// load address with BCD of vx.
///
func (vm *CHIP_8) loadB(x byte) {
	n := vm.V[x]

	vm.write(vm.I+0, n/100)
	vm.write(vm.I+1, n/10%10)
	vm.write(vm.I+2, n%10)
}

/// load font sprite for vx into I.
///
func (vm *CHIP_8) loadF(x byte) {
	vm.I = uint16(vm.V[x]&0xF) * 5
}

/// or vx with vy into vx.
///
func (vm *CHIP_8) or(x, y byte) {
	vm.V[x] |= vm.V[y]
}

/// and vx with vy into vx.
///
func (vm *CHIP_8) and(x, y byte) {
	vm.V[x] &= vm.V[y]
}

/// xor vx with vy into vx.
///
func (vm *CHIP_8) xor(x, y byte) {
	vm.V[x] ^= vm.V[y]
}

/// shl vy 1 bit into vx, set carry to MSB of vy before shift.
///
func (vm *CHIP_8) shl(x, y byte) {
	vm.V[0xF] = vm.V[y] >> 7
	vm.V[x] = vm.V[y] << 1
}

/// shr vy 1 bit into vx, set carry to LSB of vx before shift.
///
func (vm *CHIP_8) shr(x, y byte) {
	vm.V[0xF] = vm.V[x] & 1
	vm.V[x] = vm.V[y] >> 1
}

/// add n to vx.
///
func (vm *CHIP_8) addX(x, b byte) {
	vm.V[x] += b
}

/// add vy to vx and set carry. On carry, vx gets the high byte of the sum.
///
func (vm *CHIP_8) addXY(x, y byte) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	if sum > 0xFF {
		vm.V[x] = byte(sum >> 8)
		vm.V[0xF] = 1
		return
	}

	vm.V[0xF] = 0
	vm.V[x] = byte(sum)
}

/// add vx to i.
///
func (vm *CHIP_8) addIX(x byte) {
	vm.I += uint16(vm.V[x])
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *CHIP_8) subXY(x, y byte) {
	if vm.V[x] >= vm.V[y] {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}

	vm.V[x] -= vm.V[y]
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *CHIP_8) subYX(x, y byte) {
	if vm.V[x] > vm.V[y] {
		vm.V[0xF] = 0
	} else {
		vm.V[0xF] = 1
	}

	vm.V[x] = vm.V[y] - vm.V[x]
}

/// load a random number & n into vx.
///
func (vm *CHIP_8) rnd(x, b byte) {
	vm.V[x] = vm.random.RandomByte() & b
}

/// save registers v0..vx to I.
///
func (vm *CHIP_8) saveRegs(x byte) {
	for i := uint16(0); i <= uint16(x); i++ {
		vm.write(vm.I+i, vm.V[i])
	}
}

/// load registers v0..vx from I.
///
func (vm *CHIP_8) loadRegs(x byte) {
	for i := uint16(0); i <= uint16(x); i++ {
		vm.V[i] = vm.read(vm.I + i)
	}
}
