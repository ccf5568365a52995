package chip8

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedRandom byte

func (r fixedRandom) RandomByte() byte {
	return byte(r)
}

type fakeWaiter struct {
	key   byte
	err   error
	calls int
}

func (w *fakeWaiter) WaitKey() (byte, error) {
	w.calls++
	return w.key, w.err
}

// poke writes instruction words to memory starting at address.
func poke(vm *CHIP_8, address uint16, words ...uint16) {
	for i, w := range words {
		vm.Memory[address+uint16(2*i)] = byte(w >> 8)
		vm.Memory[address+uint16(2*i)+1] = byte(w)
	}
}

func newTestVM(words ...uint16) *CHIP_8 {
	vm := New(Options{Random: fixedRandom(0xFF)})
	poke(vm, ProgramStart, words...)
	return vm
}

func TestNew(t *testing.T) {
	assert := assert.New(t)

	vm := New(Options{})
	assert.Equal(uint16(ProgramStart), vm.PC)
	assert.Equal(uint16(0), vm.SP)
	assert.Equal(uint16(0), vm.I)
	assert.Equal([16]byte{}, vm.V)
	assert.Equal([VideoSize]byte{}, vm.Video)
	assert.Equal([MemorySize]byte{}, vm.Memory)
	assert.False(vm.Redraw)
}

func TestFetchIsBigEndian(t *testing.T) {
	vm := newTestVM(0x6A42)

	assert.Equal(t, uint16(0x6A42), vm.fetch())
	assert.Equal(t, uint16(0x202), vm.PC)
}

func TestUnsupportedInstructions(t *testing.T) {
	for _, w := range []uint16{0x0000, 0x00FF, 0x5121, 0x800F, 0x8008, 0x9AB1, 0xE100, 0xE19F, 0xF0FF, 0xF10B} {
		vm := newTestVM(w)
		vm.V = [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
		vm.I = 0x123

		assert.Equal(t, OpUnknown, Decode(w).Op, "%04X", w)

		want := *vm
		want.PC += 2
		want.Cycles++

		assert.NoError(t, vm.Step(), "%04X", w)
		assert.Equal(t, want, *vm, "%04X", w)

		// applied directly the word is reported, not logged
		var unsupported *UnsupportedError
		vm = newTestVM()
		assert.ErrorAs(t, vm.Apply(w), &unsupported, "%04X", w)
		assert.Equal(t, w, unsupported.Word)
		assert.Equal(t, uint16(ProgramStart), vm.PC)
	}
}

func TestSysIsIgnored(t *testing.T) {
	vm := newTestVM(0x0123)
	want := *vm
	want.PC += 2
	want.Cycles++

	assert.Equal(t, OpSYS, Decode(0x0123).Op)
	assert.NoError(t, vm.Step())
	assert.Equal(t, want, *vm)

	var unsupported *UnsupportedError
	assert.ErrorAs(t, newTestVM().Apply(0x0123), &unsupported)
	assert.Equal(t, uint16(0x0123), unsupported.Word)
}

func TestJumpLeavesStack(t *testing.T) {
	assert := assert.New(t)

	vm := newTestVM(0x1ABC)
	assert.NoError(vm.Step())
	assert.Equal(uint16(0xABC), vm.PC)
	assert.Equal(uint16(0), vm.SP)
	assert.Equal([StackDepth]uint16{}, vm.Stack)
}

func TestCall(t *testing.T) {
	assert := assert.New(t)

	vm := newTestVM(0x2300)
	assert.NoError(vm.Step())
	assert.Equal(uint16(0x300), vm.PC)
	assert.Equal(uint16(1), vm.SP)
	assert.Equal(uint16(0x202), vm.Stack[0])
}

func TestNestedCallsReturn(t *testing.T) {
	for n := 1; n <= StackDepth; n++ {
		vm := newTestVM(0x2300)

		// each subroutine calls the next, then returns
		for k := 0; k < n; k++ {
			sub := uint16(0x300 + 0x10*k)
			if k == n-1 {
				poke(vm, sub, 0x00EE)
			} else {
				poke(vm, sub, 0x2000|(sub+0x10), 0x00EE)
			}
		}

		for i := 0; i < 2*n; i++ {
			assert.NoError(t, vm.Step())
		}

		assert.Equal(t, uint16(0x202), vm.PC, "depth %d", n)
		assert.Equal(t, uint16(0), vm.SP, "depth %d", n)
		assert.Equal(t, [StackDepth]uint16{}, vm.Stack, "depth %d", n)
	}
}

func TestReturnEmptyStack(t *testing.T) {
	assert := assert.New(t)

	vm := newTestVM(0x00EE)
	err := vm.Step()
	assert.True(errors.Is(err, ErrStackUnderflow))

	var execErr *ExecError
	if assert.True(errors.As(err, &execErr)) {
		assert.Equal(uint16(0x200), execErr.PC)
		assert.Equal(uint16(0x00EE), execErr.Word)
	}

	assert.ErrorIs(New(Options{}).Apply(0x00EE), ErrStackUnderflow)
}

func TestStackOverflowReusesFirstSlot(t *testing.T) {
	assert := assert.New(t)

	vm := New(Options{})
	for i := 0; i < StackDepth+1; i++ {
		vm.PC = uint16(0x400 + 2*i)
		assert.NoError(vm.Apply(0x2600))
	}

	assert.Equal(uint16(StackDepth+1), vm.SP)
	assert.Equal(uint16(0x400+2*StackDepth), vm.Stack[0])
	assert.Equal(uint16(0x402), vm.Stack[1])
}

func TestSkips(t *testing.T) {
	table := []struct {
		name string
		word uint16
		skip bool
	}{
		{"SE byte equal", 0x3142, true},
		{"SE byte differ", 0x3143, false},
		{"SNE byte equal", 0x4142, false},
		{"SNE byte differ", 0x4143, true},
		{"SE reg equal", 0x5120, true},
		{"SE reg differ", 0x5130, false},
		{"SNE reg equal", 0x9120, false},
		{"SNE reg differ", 0x9130, true},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			vm := newTestVM(entry.word)
			vm.V[1] = 0x42
			vm.V[2] = 0x42
			vm.V[3] = 0x07

			assert.NoError(t, vm.Step())

			if entry.skip {
				assert.Equal(t, uint16(0x204), vm.PC)
			} else {
				assert.Equal(t, uint16(0x202), vm.PC)
			}
		})
	}
}

func TestLoadAndAddByte(t *testing.T) {
	assert := assert.New(t)

	vm := newTestVM(0x6AFA, 0x7A0A)
	vm.V[0xF] = 0x55

	assert.NoError(vm.Step())
	assert.Equal(byte(250), vm.V[0xA])

	assert.NoError(vm.Step())
	assert.Equal(byte(4), vm.V[0xA])

	// add never touches the flag
	assert.Equal(byte(0x55), vm.V[0xF])
}

func TestALU(t *testing.T) {
	table := []struct {
		name   string
		word   uint16
		vx, vy byte
		want   byte
		vf     byte
	}{
		{"LD", 0x8120, 0x0F, 0xA0, 0xA0, 0x99},
		{"OR", 0x8121, 0x0A, 0xAC, 0x0A | 0xAC, 0x99},
		{"AND", 0x8122, 0x0A, 0xAC, 0x0A & 0xAC, 0x99},
		{"XOR", 0x8123, 0x0A, 0xAC, 0x0A ^ 0xAC, 0x99},
		{"ADD", 0x8124, 5, 10, 15, 0},
		{"ADD carry high byte", 0x8124, 255, 1, 1, 1},
		{"ADD carry large", 0x8124, 200, 200, 1, 1},
		{"SUB", 0x8125, 10, 5, 5, 1},
		{"SUB equal", 0x8125, 7, 7, 0, 1},
		{"SUB borrow", 0x8125, 5, 10, 251, 0},
		{"SUBN", 0x8127, 1, 3, 2, 1},
		{"SUBN equal", 0x8127, 7, 7, 0, 1},
		{"SUBN borrow", 0x8127, 10, 3, 249, 0},
		{"SHR from vy", 0x8126, 3, 5, 2, 1},
		{"SHR flag from vx", 0x8126, 3, 4, 2, 1},
		{"SHR flag clear", 0x8126, 4, 5, 2, 0},
		{"SHL from vy", 0x812E, 4, 0x80, 0, 1},
		{"SHL no carry", 0x812E, 0xFF, 0x41, 0x82, 0},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			vm := New(Options{})
			vm.V[1] = entry.vx
			vm.V[2] = entry.vy
			vm.V[0xF] = 0x99

			assert.NoError(t, vm.Apply(entry.word))
			assert.Equal(t, entry.want, vm.V[1])
			assert.Equal(t, entry.vf, vm.V[0xF])
			assert.Equal(t, entry.vy, vm.V[2])
		})
	}
}

func TestShiftRightIgnoresPriorVx(t *testing.T) {
	for _, vx := range []byte{0, 2, 0x80, 0xFE} {
		vm := New(Options{})
		vm.V[3] = vx
		vm.V[2] = 5

		assert.NoError(t, vm.Apply(0x8326))
		assert.Equal(t, byte(2), vm.V[3])
		assert.Equal(t, vx&1, vm.V[0xF])
	}
}

func TestIndexAndJumpV0(t *testing.T) {
	assert := assert.New(t)

	vm := newTestVM(0xA123, 0xB080)
	vm.V[0] = 0x80

	assert.NoError(vm.Step())
	assert.Equal(uint16(0x123), vm.I)

	assert.NoError(vm.Step())
	assert.Equal(uint16(0x100), vm.PC)
}

func TestRandom(t *testing.T) {
	assert := assert.New(t)

	vm := New(Options{Random: fixedRandom(0xA5)})
	assert.NoError(vm.Apply(0xC30F))
	assert.Equal(byte(0x05), vm.V[3])

	r := NewRandom(1)
	for i := 0; i < 10000; i++ {
		assert.NotZero(r.RandomByte())
	}
}

func TestKeys(t *testing.T) {
	assert := assert.New(t)

	vm := New(Options{})
	vm.V[1] = 3

	vm.PC = 0x200
	assert.NoError(vm.Apply(0xE19E))
	assert.Equal(uint16(0x200), vm.PC)

	vm.PressKey(3)
	assert.NoError(vm.Apply(0xE19E))
	assert.Equal(uint16(0x202), vm.PC)

	vm.PC = 0x200
	assert.NoError(vm.Apply(0xE1A1))
	assert.Equal(uint16(0x200), vm.PC)

	vm.ReleaseKey(3)
	assert.NoError(vm.Apply(0xE1A1))
	assert.Equal(uint16(0x202), vm.PC)

	// keys outside the pad are never down
	vm.PC = 0x200
	vm.V[1] = 0x13
	vm.PressKey(0x13)
	assert.Equal([16]byte{}, vm.Keys)
	assert.NoError(vm.Apply(0xE19E))
	assert.Equal(uint16(0x200), vm.PC)
	assert.NoError(vm.Apply(0xE1A1))
	assert.Equal(uint16(0x202), vm.PC)
}

func TestWaitKey(t *testing.T) {
	assert := assert.New(t)

	w := &fakeWaiter{key: 0xB}
	vm := New(Options{Waiter: w})
	poke(vm, ProgramStart, 0xF50A)
	vm.DT = 10

	assert.NoError(vm.Step())
	assert.Equal(byte(0xB), vm.V[5])
	assert.Equal(uint16(0x202), vm.PC)
	assert.Equal(1, w.calls)

	// the keypad itself is left alone, and the wait doesn't run timers
	assert.Equal([16]byte{}, vm.Keys)
	assert.Equal(byte(10), vm.DT)
}

func TestWaitKeyAborted(t *testing.T) {
	w := &fakeWaiter{err: errors.New("window closed")}
	vm := New(Options{Waiter: w})
	poke(vm, ProgramStart, 0xF50A)

	assert.ErrorIs(t, vm.Step(), ErrKeyWait)
}

func TestWaitKeyWithoutWaiter(t *testing.T) {
	assert := assert.New(t)

	vm := newTestVM(0xF30A)

	assert.NoError(vm.Step())
	assert.Equal(uint16(0x200), vm.PC)

	vm.PressKey(7)
	assert.NoError(vm.Step())
	assert.Equal(uint16(0x202), vm.PC)
	assert.Equal(byte(7), vm.V[3])
}

func TestWaitKeyWithoutWaiterFreezesTime(t *testing.T) {
	assert := assert.New(t)

	vm := New(Options{})
	poke(vm, ProgramStart, 0xF00A)
	vm.DT = 10
	vm.ST = 5

	for i := 0; i < 3; i++ {
		assert.NoError(vm.Tick())
	}
	assert.NoError(vm.Frame(5))

	assert.Equal(uint16(0x200), vm.PC)
	assert.Equal(byte(10), vm.DT)
	assert.Equal(byte(5), vm.ST)
	assert.Equal(int64(0), vm.Cycles)

	vm.PressKey(2)
	assert.NoError(vm.Tick())

	assert.Equal(byte(2), vm.V[0])
	assert.Equal(uint16(0x202), vm.PC)
	assert.Equal(byte(9), vm.DT)
	assert.Equal(byte(4), vm.ST)
	assert.Equal(int64(1), vm.Cycles)
}

func TestWaitKeyWithoutWaiterNeedsNewPress(t *testing.T) {
	assert := assert.New(t)

	vm := newTestVM(0xF10A)
	vm.PressKey(4)

	// held before the wait began
	assert.NoError(vm.Step())
	assert.Equal(uint16(0x200), vm.PC)

	vm.ReleaseKey(4)
	assert.NoError(vm.Step())
	assert.Equal(uint16(0x200), vm.PC)

	vm.PressKey(4)
	assert.NoError(vm.Step())
	assert.Equal(uint16(0x202), vm.PC)
	assert.Equal(byte(4), vm.V[1])
}

func TestTimers(t *testing.T) {
	assert := assert.New(t)

	vm := newTestVM(0x6305, 0xF315, 0xF318, 0xF407)

	assert.NoError(vm.Frame(3))
	assert.Equal(byte(4), vm.DT)
	assert.Equal(byte(4), vm.ST)
	assert.True(vm.Sounding())

	assert.NoError(vm.Tick())
	assert.Equal(byte(4), vm.V[4])
	assert.Equal(byte(3), vm.DT)
	assert.Equal(byte(3), vm.ST)

	for i := 0; i < 3; i++ {
		vm.UpdateTimers()
	}
	assert.Equal(byte(0), vm.DT)
	assert.False(vm.Sounding())

	// timers stop at zero
	assert.False(vm.UpdateTimers())
	assert.Equal(byte(0), vm.DT)
	assert.Equal(byte(0), vm.ST)
}

func TestTimerDecrementsOncePerTick(t *testing.T) {
	vm := New(Options{})
	for i := 0; i < 8; i++ {
		poke(vm, uint16(ProgramStart+2*i), 0x6000)
	}
	vm.DT = 20

	for i := 0; i < 4; i++ {
		assert.NoError(t, vm.Tick())
	}
	assert.Equal(t, byte(16), vm.DT)

	// more cycles per frame still only tick the timers once
	assert.NoError(t, vm.Frame(4))
	assert.Equal(t, byte(15), vm.DT)
}

func TestMemoryInstructions(t *testing.T) {
	assert := assert.New(t)

	vm := New(Options{})
	vm.V[2] = 254
	vm.I = 0x300

	assert.NoError(vm.Apply(0xF233))
	assert.Equal([]byte{2, 5, 4}, vm.Memory[0x300:0x303])

	vm.V = [16]byte{9, 8, 7, 6}
	assert.NoError(vm.Apply(0xF355))
	assert.Equal([]byte{9, 8, 7, 6, 0}, vm.Memory[0x300:0x305])
	assert.Equal(uint16(0x300), vm.I)

	vm.V = [16]byte{}
	assert.NoError(vm.Apply(0xF265))
	assert.Equal([16]byte{9, 8, 7}, vm.V)

	vm.V[4] = 0x10
	assert.NoError(vm.Apply(0xF41E))
	assert.Equal(uint16(0x310), vm.I)

	vm.V[4] = 0xB
	assert.NoError(vm.Apply(0xF429))
	assert.Equal(uint16(55), vm.I)
}

func TestMemoryAddressesWrap(t *testing.T) {
	assert := assert.New(t)

	vm := New(Options{})
	vm.I = 0xFFE
	vm.V[0] = 123

	assert.NotPanics(func() {
		assert.NoError(vm.Apply(0xF033))
	})
	assert.Equal(byte(1), vm.Memory[0xFFE])
	assert.Equal(byte(2), vm.Memory[0xFFF])
	assert.Equal(byte(3), vm.Memory[0x000])

	// fetching the last word wraps to the start of memory
	vm.PC = 0xFFF
	assert.NotPanics(func() {
		assert.Equal(uint16(0x0203), vm.fetch())
	})
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	vm := New(Options{})
	vm.InstallFont()
	_, err := vm.LoadROM([]byte{0x60, 0x01})
	assert.NoError(err)

	vm.Memory[0x300] = 0xAA
	vm.V[0] = 4
	vm.PC = 0x345
	vm.DT = 9
	vm.PressKey(1)

	vm.Reset()
	assert.Equal(uint16(ProgramStart), vm.PC)
	assert.Equal(byte(0), vm.Memory[0x300])
	assert.Equal(byte(0x60), vm.Memory[0x200])
	assert.Equal(FontSet[:], vm.Memory[:80])
	assert.Equal([16]byte{}, vm.V)
	assert.Equal([16]byte{}, vm.Keys)
	assert.Equal(byte(0), vm.DT)
}

func TestTrace(t *testing.T) {
	assert := assert.New(t)

	var pcs []uint16
	var ops []Op

	vm := New(Options{
		Trace: func(pc uint16, inst Instruction) {
			pcs = append(pcs, pc)
			ops = append(ops, inst.Op)
		},
	})
	poke(vm, ProgramStart, 0x6005, 0x2206, 0x0000, 0x00EE)

	assert.NoError(vm.Frame(3))
	assert.Equal([]uint16{0x200, 0x202, 0x206}, pcs)
	assert.Equal([]Op{OpLDByte, OpCALL, OpRET}, ops)
}
