package chip8

import (
	"io"
	"os"
)

/// LoadROM copies a program image into memory at 0x200 and returns the
/// number of bytes loaded. Memory past the end of the image is left alone.
/// An image that doesn't fit is rejected and nothing is written.
///
func (vm *CHIP_8) LoadROM(program []byte) (int, error) {
	if len(program) > MaxProgramSize {
		return 0, &LoadError{Err: ErrImageTooLarge}
	}

	n := copy(vm.Memory[ProgramStart:], program)

	// keep a pristine copy for resets
	copy(vm.ROM[ProgramStart:], program)

	return n, nil
}

/// LoadFile loads a program image from disk, see LoadROM.
///
func (vm *CHIP_8) LoadFile(file string) (int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, &LoadError{Path: file, Err: err}
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return 0, &LoadError{Path: file, Err: err}
	}

	// only regular files have a size to hold the read to
	size := int64(-1)
	if st.Mode().IsRegular() {
		size = st.Size()
	}

	return vm.loadFrom(file, f, size)
}

/// loadFrom reads a program image of the given size (-1 if unknown) and
/// loads it. A read that comes up short is an io.ErrUnexpectedEOF and
/// nothing is written.
///
func (vm *CHIP_8) loadFrom(file string, r io.Reader, size int64) (int, error) {
	if size > MaxProgramSize {
		return 0, &LoadError{Path: file, Err: ErrImageTooLarge}
	}

	// read one byte past the limit so oversized streams are detected too
	program, err := io.ReadAll(io.LimitReader(r, MaxProgramSize+1))
	if err != nil {
		return 0, &LoadError{Path: file, Err: err}
	}

	if len(program) > MaxProgramSize {
		return 0, &LoadError{Path: file, Err: ErrImageTooLarge}
	}

	if size >= 0 && int64(len(program)) < size {
		return 0, &LoadError{Path: file, Err: io.ErrUnexpectedEOF}
	}

	n, err := vm.LoadROM(program)
	if err != nil {
		return 0, &LoadError{Path: file, Err: ErrImageTooLarge}
	}

	return n, nil
}
