package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrStackUnderflow is returned when RET executes with nothing to
	// return to.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrImageTooLarge is returned when a program image will not fit in
	// the 3584 bytes of program memory.
	ErrImageTooLarge = errors.New("program image too large")

	// ErrKeyWait is returned when the key waiter gave up before a key was
	// pressed (e.g. the window was closed).
	ErrKeyWait = errors.New("key wait aborted")
)

// LoadError is returned when a program image could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (err *LoadError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("load program: %v", err.Err)
	}

	return fmt.Sprintf("load program %s: %v", err.Path, err.Err)
}

func (err *LoadError) Unwrap() error {
	return err.Err
}

// ExecError locates a fatal runtime error at the instruction that raised it.
type ExecError struct {
	PC   uint16
	Word uint16
	Err  error
}

func (err *ExecError) Error() string {
	return fmt.Sprintf("%04X: %04X %v", err.PC, err.Word, err.Err)
}

func (err *ExecError) Unwrap() error {
	return err.Err
}

// UnsupportedError is returned by Execute for a word that isn't an
// instruction the CPU runs (including SYS). Step logs it and carries on.
type UnsupportedError struct {
	Word uint16
}

func (err *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported instruction %04X", err.Word)
}
