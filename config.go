package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

// Options are the command line settings of the emulator.
type Options struct {
	// Program is the file to load. When empty a file chooser is shown.
	Program string

	// Cycles is the number of instructions executed per 60Hz frame.
	Cycles int

	// Scale is the size of a CHIP-8 pixel in the window.
	Scale int

	// Seed for RND. Zero seeds from the clock.
	Seed int64

	Debug bool
	Quiet bool

	// Term runs in the terminal instead of an SDL window.
	Term bool

	// Asm assembles Program from source before running it.
	Asm bool

	// Trace logs every executed instruction at debug level.
	Trace bool

	// Wav is a file the beeper output is recorded to.
	Wav string

	// StatsView is the listen address of the runtime statistics server.
	StatsView string
}

// UsageError is returned for bad command lines.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage text and the flag defaults.
func (e *UsageError) ShowUsage() {
	e.flags.SetOutput(os.Stderr)

	fmt.Fprintf(os.Stderr, "usage: chip8 [options] [program]\n\n")
	e.flags.PrintDefaults()
}

// ParseFlags reads the options from a command line (without the program
// name).
func ParseFlags(args []string) (Options, error) {
	flags := flag.NewFlagSet("chip8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := Options{}
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	switch rest := flags.Args(); len(rest) {
	case 0:
	case 1:
		opts.Program = rest[0]
	default:
		return opts, &UsageError{flags: flags, msg: "only one program may be given"}
	}

	if opts.Cycles < 1 {
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("invalid cycles per frame: %d", opts.Cycles)}
	}

	if opts.Scale < 1 {
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("invalid scale: %d", opts.Scale)}
	}

	if opts.Term && opts.Program == "" {
		return opts, &UsageError{flags: flags, msg: "-term requires a program"}
	}

	if opts.Asm && opts.Program == "" {
		return opts, &UsageError{flags: flags, msg: "-asm requires a source file"}
	}

	return opts, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) {
	flags.IntVar(&opts.Cycles, "cycles", 1, "instructions executed per frame (60 frames per second)")
	flags.IntVar(&opts.Scale, "scale", 8, "window pixels per CHIP-8 pixel")
	flags.Int64Var(&opts.Seed, "seed", 0, "random number seed, 0 uses the clock")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
	flags.BoolVar(&opts.Term, "term", false, "run in the terminal instead of a window")
	flags.BoolVar(&opts.Asm, "asm", false, "assemble the program from source before running")
	flags.BoolVar(&opts.Trace, "trace", false, "log each executed instruction (implies -debug)")
	flags.StringVar(&opts.Wav, "wav", "", "record the beeper to a WAV file")
	flags.StringVar(&opts.StatsView, "statsview", "", "serve runtime statistics on this address, e.g. localhost:12600")
}

// createLogger creates a logger with appropriate settings.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
