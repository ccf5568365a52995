package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// holdFrames is how long a terminal key stays down after its last press.
// Terminals only report presses, held keys arrive as auto-repeat.
const holdFrames = 8

// termKey is a decoded terminal keystroke.
type termKey struct {
	key   byte
	quit  bool
	reset bool
}

// termKeyMap maps characters to CHIP-8 keys.
var termKeyMap = map[byte]byte{
	'a': 0x0, 's': 0x1, 'd': 0x2, 'f': 0x3,
	'1': 0x8, '2': 0x9, '3': 0xA, '4': 0xB,
	'5': 0xC, '6': 0xD, '7': 0xE, '8': 0xF,
}

// termArrows maps the final byte of an arrow key escape sequence.
var termArrows = map[byte]byte{
	'A': 0x4, // up
	'C': 0x5, // right
	'B': 0x6, // down
	'D': 0x7, // left
}

// decodeKeys turns one read from a raw terminal into keystrokes. Escape
// sequences arrive whole in a single read; an ESC on its own is quit.
func decodeKeys(buf []byte) []termKey {
	var keys []termKey

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		switch {
		case b == 0x1B:
			if i+2 < len(buf) && buf[i+1] == '[' {
				if k, ok := termArrows[buf[i+2]]; ok {
					keys = append(keys, termKey{key: k})
				}
				i += 2
				continue
			}
			if i+1 == len(buf) {
				keys = append(keys, termKey{quit: true})
			}
		case b == 0x03 || b == 'q' || b == 'Q':
			keys = append(keys, termKey{quit: true})
		case b == 0x7F || b == 0x08:
			keys = append(keys, termKey{reset: true})
		default:
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			if k, ok := termKeyMap[b]; ok {
				keys = append(keys, termKey{key: k})
			}
		}
	}

	return keys
}

// RenderText draws the video memory as text, two pixel rows per line
// using half block characters.
func RenderText(video [chip8.VideoSize]byte) string {
	var sb strings.Builder

	for y := 0; y < chip8.Height; y += 2 {
		if y > 0 {
			sb.WriteString("\r\n")
		}

		for x := 0; x < chip8.Width; x++ {
			top := video[x+y*chip8.Width] != 0
			bottom := video[x+(y+1)*chip8.Width] != 0

			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
	}

	return sb.String()
}

// Terminal runs the VM in a raw mode terminal.
type Terminal struct {
	out    io.Writer
	events chan termKey
	held   [16]int
}

// WaitKey blocks on the terminal for LD Vx, K.
func (t *Terminal) WaitKey() (byte, error) {
	for ev := range t.events {
		if ev.quit {
			return 0, chip8.ErrKeyWait
		}
		if !ev.reset {
			t.press(ev.key)
			return ev.key, nil
		}
	}

	return 0, chip8.ErrKeyWait
}

func (t *Terminal) press(key byte) {
	VM.PressKey(key)
	t.held[key] = holdFrames
}

// release keys that haven't repeated recently.
func (t *Terminal) release() {
	for k := range t.held {
		if t.held[k] > 0 {
			t.held[k]--

			if t.held[k] == 0 {
				VM.ReleaseKey(byte(k))
			}
		}
	}
}

// read keystrokes from stdin until it closes.
func (t *Terminal) read(r io.Reader) {
	defer close(t.events)

	buf := make([]byte, 32)

	for {
		n, err := r.Read(buf)

		for _, k := range decodeKeys(buf[:n]) {
			t.events <- k
		}

		if err != nil {
			return
		}
	}
}

// RunTerminal runs the loaded VM until the user quits.
func RunTerminal(opts Options, logger *log.Logger, sound *Sound) error {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return errors.New("-term needs an interactive terminal")
	}

	// raw mode disables echo and line buffering so keys arrive at once
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	t := &Terminal{
		out:    os.Stdout,
		events: make(chan termKey, 64),
	}

	go t.read(os.Stdin)

	VM.SetWaiter(t)

	// clear the screen and hide the cursor
	fmt.Fprint(t.out, "\x1b[2J\x1b[?25l")
	defer fmt.Fprint(t.out, "\x1b[?25h\r\n")

	logger.Debug("Terminal started", log.String("keys", "a s d f, arrows, 1-8; q quits, backspace resets"))

	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()

	sounding := false

	for range ticker.C {
		if quit := t.drain(); quit {
			return nil
		}

		err := VM.Frame(opts.Cycles)
		if errors.Is(err, chip8.ErrKeyWait) {
			return nil
		}
		if err != nil {
			return err
		}

		t.release()

		on := VM.Sounding()
		if on && !sounding {
			fmt.Fprint(t.out, "\a")
		}
		sounding = on

		if err := sound.Update(on); err != nil {
			return err
		}

		if VM.Redraw {
			fmt.Fprint(t.out, "\x1b[H", RenderText(VM.Snapshot()))
			VM.ClearRedraw()
		}
	}

	return nil
}

// drain applies the pending keystrokes. Returns true to quit.
func (t *Terminal) drain() bool {
	for {
		select {
		case ev, ok := <-t.events:
			if !ok || ev.quit {
				return true
			}

			if ev.reset {
				VM.Reset()
				continue
			}

			t.press(ev.key)
		default:
			return false
		}
	}
}
