package main

import (
	"strings"
	"testing"

	"github.com/massung/chip8vm/chip8"
	"github.com/stretchr/testify/assert"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		keys []termKey
	}{
		{"letters", "asdf", []termKey{{key: 0}, {key: 1}, {key: 2}, {key: 3}}},
		{"capitals", "SF", []termKey{{key: 1}, {key: 3}}},
		{"digits", "18", []termKey{{key: 8}, {key: 15}}},
		{"arrows", "\x1b[A\x1b[C\x1b[B\x1b[D", []termKey{{key: 4}, {key: 5}, {key: 6}, {key: 7}}},
		{"unmapped", "zx9", nil},
		{"quit", "q", []termKey{{quit: true}}},
		{"ctrl-c", "\x03", []termKey{{quit: true}}},
		{"escape", "\x1b", []termKey{{quit: true}}},
		{"backspace", "\x7f", []termKey{{reset: true}}},
		{"mixed", "a\x1b[Dq", []termKey{{key: 0}, {key: 7}, {quit: true}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.keys, decodeKeys([]byte(test.in)))
		})
	}
}

func TestRenderText(t *testing.T) {
	assert := assert.New(t)

	var video [chip8.VideoSize]byte
	video[0] = 1                 // top only
	video[1+chip8.Width] = 1     // bottom only
	video[2] = 1                 // both
	video[2+chip8.Width] = 1     // both
	video[63+31*chip8.Width] = 1 // last pixel

	lines := strings.Split(RenderText(video), "\r\n")
	assert.Len(lines, chip8.Height/2)

	for _, line := range lines {
		assert.Equal(chip8.Width, len([]rune(line)))
	}

	assert.Equal("▀▄█ ", string([]rune(lines[0])[:4]))
	assert.Equal('▄', []rune(lines[15])[63])
}

func TestTerminalKeysHeld(t *testing.T) {
	assert := assert.New(t)

	VM = chip8.New(chip8.Options{})
	term := &Terminal{events: make(chan termKey, 4)}

	term.events <- termKey{key: 5}
	assert.False(term.drain())
	assert.True(VM.KeyDown(5))

	for i := 0; i < holdFrames-1; i++ {
		term.release()
	}
	assert.True(VM.KeyDown(5))

	term.release()
	assert.False(VM.KeyDown(5))

	term.events <- termKey{quit: true}
	assert.True(term.drain())
}

func TestTerminalWaitKey(t *testing.T) {
	assert := assert.New(t)

	VM = chip8.New(chip8.Options{})
	term := &Terminal{events: make(chan termKey, 4)}

	term.events <- termKey{reset: true}
	term.events <- termKey{key: 9}

	key, err := term.WaitKey()
	assert.NoError(err)
	assert.Equal(byte(9), key)
	assert.True(VM.KeyDown(9))

	close(term.events)
	_, err = term.WaitKey()
	assert.ErrorIs(err, chip8.ErrKeyWait)
}
