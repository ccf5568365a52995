package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlagsDefaults(t *testing.T) {
	assert := assert.New(t)

	opts, err := ParseFlags(nil)
	assert.NoError(err)
	assert.Equal(1, opts.Cycles)
	assert.Equal(8, opts.Scale)
	assert.Equal(int64(0), opts.Seed)
	assert.Empty(opts.Program)
	assert.False(opts.Term)
}

func TestParseFlags(t *testing.T) {
	assert := assert.New(t)

	opts, err := ParseFlags([]string{"-cycles", "10", "-seed", "7", "-term", "-wav", "out.wav", "games/PONG"})
	assert.NoError(err)
	assert.Equal(10, opts.Cycles)
	assert.Equal(int64(7), opts.Seed)
	assert.True(opts.Term)
	assert.Equal("out.wav", opts.Wav)
	assert.Equal("games/PONG", opts.Program)
}

func TestParseFlagsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-nope"}},
		{"two programs", []string{"a.ch8", "b.ch8"}},
		{"zero cycles", []string{"-cycles", "0"}},
		{"zero scale", []string{"-scale", "0"}},
		{"asm without source", []string{"-asm"}},
		{"term without program", []string{"-term"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseFlags(test.args)

			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))
		})
	}
}

