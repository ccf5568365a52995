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

package main

import (
	"io"

	"github.com/massung/chip8vm/beeper"
	"github.com/veandco/go-sdl2/sdl"
)

/// FrameRate is how many times per second the VM runs a frame.
///
const FrameRate = 60

/// Sound turns the sound timer into a beep, one frame of samples at a
/// time, and sends it to every sink (speaker, WAV recorder).
///
type Sound struct {
	beep  *beeper.Beeper
	sinks []io.Writer
}

/// NewSound creates a beeper feeding the given sinks.
///
func NewSound(sinks ...io.Writer) *Sound {
	return &Sound{
		beep:  beeper.New(beeper.SampleRate, beeper.Tone),
		sinks: sinks,
	}
}

/// Update generates the next frame of audio.
///
func (s *Sound) Update(on bool) error {
	if len(s.sinks) == 0 {
		return nil
	}

	samples := s.beep.Frame(on, FrameRate)

	for _, w := range s.sinks {
		if _, err := w.Write(samples); err != nil {
			return err
		}
	}

	return nil
}

/// Speaker queues samples on an SDL audio device.
///
type Speaker struct {
	dev sdl.AudioDeviceID
}

/// OpenSpeaker opens the default audio device for unsigned 8-bit mono.
///
func OpenSpeaker() (*Speaker, error) {
	spec := &sdl.AudioSpec{
		Freq:     beeper.SampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return nil, err
	}

	// start playing immediately, silence is queued while the timer is 0
	sdl.PauseAudioDevice(dev, false)

	return &Speaker{dev: dev}, nil
}

/// Write queues samples. When the device has fallen behind by a few
/// frames the samples are dropped so the beep stays in sync.
///
func (s *Speaker) Write(samples []byte) (int, error) {
	if sdl.GetQueuedAudioSize(s.dev) > uint32(4*len(samples)) {
		return len(samples), nil
	}

	if err := sdl.QueueAudio(s.dev, samples); err != nil {
		return 0, err
	}

	return len(samples), nil
}

/// Close the audio device.
///
func (s *Speaker) Close() {
	sdl.CloseAudioDevice(s.dev)
}
