// Package beeper turns the CHIP-8 sound timer into audio: a single square
// wave tone that is either on or off for each frame.
package beeper

const (
	// SampleRate of the generated audio (unsigned 8-bit mono).
	SampleRate = 22050

	// Tone is the frequency of the beep in Hz.
	Tone = 440

	// Silence is the unsigned 8-bit sample for no signal.
	Silence = 0x80
)

// Beeper generates unsigned 8-bit mono samples a frame at a time.
type Beeper struct {
	rate   int
	period int
	volume int

	// phase is the sample position within the current wave period.
	phase int
}

// New creates a beeper for the given sample rate and tone.
func New(rate, tone int) *Beeper {
	if tone <= 0 || tone > rate/2 {
		tone = rate / 2
	}

	return &Beeper{
		rate:   rate,
		period: rate / tone,
		volume: 0x30,
	}
}

// Frame returns the samples for one video frame at fps frames per
// second. While on is false the frame is silent and the wave restarts.
func (b *Beeper) Frame(on bool, fps int) []byte {
	n := b.rate / fps
	samples := make([]byte, n)

	for i := range samples {
		if !on {
			samples[i] = Silence
			continue
		}

		if b.phase < b.period/2 {
			samples[i] = byte(Silence + b.volume)
		} else {
			samples[i] = byte(Silence - b.volume)
		}

		b.phase = (b.phase + 1) % b.period
	}

	if !on {
		b.phase = 0
	}

	return samples
}
