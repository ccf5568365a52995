package beeper

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder buffers beeper output in memory and writes it to disk as a WAV
// file when closed.
type Recorder struct {
	file string
	rate int
	data []int
}

// NewRecorder creates a recorder that will write to file.
func NewRecorder(file string, rate int) *Recorder {
	return &Recorder{
		file: file,
		rate: rate,
		data: make([]int, 0, rate),
	}
}

// Write appends unsigned 8-bit samples. It never fails.
func (r *Recorder) Write(samples []byte) (int, error) {
	for _, s := range samples {
		r.data = append(r.data, int(s))
	}

	return len(samples), nil
}

// Len returns the number of samples recorded so far.
func (r *Recorder) Len() int {
	return len(r.data)
}

// Close writes the recording to disk.
func (r *Recorder) Close() (rerr error) {
	f, err := os.Create(r.file)
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wav: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, r.rate, 8, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  r.rate,
		},
		Data:           r.data,
		SourceBitDepth: 8,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	return nil
}
