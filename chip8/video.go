package chip8

const (
	/// Width and Height of the display in pixels.
	///
	Width  = 64
	Height = 32

	/// VideoSize is the number of pixels in video memory.
	///
	VideoSize = Width * Height
)

/// Clear the video display memory.
///
func (vm *CHIP_8) cls() {
	vm.Video = [VideoSize]byte{}
	vm.Redraw = true
}

/// draw a sprite at I to video memory at vx, vy. Pixels falling off the
/// right or bottom edge are clipped, they never wrap.
///
func (vm *CHIP_8) drw(x, y, n byte) {
	ox := int(vm.V[x])
	oy := int(vm.V[y])

	vm.V[0xF] = 0

	// draw each row of the sprite
	for row := 0; row < int(n); row++ {
		py := oy + row
		s := vm.read(vm.I + uint16(row))

		for col := 0; col < 8; col++ {
			if s&(0x80>>col) == 0 {
				continue
			}

			px := ox + col

			// clip pixels that are off screen
			if px >= Width || py >= Height {
				continue
			}

			p := px + py*Width

			// was a pixel turned off?
			if vm.Video[p] == 1 {
				vm.V[0xF] = 1
			}

			vm.Video[p] ^= 1
		}
	}

	vm.Redraw = true
}

/// Pixel returns true if the pixel at x, y is set. Coordinates outside the
/// display are never set.
///
func (vm *CHIP_8) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return false
	}

	return vm.Video[x+y*Width] != 0
}

/// Snapshot returns a copy of video memory for a presenter.
///
func (vm *CHIP_8) Snapshot() [VideoSize]byte {
	return vm.Video
}

/// ClearRedraw is called by a presenter once the display is up to date.
///
func (vm *CHIP_8) ClearRedraw() {
	vm.Redraw = false
}
