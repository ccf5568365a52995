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
	"image"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// first and last printable characters in the font texture
	firstGlyph = ' '
	lastGlyph  = '~'
)

var (
	/// Font is a texture with all the printable ASCII glyphs in a row.
	///
	Font *sdl.Texture

	/// The size of a single character cell in Font.
	///
	FontW, FontH int32
)

/// InitFont renders the 7x13 glyphs into a texture once so text can be
/// drawn by copying cells out of it.
///
func InitFont() error {
	face := basicfont.Face7x13

	FontW = int32(face.Advance)
	FontH = int32(face.Height)

	n := int32(lastGlyph - firstGlyph + 1)

	var err error
	if Font, err = Renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA8888), sdl.TEXTUREACCESS_TARGET, n*FontW, FontH); err != nil {
		return err
	}

	if err = Font.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		return err
	}

	if err = Renderer.SetRenderTarget(Font); err != nil {
		return err
	}
	defer Renderer.SetRenderTarget(nil)

	// transparent background, white glyphs tinted when drawn
	Renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE)
	Renderer.SetDrawColor(0, 0, 0, 0)
	Renderer.Clear()
	Renderer.SetDrawColor(255, 255, 255, 255)

	for c := firstGlyph; c <= lastGlyph; c++ {
		dot := fixed.P(int(c-firstGlyph)*face.Advance, face.Ascent)

		dr, mask, mp, _, ok := face.Glyph(dot, c)
		if !ok {
			continue
		}

		for y := dr.Min.Y; y < dr.Max.Y; y++ {
			for x := dr.Min.X; x < dr.Max.X; x++ {
				p := mp.Add(image.Pt(x-dr.Min.X, y-dr.Min.Y))

				if _, _, _, a := mask.At(p.X, p.Y).RGBA(); a != 0 {
					Renderer.DrawPoint(int32(x), int32(y))
				}
			}
		}
	}

	return nil
}

/// DrawText using the font texture in the given color.
///
func DrawText(s string, x, y int32, r, g, b uint8) {
	Font.SetColorMod(r, g, b)

	src := sdl.Rect{W: FontW, H: FontH}
	dst := sdl.Rect{X: x, Y: y, W: FontW, H: FontH}

	for _, c := range s {
		if c > firstGlyph && c <= lastGlyph {
			src.X = int32(c-firstGlyph) * FontW

			// draw the character to the renderer
			Renderer.Copy(Font, &src, &dst)
		}

		// advance
		dst.X += FontW
	}
}
