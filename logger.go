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
	"strings"
)

// Scrollback keeps the most recent lines of text (e.g. the instruction
// trace) for the debug panel, with a read position the user can scroll.
type Scrollback struct {
	// buf contains each line of text, oldest first.
	buf []string

	// limit is the most lines kept; older lines are dropped.
	limit int

	// pos is the current user read position within the buffer. A
	// position equal to len(buf) follows new lines as they arrive.
	pos int
}

// NewScrollback creates a buffer keeping at most limit lines.
func NewScrollback(limit int) *Scrollback {
	return &Scrollback{
		buf:   make([]string, 0, limit),
		limit: limit,
	}
}

// Add appends a line made from s joined with spaces.
func (sb *Scrollback) Add(s ...string) {
	follow := sb.pos == len(sb.buf)

	sb.buf = append(sb.buf, strings.Join(s, " "))

	// drop the oldest lines, keeping the read position on the same line
	if n := len(sb.buf) - sb.limit; n > 0 {
		sb.buf = append(sb.buf[:0], sb.buf[n:]...)
		sb.pos -= n

		if sb.pos < 0 {
			sb.pos = 0
		}
	}

	if follow {
		sb.pos = len(sb.buf)
	}
}

// Len is the number of lines held.
func (sb *Scrollback) Len() int {
	return len(sb.buf)
}

// Window returns up to n lines ending at the read position.
func (sb *Scrollback) Window(n int) []string {
	start := sb.pos - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	if start+n >= len(sb.buf) {
		return sb.buf[start:]
	}

	return sb.buf[start : start+n]
}

// Home scrolls to the beginning.
func (sb *Scrollback) Home() {
	sb.pos = 0
}

// End scrolls to the end and follows new lines.
func (sb *Scrollback) End() {
	sb.pos = len(sb.buf)
}

// ScrollUp scrolls back one line.
func (sb *Scrollback) ScrollUp() {
	sb.pos--

	if sb.pos < 0 {
		sb.Home()
	}
}

// ScrollDown scrolls forward one line.
func (sb *Scrollback) ScrollDown(windowSize int) {
	sb.pos++

	// a position inside the first window shows the same lines
	if sb.pos <= windowSize {
		sb.pos = windowSize + 1
	}

	if sb.pos >= len(sb.buf) {
		sb.End()
	}
}
