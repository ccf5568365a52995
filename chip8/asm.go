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

package chip8

import (
	"bufio"
	"bytes"
	"fmt"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at 0x200.
	///
	ROM []byte

	/// Labels map to absolute addresses.
	///
	Labels map[string]int

	/// Unresolved maps ROM offsets to the label they are waiting on.
	///
	Unresolved map[int]string
}

/// Assemble CHIP-8 source code. The syntax is the one Disassemble
/// produces: `.LABEL` at the start of a line, `;` comments, `#` hex and
/// `$` binary literals, and the BYTE and WORD data directives.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:        make([]byte, 0, MaxProgramSize),
		Labels:     make(map[string]int),
		Unresolved: make(map[int]string),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d - %s", line, r)
			} else {
				err = fmt.Errorf("%s", r)
			}

			out = nil
		}
	}()

	// create simple line scanner over the file
	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})
	}

	// clear the line number as we're done reading source
	line = 0

	// resolve all label addresses
	for address, label := range out.Unresolved {
		target, ok := out.Labels[label]
		if !ok {
			panic(fmt.Sprintf("unresolved label: %s", label))
		}

		// every label is within 12 bits, so only the low 12 bits of the
		// placeholder are replaced
		out.ROM[address] = byte(target>>8) | (out.ROM[address] & 0xF0)
		out.ROM[address+1] = byte(target)

		delete(out.Unresolved, address)
	}

	if len(out.ROM) > MaxProgramSize {
		panic("program too large")
	}

	return out, nil
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	// assign labels the current address
	if t.typ == TOKEN_LABEL {
		label := t.val.(string)
		if _, exists := a.Labels[label]; exists {
			panic("duplicate label")
		}

		a.Labels[label] = ProgramStart + len(a.ROM)

		t = s.scanToken()
	}

	switch t.typ {
	case TOKEN_INSTRUCTION:
		a.assembleInstruction(t.val.(string), s.scanOperands())
	case TOKEN_END:
	default:
		panic("unexpected token")
	}
}

/// Assemble a single operand, expanding label references.
///
func (a *Assembly) assembleOperand(t token, offset int) token {
	if t.typ != TOKEN_REF {
		return t
	}

	label := t.val.(string)
	if v, exists := a.Labels[label]; exists {
		return token{typ: TOKEN_LIT, val: v}
	}

	// patched once the label is known
	a.Unresolved[offset] = label

	return token{typ: TOKEN_LIT, val: ProgramStart}
}

/// Match the operand types of an instruction, expanding label references.
///
func (a *Assembly) match(tokens []token, m ...tokenType) ([]token, bool) {
	if len(tokens) != len(m) {
		return nil, false
	}

	ops := make([]token, len(tokens))

	for i, typ := range m {
		t := tokens[i]

		if t.typ == TOKEN_REF && typ == TOKEN_LIT {
			t = token{typ: TOKEN_LIT, val: 0}
		}

		if t.typ != typ {
			return nil, false
		}

		ops[i] = tokens[i]
	}

	// only expand references once the form is known to match
	for i := range ops {
		ops[i] = a.assembleOperand(ops[i], len(a.ROM))
	}

	return ops, true
}

/// emit a 16-bit instruction word.
///
func (a *Assembly) emit(w int) {
	a.ROM = append(a.ROM, byte(w>>8), byte(w))
}

/// Compile a single instruction into the assembly.
///
func (a *Assembly) assembleInstruction(i string, tokens []token) {
	switch i {
	case "BYTE":
		a.assembleBYTE(tokens)
	case "WORD":
		a.assembleWORD(tokens)
	default:
		w, ok := a.encode(i, tokens)
		if !ok {
			panic(fmt.Sprintf("illegal operands for %s", i))
		}

		a.emit(w)
	}
}

/// encode an instruction and its operands into an instruction word.
///
func (a *Assembly) encode(i string, tokens []token) (int, bool) {
	if _, ok := a.match(tokens); ok {
		switch i {
		case "CLS":
			return 0x00E0, true
		case "RET":
			return 0x00EE, true
		}
	}

	if ops, ok := a.match(tokens, TOKEN_LIT); ok {
		n := addr(ops[0])

		switch i {
		case "SYS":
			return n, true
		case "JP":
			return 0x1000 | n, true
		case "CALL":
			return 0x2000 | n, true
		}
	}

	if ops, ok := a.match(tokens, TOKEN_V); ok {
		x := reg(ops[0])

		switch i {
		case "SKP":
			return 0xE09E | x<<8, true
		case "SKNP":
			return 0xE0A1 | x<<8, true
		case "SHR":
			return 0x8006 | x<<8 | x<<4, true
		case "SHL":
			return 0x800E | x<<8 | x<<4, true
		}
	}

	if ops, ok := a.match(tokens, TOKEN_V, TOKEN_LIT); ok {
		x := reg(ops[0])

		switch i {
		case "JP":
			if x == 0 {
				return 0xB000 | addr(ops[1]), true
			}
		case "SE":
			return 0x3000 | x<<8 | lit(ops[1], 0xFF), true
		case "SNE":
			return 0x4000 | x<<8 | lit(ops[1], 0xFF), true
		case "LD":
			return 0x6000 | x<<8 | lit(ops[1], 0xFF), true
		case "ADD":
			return 0x7000 | x<<8 | lit(ops[1], 0xFF), true
		case "RND":
			return 0xC000 | x<<8 | lit(ops[1], 0xFF), true
		}
	}

	if ops, ok := a.match(tokens, TOKEN_V, TOKEN_V); ok {
		xy := reg(ops[0])<<8 | reg(ops[1])<<4

		switch i {
		case "SE":
			return 0x5000 | xy, true
		case "SNE":
			return 0x9000 | xy, true
		case "LD":
			return 0x8000 | xy, true
		case "OR":
			return 0x8001 | xy, true
		case "AND":
			return 0x8002 | xy, true
		case "XOR":
			return 0x8003 | xy, true
		case "ADD":
			return 0x8004 | xy, true
		case "SUB":
			return 0x8005 | xy, true
		case "SHR":
			return 0x8006 | xy, true
		case "SUBN":
			return 0x8007 | xy, true
		case "SHL":
			return 0x800E | xy, true
		}
	}

	if ops, ok := a.match(tokens, TOKEN_V, TOKEN_V, TOKEN_LIT); ok && i == "DRW" {
		return 0xD000 | reg(ops[0])<<8 | reg(ops[1])<<4 | lit(ops[2], 0xF), true
	}

	if i == "LD" {
		if ops, ok := a.match(tokens, TOKEN_I, TOKEN_LIT); ok {
			return 0xA000 | addr(ops[1]), true
		}
		if ops, ok := a.match(tokens, TOKEN_V, TOKEN_DT); ok {
			return 0xF007 | reg(ops[0])<<8, true
		}
		if ops, ok := a.match(tokens, TOKEN_V, TOKEN_K); ok {
			return 0xF00A | reg(ops[0])<<8, true
		}
		if ops, ok := a.match(tokens, TOKEN_DT, TOKEN_V); ok {
			return 0xF015 | reg(ops[1])<<8, true
		}
		if ops, ok := a.match(tokens, TOKEN_ST, TOKEN_V); ok {
			return 0xF018 | reg(ops[1])<<8, true
		}
		if ops, ok := a.match(tokens, TOKEN_F, TOKEN_V); ok {
			return 0xF029 | reg(ops[1])<<8, true
		}
		if ops, ok := a.match(tokens, TOKEN_B, TOKEN_V); ok {
			return 0xF033 | reg(ops[1])<<8, true
		}
		if ops, ok := a.match(tokens, TOKEN_INDIRECT, TOKEN_V); ok {
			return 0xF055 | reg(ops[1])<<8, true
		}
		if ops, ok := a.match(tokens, TOKEN_V, TOKEN_INDIRECT); ok {
			return 0xF065 | reg(ops[0])<<8, true
		}
	}

	if ops, ok := a.match(tokens, TOKEN_I, TOKEN_V); ok && i == "ADD" {
		return 0xF01E | reg(ops[1])<<8, true
	}

	return 0, false
}

/// Assemble BYTE data.
///
func (a *Assembly) assembleBYTE(tokens []token) {
	for _, t := range tokens {
		if t.typ != TOKEN_LIT {
			panic("expected byte literal")
		}

		a.ROM = append(a.ROM, byte(lit(t, 0xFF)))
	}
}

/// Assemble WORD data, which may reference labels.
///
func (a *Assembly) assembleWORD(tokens []token) {
	for _, t := range tokens {
		t = a.assembleOperand(t, len(a.ROM))
		if t.typ != TOKEN_LIT {
			panic("expected word literal")
		}

		a.emit(lit(t, 0xFFFF))
	}
}

/// reg returns the v-register index of a token.
///
func reg(t token) int {
	return t.val.(int)
}

/// addr returns a 12-bit address literal.
///
func addr(t token) int {
	return lit(t, 0xFFF)
}

/// lit returns a literal value, which must not exceed limit.
///
func lit(t token, limit int) int {
	n := t.val.(int)
	if n > limit {
		panic(fmt.Sprintf("literal #%X out of range", n))
	}

	return n
}
