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
	"strconv"
	"strings"
)

/// Type for scanned tokens.
///
type tokenType uint

/// Lexical assembly tokens.
///
const (
	TOKEN_END tokenType = iota
	TOKEN_LABEL
	TOKEN_REF
	TOKEN_INSTRUCTION
	TOKEN_OPERAND
	TOKEN_V
	TOKEN_I
	TOKEN_INDIRECT
	TOKEN_F
	TOKEN_B
	TOKEN_K
	TOKEN_DT
	TOKEN_ST
	TOKEN_LIT
)

/// A parsed, lexical token.
///
type token struct {
	typ tokenType

	// tokens can have an optional value associated with them
	val interface{}
}

/// CHIP-8 assembler token scanner over a single, upper-cased line.
///
type tokenScanner struct {
	bytes []byte

	// scan position
	pos int
}

/// Reads the next token from a scanner. Returns the token.
///
func (s *tokenScanner) scanToken() token {
	for len(s.bytes) > s.pos && s.bytes[s.pos] < 33 {
		s.pos++
	}

	// if at the end, return an end token
	if len(s.bytes) <= s.pos {
		return token{typ: TOKEN_END}
	}

	// get the next character
	c := s.bytes[s.pos]

	switch {
	case c == ';':
		return s.scanToEnd()
	case c == '.' && s.pos == 0:
		return s.scanLabel()
	case c == '[':
		return s.scanIndirection()
	case c == ',':
		return s.scanOperand()
	case c == '#':
		return s.scanLit(16)
	case c == '$':
		return s.scanLit(2)
	case c >= '0' && c <= '9':
		return s.scanLit(10)
	case c >= 'A' && c <= 'Z' || c == '_':
		return s.scanIdentifier()
	}

	panic("unexpected character")
}

/// Scan a list of comma-separated tokens.
///
func (s *tokenScanner) scanOperands() []token {
	tokens := make([]token, 0, 3)

	for t := s.scanToken(); t.typ != TOKEN_END; {
		tokens = append(tokens, t)

		// get another token, are we at the end?
		if t = s.scanToken(); t.typ != TOKEN_OPERAND {
			if t.typ == TOKEN_END {
				break
			}

			panic("unexpected token")
		}

		// expand the operand
		t = t.val.(token)
	}

	return tokens
}

/// Scan to the end of the input and return.
///
func (s *tokenScanner) scanToEnd() token {
	s.pos = len(s.bytes)

	return token{typ: TOKEN_END}
}

/// Scan a comma-separated operand token.
///
func (s *tokenScanner) scanOperand() token {
	s.pos += 1

	// scan the next token as the operand
	t := s.scanToken()

	// make sure there was an operand
	if t.typ == TOKEN_END {
		panic("expected operand")
	}

	return token{typ: TOKEN_OPERAND, val: t}
}

/// Scan a label, which is a specific type of identifier.
///
func (s *tokenScanner) scanLabel() token {
	s.pos += 1

	if s.pos < len(s.bytes) {
		if id := s.scanIdentifier(); id.typ == TOKEN_REF {
			return token{typ: TOKEN_LABEL, val: id.val}
		}
	}

	panic("expected label")
}

/// Scan [I].
///
func (s *tokenScanner) scanIndirection() token {
	end := strings.IndexByte(string(s.bytes[s.pos:]), ']')
	if end < 0 {
		panic("expected ]")
	}

	inner := strings.TrimSpace(string(s.bytes[s.pos+1 : s.pos+end]))

	// advance past the closing bracket
	s.pos += end + 1

	if inner != "I" {
		panic("illegal indirection")
	}

	return token{typ: TOKEN_INDIRECT}
}

/// Scan a literal in the given base: #hex, $binary or decimal.
///
func (s *tokenScanner) scanLit(base int) token {
	if base != 10 {
		s.pos += 1
	}

	i := s.pos

	// advance past all alphanumeric characters
	for ; s.pos < len(s.bytes); s.pos++ {
		c := s.bytes[s.pos]

		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			break
		}
	}

	n, err := strconv.ParseUint(string(s.bytes[i:s.pos]), base, 16)
	if err != nil {
		panic("illegal literal")
	}

	return token{typ: TOKEN_LIT, val: int(n)}
}

/// Scan an identifier: instruction, register, or label reference.
///
func (s *tokenScanner) scanIdentifier() token {
	i := s.pos

	// advance to the first non-identifier character
	for ; s.pos < len(s.bytes); s.pos++ {
		c := s.bytes[s.pos]

		// validate identifier characters
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			break
		}
	}

	// extract the label
	id := string(s.bytes[i:s.pos])

	// v-registers
	if len(id) == 2 && id[0] == 'V' {
		if n, err := strconv.ParseUint(id[1:], 16, 8); err == nil {
			return token{typ: TOKEN_V, val: int(n)}
		}
	}

	// determine whether the label is an instruction, register or reference
	switch id {
	case "I":
		return token{typ: TOKEN_I}
	case "B":
		return token{typ: TOKEN_B}
	case "F":
		return token{typ: TOKEN_F}
	case "K":
		return token{typ: TOKEN_K}
	case "DT":
		return token{typ: TOKEN_DT}
	case "ST":
		return token{typ: TOKEN_ST}
	case "CLS", "RET", "SYS", "JP", "CALL", "SE", "SNE", "SKP", "SKNP", "LD", "OR", "AND", "XOR", "ADD", "SUB", "SUBN", "SHR", "SHL", "RND", "DRW", "BYTE", "WORD":
		return token{typ: TOKEN_INSTRUCTION, val: id}
	}

	return token{typ: TOKEN_REF, val: id}
}
