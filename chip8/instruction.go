package chip8

/// Op identifies one documented CHIP-8 instruction.
///
type Op uint8

/// All the instructions understood by the CPU. OpUnknown covers every
/// word that doesn't decode to one of them.
///
const (
	OpUnknown Op = iota
	OpSYS
	OpCLS
	OpRET
	OpJP
	OpCALL
	OpSEByte
	OpSNEByte
	OpSEReg
	OpLDByte
	OpADDByte
	OpLDReg
	OpOR
	OpAND
	OpXOR
	OpADDReg
	OpSUB
	OpSHR
	OpSUBN
	OpSHL
	OpSNEReg
	OpLDI
	OpJPV0
	OpRND
	OpDRW
	OpSKP
	OpSKNP
	OpLDVxDT
	OpLDK
	OpLDDTVx
	OpLDSTVx
	OpADDI
	OpLDF
	OpLDB
	OpLDMemVx
	OpLDVxMem
)

/// Instruction is a decoded instruction word. The operand fields are
/// always extracted, whether or not the instruction uses them.
///
type Instruction struct {
	Op Op

	/// Word is the raw 16-bit instruction.
	///
	Word uint16

	/// NNN is the 12-bit address operand.
	///
	NNN uint16

	/// NN is the byte operand, N the nibble operand.
	///
	NN byte
	N  byte

	/// X and Y are register operands.
	///
	X byte
	Y byte
}

/// Decode an instruction word.
///
func Decode(w uint16) Instruction {
	inst := Instruction{
		Word: w,
		NNN:  w & 0xFFF,
		NN:   byte(w),
		N:    byte(w & 0xF),
		X:    byte(w >> 8 & 0xF),
		Y:    byte(w >> 4 & 0xF),
	}

	inst.Op = decodeOp(w)

	return inst
}

func decodeOp(w uint16) Op {
	switch w & 0xF000 {
	case 0x0000:
		switch w {
		case 0x00E0:
			return OpCLS
		case 0x00EE:
			return OpRET
		}
		if w&0xFF00 != 0 {
			return OpSYS
		}
	case 0x1000:
		return OpJP
	case 0x2000:
		return OpCALL
	case 0x3000:
		return OpSEByte
	case 0x4000:
		return OpSNEByte
	case 0x5000:
		if w&0xF == 0 {
			return OpSEReg
		}
	case 0x6000:
		return OpLDByte
	case 0x7000:
		return OpADDByte
	case 0x8000:
		switch w & 0xF {
		case 0x0:
			return OpLDReg
		case 0x1:
			return OpOR
		case 0x2:
			return OpAND
		case 0x3:
			return OpXOR
		case 0x4:
			return OpADDReg
		case 0x5:
			return OpSUB
		case 0x6:
			return OpSHR
		case 0x7:
			return OpSUBN
		case 0xE:
			return OpSHL
		}
	case 0x9000:
		if w&0xF == 0 {
			return OpSNEReg
		}
	case 0xA000:
		return OpLDI
	case 0xB000:
		return OpJPV0
	case 0xC000:
		return OpRND
	case 0xD000:
		return OpDRW
	case 0xE000:
		switch w & 0xFF {
		case 0x9E:
			return OpSKP
		case 0xA1:
			return OpSKNP
		}
	case 0xF000:
		switch w & 0xFF {
		case 0x07:
			return OpLDVxDT
		case 0x0A:
			return OpLDK
		case 0x15:
			return OpLDDTVx
		case 0x18:
			return OpLDSTVx
		case 0x1E:
			return OpADDI
		case 0x29:
			return OpLDF
		case 0x33:
			return OpLDB
		case 0x55:
			return OpLDMemVx
		case 0x65:
			return OpLDVxMem
		}
	}

	return OpUnknown
}
