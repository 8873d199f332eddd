/*
Copyright © 2022 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package isa holds the static description of the 16-bit ISA: the operand
// sum type shared by the lexer, parser and code generator, and the opcode
// table that maps a mnemonic to its encoding shape.
package isa

import "fmt"

// OperandKind is a struct-wrapped enum so the compiler catches assignments
// from bare ints.
type OperandKind struct{ k int }

var (
	KindRegister   = OperandKind{0}
	KindNumber     = OperandKind{1}
	KindIdentifier = OperandKind{2}
	KindString     = OperandKind{3}
)

func (k OperandKind) String() string {
	switch k {
	case KindRegister:
		return "Register"
	case KindNumber:
		return "Number"
	case KindIdentifier:
		return "Identifier"
	case KindString:
		return "String"
	default:
		return "?"
	}
}

// Special registers. Indexes 0-7 are general purpose; 8-11 steal the top
// bit of the 3-bit register field and must be encoded via the B-mode 11
// escape (see OpEntry and the codegen package).
const (
	RegLR = 8
	RegSP = 9
	RegPC = 10
	RegCR = 11
)

var namedRegisters = map[string]int{
	"lr": RegLR,
	"sp": RegSP,
	"pc": RegPC,
	"cr": RegCR,
}

// aliasRegisters holds extra register names installed via RegisterAlias
// (see internal/rconfig), on top of the built-in r0..r7/lr/sp/pc/cr set.
var aliasRegisters = map[string]int{}

// RegisterAlias installs name as an additional spelling for register n,
// as loaded from an optional rconfig.Config. Called once at startup from
// cmd/rasm before any parsing begins.
func RegisterAlias(name string, n int) {
	aliasRegisters[name] = n
}

// RegisterByName resolves a register mnemonic ("r0".."r7", "lr", "sp",
// "pc", "cr", or a configured alias) to its numeric index. ok is false
// for anything else.
func RegisterByName(name string) (n int, ok bool) {
	if n, ok = namedRegisters[name]; ok {
		return n, true
	}
	if n, ok = aliasRegisters[name]; ok {
		return n, true
	}
	if len(name) >= 2 && len(name) <= 3 && name[0] == 'r' {
		var v int
		for _, c := range name[1:] {
			if c < '0' || c > '9' {
				return 0, false
			}
			v = v*10 + int(c-'0')
		}
		if v <= 7 {
			return v, true
		}
	}
	return 0, false
}

// IsSpecial reports whether register n requires the escape encoding.
func IsSpecial(n int) bool {
	return n >= 8
}

// Operand is the tagged value the parser produces for each instruction or
// directive argument.
type Operand struct {
	Kind  OperandKind
	Reg   int    // valid when Kind == KindRegister, 0..11
	Num   int32  // valid when Kind == KindNumber
	Ident string // valid when Kind == KindIdentifier
	Str   string // valid when Kind == KindString
}

func Register(n int) Operand         { return Operand{Kind: KindRegister, Reg: n} }
func Number(n int32) Operand         { return Operand{Kind: KindNumber, Num: n} }
func Identifier(s string) Operand    { return Operand{Kind: KindIdentifier, Ident: s} }
func StringOperand(s string) Operand { return Operand{Kind: KindString, Str: s} }

func (o Operand) String() string {
	switch o.Kind {
	case KindRegister:
		switch o.Reg {
		case RegLR:
			return "lr"
		case RegSP:
			return "sp"
		case RegPC:
			return "pc"
		case RegCR:
			return "cr"
		default:
			return fmt.Sprintf("r%d", o.Reg)
		}
	case KindNumber:
		return fmt.Sprintf("%#x", o.Num)
	case KindIdentifier:
		return o.Ident
	case KindString:
		return fmt.Sprintf("%q", o.Str)
	default:
		return "unk"
	}
}

// ITYPE: broad instruction category, drives which encoder runs.
type ITYPE struct{ t int }

var (
	ITypeALU               = ITYPE{0}
	ITypeShortBranch       = ITYPE{1}
	ITypeShortOrLongBranch = ITYPE{2}
	ITypeLongBranch        = ITYPE{3}
)

// ATYPE: argument pattern, drives how operands are matched to D/A/B.
type ATYPE struct{ t int }

var (
	ATypeNone     = ATYPE{0} // nop
	ATypeDAB      = ATYPE{1} // add D, A, B
	ATypeDABLS    = ATYPE{2} // ldr D, A, B (load/store form)
	ATypeDB       = ATYPE{3} // mov D, B   --- mov D, r0, B or mov D, A, #0
	ATypeD        = ATYPE{4} // b   D
	ATypeDAMinus1 = ATYPE{5} // not D, A   --- xor D, A, #-1
	ATypeAB       = ATYPE{6} // teq A, B   --- xor r0, A, B
)

// Flags bit for opcode table entries. FlagForceB disables the "register
// goes in A slot" heuristic of ATypeDB, forcing the operand into B even
// when it is a register (used by neg: sub D, r0, B must keep B a register
// or immediate, never promoted to A).
type Flags uint8

const FlagForceB Flags = 1 << 0

// OpEntry is one row of the static opcode table.
type OpEntry struct {
	Opcode uint16 // pre-shifted base bits, OR'd directly into the op word
	IType  ITYPE
	AType  ATYPE
	Flags  Flags
}

// OpcodeTable maps mnemonic to its encoding shape, including the condition
// code aliases (bhs/bcs, blo/bcc) and the neg/not/teq/tst/cmp/cmn
// pseudo-instructions, each expressed as a disguised ALU op against r0 or
// a forced-immediate operand.
var OpcodeTable = map[string]OpEntry{
	"mov": {0b00000 << 11, ITypeALU, ATypeDB, 0},
	"add": {0b00001 << 11, ITypeALU, ATypeDAB, 0},
	"adc": {0b00010 << 11, ITypeALU, ATypeDAB, 0},
	"sub": {0b00011 << 11, ITypeALU, ATypeDAB, 0},
	"sbc": {0b00100 << 11, ITypeALU, ATypeDAB, 0},
	"and": {0b00101 << 11, ITypeALU, ATypeDAB, 0},
	"or":  {0b00110 << 11, ITypeALU, ATypeDAB, 0},
	"xor": {0b00111 << 11, ITypeALU, ATypeDAB, 0},
	"lsl": {0b01000 << 11, ITypeALU, ATypeDAB, 0},
	"lsr": {0b01001 << 11, ITypeALU, ATypeDAB, 0},
	"asr": {0b01010 << 11, ITypeALU, ATypeDAB, 0},
	"ror": {0b01011 << 11, ITypeALU, ATypeDAB, 0},

	"ldr": {0b01100 << 11, ITypeALU, ATypeDABLS, 0},
	"str": {0b01101 << 11, ITypeALU, ATypeDABLS, 0},

	"beq": {0b10000<<11 | 0b0000<<10, ITypeShortBranch, ATypeD, 0},
	"bne": {0b10000<<11 | 0b0001<<10, ITypeShortBranch, ATypeD, 0},
	"bcs": {0b10000<<11 | 0b0010<<10, ITypeShortBranch, ATypeD, 0},
	"bhs": {0b10000<<11 | 0b0010<<10, ITypeShortBranch, ATypeD, 0}, // alias of bcs
	"bcc": {0b10000<<11 | 0b0011<<10, ITypeShortBranch, ATypeD, 0},
	"blo": {0b10000<<11 | 0b0011<<10, ITypeShortBranch, ATypeD, 0}, // alias of bcc
	"bmi": {0b10000<<11 | 0b0100<<10, ITypeShortBranch, ATypeD, 0},
	"bpl": {0b10000<<11 | 0b0101<<10, ITypeShortBranch, ATypeD, 0},
	"bvs": {0b10000<<11 | 0b0110<<10, ITypeShortBranch, ATypeD, 0},
	"bvc": {0b10000<<11 | 0b0111<<10, ITypeShortBranch, ATypeD, 0},
	"bhi": {0b10000<<11 | 0b1000<<10, ITypeShortBranch, ATypeD, 0},
	"bls": {0b10000<<11 | 0b1001<<10, ITypeShortBranch, ATypeD, 0},
	"bge": {0b10000<<11 | 0b1010<<10, ITypeShortBranch, ATypeD, 0},
	"blt": {0b10000<<11 | 0b1011<<10, ITypeShortBranch, ATypeD, 0},
	"bgt": {0b10000<<11 | 0b1100<<10, ITypeShortBranch, ATypeD, 0},
	"ble": {0b10000<<11 | 0b1101<<10, ITypeShortBranch, ATypeD, 0},
	"b":   {0b10000<<11 | 0b1110<<10, ITypeShortOrLongBranch, ATypeD, 0},
	"bl":  {0b10000<<11 | 0b1110<<10 | 1<<9, ITypeLongBranch, ATypeD, 0},

	"nop": {0b00000 << 11, ITypeALU, ATypeNone, 0}, // mov r0, r0

	"neg": {0b00011 << 11, ITypeALU, ATypeDB, FlagForceB}, // sub D, r0, B
	"not": {0b00111 << 11, ITypeALU, ATypeDAMinus1, 0},    // xor D, A, #-1
	"teq": {0b00111 << 11, ITypeALU, ATypeAB, 0},          // xor r0, A, B
	"tst": {0b00101 << 11, ITypeALU, ATypeAB, 0},          // and r0, A, B
	"cmp": {0b00011 << 11, ITypeALU, ATypeAB, 0},          // sub r0, A, B
	"cmn": {0b00001 << 11, ITypeALU, ATypeAB, 0},          // add r0, A, B
}
