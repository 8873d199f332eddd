/*
Author: Jeff Berkowitz
Copyright (C) 2023 Jeff Berkowitz

This file is part of rasm16.

Rasm16 is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation, either version 3
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see http://www.gnu.org/licenses/.
*/

// Package codegen is the code generator and symbol resolver: it turns the
// statement stream the parser produces (labels, directives, instructions)
// into encoded machine words, collecting fixups for forward references
// and resolving them in a second pass.
package codegen

import (
	"fmt"

	"github.com/gmofishsauce/rasm16/internal/diag"
	"github.com/gmofishsauce/rasm16/internal/isa"
	"github.com/gmofishsauce/rasm16/internal/symtab"
)

// FixupKind identifies which deferred patch applies to an OutputEntry.
type FixupKind struct{ k int }

var (
	FixupNone               = FixupKind{0}
	FixupShortBranch        = FixupKind{1}
	FixupLongBranch         = FixupKind{2}
	FixupSymbolAbsolute     = FixupKind{3}
	FixupDataSymbolAbsolute = FixupKind{4}
)

// Fixup is a deferred patch, keyed by the unresolved symbol it targets.
type Fixup struct {
	Kind   FixupKind
	Symbol *symtab.Symbol
}

// Entry is one element of the output buffer: either an instruction (1 or
// 2 words) or a data block (N words). Both share the header fields
// directly rather than through separate embedded types, since every
// consumer (the fixup resolver, the emitters) needs to treat the two
// uniformly by address and fixup.
type Entry struct {
	Addr  uint16
	Text  string
	Fixup Fixup

	// Instruction fields. Length is 1 unless Op2 is meaningful.
	IsData bool
	Op     uint16
	Op2    uint16
	Length int

	// Data fields, valid when IsData.
	Words []uint16
}

// Codegen is the assembler's mutable pass-1/pass-2 state. One instance
// per assembly run.
type Codegen struct {
	curAddr uint16
	Output  []*Entry
	Symbols *symtab.Table
}

// New returns a fresh, empty Codegen ready to receive statements.
func New() *Codegen {
	return &Codegen{Symbols: symtab.New()}
}

// Addr returns the address the next emitted entry will receive.
func (c *Codegen) Addr() uint16 { return c.curAddr }

func (c *Codegen) emit(e *Entry) {
	e.Addr = c.curAddr
	c.Output = append(c.Output, e)
	c.curAddr += uint16(e.Length)
}

// AddLabel defines name at the current address. A second definition of
// the same name is a hard DuplicateLabel error; a prior forward
// reference to the name is resolved in place.
func (c *Codegen) AddLabel(name string) error {
	diag.Trace("add label %s, address %#04x", name, c.curAddr)
	if err := c.Symbols.DefineLabel(name, c.curAddr); err != nil {
		return newErr(ErrDuplicateLabel, "%s", err)
	}
	return nil
}

// ref obtains a stable reference to a (possibly not yet defined) symbol,
// creating an unresolved one on first sighting.
func (c *Codegen) ref(name string) *symtab.Symbol {
	return c.Symbols.Ref(name)
}

// ResolveFixups is pass 2: walk the output buffer in order and patch
// every entry whose fixup kind is not None against the now-complete
// symbol table.
func (c *Codegen) ResolveFixups() error {
	for _, e := range c.Output {
		if e.Fixup.Kind == FixupNone {
			continue
		}
		sym := e.Fixup.Symbol
		switch e.Fixup.Kind {
		case FixupShortBranch:
			if !sym.Resolved {
				return newErr(ErrUnresolvedSymbol, "short branch referring to unresolved symbol %q", sym.Name)
			}
			offset := int32(sym.Addr) - int32(e.Addr+1)
			if offset >= 256 || offset < -256 {
				return newErr(ErrShortBranchRange, "short branch to %q has offset %d out of range", sym.Name, offset)
			}
			e.Op |= uint16(offset) & 0x3ff
		case FixupLongBranch:
			if !sym.Resolved {
				return newErr(ErrUnresolvedSymbol, "long branch referring to unresolved symbol %q", sym.Name)
			}
			// Range intentionally unchecked: a long branch's offset is
			// allowed to wrap around the 16-bit word.
			offset := int32(sym.Addr) - int32(e.Addr+2)
			e.Op2 = uint16(offset) & 0xffff
		case FixupSymbolAbsolute:
			if !sym.Resolved {
				return newErr(ErrUnresolvedSymbol, "instruction referring to unresolved symbol %q", sym.Name)
			}
			e.Op2 = sym.Addr & 0xffff
		case FixupDataSymbolAbsolute:
			if !sym.Resolved {
				return newErr(ErrUnresolvedSymbol, "data referring to unresolved symbol %q", sym.Name)
			}
			e.Words = append(e.Words, sym.Addr)
			e.Length = len(e.Words)
		}
	}
	return nil
}

// operandString reconstructs a human-readable rendering of an instruction
// or directive for listing output, computed eagerly at emission time
// rather than decoded back out of the encoded words later.
func operandString(mnemonic string, args []isa.Operand) string {
	switch len(args) {
	case 0:
		return mnemonic
	case 1:
		return fmt.Sprintf("%s %s", mnemonic, args[0])
	case 2:
		return fmt.Sprintf("%s %s, %s", mnemonic, args[0], args[1])
	case 3:
		return fmt.Sprintf("%s %s, %s, %s", mnemonic, args[0], args[1], args[2])
	default:
		return mnemonic
	}
}
