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

// Package symtab is the assembler's symbol table: one entry per label,
// shared between pass 1 (which allocates addresses and may see a label
// used before it is defined) and pass 2 (the fixup resolver, which
// requires every symbol observed in pass 1 to end up resolved).
//
// Keyed purely on label names; registers and mnemonics are never
// forward-referenced, so they never need a symbol record. The core
// invariant is that a pass-1 reference to a Symbol record must still
// observe pass-2's mutation of the same record, so symbols are
// *pointers* held in a map, never copied.
package symtab

import "fmt"

// Symbol is a single label's record. The same *Symbol obtained via Ref
// during pass 1 is the one DefineLabel mutates later (possibly) and that
// the fixup resolver reads after pass 1 completes.
type Symbol struct {
	Name     string
	Addr     uint16
	Resolved bool
}

func (s *Symbol) String() string {
	return fmt.Sprintf("Symbol %q at addr %#04x resolved %v", s.Name, s.Addr, s.Resolved)
}

// Table is the assembler's symbol table for one compilation unit.
type Table struct {
	byName map[string]*Symbol
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{byName: make(map[string]*Symbol)}
}

// DefineLabel records that label has been defined at addr. If the label
// was referenced earlier (and is therefore present but unresolved), the
// existing record is updated in place so that any Fixup already holding
// a pointer to it observes the new address. A second definition of the
// same name is a hard error.
func (t *Table) DefineLabel(name string, addr uint16) error {
	if sym, ok := t.byName[name]; ok {
		if sym.Resolved {
			return fmt.Errorf("label %q redefined", name)
		}
		sym.Addr = addr
		sym.Resolved = true
		return nil
	}
	t.byName[name] = &Symbol{Name: name, Addr: addr, Resolved: true}
	return nil
}

// Ref returns the symbol record for name, creating an unresolved one
// (addr 0) if this is the first sighting. The returned pointer is stable:
// a later DefineLabel for the same name mutates this same record.
func (t *Table) Ref(name string) *Symbol {
	if sym, ok := t.byName[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name}
	t.byName[name] = sym
	return sym
}

// Unresolved returns every symbol, in unspecified order, that never
// became resolved. A non-empty result after pass 2 is a hard error:
// every symbol referenced in pass 1 must be defined somewhere in the
// source.
func (t *Table) Unresolved() []*Symbol {
	var out []*Symbol
	for _, sym := range t.byName {
		if !sym.Resolved {
			out = append(out, sym)
		}
	}
	return out
}

// All returns every symbol in the table, for diagnostic dumps.
func (t *Table) All() []*Symbol {
	out := make([]*Symbol, 0, len(t.byName))
	for _, sym := range t.byName {
		out = append(out, sym)
	}
	return out
}
