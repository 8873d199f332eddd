package codegen

import (
	"github.com/gmofishsauce/rasm16/internal/diag"
	"github.com/gmofishsauce/rasm16/internal/isa"
)

// AddDirective handles a data directive, given the single operand the
// parser produced for it (folded into the same isa.Operand type used by
// instructions).
func (c *Codegen) AddDirective(name string, arg *isa.Operand) error {
	diag.Trace("add directive %s %v", name, arg)

	switch name {
	case ".word":
		return c.directiveWord(name, arg)
	case ".ascii", ".asciiz":
		return c.directiveAscii(name, arg)
	case ".asciib", ".asciibz":
		return c.directiveAsciiB(name, arg)
	default:
		return newErr(ErrUnknownDirective, "unknown directive %q", name)
	}
}

func (c *Codegen) directiveWord(name string, arg *isa.Operand) error {
	if arg == nil {
		return newErr(ErrBadDirectiveOperand, "%s requires one operand", name)
	}
	e := &Entry{IsData: true, Length: 1}
	switch arg.Kind {
	case isa.KindNumber:
		e.Words = []uint16{uint16(arg.Num) & 0xffff}
		e.Text = ".word " + arg.String()
	case isa.KindIdentifier:
		sym := c.ref(arg.Ident)
		e.Fixup = Fixup{Kind: FixupDataSymbolAbsolute, Symbol: sym}
		e.Words = nil // appended by ResolveFixups
		e.Text = ".word " + arg.Ident
	default:
		return newErr(ErrBadDirectiveOperand, "%s requires a number or identifier operand", name)
	}
	c.emit(e)
	return nil
}

func (c *Codegen) directiveAscii(name string, arg *isa.Operand) error {
	if arg == nil || arg.Kind != isa.KindString {
		return newErr(ErrBadDirectiveOperand, "%s used without a string", name)
	}
	s := arg.Str
	words := make([]uint16, 0, len(s)+1)
	for _, r := range s {
		words = append(words, uint16(r))
	}
	if name == ".asciiz" {
		words = append(words, 0)
	}
	e := &Entry{
		IsData: true,
		Words:  words,
		Length: len(words),
		Text:   name + " \"" + s + "\"",
	}
	c.emit(e)
	return nil
}

func (c *Codegen) directiveAsciiB(name string, arg *isa.Operand) error {
	if arg == nil || arg.Kind != isa.KindString {
		return newErr(ErrBadDirectiveOperand, "%s used without a string", name)
	}
	raw := []byte(arg.Str)
	if name == ".asciibz" {
		raw = append(raw, 0)
	}
	if len(raw)%2 != 0 {
		raw = append(raw, 0)
	}

	words := make([]uint16, 0, len(raw)/2)
	for i := 0; i < len(raw); i += 2 {
		// Big-endian packing order inside each word.
		words = append(words, uint16(raw[i])<<8|uint16(raw[i+1]))
	}

	e := &Entry{
		IsData: true,
		Words:  words,
		Length: len(words),
		Text:   name + " \"" + arg.Str + "\"",
	}
	c.emit(e)
	return nil
}
