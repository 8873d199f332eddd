package codegen

import (
	"github.com/gmofishsauce/rasm16/internal/diag"
	"github.com/gmofishsauce/rasm16/internal/isa"
)

// AddInstruction encodes one instruction statement and appends it to the
// output buffer, dispatching to the ALU path (encodeALU) or the branch
// path (encodeBranch) by instruction category.
func (c *Codegen) AddInstruction(mnemonic string, args []isa.Operand) error {
	diag.Trace("add instruction %s %v", mnemonic, args)

	entry, ok := isa.OpcodeTable[mnemonic]
	if !ok {
		return newErr(ErrUnknownInstruction, "unknown instruction %q", mnemonic)
	}

	var (
		e   *Entry
		err error
	)
	switch entry.IType {
	case isa.ITypeALU:
		e, err = c.encodeALU(entry, args)
	case isa.ITypeShortBranch, isa.ITypeShortOrLongBranch, isa.ITypeLongBranch:
		e, err = c.encodeBranch(entry, args)
	default:
		return newErr(ErrArgMatch, "unhandled instruction category for %q", mnemonic)
	}
	if err != nil {
		return err
	}
	e.Text = operandString(mnemonic, args)
	c.emit(e)
	return nil
}

// matchALUArgs applies the argument-matching rules for an ATYPE: given the
// instruction's ATYPE and the operands actually written, produce
// (dest, a, b). Defaults are dest=r0, a=r0, b=Number(0).
func matchALUArgs(at isa.ATYPE, flags isa.Flags, args []isa.Operand) (dest, a, b isa.Operand, ok bool) {
	dest = isa.Register(0)
	a = isa.Register(0)
	b = isa.Number(0)

	switch at {
	case isa.ATypeNone:
		ok = len(args) == 0
	case isa.ATypeDAB:
		switch len(args) {
		case 3:
			dest, a, b = args[0], args[1], args[2]
			ok = true
		case 2:
			dest, a, b = args[0], args[0], args[1]
			ok = true
		case 1:
			dest, a, b = args[0], args[0], args[0]
			ok = true
		}
	case isa.ATypeDABLS:
		switch len(args) {
		case 3:
			dest, a, b = args[0], args[1], args[2]
			ok = true
		case 2:
			dest = args[0]
			if args[1].Kind == isa.KindRegister {
				a = args[1]
			} else {
				b = args[1]
			}
			ok = true
		case 1:
			dest, a = args[0], args[0]
			ok = true
		}
	case isa.ATypeDB:
		var temp isa.Operand
		switch len(args) {
		case 2:
			dest, temp = args[0], args[1]
			ok = true
		case 1:
			dest, temp = args[0], args[0]
			ok = true
		}
		if ok {
			if temp.Kind == isa.KindRegister && flags&isa.FlagForceB == 0 {
				a = temp
			} else {
				b = temp
			}
		}
	case isa.ATypeD:
		if len(args) == 1 {
			dest = args[0]
			ok = true
		}
	case isa.ATypeDAMinus1:
		switch len(args) {
		case 2:
			dest, a, b = args[0], args[1], isa.Number(-1)
			ok = true
		case 1:
			dest, a, b = args[0], args[0], isa.Number(-1)
			ok = true
		}
	case isa.ATypeAB:
		switch len(args) {
		case 2:
			a, b = args[0], args[1]
			ok = true
		case 1:
			a, b = args[0], args[0]
			ok = true
		}
	}
	return
}

// encodeALU packs dest/a into the op word, then encodes b according to
// its tag (register, small immediate, wide immediate, or unresolved
// symbol).
func (c *Codegen) encodeALU(entry isa.OpEntry, args []isa.Operand) (*Entry, error) {
	dest, a, b, ok := matchALUArgs(entry.AType, entry.Flags, args)
	if !ok {
		return nil, newErr(ErrArgMatch, "argument count/shape does not match this instruction's form")
	}

	e := &Entry{Op: entry.Opcode, Length: 1}

	if dest.Kind != isa.KindRegister {
		return nil, newErr(ErrBadOperandType, "destination operand must be a register, got %s", dest.Kind)
	}
	dSpecial := isa.IsSpecial(dest.Reg)
	e.Op |= uint16(dest.Reg&0x7) << 8

	if a.Kind != isa.KindRegister {
		return nil, newErr(ErrBadOperandType, "A operand must be a register, got %s", a.Kind)
	}
	aSpecial := isa.IsSpecial(a.Reg)
	e.Op |= uint16(a.Reg&0x7) << 5

	switch b.Kind {
	case isa.KindRegister:
		if dSpecial || aSpecial {
			return nil, newErr(ErrSpecialRegConflict, "B cannot be a register when D or A is a special register")
		}
		e.Op |= (0b10 << 3) | uint16(b.Reg)
	case isa.KindNumber:
		num := b.Num
		if !dSpecial && !aSpecial && num < 8 && num >= -7 {
			// 4-bit two's-complement immediate. The range is
			// intentionally asymmetric ([-7,7], not [-8,7]) to avoid
			// colliding with the 0x8 low-nibble pattern used by the
			// escape form below.
			e.Op |= uint16(num) & 0xf
		} else {
			if num < -32768 || num > 65535 {
				return nil, newErr(ErrImmediateRange, "immediate %d does not fit in a 16-bit word", num)
			}
			e.Op |= 0b11 << 3
			if aSpecial {
				e.Op |= 1 << 0
			}
			if dSpecial {
				e.Op |= 1 << 1
			}
			// The 16-bit word is always emitted here, even when num is 0
			// (e.g. "mov r1, lr": the implied B immediate is zero, but D
			// or A being special still forces the escape form's second
			// word).
			e.Op |= 1 << 2
			e.Op2 = uint16(num) & 0xffff
			e.Length = 2
		}
	case isa.KindIdentifier:
		sym := c.ref(b.Ident)
		e.Fixup = Fixup{Kind: FixupSymbolAbsolute, Symbol: sym}
		e.Op |= 0b11 << 3
		if aSpecial {
			e.Op |= 1 << 0
		}
		if dSpecial {
			e.Op |= 1 << 1
		}
		e.Op |= 1 << 2
		e.Op2 = 0 // patched by ResolveFixups
		e.Length = 2
	default:
		return nil, newErr(ErrBadOperandType, "B operand has unsupported type %s", b.Kind)
	}

	return e, nil
}

// encodeBranch encodes a branch instruction. Exactly one operand is
// accepted.
func (c *Codegen) encodeBranch(entry isa.OpEntry, args []isa.Operand) (*Entry, error) {
	if len(args) != 1 {
		return nil, newErr(ErrArgMatch, "branch instructions take exactly one operand, got %d", len(args))
	}
	arg := args[0]

	longBranch := entry.IType == isa.ITypeLongBranch
	if entry.IType == isa.ITypeShortOrLongBranch {
		switch {
		case arg.Kind == isa.KindRegister:
			longBranch = true
		case arg.Kind == isa.KindNumber && (arg.Num >= 512 || arg.Num < -512):
			longBranch = true
		case arg.Kind == isa.KindIdentifier:
			// Label branches are always long-form: there's no second
			// pass that would shorten a branch whose offset turns out
			// to fit after all symbols are resolved.
			longBranch = true
		}
	}

	e := &Entry{Op: entry.Opcode, Length: 1}

	if !longBranch {
		switch arg.Kind {
		case isa.KindRegister:
			return nil, newErr(ErrBadOperandType, "register operand not allowed on a short branch")
		case isa.KindNumber:
			if arg.Num >= 512 || arg.Num < -512 {
				return nil, newErr(ErrShortBranchRange, "short branch offset %d out of range", arg.Num)
			}
			e.Op |= uint16(arg.Num) & 0x3ff
		case isa.KindIdentifier:
			sym := c.ref(arg.Ident)
			e.Fixup = Fixup{Kind: FixupShortBranch, Symbol: sym}
		default:
			return nil, newErr(ErrBadOperandType, "unsupported branch operand type %s", arg.Kind)
		}
		return e, nil
	}

	// Long form: force the NV (never / unconditional-long) condition.
	e.Op |= 0xf << 10

	switch arg.Kind {
	case isa.KindRegister:
		if arg.Reg == 0 {
			return nil, newErr(ErrRegisterBranchR0, "cannot branch through r0")
		}
		e.Op |= uint16(arg.Reg)
	case isa.KindNumber:
		e.Op2 = uint16(arg.Num) & 0xffff
		e.Length = 2
	case isa.KindIdentifier:
		sym := c.ref(arg.Ident)
		e.Fixup = Fixup{Kind: FixupLongBranch, Symbol: sym}
		e.Op2 = 0 // patched by ResolveFixups
		e.Length = 2
	default:
		return nil, newErr(ErrBadOperandType, "unsupported branch operand type %s", arg.Kind)
	}
	return e, nil
}
