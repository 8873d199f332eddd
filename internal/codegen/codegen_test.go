package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmofishsauce/rasm16/internal/isa"
)

func TestNopEncodesAsMovR0R0(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("nop", nil))
	require.Len(t, c.Output, 1)
	assert.Equal(t, uint16(0x0000), c.Output[0].Op)
}

func TestAddThreeRegisterForm(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("add", []isa.Operand{
		isa.Register(1), isa.Register(2), isa.Register(3),
	}))
	require.Len(t, c.Output, 1)
	assert.Equal(t, uint16(0x0953), c.Output[0].Op)
}

func TestAddSmallPositiveImmediate(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("add", []isa.Operand{
		isa.Register(1), isa.Register(2), isa.Number(7),
	}))
	require.Len(t, c.Output, 1)
	e := c.Output[0]
	assert.Equal(t, 1, e.Length)
	assert.Equal(t, uint16(7), e.Op&0xf)
}

func TestAddImmediateEightEscapesToSecondWord(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("add", []isa.Operand{
		isa.Register(1), isa.Register(2), isa.Number(8),
	}))
	require.Len(t, c.Output, 1)
	e := c.Output[0]
	assert.Equal(t, 2, e.Length)
	assert.Equal(t, uint16(8), e.Op2)
}

func TestAddImmediateOutOfSixteenBitRangeIsAnError(t *testing.T) {
	c := New()
	err := c.AddInstruction("add", []isa.Operand{
		isa.Register(1), isa.Register(2), isa.Number(100000),
	})
	require.Error(t, err)
	assert.Equal(t, ErrImmediateRange, err.(*Error).Kind)
}

func TestAddImmediateNegativeSevenFitsFourBits(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("add", []isa.Operand{
		isa.Register(1), isa.Register(2), isa.Number(-7),
	}))
	e := c.Output[0]
	assert.Equal(t, 1, e.Length)
}

func TestAddImmediateNegativeEightEscapesToSecondWord(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("add", []isa.Operand{
		isa.Register(1), isa.Register(2), isa.Number(-8),
	}))
	e := c.Output[0]
	assert.Equal(t, 2, e.Length)
}

func TestMovToSpecialRegisterUsesEscapeForm(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("mov", []isa.Operand{
		isa.Register(1), isa.Register(isa.RegLR),
	}))
	e := c.Output[0]
	// lr lands in the A slot (ATypeDB promotes a bare register operand
	// into A), forcing the escape form even though the implied B
	// immediate is zero.
	assert.Equal(t, 2, e.Length)
	assert.Equal(t, uint16(0), e.Op2)
	assert.Equal(t, uint16(1), e.Op&0x1) // A-special escape bit set
}

func TestShortBranchToForwardLabel(t *testing.T) {
	c := New()
	// beq never promotes to long form, so this stays a short branch with
	// a resolvable pass-2 fixup.
	require.NoError(t, c.AddInstruction("beq", []isa.Operand{isa.Identifier("target")}))
	require.NoError(t, c.AddInstruction("nop", nil))
	require.NoError(t, c.AddLabel("target"))
	require.NoError(t, c.ResolveFixups())
	e := c.Output[0]
	assert.Equal(t, uint16(1), e.Op&0x3ff)
}

func TestLoadWithImmediateOffset(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("ldr", []isa.Operand{
		isa.Register(1), isa.Register(2), isa.Number(4),
	}))
	require.Len(t, c.Output, 1)
	assert.Equal(t, 1, c.Output[0].Length)
}

func TestDuplicateLabelIsAnError(t *testing.T) {
	c := New()
	require.NoError(t, c.AddLabel("x"))
	err := c.AddLabel("x")
	assert.Error(t, err)
}

func TestUnresolvedSymbolFailsFixupResolution(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("b", []isa.Operand{isa.Identifier("nowhere")}))
	err := c.ResolveFixups()
	assert.Error(t, err)
}

func TestAsciizPacksOneCodePointPerWordPlusNul(t *testing.T) {
	c := New()
	s := "AB"
	require.NoError(t, c.AddDirective(".asciiz", &isa.Operand{Kind: isa.KindString, Str: s}))
	require.Len(t, c.Output, 1)
	assert.Equal(t, []uint16{0x0041, 0x0042, 0x0000}, c.Output[0].Words)
}

func TestWordDirectiveWithForwardSymbol(t *testing.T) {
	c := New()
	arg := isa.Identifier("later")
	require.NoError(t, c.AddDirective(".word", &arg))
	require.NoError(t, c.AddLabel("later"))
	require.NoError(t, c.ResolveFixups())
	assert.Equal(t, []uint16{1}, c.Output[0].Words)
}

func TestBranchThroughR0IsRejected(t *testing.T) {
	c := New()
	err := c.AddInstruction("b", []isa.Operand{isa.Register(0)})
	assert.Error(t, err)
}

func TestMovWideImmediate(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("mov", []isa.Operand{
		isa.Register(1), isa.Number(0x1234),
	}))
	e := c.Output[0]
	assert.Equal(t, 2, e.Length)
	assert.Equal(t, uint16(0x1234), e.Op2)
	assert.Equal(t, uint16(1<<2), e.Op&(1<<2)) // trailing-word escape bit
	assert.Equal(t, uint16(1), (e.Op>>8)&0x7)
}

func TestRegisterBWithSpecialDestIsRejected(t *testing.T) {
	c := New()
	err := c.AddInstruction("add", []isa.Operand{
		isa.Register(isa.RegSP), isa.Register(1), isa.Register(2),
	})
	require.Error(t, err)
	assert.Equal(t, ErrSpecialRegConflict, err.(*Error).Kind)
}

func TestNotEncodesAsXorWithMinusOne(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("not", []isa.Operand{
		isa.Register(1), isa.Register(2),
	}))
	e := c.Output[0]
	assert.Equal(t, 1, e.Length)
	assert.Equal(t, uint16(0xf), e.Op&0xf)
	assert.Equal(t, uint16(0b00111), e.Op>>11)
}

func TestBranchToOwnLabelWrapsBackwards(t *testing.T) {
	c := New()
	require.NoError(t, c.AddLabel("self"))
	require.NoError(t, c.AddInstruction("b", []isa.Operand{isa.Identifier("self")}))
	require.NoError(t, c.ResolveFixups())
	e := c.Output[0]
	assert.Equal(t, uint16(0xbc00), e.Op)
	assert.Equal(t, uint16(0xfffe), e.Op2) // 0 - (0 + 2)
}

func TestAsciibPacksTwoBytesPerWordBigEndian(t *testing.T) {
	c := New()
	require.NoError(t, c.AddDirective(".asciib", &isa.Operand{Kind: isa.KindString, Str: "ABC"}))
	// Odd byte count pads with a NUL.
	assert.Equal(t, []uint16{0x4142, 0x4300}, c.Output[0].Words)
}

func TestAsciibzAppendsNulBeforePadding(t *testing.T) {
	c := New()
	require.NoError(t, c.AddDirective(".asciibz", &isa.Operand{Kind: isa.KindString, Str: "AB"}))
	assert.Equal(t, []uint16{0x4142, 0x0000}, c.Output[0].Words)
}

func TestAddressesAreCumulativeLengths(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("nop", nil))                                            // 1 word
	require.NoError(t, c.AddInstruction("mov", []isa.Operand{isa.Register(1), isa.Number(99)})) // 2 words
	require.NoError(t, c.AddDirective(".asciiz", &isa.Operand{Kind: isa.KindString, Str: "hi"})) // 3 words
	require.NoError(t, c.AddInstruction("nop", nil))
	want := uint16(0)
	for _, e := range c.Output {
		assert.Equal(t, want, e.Addr)
		want += uint16(e.Length)
	}
	assert.Equal(t, uint16(7), c.Addr())
}

func TestLongBranchOnFarForwardLabel(t *testing.T) {
	c := New()
	require.NoError(t, c.AddInstruction("b", []isa.Operand{isa.Identifier("far")}))
	for i := 0; i < 600; i++ {
		require.NoError(t, c.AddInstruction("nop", nil))
	}
	require.NoError(t, c.AddLabel("far"))
	require.NoError(t, c.ResolveFixups())
	e := c.Output[0]
	assert.Equal(t, 2, e.Length)
}
