package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmofishsauce/rasm16/internal/isa"
	"github.com/gmofishsauce/rasm16/internal/lexer"
)

// recorder is a Generator fake that records every call it receives, so
// tests can assert on parser behavior without a real Codegen.
type recorder struct {
	labels       []string
	directives   []string
	instructions []string
	failNextAdd  bool
}

func (r *recorder) AddLabel(name string) error {
	r.labels = append(r.labels, name)
	return nil
}

func (r *recorder) AddDirective(name string, arg *isa.Operand) error {
	r.directives = append(r.directives, name)
	return nil
}

func (r *recorder) AddInstruction(mnemonic string, args []isa.Operand) error {
	if r.failNextAdd {
		r.failNextAdd = false
		return assertErr{"forced failure"}
	}
	r.instructions = append(r.instructions, mnemonic)
	return nil
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }

func TestParsesLabelAndInstruction(t *testing.T) {
	lx := lexer.FromString(t.Name(), "start: add r1, r2, r3\n")
	gen := &recorder{}
	p := New(lx, gen)
	errs := p.Run()
	require.Empty(t, errs)
	assert.Equal(t, []string{"start"}, gen.labels)
	assert.Equal(t, []string{"add"}, gen.instructions)
}

func TestParsesDirectiveWithOneOperand(t *testing.T) {
	lx := lexer.FromString(t.Name(), ".word 42\n")
	gen := &recorder{}
	p := New(lx, gen)
	errs := p.Run()
	require.Empty(t, errs)
	assert.Equal(t, []string{".word"}, gen.directives)
}

func TestDirectiveWithTooManyOperandsIsAnError(t *testing.T) {
	lx := lexer.FromString(t.Name(), ".word 1, 2\n")
	gen := &recorder{}
	p := New(lx, gen)
	errs := p.Run()
	require.Len(t, errs, 1)
}

func TestGeneratorErrorIsRecoveredAndParsingContinues(t *testing.T) {
	lx := lexer.FromString(t.Name(), "add r1, r2, r3\nnop\n")
	gen := &recorder{failNextAdd: true}
	p := New(lx, gen)
	errs := p.Run()
	require.Len(t, errs, 1)
	assert.Equal(t, []string{"nop"}, gen.instructions)
}

func TestLineMarkerResetsLineNumberWithoutBeingForwarded(t *testing.T) {
	lx := lexer.FromString(t.Name(), "# 100 \"other.s\"\nbogus !!!\n")
	gen := &recorder{}
	p := New(lx, gen)
	errs := p.Run()
	require.Len(t, errs, 1)
	assert.Equal(t, 100, errs[0].Line)
}

func TestNegatedIdentifierOperand(t *testing.T) {
	lx := lexer.FromString(t.Name(), ".word -count\n")
	gen := &recorder{}
	p := New(lx, gen)
	errs := p.Run()
	require.Empty(t, errs)
}
