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

// Package parser turns a lexer.Token stream into calls against a
// Generator (satisfied by *codegen.Codegen): AddLabel, AddDirective,
// AddInstruction, one call per recognized statement.
package parser

import (
	"fmt"
	"strconv"

	"github.com/gmofishsauce/rasm16/internal/diag"
	"github.com/gmofishsauce/rasm16/internal/isa"
	"github.com/gmofishsauce/rasm16/internal/lexer"
)

// Generator is the interface the parser drives. *codegen.Codegen
// satisfies it; tests may substitute a recording fake.
type Generator interface {
	AddLabel(name string) error
	AddDirective(name string, arg *isa.Operand) error
	AddInstruction(mnemonic string, args []isa.Operand) error
}

// Error is a parse-time error: a line/message pair. Parse errors are
// fatal to the assembly run overall, but a Parser keeps going after one
// to surface as many as possible in a single run.
type Error struct {
	Source string
	Line   int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Msg)
}

// Parser drives a Generator from a token stream, one statement at a
// time: an optional label, then a directive-or-instruction name, then
// its operands. Error recovery is simple: report an error, discard
// tokens to the next newline, keep going.
type Parser struct {
	lx   *lexer.Lexer
	gen  Generator
	line int
	errs []*Error
}

// New returns a Parser that will read tokens from lx and call gen for
// every statement it recognizes.
func New(lx *lexer.Lexer, gen Generator) *Parser {
	return &Parser{lx: lx, gen: gen, line: 1}
}

// Run consumes the entire token stream, returning every error
// accumulated along the way (empty slice on full success).
func (p *Parser) Run() []*Error {
	for {
		tok := p.lx.GetToken()
		if tok.Kind() == lexer.TkEOF {
			break
		}
		if tok.Kind() == lexer.TkError {
			p.report(tok.Text())
			p.skipToNewline()
			continue
		}
		if tok.Kind() == lexer.TkNewline {
			p.line++
			continue
		}
		if tok.Kind() == lexer.TkLineMarker {
			// Preprocessor linemarker: reset the line counter to match
			// the original source, and don't forward it as a statement.
			if n, err := strconv.Atoi(tok.Text()); err == nil {
				p.line = n
			}
			continue
		}
		p.statement(tok)
	}
	return p.errs
}

func (p *Parser) report(msg string) {
	p.errs = append(p.errs, &Error{Source: p.lx.Name(), Line: p.line, Msg: msg})
}

// skipToNewline discards tokens until (and including) the next newline,
// so a single bad line doesn't cascade into spurious follow-on errors.
func (p *Parser) skipToNewline() {
	for {
		tok := p.lx.GetToken()
		if tok.Kind() == lexer.TkEOF {
			return
		}
		if tok.Kind() == lexer.TkNewline {
			p.line++
			return
		}
	}
}

// statement handles one source line starting from its first non-newline
// token: an optional label, then a directive or instruction, then
// operands up to the next newline.
func (p *Parser) statement(first *lexer.Token) {
	diag.Trace("%s:%d: %s", p.lx.Name(), p.line, first)
	tok := first
	if tok.Kind() == lexer.TkLabel {
		if err := p.gen.AddLabel(tok.Text()); err != nil {
			p.report(err.Error())
		}
		tok = p.lx.GetToken()
		if tok.Kind() == lexer.TkNewline {
			p.line++
			return
		}
		if tok.Kind() == lexer.TkEOF {
			return
		}
	}

	if tok.Kind() != lexer.TkSymbol {
		p.report(fmt.Sprintf("expected a directive or instruction, got %s", tok))
		p.skipToNewline()
		return
	}
	name := tok.Text()

	args, ok := p.operands()
	if !ok {
		return
	}

	if len(name) > 0 && name[0] == '.' {
		var arg *isa.Operand
		switch {
		case len(args) == 0:
			arg = nil
		case len(args) == 1:
			arg = &args[0]
		default:
			p.report(fmt.Sprintf("directive %s takes at most one operand", name))
			return
		}
		if err := p.gen.AddDirective(name, arg); err != nil {
			p.report(err.Error())
		}
		return
	}

	if err := p.gen.AddInstruction(name, args); err != nil {
		p.report(err.Error())
	}
}

// operands reads operand tokens up to the next newline (or EOF), turning
// each into an isa.Operand. A leading '-' operator, the only unary
// operator the grammar supports, negates a number that follows it.
// Before an identifier it is not evaluated: it is kept as part of the
// identifier's name ("-count"), which no label can carry, so such a
// reference is never resolved.
func (p *Parser) operands() ([]isa.Operand, bool) {
	var ops []isa.Operand
	negate := false
	for {
		tok := p.lx.GetToken()
		switch tok.Kind() {
		case lexer.TkNewline:
			p.line++
			return ops, true
		case lexer.TkEOF:
			return ops, true
		case lexer.TkOperator:
			if tok.Text() == "-" {
				negate = true
				continue
			}
			p.report(fmt.Sprintf("unexpected operator %q", tok.Text()))
			p.skipToNewline()
			return nil, false
		case lexer.TkNumber:
			n, err := parseNumber(tok.Text())
			if err != nil {
				p.report(err.Error())
				p.skipToNewline()
				return nil, false
			}
			if negate {
				n = -n
				negate = false
			}
			ops = append(ops, isa.Number(n))
		case lexer.TkString:
			if negate {
				p.report("cannot negate a string operand")
				p.skipToNewline()
				return nil, false
			}
			ops = append(ops, isa.StringOperand(tok.Text()))
		case lexer.TkSymbol:
			name := tok.Text()
			if reg, ok := isa.RegisterByName(name); ok {
				if negate {
					p.report("cannot negate a register operand")
					p.skipToNewline()
					return nil, false
				}
				ops = append(ops, isa.Register(reg))
			} else {
				id := name
				if negate {
					id = "-" + id
					negate = false
				}
				ops = append(ops, isa.Identifier(id))
			}
		default:
			p.report(fmt.Sprintf("unexpected token %s in operand list", tok))
			p.skipToNewline()
			return nil, false
		}
	}
}

func parseNumber(text string) (int32, error) {
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %s", text, err)
	}
	return int32(v), nil
}
