/*
Copyright © 2022 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify it
under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful, but
WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public
License along with this program. If not, see
<http://www.gnu.org/licenses/>.
*/

// rasm is the command-line frontend for the assembler: it wires
// preprocessing, lexing/parsing, code generation and the three emitters
// together. Flag parsing is spf13/cobra + spf13/pflag, the usual stack
// for a small-ISA-tool CLI with subcommand-free, flag-only usage.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gmofishsauce/rasm16/internal/codegen"
	"github.com/gmofishsauce/rasm16/internal/diag"
	"github.com/gmofishsauce/rasm16/internal/emit"
	"github.com/gmofishsauce/rasm16/internal/isa"
	"github.com/gmofishsauce/rasm16/internal/lexer"
	"github.com/gmofishsauce/rasm16/internal/parser"
	"github.com/gmofishsauce/rasm16/internal/preprocess"
	"github.com/gmofishsauce/rasm16/internal/rconfig"
)

var (
	outPath     string
	hexPath     string
	hex2Path    string
	configPath  string
	verboseFlag int
)

func main() {
	root := &cobra.Command{
		Use:   "rasm [source-file]",
		Short: "Two-pass assembler for the 16-bit RISC ISA",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	root.Flags().StringVarP(&outPath, "out", "o", "", "output binary")
	root.Flags().StringVarP(&hexPath, "hex", "x", "", "output hex listing")
	root.Flags().StringVarP(&hex2Path, "hex2", "X", "", "output alternate hex listing")
	root.Flags().StringVarP(&configPath, "config", "c", "", "optional TOML config file")
	root.Flags().CountVarP(&verboseFlag, "verbose", "v", "increase verbosity (repeatable)")

	if err := root.Execute(); err != nil {
		diag.Fatal(err.Error())
	}
}

func run(cmd *cobra.Command, args []string) error {
	diag.Level = verboseFlag

	if configPath != "" {
		cfg, err := rconfig.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", configPath, err)
		}
		for alias, target := range cfg.RegisterAliases {
			if n, ok := isa.RegisterByName(target); ok {
				isa.RegisterAlias(alias, n)
			}
		}
		if outPath == "" {
			outPath = cfg.DefaultOut
		}
		if hexPath == "" {
			hexPath = cfg.DefaultHex
		}
		if hex2Path == "" {
			hex2Path = cfg.DefaultHex2
		}
	}

	var srcName string
	var src io.Reader = os.Stdin
	srcName = "<stdin>"
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open source file %s: %w", args[0], err)
		}
		defer f.Close()
		src = f
		srcName = args[0]
	}

	diag.Progress("starting preprocessor")
	ppOut, wait, err := preprocess.Run(bufio.NewReader(src))
	if err != nil {
		return fmt.Errorf("starting preprocessor: %w", err)
	}

	diag.Progress("starting parser")
	gen := codegen.New()
	lx := lexer.New(srcName, ppOut)
	p := parser.New(lx, gen)
	errs := p.Run()

	if err := wait(); err != nil {
		return fmt.Errorf("preprocessor: %w", err)
	}

	if len(errs) > 0 {
		for _, e := range errs {
			diag.Pr(e.Error())
		}
		return fmt.Errorf("%d error(s)", len(errs))
	}

	diag.Progress("processing fixups")
	if err := gen.ResolveFixups(); err != nil {
		return err
	}
	if unresolved := gen.Symbols.Unresolved(); len(unresolved) > 0 {
		for _, sym := range unresolved {
			diag.Pr(fmt.Sprintf("undefined symbol: %s", sym.Name))
		}
		return fmt.Errorf("%d unresolved symbol(s)", len(unresolved))
	}

	if diag.Level >= 1 {
		diag.Progress("dumping instructions/data:")
		for _, e := range gen.Output {
			diag.Pr(fmt.Sprintf("%#04x %s", e.Addr, e.Text))
		}
		diag.Progress("dumping symbols:")
		for _, sym := range gen.Symbols.All() {
			diag.Pr(sym.String())
		}
	}

	if hexPath != "" {
		if err := writeTo(hexPath, func(w io.Writer) error { return emit.Hex(w, gen.Output) }); err != nil {
			return err
		}
	}
	if hex2Path != "" {
		if err := writeTo(hex2Path, func(w io.Writer) error { return emit.Hex2(w, gen.Output) }); err != nil {
			return err
		}
	}
	if outPath != "" {
		if err := writeTo(outPath, func(w io.Writer) error { return emit.Binary(w, gen.Output) }); err != nil {
			return err
		}
		diag.Progress("wrote %d bytes to %s", emit.Size(gen.Output), outPath)
	}
	return nil
}

func writeTo(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return fn(f)
}
