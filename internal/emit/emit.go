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

// Package emit holds the three output-buffer writers: a flat big-endian
// binary stream, a hex listing, and a "hex2" listing suitable for pasting
// into a C array initializer.
package emit

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gmofishsauce/rasm16/internal/codegen"
)

// words returns the entry's words in emission order: [Op, Op2] for a
// 1- or 2-word instruction, or the literal data words for a Data entry.
func words(e *codegen.Entry) []uint16 {
	if e.IsData {
		return e.Words
	}
	if e.Length == 2 {
		return []uint16{e.Op, e.Op2}
	}
	return []uint16{e.Op}
}

// Binary writes the output buffer as a flat stream of big-endian 16-bit
// words: no header, no footer, no relocation data.
func Binary(w io.Writer, output []*codegen.Entry) error {
	for _, e := range output {
		for _, word := range words(e) {
			if err := binary.Write(w, binary.BigEndian, word); err != nil {
				return err
			}
		}
	}
	return nil
}

// Hex writes the plain hex listing: one "%04x" word per line, the first
// word of each entry annotated with its address and reconstructed
// source text.
func Hex(w io.Writer, output []*codegen.Entry) error {
	return writeHexListing(w, output, "%04x // 0x%04x %s\n", "%04x\n")
}

// Hex2 writes the alternate hex listing: each word rendered as a
// "0x%04x," C array initializer element.
func Hex2(w io.Writer, output []*codegen.Entry) error {
	return writeHexListing(w, output, "0x%04x, // 0x%04x %s\n", "0x%04x,\n")
}

func writeHexListing(w io.Writer, output []*codegen.Entry, firstFmt, restFmt string) error {
	for _, e := range output {
		ws := words(e)
		for i, word := range ws {
			var err error
			if i == 0 {
				_, err = fmt.Fprintf(w, firstFmt, word, e.Addr, e.Text)
			} else {
				_, err = fmt.Fprintf(w, restFmt, word)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Size returns the total binary size in bytes: 2 * sum(entry.length).
func Size(output []*codegen.Entry) int {
	total := 0
	for _, e := range output {
		total += len(words(e))
	}
	return total * 2
}
