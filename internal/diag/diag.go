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

// Package diag holds the assembler's verbose-tracing helpers: plain lines
// written to stderr, gated by a verbosity level set once from the
// repeated -v/--verbose flag (level 1: pipeline progress, level 2:
// per-statement trace).
package diag

import (
	"fmt"
	"os"
)

// Level is the active verbosity, set once by the CLI frontend from the
// repeated -v/--verbose flag.
var Level int

// Fatal prints msg to stderr and exits with a non-zero status.
func Fatal(msg string) {
	Pr(msg)
	os.Exit(2)
}

// Pr writes a plain diagnostic line to stderr, unconditionally.
func Pr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// Progress logs a level-1 pipeline-progress line: which phase the
// assembler is in (preprocessing, parsing, fixups, emitting).
func Progress(format string, args ...any) {
	if Level >= 1 {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// Trace logs a level-2 per-statement trace line.
func Trace(format string, args ...any) {
	if Level >= 2 {
		fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
	}
}
