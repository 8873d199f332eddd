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

// Package preprocess invokes the C preprocessor against the source file
// and hands its stdout to the rest of the pipeline as an io.Reader. Its
// only job is plumbing the child process's stdout through without
// buffering the whole thing in memory, so a slow-writing child is
// tolerated for free.
package preprocess

import (
	"io"
	"os"
	"os/exec"
)

// Run starts `cpp -nostdinc` with in as its stdin and returns a Reader
// over its stdout plus a cleanup function the caller must invoke (after
// fully draining the reader) to wait for the child and surface any
// error it reported.
func Run(in io.Reader) (out io.Reader, wait func() error, err error) {
	cmd := exec.Command("cpp", "-nostdinc")
	cmd.Stdin = in
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	return stdout, cmd.Wait, nil
}
