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

// Package rconfig is an optional, additive configuration layer: a TOML
// file naming extra register aliases (beyond r0..r7/lr/sp/pc/cr) and
// default output paths, so a project can run `rasm -c rasm.toml foo.s`
// instead of repeating -o/-x/-X on every invocation. The CLI works fine
// without this file; when absent, defaults apply and behavior is
// unchanged.
package rconfig

import (
	"github.com/BurntSushi/toml"
)

// Config is the optional on-disk configuration format.
type Config struct {
	// RegisterAliases maps an extra mnemonic (e.g. "zero") to one of the
	// built-in register names it should behave as (e.g. "r0").
	RegisterAliases map[string]string `toml:"register_aliases"`

	// DefaultOut, DefaultHex, DefaultHex2 supply fallback output paths
	// used only when the corresponding CLI flag is not given.
	DefaultOut  string `toml:"default_out"`
	DefaultHex  string `toml:"default_hex"`
	DefaultHex2 string `toml:"default_hex2"`
}

// Load reads and parses a TOML config file at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
