/*
Copyright © 2024 the eclio authors.
This file is part of eclio.

eclio is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

eclio is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with eclio.  If not, see <http://www.gnu.org/licenses/>.
*/

package eclioutil

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the settings a subcommand needs, decoded from an optional
// TOML file named by the --config flag or set directly by flags, mirroring
// how inmaputil resolves a run configuration before dispatching to a
// subcommand's Run function.
type Config struct {
	// EGridFile is the path to an .EGRID/.FEGRID file.
	EGridFile string `toml:"EGridFile"`
	// InitFile is the path to a companion .INIT/.FINIT file, used to
	// cross-reference NNC transmissibilities.
	InitFile string `toml:"InitFile"`
	// SMSpecFile is the path to an .SMSPEC/.FSMSPEC file.
	SMSpecFile string `toml:"SMSpecFile"`
	// LoadBaseRunData, when true, walks the RESTART chain back to the
	// base run before resolving the summary's keyword index.
	LoadBaseRunData bool `toml:"LoadBaseRunData"`
	// OutFile is the destination path for a write-producing subcommand
	// (currently only `esmry`).
	OutFile string `toml:"OutFile"`
}

var cfg Config

// loadConfigFile decodes a TOML configuration file into cfg, leaving
// fields already set by flags untouched when the file does not mention
// them (toml.Decode only overwrites keys present in the file).
func loadConfigFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	_, err := toml.DecodeFile(path, &cfg)
	return err
}
