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

// Package eclioutil wires the eclio library into a cobra/pflag command
// tree, the way inmaputil wires the InMAP model into `cmd/inmap`.
package eclioutil

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var configFile string

// Root is the top-level eclio command.
var Root = &cobra.Command{
	Use:   "eclio",
	Short: "Inspect Eclipse-format grid and summary files.",
	Long: `eclio reads Eclipse-style reservoir-simulation output: EGRID grid
geometry, and SMSPEC/UNSMRY summary time series (including a restart
chain), and can repack a summary run into the compact ESMRY form.

Configuration can be supplied with flags, or with a TOML file named by
--config; flags take precedence over the file.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Remember the flags given on the command line so they can be
		// re-applied over whatever the TOML file sets.
		given := map[*pflag.Flag]string{}
		cmd.Flags().Visit(func(f *pflag.Flag) {
			if t := f.Value.Type(); t == "string" || t == "bool" {
				given[f] = f.Value.String()
			}
		})
		if err := loadConfigFile(configFile); err != nil {
			return err
		}
		for f, v := range given {
			if err := f.Value.Set(v); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	Root.PersistentFlags().StringVar(&configFile, "config", "", "path to a TOML configuration file")

	registerFlag(Root.PersistentFlags(), &cfg.EGridFile, "egrid", "", "path to an .EGRID/.FEGRID file")
	registerFlag(Root.PersistentFlags(), &cfg.InitFile, "init", "", "path to a companion .INIT/.FINIT file")
	registerFlag(Root.PersistentFlags(), &cfg.SMSpecFile, "smspec", "", "path to an .SMSPEC/.FSMSPEC file")
	Root.PersistentFlags().BoolVar(&cfg.LoadBaseRunData, "restart-chain", false, "resolve the summary's RESTART chain back to the base run")

	Root.AddCommand(gridCmd, nncCmd, summaryCmd, esmryCmd)
}

// registerFlag is a small wrapper kept around StringVar so every path flag
// is declared the same way, the way inmaputil centralizes its option
// table instead of repeating pflag boilerplate at each call site.
func registerFlag(fs *pflag.FlagSet, p *string, name, value, usage string) {
	fs.StringVar(p, name, value, usage)
}
