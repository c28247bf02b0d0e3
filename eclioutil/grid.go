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
	"fmt"

	"github.com/opmgo/eclio"
	"github.com/spf13/cobra"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print EGRID header and active-cell information.",
	Long: `grid opens the configured EGRID file and reports its dimensions,
reservoir count, active-cell count and the names of any local grid
refinements it defines.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.EGridFile == "" {
			return fmt.Errorf("eclio: --egrid is required")
		}
		g, err := eclio.OpenEGrid(cfg.EGridFile)
		if err != nil {
			return err
		}
		cmd.Printf("dimensions: %d x %d x %d\n", g.Nijk.Nx, g.Nijk.Ny, g.Nijk.Nz)
		cmd.Printf("reservoirs: %d\n", g.NumRes)
		cmd.Printf("radial: %t\n", g.Radial)
		cmd.Printf("active cells: %d\n", g.ActiveCellCount())
		if names := g.LGRNames(); len(names) > 0 {
			cmd.Printf("LGRs: %v\n", names)
		}
		return nil
	},
}

var nncCmd = &cobra.Command{
	Use:   "nnc",
	Short: "List non-neighbor connections.",
	Long: `nnc opens the configured EGRID file (and, if --init is set, its
companion INIT file) and prints every non-neighbor connection's cell
endpoints and transmissibility.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.EGridFile == "" {
			return fmt.Errorf("eclio: --egrid is required")
		}
		g, err := eclio.OpenEGrid(cfg.EGridFile)
		if err != nil {
			return err
		}
		var init *eclio.EclFile
		if cfg.InitFile != "" {
			init, err = eclio.OpenEclFile(cfg.InitFile)
			if err != nil {
				return err
			}
		}
		nncs, err := g.NNCs(init)
		if err != nil {
			return err
		}
		for _, n := range nncs {
			cmd.Printf("(%d,%d,%d)-(%d,%d,%d) trans=%g\n", n.I1, n.J1, n.K1, n.I2, n.J2, n.K2, n.Trans)
		}
		return nil
	},
}
