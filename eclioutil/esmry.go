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

var esmryCmd = &cobra.Command{
	Use:   "esmry",
	Short: "Repack a single run's summary into the compact ESMRY form.",
	Long: `esmry opens the configured SMSPEC file (which must describe a single
run, not a restart chain) and writes its vectors, units and time-step
bookkeeping to --out in the compact ESMRY container.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SMSpecFile == "" {
			return fmt.Errorf("eclio: --smspec is required")
		}
		if cfg.OutFile == "" {
			return fmt.Errorf("eclio: --out is required")
		}
		s, err := eclio.OpenESmry(cfg.SMSpecFile, false)
		if err != nil {
			return err
		}
		wrote, err := s.MakeEsmryFile(cfg.OutFile)
		if err != nil {
			return err
		}
		if !wrote {
			return fmt.Errorf("eclio: %s already exists, not overwriting", cfg.OutFile)
		}
		cmd.Printf("wrote %s (%d vectors, %d time steps)\n", cfg.OutFile, len(s.Keys()), s.NumSteps())
		return nil
	},
}

func init() {
	esmryCmd.Flags().StringVar(&cfg.OutFile, "out", "", "destination path for the compact ESMRY file")
}
