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

var summaryKeys []string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Dump summary vectors from an SMSPEC/UNSMRY run.",
	Long: `summary opens the configured SMSPEC file, resolves its RESTART chain
when --restart-chain is set, and prints either the full list of
available keys or the requested vectors' values by time step.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SMSpecFile == "" {
			return fmt.Errorf("eclio: --smspec is required")
		}
		s, err := eclio.OpenESmry(cfg.SMSpecFile, cfg.LoadBaseRunData)
		if err != nil {
			return err
		}
		if len(summaryKeys) == 0 {
			for _, k := range s.Keys() {
				cmd.Println(k)
			}
			return nil
		}
		dates, err := s.Dates()
		if err != nil {
			return err
		}
		vecs := make([][]float32, len(summaryKeys))
		for i, k := range summaryKeys {
			v, err := s.Get(k)
			if err != nil {
				return err
			}
			vecs[i] = v
		}
		for row := range dates {
			cmd.Printf("%s", dates[row].Format("2006-01-02T15:04:05"))
			for _, v := range vecs {
				cmd.Printf("\t%g", v[row])
			}
			cmd.Println()
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringSliceVar(&summaryKeys, "keys", nil, "vector keys to dump (default: list all available keys)")
}
