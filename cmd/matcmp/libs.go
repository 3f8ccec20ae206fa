// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/katalvlaran/matcmp/backend"
	"github.com/katalvlaran/matcmp/compare"
	"github.com/spf13/cobra"
)

// nativeTypes describes what each backend computes with.
var nativeTypes = map[string]string{
	backend.NameGonum:    "gonum.org/v1/gonum/mat.Dense (float64)",
	backend.NameGoMatrix: "github.com/skelterjohn/go.matrix DenseMatrix (float64)",
	backend.NameMathGL:   "github.com/go-gl/mathgl/mgl32 Mat2/Mat3/Mat4 (float32)",
	backend.NameDense:    "matcmp/matrix.Dense (float64, pivoted LU)",
}

func newLibsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "libs",
		Short: "List the backends and the reference per operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			suite, err := buildSuite(cfg)
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				StyleFunc(cellStyle).
				Headers("BACKEND", "NATIVE TYPE", "REFERENCE FOR")
			for _, name := range suite.Backends() {
				var refFor []string
				for _, op := range compare.Ops {
					if suite.Reference(op) == name {
						refFor = append(refFor, op.String())
					}
				}
				t.Row(name, nativeTypes[name], strings.Join(refFor, ","))
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())

			return nil
		},
	}
}
