// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/katalvlaran/matcmp/compare"
	"github.com/katalvlaran/matcmp/corpus"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	stylePass   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleFail   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleTitle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

func cellStyle(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return styleHeader
	}

	return styleCell
}

func renderSummary(results []result) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(cellStyle).
		Headers("OP", "DIM", "ITERATIONS", "ELAPSED", "STATUS", "SEED")
	for _, r := range results {
		status, seed := stylePass.Render("PASS"), ""
		if r.err != nil {
			status = styleFail.Render("FAIL")
			if r.report.FailedSeed != 0 {
				seed = strconv.FormatUint(r.report.FailedSeed, 10)
			}
		}
		t.Row(
			r.report.Op.String(),
			r.report.Dim.String(),
			strconv.Itoa(r.report.Iterations),
			r.report.Elapsed.Round(1e6).String(),
			status,
			seed,
		)
	}

	return t.String()
}

func renderDetail(mm *compare.MismatchError) string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render(fmt.Sprintf("%s %s: %s vs %s", mm.Op, mm.Dim, mm.Library, mm.Reference)))
	sb.WriteByte('\n')
	sb.WriteString(mm.Detail())

	return sb.String()
}

func renderFailures(entries []corpus.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(cellStyle).
		Headers("ID", "WHEN", "OP", "DIM", "KIND", "LIBRARY", "SEED")
	for _, e := range entries {
		t.Row(
			e.ID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Op.String(),
			e.Dim.String(),
			e.Kind,
			e.Library,
			strconv.FormatUint(e.Seed, 10),
		)
	}

	return t.String()
}
