package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/pipeline"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/spec"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/validation"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

func printResults(w io.Writer, title string, style lipgloss.Style, results []validation.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintln(w, style.Render(fmt.Sprintf("%s (%d):", title, len(results))))
	for _, r := range results {
		fmt.Fprintf(w, "  [%s] %s\n", r.Level, r.Message)
		if r.Path != "" {
			fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("    -> %s = %v", r.Path, r.ActualValue)))
		}
		if r.Expected != "" {
			fmt.Fprintln(w, styleDim.Render("    expected: "+r.Expected))
		}
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "    * %s\n", s)
		}
	}
	fmt.Fprintln(w)
}

func printValidationReport(w io.Writer, r *validation.Report) {
	printResults(w, "ERRORS", styleError, r.Errors)
	printResults(w, "WARNINGS", styleWarning, r.Warnings)
	printResults(w, "INFO", styleInfo, r.Info)

	if r.Valid {
		fmt.Fprintln(w, styleSuccess.Render("Result: VALID")+" "+styleDim.Render("("+r.Summary+")"))
	} else {
		fmt.Fprintln(w, styleError.Render("Result: INVALID")+" "+styleDim.Render("("+r.Summary+")"))
	}
}

// printSummary lists each footprint with its subtype and area.
func printSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w, styleTitle.Render(res.Site))
	printKeyValue(w, "typology", string(res.Typology))
	printKeyValue(w, "seed", fmt.Sprint(res.Seed))
	if res.Cached {
		printKeyValue(w, "source", styleSuccess.Render("cached"))
	}

	total := 0.0
	if res.Footprints != nil {
		for _, f := range res.Footprints.Features {
			area, _ := f.Properties["area"].(float64)
			total += area
			fmt.Fprintf(w, "  %-10s %10s  %s\n",
				fmt.Sprint(f.Properties["subtype"]), formatArea(area), styleDim.Render(fmt.Sprint(f.Properties["origin"])))
		}
		printKeyValue(w, "footprints", fmt.Sprint(len(res.Footprints.Features)))
	}
	printKeyValue(w, "total", formatArea(total))
	if m := res.Metrics; m != nil {
		printKeyValue(w, "coverage", fmt.Sprintf("%.1f%% of plot, %.1f%% of buildable", 100*m.Coverage, 100*m.BuildableUse))
		if m.GFAM2 > 0 {
			printKeyValue(w, "gfa", fmt.Sprintf("%s (FAR %.2f)", formatArea(m.GFAM2), m.FAR))
		}
	}
	if res.Report != nil {
		for _, warn := range res.Report.Warnings {
			fmt.Fprintln(w, styleWarning.Render("! "+warn.Message))
		}
	}
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+value)
}

func formatArea(v float64) string {
	if v >= 10_000 {
		return fmt.Sprintf("%.2f ha", v/10_000)
	}
	return fmt.Sprintf("%.1f m²", v)
}

func printTypologies(w io.Writer) error {
	names := make([]string, 0, len(spec.Typologies))
	params := make(map[string]spec.Params, len(spec.Typologies))
	for _, t := range spec.Typologies {
		p, err := spec.DefaultParams(t)
		if err != nil {
			return err
		}
		names = append(names, string(t))
		params[string(t)] = p
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := json.Marshal(params[name])
		if err != nil {
			return err
		}
		fmt.Fprintln(w, styleTitle.Render(name)+" "+styleDim.Render(string(data)))
	}
	return nil
}
