// Package validation collects findings from every stage of a generation run
// into one report. Geometric infeasibility is a finding here, never an
// error return.
package validation

import (
	"fmt"
	"strings"
)

// Level names the stage that produced a finding.
type Level string

const (
	LevelSchema    Level = "schema"
	LevelSetback   Level = "setback"
	LevelGeometric Level = "geometric"
)

// Severity grades a finding. Only errors invalidate a report.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is one finding. Path points into the site file when the finding
// concerns a specific field, e.g. "setback.front".
type Result struct {
	Level       Level    `json:"level"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Path        string   `json:"path,omitempty"`
	ActualValue any      `json:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// String renders the finding on one line.
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", r.Severity, r.Level, r.Message)
	if r.Path != "" {
		fmt.Fprintf(&b, " (%s)", r.Path)
	}
	return b.String()
}

// Report holds the findings of a run, split by severity.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []Result `json:"errors"`
	Warnings []Result `json:"warnings"`
	Info     []Result `json:"info"`
	Summary  string   `json:"summary"`
}

// NewReport returns an empty, valid report.
func NewReport() *Report {
	return &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
}

func (r *Report) add(sev Severity, result Result) {
	result.Severity = sev
	switch sev {
	case SeverityError:
		r.Errors = append(r.Errors, result)
		r.Valid = false
	case SeverityWarning:
		r.Warnings = append(r.Warnings, result)
	default:
		r.Info = append(r.Info, result)
	}
	r.summarize()
}

// AddError records an error and invalidates the report.
func (r *Report) AddError(result Result) { r.add(SeverityError, result) }

// AddWarning records a warning.
func (r *Report) AddWarning(result Result) { r.add(SeverityWarning, result) }

// AddInfo records an informational finding.
func (r *Report) AddInfo(result Result) { r.add(SeverityInfo, result) }

// Infof records an informational finding at the given level.
func (r *Report) Infof(level Level, format string, args ...any) {
	r.AddInfo(Result{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a warning at the given level.
func (r *Report) Warnf(level Level, format string, args ...any) {
	r.AddWarning(Result{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Merge appends the findings of other. A nil report is ignored.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	r.Valid = r.Valid && other.Valid
	r.summarize()
}

// At returns every finding produced at the given level, errors first.
func (r *Report) At(level Level) []Result {
	var out []Result
	for _, group := range [][]Result{r.Errors, r.Warnings, r.Info} {
		for _, res := range group {
			if res.Level == level {
				out = append(out, res)
			}
		}
	}
	return out
}

// Err returns nil for a valid report, otherwise an error naming the first
// error and the count of the rest.
func (r *Report) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%s", r.Errors[0])
	default:
		return fmt.Errorf("%s (and %d more)", r.Errors[0], len(r.Errors)-1)
	}
}

func (r *Report) summarize() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}
