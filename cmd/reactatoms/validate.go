package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gnana997/reactatoms/pkg/audit"
	"github.com/gnana997/reactatoms/pkg/parser"
)

var errAuditFailed = errors.New("content audit failed")

var severityColors = map[audit.Severity]*color.Color{
	audit.SeverityError:   color.New(color.FgRed, color.Bold),
	audit.SeverityWarning: color.New(color.FgYellow),
	audit.SeverityInfo:    color.New(color.FgCyan),
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		format string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Audit the content bundle for missing and inconsistent content",
		Long: `Audit the content bundle: components without source, usage example or
preview, usage examples that do not import the component, snippets and
preview bindings with no registry entry.

Exits non-zero when any error is found, or any warning with --strict.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, cleanup, err := a.loadOnce(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			pm := parser.NewParserManager(a.logger)
			defer pm.Close()
			report := audit.NewValidator(pm, a.logger).Validate(b)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			case "text":
				printReport(out, report)
			default:
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}

			if report.HasErrors() || (strict && report.Count(audit.SeverityWarning) > 0) {
				return errAuditFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

func printReport(w io.Writer, r audit.Report) {
	headingColor.Fprintf(w, "%s v%s", r.Bundle, r.Version)
	fmt.Fprintf(w, "  %d components\n\n", r.Components)

	if len(r.Violations) == 0 {
		fmt.Fprintln(w, "No problems found.")
		return
	}

	slugW, ruleW := 0, 0
	for _, v := range r.Violations {
		slugW = max(slugW, len(v.Slug))
		ruleW = max(ruleW, len(v.Rule))
	}
	for _, v := range r.Violations {
		sev := fmt.Sprintf("%-9s", "["+string(v.Severity)+"]")
		severityColors[v.Severity].Fprint(w, sev)
		fmt.Fprintf(w, " %-*s  %-*s  %s", ruleW, v.Rule, slugW, v.Slug, v.Message)
		if v.File != "" {
			dimColor.Fprintf(w, "  (%s)", v.File)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\n%d errors, %d warnings, %d info\n",
		r.Count(audit.SeverityError),
		r.Count(audit.SeverityWarning),
		r.Count(audit.SeverityInfo))
}
