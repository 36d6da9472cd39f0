package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/gnana997/reactatoms/pkg/bundle"
	"github.com/gnana997/reactatoms/pkg/preview"
)

const maxWidth = 80

var (
	headingColor = color.New(color.Bold)
	newColor     = color.New(color.FgGreen, color.Bold)
	dimColor     = color.New(color.Faint)
	missingColor = color.New(color.FgYellow)
)

func newInspectCmd(a *app) *cobra.Command {
	var showCode, showUsage bool
	cmd := &cobra.Command{
		Use:   "inspect <slug>",
		Short: "Show a component's registry entry, snippet analysis and preview binding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, cleanup, err := a.loadOnce(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			slug := args[0]
			detail, ok := b.Detail(slug)
			if !ok {
				return unknownSlugError(b, slug)
			}
			printComponent(cmd.OutOrStdout(), b, detail, showCode, showUsage)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showCode, "code", false, "print the component source")
	cmd.Flags().BoolVar(&showUsage, "usage", false, "print the usage example")
	return cmd
}

// unknownSlugError suggests close slugs.
func unknownSlugError(b *bundle.Bundle, slug string) error {
	var slugs []string
	for _, c := range b.Catalog.ListComponents() {
		slugs = append(slugs, c.Slug)
	}
	matches := fuzzy.Find(slug, slugs)
	if len(matches) == 0 {
		return fmt.Errorf("component %q not found", slug)
	}
	var near []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		near = append(near, m.Str)
	}
	return fmt.Errorf("component %q not found; did you mean %s?", slug, strings.Join(near, ", "))
}

// printComponent writes a human-readable summary.
func printComponent(w io.Writer, b *bundle.Bundle, d bundle.ComponentDetail, showCode, showUsage bool) {
	comp := d.Component
	category := comp.Category
	if d.Category != nil {
		category = d.Category.Name
	}
	headingColor.Fprint(w, comp.Name)
	fmt.Fprintf(w, "  [%s]", category)
	if comp.IsNew {
		newColor.Fprint(w, "  NEW")
	}
	fmt.Fprintln(w)
	dimColor.Fprintf(w, "  %s\n", d.Path)

	if comp.Description != "" {
		fmt.Fprintln(w)
		printWrapped(w, comp.Description, 0, maxWidth)
	}
	if len(comp.Tags) > 0 {
		fmt.Fprintf(w, "Tags: %s\n", strings.Join(comp.Tags, ", "))
	}

	fmt.Fprintln(w)
	printList(w, "Dependencies", d.Dependencies)
	printList(w, "Exports", d.Exports)

	fmt.Fprintln(w)
	headingColor.Fprintln(w, "Files")
	snip, _ := b.Snippets.Lookup(comp.Slug)
	printFile(w, "code", snip.CodeFile, d.Code, d.MissingCode)
	printFile(w, "usage", snip.UsageFile, d.Usage, d.MissingUsage)
	printPreview(w, b, comp.Slug)

	if showCode {
		printSource(w, "Code", d.Code)
	}
	if showUsage {
		printSource(w, "Usage", d.Usage)
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}
	headingColor.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
}

func printFile(w io.Writer, label, file, text string, missing bool) {
	if missing {
		fmt.Fprintf(w, "  %-8s ", label)
		missingColor.Fprintln(w, "missing (placeholder shown)")
		return
	}
	fmt.Fprintf(w, "  %-8s %s  (%d lines)\n", label, file, strings.Count(strings.TrimRight(text, "\n"), "\n")+1)
}

func printPreview(w io.Writer, b *bundle.Bundle, slug string) {
	fmt.Fprintf(w, "  %-8s ", "preview")
	if !b.Previews.Bound(slug) {
		missingColor.Fprintln(w, "unbound (placeholder shown)")
		return
	}
	id := b.Previews.Resolve(slug).ID()
	if !b.Previews.MarkupAvailable(id) {
		missingColor.Fprintf(w, "%s.html missing (placeholder shown)\n", id)
		return
	}
	fmt.Fprintf(w, "%s/%s.html\n", preview.Dir, id)
}

func printSource(w io.Writer, title, text string) {
	fmt.Fprintln(w)
	headingColor.Fprintln(w, title)
	fmt.Fprintln(w, "  "+strings.Repeat("─", 40))
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range strings.Fields(text) {
		switch {
		case line == prefix:
			line += word
		case len(line)+len(word)+1 > width:
			fmt.Fprintln(w, line)
			line = prefix + word
		default:
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
