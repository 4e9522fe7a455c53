package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skilllint/internal/rules"
	"github.com/klauern/skilllint/internal/ui"
)

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:      "rules",
		Usage:     "Print the frontmatter fields and limits skills are checked against",
		UsageText: "skilllint rules [field]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			if cmd.Args().Present() {
				name := cmd.Args().First()
				f, ok := rules.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown field %q", name)
				}
				printField(w, f)
				return nil
			}

			_, _ = fmt.Fprintln(w, ui.Bold("Required fields:"))
			for _, f := range rules.RequiredFields() {
				printField(w, f)
			}
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, ui.Bold("Optional fields:"))
			for _, f := range rules.OptionalFields() {
				printField(w, f)
			}
			_, _ = fmt.Fprintln(w)
			printLimits(w)
			return nil
		},
	}
}

func printField(w io.Writer, f rules.FieldSpec) {
	_, _ = fmt.Fprintf(w, "  %s\n", ui.Info(f.Name))
	_, _ = fmt.Fprintf(w, "    %s\n", f.Description)
	if f.HasExamples() {
		_, _ = fmt.Fprintf(w, "    Examples: %s\n", strings.Join(f.Examples, "; "))
	}
	for _, sub := range f.Subfields {
		_, _ = fmt.Fprintf(w, "    - %-12s %s\n", sub.Name, ui.Dim(sub.Description))
	}
	if f.Default != "" {
		_, _ = fmt.Fprintf(w, "    Default: %s\n", f.Default)
	}
}

func printLimits(w io.Writer) {
	_, _ = fmt.Fprintln(w, ui.Bold("Limits:"))
	_, _ = fmt.Fprintf(w, "  Name:        lowercase letters, digits and single hyphens; must match the directory\n")
	_, _ = fmt.Fprintf(w, "  Description: %d-%d characters\n", rules.MinDescriptionLength, rules.MaxDescriptionLength)
	_, _ = fmt.Fprintf(w, "  %-12s at most %d lines\n", rules.SkillFile+":", rules.MaxSkillLines)
	_, _ = fmt.Fprintf(w, "  Layout:      %s, %s, %s\n", rules.SkillFile, rules.ReadmeFile, strings.Join(rules.LayoutDirs(), ", "))
}
