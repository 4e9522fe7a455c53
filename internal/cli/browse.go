package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/ui/tui"
)

// errNotTerminal is returned when browse runs without an interactive terminal.
var errNotTerminal = errors.New("browse requires an interactive terminal; use 'skilllint lint --stdout' instead")

// runBrowser is replaced in tests.
var runBrowser = tui.RunReportBrowser

// isInteractive is replaced in tests.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) // #nosec G115 - file descriptors fit in int
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "Scan a marketplace and browse the findings interactively",
		UsageText: "skilllint browse [options] [root]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip plugins or skills matching a glob",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := resolveLintSettings(cmd, configFrom(ctx))
			if err != nil {
				return err
			}
			if !isInteractive() {
				return errNotTerminal
			}

			for {
				report, err := scanReport(ctx, s.root, s.exclude, cmd.Root().ErrWriter)
				if err != nil {
					return err
				}

				result, err := runBrowser(report)
				if err != nil {
					return fmt.Errorf("report browser failed: %w", err)
				}

				switch result.Action {
				case tui.BrowseActionRescan:
					logging.Info("rescanning marketplace", logging.Path(s.root))
					continue
				case tui.BrowseActionOpen:
					_, _ = fmt.Fprintln(cmd.Root().Writer, result.Entry.SkillFilePath())
				}
				return nil
			}
		},
	}
}
