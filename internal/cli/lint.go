package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skilllint/internal/config"
	"github.com/klauern/skilllint/internal/export"
	"github.com/klauern/skilllint/internal/history"
	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/model"
	"github.com/klauern/skilllint/internal/progress"
	"github.com/klauern/skilllint/internal/scan"
	"github.com/klauern/skilllint/internal/ui"
	"github.com/klauern/skilllint/internal/util"
	"github.com/klauern/skilllint/internal/watch"
)

// lintSettings is the merged result of config and flags for one lint run.
type lintSettings struct {
	root        string
	reportPath  string
	format      export.Format
	stdout      bool
	exclude     []string
	history     bool
	historyPath string
	keep        int
	watch       bool
	debounce    time.Duration
}

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Lint every skill in a marketplace and write a report",
		UsageText: "skilllint lint [options] [root]",
		Description: `Scan <root>/plugins/*/skills/* and check each SKILL.md against the
   Agent Skills rules. The report is written to <root>/.cache/marketplace-lint.json
   unless --output or --stdout is given.

   Examples:
     skilllint lint
     skilllint lint ./marketplace --format markdown -o report.md
     skilllint lint --exclude 'experimental-*' --watch`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report file path",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format (json, yaml, markdown)",
			},
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "Print the report to stdout instead of writing a file",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip plugins or skills matching a glob (\"<plugin>\" or \"<plugin>/<skill>\")",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record this run in the history database",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Rescan whenever a skill or manifest changes",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before a rescan in watch mode",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := resolveLintSettings(cmd, configFrom(ctx))
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			if _, err := lintOnce(ctx, s, out, cmd.Root().ErrWriter); err != nil {
				return err
			}
			if !s.watch {
				return nil
			}
			return watchAndLint(ctx, s, out, cmd.Root().ErrWriter)
		},
	}
}

// resolveLintSettings applies flags on top of the loaded config.
func resolveLintSettings(cmd *cli.Command, cfg *config.Config) (lintSettings, error) {
	root := cfg.Marketplace.Root
	if cmd.Args().Len() > 1 {
		return lintSettings{}, errors.New("lint accepts at most one argument: [root]")
	}
	if cmd.Args().Present() {
		root = cmd.Args().First()
	}
	root, err := filepath.Abs(util.ExpandPath(root))
	if err != nil {
		return lintSettings{}, fmt.Errorf("failed to resolve root: %w", err)
	}

	formatName := cfg.Output.Format
	if cmd.IsSet("format") {
		formatName = cmd.String("format")
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return lintSettings{}, err
	}

	reportPath := cfg.ReportPath(root)
	switch {
	case cmd.IsSet("output"):
		reportPath = util.ExpandPath(cmd.String("output"))
	case cfg.Output.Path == "" && format != export.FormatJSON:
		reportPath = strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + format.Extension()
	}

	debounce := cfg.Watch.Debounce
	if cmd.IsSet("debounce") {
		debounce = cmd.Duration("debounce")
	}

	s := lintSettings{
		root:        root,
		reportPath:  reportPath,
		format:      format,
		stdout:      cmd.Bool("stdout"),
		exclude:     append(append([]string{}, cfg.Marketplace.Exclude...), cmd.StringSlice("exclude")...),
		history:     cfg.History.Enabled && !cmd.Bool("no-history"),
		historyPath: cfg.HistoryPath(),
		keep:        cfg.History.Limit,
		watch:       cmd.Bool("watch"),
		debounce:    debounce,
	}
	if err := (scan.Options{Exclude: s.exclude}).Validate(); err != nil {
		return lintSettings{}, err
	}
	return s, nil
}

// scanReport scans the marketplace with a progress bar on errOut.
func scanReport(ctx context.Context, root string, exclude []string, errOut io.Writer) (export.Report, error) {
	opts := scan.Options{Exclude: exclude}

	names, err := scan.PluginDirs(root, opts)
	if err != nil {
		return export.Report{}, err
	}
	bar := progress.Scan(len(names), errOut)
	opts.OnPlugin = func(p model.PluginReport) {
		_ = bar.Step(p.Name)
	}

	plugins, err := scan.ScanMarketplace(ctx, root, opts)
	if err != nil {
		_ = bar.Clear()
		return export.Report{}, err
	}
	_ = bar.Finish()
	return export.Build(plugins), nil
}

// lintOnce runs one scan, writes the report, records history and prints the
// summary.
func lintOnce(ctx context.Context, s lintSettings, out, errOut io.Writer) (export.Report, error) {
	started := time.Now()
	report, err := scanReport(ctx, s.root, s.exclude, errOut)
	if err != nil {
		return export.Report{}, err
	}
	elapsed := time.Since(started)

	opts := export.DefaultOptions()
	opts.Format = s.format

	reportPath := s.reportPath
	if s.stdout {
		reportPath = ""
		if err := export.New(opts).Export(report, out); err != nil {
			return export.Report{}, err
		}
	} else if err := export.WriteFile(reportPath, report, opts); err != nil {
		return export.Report{}, fmt.Errorf("failed to write report: %w", err)
	}

	prev, hasPrev := recordRun(ctx, s, history.Run{
		StartedAt:  started,
		Duration:   elapsed,
		Root:       s.root,
		ReportPath: reportPath,
		Summary:    report.Stats,
	})

	if s.stdout {
		return report, nil
	}
	ui.PrintSummary(out, report.Stats, reportPath)
	printBlocking(out, report)
	if hasPrev {
		ui.PrintDelta(out, prev.Summary, report.Stats)
	}
	return report, nil
}

// recordRun stores the run and returns the previous run of the same root.
// History is best effort: failures are logged, never returned.
func recordRun(ctx context.Context, s lintSettings, run history.Run) (history.Run, bool) {
	if !s.history {
		return history.Run{}, false
	}

	log := logging.WithContext(ctx).With(logging.Path(s.historyPath))

	store, err := history.Open(ctx, s.historyPath)
	if err != nil {
		log.Warn("history unavailable", logging.Err(err))
		return history.Run{}, false
	}
	defer func() { _ = store.Close() }()

	prev, hasPrev, err := store.Latest(ctx, s.root)
	if err != nil {
		log.Warn("failed to read previous run", logging.Err(err))
	}
	if _, err := store.Record(ctx, run); err != nil {
		log.Warn("failed to record run", logging.Err(err))
		return prev, hasPrev
	}
	if s.keep > 0 {
		if n, err := store.Prune(ctx, s.keep); err != nil {
			log.Warn("failed to prune history", logging.Err(err))
		} else if n > 0 {
			log.Debug("history pruned", logging.Count(int(n)))
		}
	}
	return prev, hasPrev
}

// printBlocking lists skills that fail compliance.
func printBlocking(w io.Writer, r export.Report) {
	var lines []string
	for _, name := range r.PluginNames() {
		for _, s := range r.Plugins[name].Skills {
			if !s.Found || s.Valid {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %s %s/%s: %s",
				ui.SkillStatus(s), name, s.Name, blockingSummary(s.Issues)))
		}
	}
	if len(lines) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, ui.Bold("Invalid skills:"))
	for _, l := range lines {
		_, _ = fmt.Fprintln(w, l)
	}
}

func blockingSummary(issues []model.Finding) string {
	var parts []string
	for _, f := range issues {
		if f.Blocking() {
			parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Status))
		}
	}
	return strings.Join(parts, ", ")
}

// watchAndLint reruns lintOnce after each debounced batch of changes until
// ctx is cancelled.
func watchAndLint(ctx context.Context, s lintSettings, out, errOut io.Writer) error {
	ignored := map[string]bool{
		filepath.Clean(s.reportPath):                  true,
		filepath.Clean(export.LockPath(s.reportPath)): true,
	}
	w := watch.New(s.root, watch.Options{
		Debounce: s.debounce,
		Ignore: func(path string) bool {
			return ignored[filepath.Clean(path)]
		},
	})

	log := logging.With(logging.Operation("watch"), logging.Path(s.root))

	_, _ = fmt.Fprintln(out, ui.Dim(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", s.root)))
	err := w.Run(ctx, func(ctx context.Context, events []watch.Event) error {
		log.Info("change detected", logging.Count(len(events)), slog.String("first", events[0].Path))
		_, _ = fmt.Fprintln(out)
		_, err := lintOnce(ctx, s, out, errOut)
		return err
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
