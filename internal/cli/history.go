package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skilllint/internal/history"
	"github.com/klauern/skilllint/internal/stats"
	"github.com/klauern/skilllint/internal/ui"
	"github.com/klauern/skilllint/internal/util"
)

// historyEntry is the JSON shape of a recorded run.
type historyEntry struct {
	ID         int64         `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	DurationMs int64         `json:"duration_ms"`
	Root       string        `json:"root"`
	ReportPath string        `json:"report_path,omitempty"`
	Stats      stats.Summary `json:"stats"`
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List recorded lint runs",
		UsageText: "skilllint history [options] [root]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   history.DefaultLimit,
				Usage:   "Maximum number of runs to show",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output in JSON format for scripting",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)

			root := ""
			if cmd.Args().Present() {
				abs, err := filepath.Abs(util.ExpandPath(cmd.Args().First()))
				if err != nil {
					return fmt.Errorf("failed to resolve root: %w", err)
				}
				root = abs
			}

			store, err := history.Open(ctx, cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.List(ctx, root, int(cmd.Int("limit")))
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				return outputHistoryJSON(cmd.Root().Writer, runs)
			}
			outputHistoryTable(cmd.Root().Writer, runs)
			return nil
		},
	}
}

func outputHistoryJSON(w io.Writer, runs []history.Run) error {
	entries := make([]historyEntry, len(runs))
	for i, r := range runs {
		entries[i] = historyEntry{
			ID:         r.ID,
			StartedAt:  r.StartedAt.UTC(),
			DurationMs: r.Duration.Milliseconds(),
			Root:       r.Root,
			ReportPath: r.ReportPath,
			Stats:      r.Summary,
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func outputHistoryTable(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No runs recorded yet. Run 'skilllint lint' first.")
		return
	}

	_, _ = fmt.Fprintf(w, "%-5s %-19s %-8s %-7s %-6s %-7s %-8s %s\n",
		"ID", "STARTED", "SKILLS", "VALID", "ISSUES", "CRIT", "HIGH", "ROOT")
	_, _ = fmt.Fprintf(w, "%-5s %-19s %-8s %-7s %-6s %-7s %-8s %s\n",
		"--", "-------", "------", "-----", "------", "----", "----", "----")
	for _, r := range runs {
		s := r.Summary
		_, _ = fmt.Fprintf(w, "%-5d %-19s %-8d %-7d %-6d %-7d %-8d %s\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Skills,
			s.ValidSkills,
			s.SkillsWithIssues,
			s.Critical,
			s.High,
			r.Root,
		)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s %s\n", ui.Dim("Most recent run:"), formatAge(time.Since(runs[0].StartedAt)))
}

// formatAge formats a duration as a human-readable age.
func formatAge(d time.Duration) string {
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		minutes := int(d.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(d.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
