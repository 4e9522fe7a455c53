package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/klauern/skilllint/internal/config"
	"github.com/klauern/skilllint/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or create the skilllint configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Display the effective configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "yaml",
						Usage:   "Output format (yaml, json)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					w := cmd.Root().Writer
					cfg := configFrom(ctx)

					switch strings.ToLower(cmd.String("format")) {
					case "json":
						encoder := json.NewEncoder(w)
						encoder.SetIndent("", "  ")
						return encoder.Encode(cfg)
					case "yaml", "yml":
					default:
						return fmt.Errorf("unsupported format %q (valid: yaml, json)", cmd.String("format"))
					}

					path := configFilePath(cmd)
					status := ui.Dim("(not found, using defaults)")
					if fileExists(path) {
						status = ui.Dim("(loaded)")
					}
					_, _ = fmt.Fprintf(w, "# %s %s\n", path, status)

					data, err := yaml.Marshal(cfg)
					if err != nil {
						return fmt.Errorf("failed to encode config: %w", err)
					}
					_, err = w.Write(data)
					return err
				},
			},
			{
				Name:  "init",
				Usage: "Write a config file with default settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing config file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					path := configFilePath(cmd)
					if fileExists(path) && !cmd.Bool("force") {
						return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
					}
					if err := config.Default().SaveToPath(path); err != nil {
						return fmt.Errorf("failed to write config: %w", err)
					}
					_, _ = fmt.Fprintln(cmd.Root().Writer, ui.StatusSuccess("Wrote "+path))
					return nil
				},
			},
		},
	}
}

// configFilePath returns --config when given, otherwise the default location.
func configFilePath(cmd *cli.Command) string {
	if path := cmd.Root().String("config"); path != "" {
		return path
	}
	return config.FilePath()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
