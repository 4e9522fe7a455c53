package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skilllint/internal/export"
)

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON Schema of the lint report",
		Action: func(_ context.Context, cmd *cli.Command) error {
			data, err := export.SchemaJSON()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, string(data))
			return err
		},
	}
}
