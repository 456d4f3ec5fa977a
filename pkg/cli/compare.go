package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/panoptes/pkg/compare"
	"github.com/secmon-lab/panoptes/pkg/repository/file"
	"github.com/secmon-lab/panoptes/pkg/usecase"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
	"github.com/secmon-lab/panoptes/pkg/utils/safe"
)

func cmdCompare() *cli.Command {
	var (
		format string
		output string
	)

	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare two workspace backup directories",
		ArgsUsage: "<before-dir> <after-dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format (text, json or csv)",
				Value:       "text",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output path (base path for csv); stdout when omitted",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.New("compare requires exactly two backup directories",
					goerr.V("args", c.Args().Slice()))
			}
			beforeDir := c.Args().Get(0)
			afterDir := c.Args().Get(1)

			uc := usecase.NewCompareUseCase(file.BackupLoader{})
			report, err := uc.Compare(ctx, beforeDir, afterDir)
			if err != nil {
				return err
			}

			switch format {
			case "text", "json":
				w, closer, err := openOutput(output)
				if err != nil {
					return err
				}
				defer closer()

				if format == "json" {
					return compare.WriteJSON(w, report)
				}
				return compare.WriteText(w, report)

			case "csv":
				if output == "" {
					return goerr.New("csv format requires --output as the base path")
				}
				written, err := compare.WriteCSV(output, report)
				if err != nil {
					return err
				}
				logger := logging.From(ctx)
				for _, path := range written {
					logger.Info("CSV report written", "path", path)
				}
				if len(written) == 0 {
					logger.Info("No changes detected, no CSV files written")
				}
				return nil

			default:
				return goerr.New("unknown output format", goerr.V("format", format))
			}
		},
	}
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
	}
	return f, func() { safe.Close(f) }, nil
}
