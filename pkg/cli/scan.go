package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/panoptes/pkg/cli/config"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
	"github.com/secmon-lab/panoptes/pkg/repository/file"
	"github.com/secmon-lab/panoptes/pkg/usecase"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
)

const defaultSnapshotFile = "data/workspace_snapshot.json"

func cmdScan(exitCode *int) *cli.Command {
	var (
		slackCfg     config.Slack
		thCfg        config.Thresholds
		snapshotFile string
		outputPath   string
		compareFlag  bool
		notifyFlag   bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "snapshot-file",
			Usage:       "Path of the snapshot used for run-to-run comparison",
			Value:       defaultSnapshotFile,
			Destination: &snapshotFile,
			Sources:     cli.EnvVars("PANOPTES_SNAPSHOT_FILE"),
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Write the alert report JSON to this path",
			Destination: &outputPath,
			Sources:     cli.EnvVars("PANOPTES_ALERT_OUTPUT"),
		},
		&cli.BoolFlag{
			Name:        "compare",
			Usage:       "Compare against the previous snapshot and save the current one",
			Destination: &compareFlag,
		},
		&cli.BoolFlag{
			Name:        "notify",
			Usage:       "Send alert notifications to the Slack webhook",
			Destination: &notifyFlag,
		},
	}
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, thCfg.Flags()...)

	return &cli.Command{
		Name:  "scan",
		Usage: "Collect workspace data and run all alert checks",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			thresholds, err := thCfg.Configure()
			if err != nil {
				return err
			}

			source, err := slackCfg.Source()
			if err != nil {
				return err
			}

			opts := []usecase.Option{usecase.WithThresholds(thresholds)}
			if notifyFlag {
				notifier, err := slackCfg.Notifier()
				if err != nil {
					return err
				}
				opts = append(opts, usecase.WithNotifier(notifier))
			}

			store := file.NewSnapshotStore(snapshotFile)
			uc := usecase.New(source, store, opts...)

			logging.From(ctx).Info("Starting workspace scan",
				"slack", slackCfg,
				"compare", compareFlag,
				"notify", notifyFlag,
			)

			result, err := uc.Scan.Scan(ctx, usecase.ScanInput{
				Compare:    compareFlag,
				AlertsPath: outputPath,
				Notify:     notifyFlag,
			})
			if err != nil {
				return err
			}

			printScanReport(os.Stdout, result)
			*exitCode = severityExitCode(result.Manager.HighestSeverity())
			return nil
		},
	}
}

func severityExitCode(s types.Severity) int {
	switch s {
	case types.SeverityCritical:
		return 2
	case types.SeverityWarning:
		return 1
	default:
		return 0
	}
}

var (
	headerColor   = color.New(color.Bold)
	criticalColor = color.New(color.FgRed, color.Bold)
	warningColor  = color.New(color.FgYellow)
	infoColor     = color.New(color.FgCyan)
)

func severityColor(s types.Severity) *color.Color {
	switch s {
	case types.SeverityCritical:
		return criticalColor
	case types.SeverityWarning:
		return warningColor
	default:
		return infoColor
	}
}

func printScanReport(w io.Writer, result *usecase.ScanResult) {
	headerColor.Fprintln(w, "Workspace Scan Report")
	fmt.Fprintf(w, "Users: %d  Channels: %d  Files: %d\n",
		len(result.Snapshot.Users), len(result.Snapshot.Channels), len(result.Snapshot.Files))
	if result.ComparedPrevious {
		fmt.Fprintln(w, "Compared against previous snapshot")
	}
	fmt.Fprintln(w)

	s := result.Summary
	if s.Total == 0 {
		fmt.Fprintln(w, "No alerts detected")
		return
	}

	for _, a := range result.Manager.Alerts() {
		severityColor(a.Severity).Fprintf(w, "[%s] %s\n", strings.ToUpper(a.Severity.String()), a.Title)
		fmt.Fprintf(w, "    %s\n", a.Message)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total: %d alerts (critical: %d, warning: %d, info: %d)\n",
		s.Total, s.Critical, s.Warning, s.Info)
}
