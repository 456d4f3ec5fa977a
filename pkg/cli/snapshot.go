package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/panoptes/pkg/cli/config"
	"github.com/secmon-lab/panoptes/pkg/repository/file"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
)

func cmdSnapshot() *cli.Command {
	var (
		slackCfg     config.Slack
		snapshotFile string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "snapshot-file",
			Usage:       "Path to save the workspace snapshot",
			Value:       defaultSnapshotFile,
			Destination: &snapshotFile,
			Sources:     cli.EnvVars("PANOPTES_SNAPSHOT_FILE"),
		},
	}
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "snapshot",
		Usage: "Collect workspace data and save a snapshot without running checks",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			source, err := slackCfg.Source()
			if err != nil {
				return err
			}

			logging.From(ctx).Info("Collecting workspace snapshot", "slack", slackCfg)

			snapshot, err := source.Collect(ctx)
			if err != nil {
				return err
			}

			store := file.NewSnapshotStore(snapshotFile)
			if err := store.Save(ctx, snapshot); err != nil {
				return err
			}

			fmt.Printf("Snapshot saved to %s (users: %d, channels: %d, files: %d)\n",
				snapshotFile, len(snapshot.Users), len(snapshot.Channels), len(snapshot.Files))
			return nil
		},
	}
}
