package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/panoptes/pkg/cli/config"
	"github.com/secmon-lab/panoptes/pkg/utils/errutil"
	"github.com/secmon-lab/panoptes/pkg/utils/logging"
)

// Run executes the CLI and returns the process exit code. A scan run maps
// its most urgent alert severity onto the exit code (2 critical, 1 warning,
// 0 clean); any execution failure yields 1.
func Run(ctx context.Context, args []string, version string) int {
	var loggerCfg config.Logger
	var closer func()
	exitCode := 0

	app := &cli.Command{
		Name:    "panoptes",
		Usage:   "Slack workspace alert detection and backup comparison",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting panoptes", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdScan(&exitCode),
			cmdCompare(),
			cmdSnapshot(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		_ = errutil.Handle(ctx, err, "failed to run app")
		return 1
	}

	return exitCode
}
