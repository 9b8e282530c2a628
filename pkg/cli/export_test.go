package cli

import (
	"context"

	"github.com/secmon-lab/segmentor/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// RunEditLoggerForTest configures the logger from args the way the root
// command does, applies the edit command's logger setup and calls fn.
func RunEditLoggerForTest(ctx context.Context, args []string, fn func()) error {
	var loggerCfg config.Logger
	closer := func() {}

	cmd := &cli.Command{
		Name:  "segmentor",
		Flags: loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := quietLogger(c, &loggerCfg); err != nil {
				return err
			}
			fn()
			return nil
		},
	}
	defer func() { closer() }()

	return cmd.Run(ctx, args)
}
