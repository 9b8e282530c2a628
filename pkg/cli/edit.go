package cli

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/cli/config"
	"github.com/secmon-lab/segmentor/pkg/controller/tui"
	"github.com/urfave/cli/v3"
)

func cmdEdit(loggerCfg *config.Logger) *cli.Command {
	var appCfg appConfig

	return &cli.Command{
		Name:    "edit",
		Aliases: []string{"e"},
		Usage:   "Open the segment editor in the terminal",
		Flags:   appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := quietLogger(c, loggerCfg); err != nil {
				return err
			}

			uc, err := appCfg.newUseCases(c)
			if err != nil {
				return err
			}
			defer closeUseCases(ctx, uc)

			m, err := tui.New(ctx, uc.Editor)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				return goerr.Wrap(err, "failed to run editor")
			}

			result, ok := final.(tui.Model)
			if !ok {
				return nil
			}
			if r := result.Result(); r != nil && r.Err != nil {
				return r.Err
			}
			return nil
		},
	}
}

// quietLogger drops log records while the editor owns the terminal, unless
// --log-output was given explicitly.
func quietLogger(c *cli.Command, loggerCfg *config.Logger) error {
	if c.IsSet("log-output") {
		return nil
	}
	return loggerCfg.Redirect(io.Discard)
}
