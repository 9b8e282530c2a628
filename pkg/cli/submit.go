package cli

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
	"github.com/secmon-lab/segmentor/pkg/service/console"
	"github.com/secmon-lab/segmentor/pkg/usecase"
	"github.com/secmon-lab/segmentor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSubmit() *cli.Command {
	var name string
	var schemas []string
	var appCfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Segment name",
			Destination: &name,
		},
		&cli.StringSliceFlag{
			Name:        "schema",
			Aliases:     []string{"s"},
			Usage:       "Schema field to add, by value (e.g. first_name). Repeat to add more",
			Destination: &schemas,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:  "submit",
		Usage: "Build one segment from flags and deliver it",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := appCfg.newUseCases(c, usecase.WithNotifier(console.New(c.Root().Writer)))
			if err != nil {
				return err
			}
			defer closeUseCases(ctx, uc)
			return submitSegment(ctx, uc.Editor, name, schemas)
		},
	}
}

func submitSegment(ctx context.Context, uc *usecase.EditorUseCase, name string, schemas []string) error {
	view, err := uc.Open(ctx)
	if err != nil {
		return err
	}

	if _, err := uc.SetName(ctx, view.ID, name); err != nil {
		return err
	}
	for _, s := range schemas {
		if _, err := uc.SelectSchema(ctx, view.ID, types.SchemaFieldID(s)); err != nil {
			if errors.Is(err, model.ErrSchemaAlreadySelected) {
				logging.From(ctx).Warn("Ignoring duplicated schema", "schema", s)
				continue
			}
			return err
		}
		if _, _, err := uc.AddSchema(ctx, view.ID); err != nil {
			return err
		}
	}

	result, err := uc.Submit(ctx, view.ID)
	if err != nil {
		if errors.Is(err, model.ErrEmptySegmentName) {
			return goerr.Wrap(err, "--name is required")
		}
		return err
	}
	return result.Err
}
