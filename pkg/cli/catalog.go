package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdCatalog() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "catalog",
		Usage: "List the schema fields that can be added to a segment",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the catalog as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			w := c.Root().Writer
			catalog := model.Catalog()

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(catalog); err != nil {
					return goerr.Wrap(err, "failed to encode catalog")
				}
				return nil
			}

			value := color.New(color.FgCyan)
			for _, s := range catalog {
				if _, err := fmt.Fprintf(w, "%s\t%s\n", value.Sprint(s.Value), s.Label); err != nil {
					return goerr.Wrap(err, "failed to print catalog")
				}
			}
			return nil
		},
	}
}
