package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/cli/config"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/repository/memory"
	"github.com/secmon-lab/segmentor/pkg/usecase"
	"github.com/secmon-lab/segmentor/pkg/utils/errutil"
	"github.com/secmon-lab/segmentor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// appConfig holds the settings shared by every command that edits segments
type appConfig struct {
	source       config.Source
	webhook      config.Webhook
	notification config.Notification
}

func (x *appConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.source.Flags()...)
	flags = append(flags, x.webhook.Flags()...)
	flags = append(flags, x.notification.Flags()...)
	return flags
}

func (x appConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("webhook", x.webhook),
		slog.Any("notification", x.notification),
	)
}

// newUseCases merges the config file into the flags and wires the use cases
func (x *appConfig) newUseCases(c *cli.Command, opts ...usecase.Option) (*usecase.UseCases, error) {
	file, err := x.source.Load()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load config file")
	}
	x.webhook.Merge(file, c.IsSet)
	x.notification.Merge(file, c.IsSet)

	sender, err := x.webhook.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure webhook")
	}
	policy, err := x.notification.Policy()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure notification")
	}
	notifiers, err := x.notification.Notifiers()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure notifiers")
	}

	logging.Default().Info("Configured segment editor", "config", x)

	ucOpts := []usecase.Option{
		usecase.WithSender(sender),
		usecase.WithNotificationPolicy(policy),
		usecase.WithSaveHook(logSaved),
	}
	for _, n := range notifiers {
		ucOpts = append(ucOpts, usecase.WithNotifier(n))
	}
	ucOpts = append(ucOpts, opts...)

	return usecase.New(memory.New(), ucOpts...), nil
}

func closeUseCases(ctx context.Context, uc *usecase.UseCases) {
	if err := uc.Close(); err != nil {
		errutil.Log(ctx, err, "failed to close repository")
	}
}

func logSaved(ctx context.Context, payload *model.SegmentPayload) {
	logging.From(ctx).Info("Segment saved", "payload", payload)
}
