package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/segmentor/pkg/utils/logging"
)

// Close closes closer and logs a failure. Nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// ReadLimited reads at most limit bytes from r. A read error is logged and
// whatever was read so far is returned.
func ReadLimited(ctx context.Context, r io.Reader, limit int64) []byte {
	if r == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		logging.From(ctx).Warn("Failed to read", slog.Any("error", err))
	}
	return data
}
