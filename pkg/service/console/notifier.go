package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
)

// Notifier prints settle notifications as a single colored line, the
// terminal counterpart of a toast.
type Notifier struct {
	mu      sync.Mutex
	w       io.Writer
	success *color.Color
	failure *color.Color
	detail  *color.Color
}

var _ interfaces.Notifier = (*Notifier)(nil)

// New creates a Notifier writing to w
func New(w io.Writer) *Notifier {
	return &Notifier{
		w:       w,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		detail:  color.New(color.Faint),
	}
}

// Notify writes n to the underlying writer
func (x *Notifier) Notify(ctx context.Context, n *model.Notification) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	mark, c := "✔", x.success
	if n.Severity == types.SeverityError {
		mark, c = "✘", x.failure
	}

	line := c.Sprintf("%s %s", mark, n.Message) + x.detail.Sprintf(" (segment: %s)", n.SegmentName)
	if n.Cause != "" {
		line += x.detail.Sprintf(" %s", n.Cause)
	}

	if _, err := fmt.Fprintln(x.w, line); err != nil {
		return goerr.Wrap(err, "failed to write notification")
	}
	return nil
}
