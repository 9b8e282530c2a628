package safe_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/segmentor/pkg/utils/safe"
)

type failingCloser struct{ closed bool }

func (c *failingCloser) Close() error {
	c.closed = true
	return errors.New("close failed")
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	safe.Close(ctx, nil)

	c := &failingCloser{}
	safe.Close(ctx, c)
	gt.B(t, c.closed).True()
}

func TestReadLimited(t *testing.T) {
	ctx := context.Background()
	gt.Value(t, string(safe.ReadLimited(ctx, strings.NewReader("hello world"), 5))).Equal("hello")
	gt.Value(t, string(safe.ReadLimited(ctx, strings.NewReader("ok"), 1024))).Equal("ok")
	gt.Number(t, len(safe.ReadLimited(ctx, nil, 10))).Equal(0)
}
