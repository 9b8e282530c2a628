package interfaces

import (
	"context"

	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
)

// EditorRepository defines the interface for open editor sessions
type EditorRepository interface {
	Put(ctx context.Context, editor *model.Editor) error
	Get(ctx context.Context, id types.SessionID) (*model.Editor, error)
	List(ctx context.Context) ([]*model.Editor, error)
	Delete(ctx context.Context, id types.SessionID) error
}
