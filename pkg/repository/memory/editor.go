package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
)

// editorRepository keeps editor sessions by ID. Editors carry their own lock,
// so they are stored by reference rather than copied.
type editorRepository struct {
	mu      sync.RWMutex
	editors map[types.SessionID]*model.Editor
}

func newEditorRepository() *editorRepository {
	return &editorRepository{
		editors: make(map[types.SessionID]*model.Editor),
	}
}

func (r *editorRepository) Put(ctx context.Context, editor *model.Editor) error {
	if editor == nil {
		return goerr.New("editor is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.editors[editor.ID()] = editor
	return nil
}

func (r *editorRepository) Get(ctx context.Context, id types.SessionID) (*model.Editor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	editor, exists := r.editors[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "editor not found", goerr.V("id", id))
	}

	return editor, nil
}

// List returns editors ordered by ID for stable output
func (r *editorRepository) List(ctx context.Context) ([]*model.Editor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	editors := make([]*model.Editor, 0, len(r.editors))
	for _, e := range r.editors {
		editors = append(editors, e)
	}
	sort.Slice(editors, func(i, j int) bool {
		return editors[i].ID() < editors[j].ID()
	})

	return editors, nil
}

func (r *editorRepository) Delete(ctx context.Context, id types.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.editors[id]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "editor not found", goerr.V("id", id))
	}

	delete(r.editors, id)
	return nil
}
