package memory

import (
	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
)

type Memory struct {
	editor *editorRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		editor: newEditorRepository(),
	}
}

func (m *Memory) Editor() interfaces.EditorRepository {
	return m.editor
}

// Close is a no-op for the in-memory repository
func (m *Memory) Close() error {
	return nil
}
