package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/segmentor/pkg/domain/interfaces"
	"github.com/secmon-lab/segmentor/pkg/domain/model"
	"github.com/secmon-lab/segmentor/pkg/domain/types"
	"github.com/secmon-lab/segmentor/pkg/repository/memory"
)

func runEditorRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put then Get returns the same editor", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		e := model.NewEditor(types.NewSessionID(), time.Now())
		gt.NoError(t, repo.Editor().Put(ctx, e)).Required()

		got, err := repo.Editor().Get(ctx, e.ID())
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID()).Equal(e.ID())
		gt.B(t, got.IsOpen()).True()
	})

	t.Run("Get unknown ID fails", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Editor().Get(context.Background(), types.NewSessionID())
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Put nil fails", func(t *testing.T) {
		repo := newRepo(t)
		gt.Value(t, repo.Editor().Put(context.Background(), nil)).NotNil()
	})

	t.Run("List returns all editors", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			gt.NoError(t, repo.Editor().Put(ctx, model.NewEditor(types.NewSessionID(), time.Now()))).Required()
		}

		editors, err := repo.Editor().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, editors).Length(3)
		for i := 1; i < len(editors); i++ {
			gt.B(t, editors[i-1].ID() < editors[i].ID()).True()
		}
	})

	t.Run("Delete removes editor", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		e := model.NewEditor(types.NewSessionID(), time.Now())
		gt.NoError(t, repo.Editor().Put(ctx, e)).Required()
		gt.NoError(t, repo.Editor().Delete(ctx, e.ID())).Required()

		_, err := repo.Editor().Get(ctx, e.ID())
		gt.Error(t, err).Is(interfaces.ErrNotFound)
		gt.Error(t, repo.Editor().Delete(ctx, e.ID())).Is(interfaces.ErrNotFound)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				e := model.NewEditor(types.NewSessionID(), time.Now())
				_ = repo.Editor().Put(ctx, e)
				_, _ = repo.Editor().Get(ctx, e.ID())
				_, _ = repo.Editor().List(ctx)
			}()
		}
		wg.Wait()

		editors, err := repo.Editor().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, editors).Length(20)
	})
}

func TestMemoryEditorRepository(t *testing.T) {
	runEditorRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo := memory.New()
		t.Cleanup(func() { gt.NoError(t, repo.Close()) })
		return repo
	})
}
