package repository

import (
	"fmt"
	"testing"

	"rail-risk-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRunRepository_CRUD(t *testing.T) {
	repo := NewMemoryRunRepository(0)

	for i := 0; i < 5; i++ {
		kind := model.RunKindCompute
		if i%2 == 1 {
			kind = model.RunKindDecide
		}
		require.NoError(t, repo.Create(&model.ComputationRun{
			ID:      fmt.Sprintf("run-%d", i),
			Kind:    kind,
			Payload: `{"ok":true}`,
		}))
	}

	run, err := repo.GetByID("run-3")
	require.NoError(t, err)
	assert.Equal(t, model.RunKindDecide, run.Kind)
	assert.Equal(t, `{"ok":true}`, run.Payload)

	all, total, err := repo.List(RunFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, all, 2)
	assert.Equal(t, "run-4", all[0].ID)
	assert.Empty(t, all[0].Payload)

	decides, total, err := repo.List(RunFilter{Kind: model.RunKindDecide}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, decides, 2)

	empty, _, err := repo.List(RunFilter{}, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.Delete("run-3"))
	_, err = repo.GetByID("run-3")
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, repo.Delete("run-3"), ErrRunNotFound)
}

func TestMemoryRunRepository_StoresCopies(t *testing.T) {
	repo := NewMemoryRunRepository(0)
	run := &model.ComputationRun{ID: "a", Kind: model.RunKindTrack}
	require.NoError(t, repo.Create(run))

	run.Kind = "mutated"
	stored, err := repo.GetByID("a")
	require.NoError(t, err)
	assert.Equal(t, model.RunKindTrack, stored.Kind)
}

func TestMemoryRunRepository_EvictsOldest(t *testing.T) {
	repo := NewMemoryRunRepository(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&model.ComputationRun{
			ID:      fmt.Sprintf("run-%d", i),
			Kind:    model.RunKindCompute,
			Payload: `{"ok":true}`,
		}))
	}

	for _, id := range []string{"run-0", "run-1"} {
		_, err := repo.GetByID(id)
		assert.ErrorIs(t, err, ErrRunNotFound, id)
	}

	runs, total, err := repo.List(RunFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-4", runs[0].ID)
	assert.Equal(t, "run-2", runs[2].ID)
}

func TestMemoryRunRepository_DefaultLimit(t *testing.T) {
	repo := NewMemoryRunRepository(0)

	for i := 0; i < DefaultMemoryRunLimit+10; i++ {
		require.NoError(t, repo.Create(&model.ComputationRun{ID: fmt.Sprintf("run-%d", i)}))
	}

	_, total, err := repo.List(RunFilter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultMemoryRunLimit), total)

	_, err = repo.GetByID("run-9")
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = repo.GetByID("run-10")
	assert.NoError(t, err)
}
