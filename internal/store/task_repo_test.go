package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ollender/ollender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *TaskRepo {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTaskRepo(db)
}

func TestTaskRepo_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	due := time.Date(2025, 9, 5, 10, 0, 0, 0, time.UTC)
	task := &domain.Task{
		ID:          uuid.NewString(),
		Kind:        domain.TaskRegular,
		Title:       "Wash clothes",
		Description: "Weekly task for washing clothes",
		DueDate:     &due,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, domain.TaskRegular, got.Kind)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))
	assert.Empty(t, got.Interval)
}

func TestTaskRepo_RecurringTask(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := &domain.Task{
		ID:        uuid.NewString(),
		Kind:      domain.TaskRecurring,
		Title:     "Vacuum the floor",
		Interval:  domain.IntervalWeekly,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntervalWeekly, got.Interval)
	assert.Nil(t, got.DueDate)
}

func TestTaskRepo_ListOrdersByCreation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &domain.Task{
			ID:        uuid.NewString(),
			Kind:      domain.TaskRecurring,
			Title:     title,
			Interval:  domain.IntervalDaily,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "third", tasks[2].Title)
}

func TestTaskRepo_SetCompleted(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := &domain.Task{
		ID:        uuid.NewString(),
		Kind:      domain.TaskRecurring,
		Title:     "Vacuum",
		Interval:  domain.IntervalWeekly,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.SetCompleted(ctx, task.ID, true))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	assert.ErrorIs(t, repo.SetCompleted(ctx, "missing-id", true), sql.ErrNoRows)
}

func TestTaskRepo_RejectsUnknownKind(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.Create(context.Background(), &domain.Task{
		ID:        uuid.NewString(),
		Kind:      "someday",
		Title:     "x",
		CreatedAt: time.Now().UTC(),
	})
	assert.Error(t, err)
}
