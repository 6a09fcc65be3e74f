package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/get-it-done/internal/domain"
	"github.com/Tomlord1122/get-it-done/internal/repository/repotest"
)

func TestValidateTaskName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "Buy milk", "Buy milk", false},
		{"trimmed", "  Buy milk\t", "Buy milk", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"at limit", strings.Repeat("a", domain.NameMaxLength), strings.Repeat("a", domain.NameMaxLength), false},
		{"over limit", strings.Repeat("a", domain.NameMaxLength+1), "", true},
		{"invalid utf-8", "\xff\xfe", "", true},
		{"invalid utf-8 after text", "Buy milk \xff", "", true},
		{"multibyte at limit", strings.Repeat("é", domain.NameMaxLength), strings.Repeat("é", domain.NameMaxLength), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTaskName(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateThenList(t *testing.T) {
	svc := NewTaskService(repotest.NewMemory())
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{Name: "Buy milk"})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.False(t, task.Completed)

	board, err := svc.GetBoard(ctx)
	require.NoError(t, err)
	require.Len(t, board.Pending, 1)
	assert.Equal(t, "Buy milk", board.Pending[0].Name)
	assert.False(t, board.Pending[0].Completed)
	assert.Empty(t, board.Completed)
}

func TestCreateEmptyNameRejected(t *testing.T) {
	svc := NewTaskService(repotest.NewMemory())
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateTaskRequest{Name: " "})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	board, err := svc.GetBoard(ctx)
	require.NoError(t, err)
	assert.Empty(t, board.Pending)
	assert.Empty(t, board.Completed)
}

func TestCompleteMovesTask(t *testing.T) {
	svc := NewTaskService(repotest.NewMemory())
	ctx := context.Background()

	milk, err := svc.CreateTask(ctx, CreateTaskRequest{Name: "Buy milk"})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, CreateTaskRequest{Name: "Buy eggs"})
	require.NoError(t, err)

	before, err := svc.GetBoard(ctx)
	require.NoError(t, err)

	done, err := svc.CompleteTask(ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	after, err := svc.GetBoard(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(before.Pending)-1, len(after.Pending))
	assert.Equal(t, len(before.Completed)+1, len(after.Completed))
	assert.Equal(t, milk.ID, after.Completed[0].ID)

	// Completing again keeps it completed.
	again, err := svc.CompleteTask(ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)

	final, err := svc.GetBoard(ctx)
	require.NoError(t, err)
	assert.Equal(t, after, final)
}

func TestCompleteUnknownID(t *testing.T) {
	svc := NewTaskService(repotest.NewMemory())
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateTaskRequest{Name: "Buy milk"})
	require.NoError(t, err)
	before, err := svc.GetBoard(ctx)
	require.NoError(t, err)

	_, err = svc.CompleteTask(ctx, 42)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.CompleteTask(ctx, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	after, err := svc.GetBoard(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStorageFailures(t *testing.T) {
	repo := repotest.NewMemory()
	svc := NewTaskService(repo)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, CreateTaskRequest{Name: "Buy milk"})
	require.NoError(t, err)

	repo.Err = errors.New("connection refused")

	_, err = svc.CreateTask(ctx, CreateTaskRequest{Name: "Buy eggs"})
	assert.True(t, errors.Is(err, ErrStorageFailure))

	_, err = svc.CompleteTask(ctx, task.ID)
	assert.True(t, errors.Is(err, ErrStorageFailure))

	_, err = svc.GetBoard(ctx)
	assert.True(t, errors.Is(err, ErrStorageFailure))
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestPendingPlusCompletedEqualsCreated(t *testing.T) {
	svc := NewTaskService(repotest.NewMemory())
	ctx := context.Background()

	for i := 1; i <= 20; i++ {
		task, err := svc.CreateTask(ctx, CreateTaskRequest{Name: "task"})
		require.NoError(t, err)
		if i%2 == 0 {
			_, err = svc.CompleteTask(ctx, task.ID)
			require.NoError(t, err)
		}

		board, err := svc.GetBoard(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, len(board.Pending)+len(board.Completed))
	}
}
