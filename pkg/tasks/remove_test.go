package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/anchorage/pkg/entities"
	"github.com/cuemby/anchorage/pkg/output"
)

func TestRemoveTask_AbsentStandalone(t *testing.T) {
	container := newTestContainer(t)
	engine := &fakeEngine{
		inspect: func(ctx context.Context, id string) (entities.Status, error) {
			return entities.Status{Present: false}, nil
		},
	}
	sink := output.NewRecording()

	err := NewRemoveTask(New(container, engine, sink, nil), true).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, engine.removeCalls)
	assert.Contains(t, sink.Last(), "absent")
}

func TestRemoveTask_AbsentNonStandaloneStaysSilent(t *testing.T) {
	container := newTestContainer(t)
	engine := &fakeEngine{
		inspect: func(ctx context.Context, id string) (entities.Status, error) {
			return entities.Status{Present: false}, nil
		},
	}
	sink := output.NewRecording()

	err := NewRemoveTask(New(container, engine, sink, nil), false).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"reset"}, sink.Events)
}

func TestRemoveTask_RunningIsSkipped(t *testing.T) {
	container := newTestContainer(t)
	engine := &fakeEngine{
		inspect: func(ctx context.Context, id string) (entities.Status, error) {
			return entities.Status{Present: true, Running: true, ID: "abc1234"}, nil
		},
	}
	sink := output.NewRecording()

	err := NewRemoveTask(New(container, engine, sink, nil), true).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, engine.removeCalls)
	assert.Contains(t, sink.Last(), "skipped")
}

func TestRemoveTask_StoppedIsRemoved(t *testing.T) {
	container := newTestContainer(t)
	engine := &fakeEngine{
		inspect: func(ctx context.Context, id string) (entities.Status, error) {
			return entities.Status{Present: true, Running: false, ID: "abc1234"}, nil
		},
	}
	sink := output.NewRecording()

	err := NewRemoveTask(New(container, engine, sink, nil), true).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, engine.removeCalls)
	assert.Contains(t, sink.Last(), "removed")
}
